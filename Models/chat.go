package Models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// ChatSession groups a patient's Dr. Ava conversation. Messages live in
// their own table so an append is a plain insert, never a read-modify-write
// on a serialized log.
type ChatSession struct {
	gorm.Model
	PatientID    uint          `gorm:"not null;index" json:"patient_id"`
	Name         string        `json:"name"`
	LastActivity time.Time     `gorm:"index" json:"last_activity"`
	Messages     []ChatMessage `gorm:"constraint:OnDelete:CASCADE;" json:"messages"`
}

type ChatMessage struct {
	gorm.Model
	ChatSessionID    uint   `gorm:"not null;index" json:"chat_session_id"`
	Sender           string `gorm:"size:8;not null;check:sender IN ('user','ai')" json:"sender"`
	Text             string `gorm:"type:text" json:"text"`
	ImageURL         string `json:"image_url"`
	ImageContentType string `json:"image_content_type"`
	AudioURL         string `json:"audio_url"`
}

// AppendChatMessage inserts the message and bumps the session's
// last-activity stamp in one transaction.
func AppendChatMessage(db *gorm.DB, message *ChatMessage) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&ChatSession{}).Where("id = ?", message.ChatSessionID).
			Update("last_activity", time.Now()).Error
	})
}
