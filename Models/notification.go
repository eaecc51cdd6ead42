package Models

import (
	"errors"

	"gorm.io/gorm"
)

const (
	NotificationDoctorRequest       = "doctor_request"
	NotificationReportReceived      = "report_received"
	NotificationAppointmentReminder = "appointment_reminder"
	NotificationSystem              = "system"
)

// Notification is addressed to a single profile. Rows are only ever mutated
// by the owner marking them read; the system never deletes them.
type Notification struct {
	gorm.Model
	ProfileID    uint   `gorm:"not null;index" json:"profile_id"`
	Type         string `gorm:"size:32;not null;check:type IN ('doctor_request','report_received','appointment_reminder','system')" json:"type"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	Data         string `gorm:"type:text" json:"data"`
	Read         bool   `gorm:"not null;default:false" json:"read"`
	ReminderSent bool   `json:"reminder_sent"`
}

// NotificationRequest is the payload handed to the push fan-out.
type NotificationRequest struct {
	Tokens []string `json:"tokens"` // Multiple device tokens
	Title  string   `json:"title"`  // Notification title
	Body   string   `json:"body"`   // Notification body
}

// CreateNotification validates the addressee and inserts an unread
// notification inside the caller's transaction. This is the single
// authoritative dispatch path; SSE and push fan-out happen after commit and
// are best-effort only.
func CreateNotification(tx *gorm.DB, profileID uint, nType, title, message, data string) (Notification, error) {
	exists, err := ProfileExists(tx, profileID)
	if err != nil {
		return Notification{}, err
	}
	if !exists {
		return Notification{}, errors.New("Target profile not found")
	}

	notification := Notification{
		ProfileID: profileID,
		Type:      nType,
		Title:     title,
		Message:   message,
		Data:      data,
		Read:      false,
	}
	if err := tx.Create(&notification).Error; err != nil {
		return Notification{}, err
	}
	return notification, nil
}
