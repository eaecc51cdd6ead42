package Controllers

import (
	"encoding/base64"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/Chidinma123456/AvaBuddie/AI"
	"github.com/Chidinma123456/AvaBuddie/Models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ChatController serves the Dr. Ava chat: session CRUD plus the reply
// orchestration that calls the AI vendor. The vendor client is injected once
// at startup.
type ChatController struct {
	AI *AI.Client
}

func NewChatController(client *AI.Client) *ChatController {
	return &ChatController{AI: client}
}

// sessionForCaller loads a session and checks the caller owns it.
func sessionForCaller(c *gin.Context, sessionID uint) (Models.ChatSession, error) {
	profile, err := currentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return Models.ChatSession{}, err
	}

	var session Models.ChatSession
	if err := Models.DB.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve session"})
		}
		return Models.ChatSession{}, err
	}

	if session.PatientID != profile.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Session belongs to another patient"})
		return Models.ChatSession{}, errNotOwner
	}
	return session, nil
}

func (ctrl *ChatController) CreateChatSession(c *gin.Context) {
	var input struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := currentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	if input.Name == "" {
		input.Name = "Chat " + time.Now().Format("Jan 2, 3:04 PM")
	}

	session := Models.ChatSession{
		PatientID:    profile.ID,
		Name:         input.Name,
		LastActivity: time.Now(),
	}
	if err := Models.DB.Create(&session).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// FetchChatSessions lists the caller's sessions, most recently touched
// first. Ordering by id as well keeps ties deterministic.
func (ctrl *ChatController) FetchChatSessions(c *gin.Context) {
	profile, err := currentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var sessions []Models.ChatSession
	if err := Models.DB.Model(&Models.ChatSession{}).
		Where("patient_id = ?", profile.ID).
		Order("last_activity DESC, id DESC").Find(&sessions).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (ctrl *ChatController) FetchChatSession(c *gin.Context) {
	var input struct {
		SessionID uint `json:"session_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := sessionForCaller(c, input.SessionID)
	if err != nil {
		return
	}

	if err := Models.DB.Model(&Models.ChatMessage{}).
		Where("chat_session_id = ?", session.ID).
		Order("id ASC").Find(&session.Messages).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

func (ctrl *ChatController) RenameChatSession(c *gin.Context) {
	var input struct {
		SessionID uint   `json:"session_id" binding:"required"`
		Name      string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := sessionForCaller(c, input.SessionID)
	if err != nil {
		return
	}

	if err := Models.DB.Model(&session).Update("name", input.Name).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Renamed Successfully"})
}

func (ctrl *ChatController) DeleteChatSession(c *gin.Context) {
	var input struct {
		SessionID uint `json:"session_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := sessionForCaller(c, input.SessionID)
	if err != nil {
		return
	}

	tx := Models.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("chat_session_id = ?", session.ID).Delete(&Models.ChatMessage{}).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := tx.Delete(&session).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted Successfully"})
}

// SaveChatMessage appends a message to an explicitly named session. The
// append is a row insert plus a last-activity bump in one transaction, so
// concurrent tabs can both append without losing a message.
func (ctrl *ChatController) SaveChatMessage(c *gin.Context) {
	var input struct {
		SessionID        uint   `json:"session_id" binding:"required"`
		Sender           string `json:"sender" binding:"required"`
		Text             string `json:"text"`
		ImageURL         string `json:"image_url"`
		ImageContentType string `json:"image_content_type"`
		AudioURL         string `json:"audio_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Sender != Models.SenderUser && input.Sender != Models.SenderAI {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sender"})
		return
	}

	session, err := sessionForCaller(c, input.SessionID)
	if err != nil {
		return
	}

	message := Models.ChatMessage{
		ChatSessionID:    session.ID,
		Sender:           input.Sender,
		Text:             input.Text,
		ImageURL:         input.ImageURL,
		ImageContentType: input.ImageContentType,
		AudioURL:         input.AudioURL,
	}
	if err := Models.AppendChatMessage(Models.DB, &message); err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, message)
}

// SendAvaMessage runs one full chat turn: save the user message, generate
// Dr. Ava's reply from the session history, save it, and optionally voice
// it. Vendor failures surface as the canned fallback reply, never an error.
func (ctrl *ChatController) SendAvaMessage(c *gin.Context) {
	var input struct {
		SessionID        uint   `json:"session_id" binding:"required"`
		Message          string `json:"message"`
		ImageBase64      string `json:"image_base64"`
		ImageContentType string `json:"image_content_type"`
		IsVoice          bool   `json:"is_voice"`
		WantAudio        bool   `json:"want_audio"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := sessionForCaller(c, input.SessionID)
	if err != nil {
		return
	}

	// Last 20 turns, oldest first.
	var history []Models.ChatMessage
	if err := Models.DB.Model(&Models.ChatMessage{}).
		Where("chat_session_id = ?", session.ID).
		Order("id DESC").Limit(20).Find(&history).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	userMessage := Models.ChatMessage{
		ChatSessionID: session.ID,
		Sender:        Models.SenderUser,
		Text:          input.Message,
	}
	if err := Models.AppendChatMessage(Models.DB, &userMessage); err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var reply string
	if input.ImageBase64 != "" {
		reply = ctrl.AI.AnalyzeImage(ctx, input.ImageBase64, input.ImageContentType, input.Message)
	} else {
		reply = ctrl.AI.GenerateResponse(ctx, input.Message, history, false, input.IsVoice)
	}

	aiMessage := Models.ChatMessage{
		ChatSessionID: session.ID,
		Sender:        Models.SenderAI,
		Text:          reply,
	}
	if err := Models.AppendChatMessage(Models.DB, &aiMessage); err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output := gin.H{"reply": reply, "message_id": aiMessage.ID}
	if input.WantAudio {
		if audio := ctrl.AI.Synthesize(ctx, reply); audio != nil {
			output["audio_base64"] = base64.StdEncoding.EncodeToString(audio)
		}
	}
	c.JSON(http.StatusOK, output)
}

// TranscribeVoice turns an uploaded voice note into text. Degrades to the
// canned transcription fallback rather than failing the request.
func (ctrl *ChatController) TranscribeVoice(c *gin.Context) {
	var input struct {
		AudioBase64 string `json:"audio_base64" binding:"required"`
		Filename    string `json:"filename"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	audio, err := base64.StdEncoding.DecodeString(input.AudioBase64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid audio encoding"})
		return
	}
	if input.Filename == "" {
		input.Filename = "voice-message.webm"
	}

	text := ctrl.AI.Transcribe(c.Request.Context(), audio, input.Filename)
	c.JSON(http.StatusOK, gin.H{"text": text})
}
