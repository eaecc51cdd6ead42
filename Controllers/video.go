package Controllers

import (
	"net/http"

	"github.com/Chidinma123456/AvaBuddie/VideoAvatar"

	"github.com/gin-gonic/gin"
)

// VideoController mediates vendor video-avatar sessions. Device capture is
// the client's concern; the server only allocates and tracks vendor
// conversations, degrading to mock sessions when the vendor is down or
// unconfigured.
type VideoController struct {
	Avatar *VideoAvatar.Client
}

func NewVideoController(client *VideoAvatar.Client) *VideoController {
	return &VideoController{Avatar: client}
}

func (ctrl *VideoController) CreateVideoConsultation(c *gin.Context) {
	conversation := ctrl.Avatar.CreateConversation(c.Request.Context())
	c.JSON(http.StatusOK, conversation)
}

func (ctrl *VideoController) EndVideoConsultation(c *gin.Context) {
	var input VideoAvatar.Conversation
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctrl.Avatar.EndConversation(c.Request.Context(), input); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Conversation Ended"})
}

func (ctrl *VideoController) SendVideoContext(c *gin.Context) {
	var input struct {
		Conversation VideoAvatar.Conversation `json:"conversation"`
		Text         string                   `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Fire-and-forget from the caller's perspective.
	ctrl.Avatar.SendContext(c.Request.Context(), input.Conversation, input.Text)
	c.JSON(http.StatusOK, gin.H{"message": "Context Sent"})
}

func (ctrl *VideoController) VideoConsultationStatus(c *gin.Context) {
	var input VideoAvatar.Conversation
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := ctrl.Avatar.GetStatus(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}
