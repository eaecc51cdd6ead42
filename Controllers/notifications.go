package Controllers

import (
	"net/http"

	"github.com/Chidinma123456/AvaBuddie/Models"

	"github.com/gin-gonic/gin"
)

// FetchNotifications returns the caller's inbox, newest first.
func FetchNotifications(c *gin.Context) {
	profile, err := currentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var notifications []Models.Notification
	if err := Models.DB.Model(&Models.Notification{}).
		Where("profile_id = ?", profile.ID).
		Order("created_at DESC").Find(&notifications).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead flips the read flag on one of the caller's own
// notifications. Ownership is enforced by scoping the update to the caller's
// profile, so a foreign id is simply not found.
func MarkNotificationRead(c *gin.Context) {
	var input struct {
		ID uint `json:"id" binding:"required"`
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

	result := Models.DB.Model(&Models.Notification{}).
		Where("id = ? AND profile_id = ?", input.ID, profile.ID).
		Update("read", true)
	if result.Error != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Marked Successfully"})
}

// MarkAllNotificationsRead clears every unread notification the caller owns.
func MarkAllNotificationsRead(c *gin.Context) {
	profile, err := currentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	if err := Models.DB.Model(&Models.Notification{}).
		Where("profile_id = ? AND read = ?", profile.ID, false).
		Update("read", true).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Marked Successfully"})
}

// CreateTestNotification is a debug utility that drops a system notification
// into the caller's own inbox.
func CreateTestNotification(c *gin.Context) {
	var input struct {
		Title   string `json:"title"`
		Message string `json:"message"`
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

	if input.Title == "" {
		input.Title = "Test Notification"
	}

	tx := Models.DB.Begin()
	notification, err := Models.CreateNotification(tx, profile.ID, Models.NotificationSystem,
		input.Title, input.Message, "")
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	notifyProfile(notification)
	c.JSON(http.StatusOK, notification)
}
