package Controllers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/Chidinma123456/AvaBuddie/FirebaseMessaging"
	"github.com/Chidinma123456/AvaBuddie/Models"
	"github.com/Chidinma123456/AvaBuddie/SSE"
	"github.com/Chidinma123456/AvaBuddie/Utils/Token"

	"github.com/gin-gonic/gin"
)

// currentProfile returns the caller's profile, preferring the one resolved by
// the middleware.
func currentProfile(c *gin.Context) (Models.Profile, error) {
	if value, exists := c.Get("profile"); exists {
		return value.(Models.Profile), nil
	}

	userID, err := Token.ExtractTokenID(c)
	if err != nil {
		return Models.Profile{}, err
	}
	return Models.GetProfileByUserID(userID)
}

// notifyProfile pushes a committed notification out over SSE and FCM. Both
// channels are best-effort delivery hints; the inbox row is the source of
// truth.
func notifyProfile(notification Models.Notification) {
	event, err := json.Marshal(notification)
	if err != nil {
		log.Println(err)
		return
	}
	SSE.Broadcaster.Notify(notification.ProfileID, string(event))

	fcms, _ := Models.GetProfileFCMs(notification.ProfileID)
	if len(fcms) > 0 {
		FirebaseMessaging.SendMessage(Models.NotificationRequest{
			Tokens: fcms,
			Title:  notification.Title,
			Body:   notification.Message,
		})
	}
}

// marshalPayload serializes a notification payload, degrading to empty on
// marshal failure.
func marshalPayload(payload map[string]interface{}) string {
	if payload == nil {
		return ""
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Println(err)
		return ""
	}
	return string(data)
}

var errNotOwner = errors.New("not the resource owner")
