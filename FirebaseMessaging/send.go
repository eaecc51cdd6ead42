package FirebaseMessaging

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/Chidinma123456/AvaBuddie/Models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

var (
	app             *firebase.App
	messagingClient *messaging.Client
	enabled         bool
)

// Setup initializes the Firebase messaging client. Push delivery is optional:
// when no service account is configured the integration stays disabled and
// SendMessage becomes a no-op, the in-app inbox remains authoritative.
func Setup() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
	if serviceAccountPath == "" {
		log.Println("FIREBASE_SERVICE_ACCOUNT_PATH not set, push notifications disabled")
		return
	}

	ctx := context.Background()
	var err error

	opt := option.WithCredentialsFile(serviceAccountPath)
	app, err = firebase.NewApp(ctx, nil, opt)
	if err != nil {
		log.Printf("Failed to initialize Firebase app, push notifications disabled: %v", err)
		return
	}

	messagingClient, err = app.Messaging(ctx)
	if err != nil {
		log.Printf("Failed to initialize Firebase messaging client, push notifications disabled: %v", err)
		return
	}

	enabled = true
	log.Println("Firebase messaging client initialized successfully")
}

// Enabled reports whether push delivery is configured.
func Enabled() bool {
	return enabled
}

func SendMessage(req Models.NotificationRequest) error {
	if !enabled || len(req.Tokens) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	message := &messaging.Message{
		Notification: &messaging.Notification{
			Title: req.Title,
			Body:  req.Body,
		},
	}

	message.Android = &messaging.AndroidConfig{
		Priority: "high",
		Notification: &messaging.AndroidNotification{
			Sound:    "default",
			Priority: messaging.PriorityHigh,
		},
	}

	// Add APNS (iOS) config
	message.APNS = &messaging.APNSConfig{
		Headers: map[string]string{
			"apns-priority": "10",
		},
		Payload: &messaging.APNSPayload{
			Aps: &messaging.Aps{
				Alert: &messaging.ApsAlert{
					Title: req.Title,
					Body:  req.Body,
				},
				Sound: "default",
			},
		},
	}

	switch {
	case len(req.Tokens) == 1:
		message.Token = req.Tokens[0]
		_, err := messagingClient.Send(ctx, message)
		if err != nil {
			log.Printf("Error sending message: %v", err)
			return err
		}
	case len(req.Tokens) > 1:
		_, err := messagingClient.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens:       req.Tokens,
			Notification: message.Notification,
			Data:         message.Data,
			Android:      message.Android,
			APNS:         message.APNS,
		})
		if err != nil {
			log.Printf("Error sending multicast message: %v", err)
			return err
		}
	}
	return nil
}
