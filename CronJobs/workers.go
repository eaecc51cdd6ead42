package CronJobs

import (
	"fmt"
	"log"
	"time"

	"github.com/Chidinma123456/AvaBuddie/FirebaseMessaging"
	"github.com/Chidinma123456/AvaBuddie/Models"

	"github.com/go-co-op/gocron"
	"gorm.io/gorm"
)

// NotificationReminder nudges users who leave notifications unread. One push
// per notification: rows are flagged after the reminder goes out.
type NotificationReminder struct {
	DB *gorm.DB
}

func NewNotificationReminder(db *gorm.DB) *NotificationReminder {
	return &NotificationReminder{
		DB: db,
	}
}

// StartReminderCron starts the periodic unread-notification sweep.
func (nr *NotificationReminder) StartReminderCron() *gocron.Scheduler {
	scheduler := gocron.NewScheduler(time.Local)

	scheduler.Every(15).Minutes().Do(func() {
		log.Println("Running unread notification reminder check...")
		if err := nr.SendUnreadReminders(); err != nil {
			log.Printf("Error sending notification reminders: %v", err)
		}
	})

	scheduler.StartAsync()
	log.Println("Notification reminder cron job started")

	return scheduler
}

func (nr *NotificationReminder) SendUnreadReminders() error {
	cutoff := time.Now().Add(-24 * time.Hour)

	var notifications []Models.Notification
	result := nr.DB.Where("read = ? AND reminder_sent = ? AND created_at < ?",
		false, false, cutoff).
		Find(&notifications)
	if result.Error != nil {
		return fmt.Errorf("failed to query unread notifications: %w", result.Error)
	}

	// Group by addressee so a pile of unread rows becomes one push.
	unreadByProfile := make(map[uint]int)
	for _, notification := range notifications {
		unreadByProfile[notification.ProfileID]++
	}

	for profileID, count := range unreadByProfile {
		fcms, err := Models.GetProfileFCMs(profileID)
		if err != nil || len(fcms) == 0 {
			continue
		}

		message := fmt.Sprintf("You have %d unread notification(s) waiting in VirtualDoc.", count)
		if err := FirebaseMessaging.SendMessage(Models.NotificationRequest{
			Tokens: fcms,
			Title:  "Unread Notifications",
			Body:   message,
		}); err != nil {
			log.Printf("Failed to send reminder to profile %d: %v", profileID, err)
			continue
		}

		if err := nr.DB.Model(&Models.Notification{}).
			Where("profile_id = ? AND read = ? AND reminder_sent = ? AND created_at < ?",
				profileID, false, false, cutoff).
			Update("reminder_sent", true).Error; err != nil {
			log.Printf("Failed to flag reminders for profile %d: %v", profileID, err)
			continue
		}

		log.Printf("Reminder sent to profile %d for %d unread notifications", profileID, count)
	}

	return nil
}
