package main

import (
	"os"

	"github.com/Chidinma123456/AvaBuddie/AI"
	"github.com/Chidinma123456/AvaBuddie/Controllers"
	"github.com/Chidinma123456/AvaBuddie/CronJobs"
	"github.com/Chidinma123456/AvaBuddie/FirebaseMessaging"
	"github.com/Chidinma123456/AvaBuddie/Models"
	"github.com/Chidinma123456/AvaBuddie/Routes"
	"github.com/Chidinma123456/AvaBuddie/Storage"
	"github.com/Chidinma123456/AvaBuddie/VideoAvatar"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	Models.ConnectDataBase()
	FirebaseMessaging.Setup()

	// Vendor clients are constructed once here and injected; absent API keys
	// gate each of them into degraded mode.
	chat := Controllers.NewChatController(AI.NewClient())
	video := Controllers.NewVideoController(VideoAvatar.NewClient())
	uploads := Controllers.NewUploadController(Storage.NewFromEnv())

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://virtualdoc.ddns.net", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))
	Routes.ConfigRoutes(router, chat, video, uploads)

	reminderService := CronJobs.NewNotificationReminder(Models.DB)
	scheduler := reminderService.StartReminderCron()
	_ = scheduler

	port := os.Getenv("PORT")
	if port == "" {
		port = "3005"
	}
	router.Run(":" + port)
}
