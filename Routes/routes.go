package Routes

import (
	"github.com/Chidinma123456/AvaBuddie/Controllers"
	"github.com/Chidinma123456/AvaBuddie/Middleware"
	"github.com/Chidinma123456/AvaBuddie/Models"
	"github.com/Chidinma123456/AvaBuddie/SSE"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

func ConfigRoutes(router *gin.Engine, chat *Controllers.ChatController, video *Controllers.VideoController, uploads *Controllers.UploadController) {
	// Gzip Compression
	router.Use(gzip.Gzip(gzip.BestSpeed))

	// Public routes
	public := router.Group("/api")
	{
		public.POST("/login", Controllers.Login)
		public.POST("/register", Controllers.Register)
	}

	// Authorized routes
	authorized := router.Group("/api/protected")
	authorized.Use(Middleware.JwtAuthMiddleware())
	authorized.Use(Middleware.SetProfile())
	{
		// User-related routes
		authorized.GET("/user", Controllers.CurrentUser)
		authorized.POST("/UpdateProfile", Controllers.UpdateProfile)
		authorized.POST("/SaveFcmToken", Controllers.SaveFCM)
		authorized.POST("/Logout", Controllers.Logout)
		authorized.POST("/DeleteUser", Controllers.DeleteUser)

		// Doctor directory
		authorized.GET("/FetchDoctors", Controllers.FetchDoctors)
		authorized.POST("/FetchDoctor", Controllers.FetchDoctor)

		// Request/relationship workflow
		authorized.POST("/CreateRequest", Middleware.RequireRole(Models.RolePatient), Controllers.CreateRequest)
		authorized.GET("/FetchMyRequests", Controllers.FetchMyRequests)
		authorized.GET("/FetchMyDoctors", Controllers.FetchMyDoctors)
		authorized.POST("/ApproveRequest", Middleware.RequireRole(Models.RoleDoctor), Controllers.ApproveRequest)
		authorized.POST("/RejectRequest", Middleware.RequireRole(Models.RoleDoctor), Controllers.RejectRequest)
		authorized.GET("/FetchDoctorRequests", Middleware.RequireRole(Models.RoleDoctor), Controllers.FetchDoctorRequests)
		authorized.GET("/FetchMyPatients", Middleware.RequireRole(Models.RoleDoctor), Controllers.FetchMyPatients)

		// Doctor credential routes
		authorized.POST("/UpdateDoctorCredentials", Middleware.RequireRole(Models.RoleDoctor), Controllers.UpdateDoctorCredentials)
		authorized.POST("/VerifyDoctor", Middleware.RequireRole(Models.RoleHealthWorker), Controllers.VerifyDoctor)

		// Notification routes
		authorized.GET("/FetchNotifications", Controllers.FetchNotifications)
		authorized.POST("/MarkNotificationRead", Controllers.MarkNotificationRead)
		authorized.POST("/MarkAllNotificationsRead", Controllers.MarkAllNotificationsRead)
		authorized.POST("/CreateTestNotification", Controllers.CreateTestNotification)

		// Dr. Ava chat routes
		authorized.POST("/CreateChatSession", Middleware.RequireRole(Models.RolePatient), chat.CreateChatSession)
		authorized.GET("/FetchChatSessions", chat.FetchChatSessions)
		authorized.POST("/FetchChatSession", chat.FetchChatSession)
		authorized.POST("/RenameChatSession", chat.RenameChatSession)
		authorized.POST("/DeleteChatSession", chat.DeleteChatSession)
		authorized.POST("/SaveChatMessage", chat.SaveChatMessage)
		authorized.POST("/SendAvaMessage", chat.SendAvaMessage)
		authorized.POST("/TranscribeVoice", chat.TranscribeVoice)

		// Consultation routes
		authorized.POST("/CreateConsultation", Middleware.RequireRole(Models.RolePatient), Controllers.CreateConsultation)
		authorized.GET("/FetchMyConsultations", Controllers.FetchMyConsultations)
		authorized.POST("/FetchConsultation", Controllers.FetchConsultation)
		authorized.POST("/UpdateConsultation", Controllers.UpdateConsultation)
		authorized.POST("/ArchiveConsultation", Controllers.ArchiveConsultation)

		// Report routes
		authorized.POST("/SendReport", Middleware.RequireRole(Models.RolePatient), Controllers.SendReport)
		authorized.GET("/FetchMyReports", Controllers.FetchMyReports)
		authorized.GET("/FetchDoctorReports", Middleware.RequireRole(Models.RoleDoctor), Controllers.FetchDoctorReports)
		authorized.POST("/ReviewReport", Middleware.RequireRole(Models.RoleDoctor), Controllers.ReviewReport)
		authorized.POST("/RespondReport", Middleware.RequireRole(Models.RoleDoctor), Controllers.RespondReport)
		authorized.POST("/ExportReportsExcel", Middleware.RequireRole(Models.RoleDoctor), Controllers.ExportReportsExcel)

		// Upload routes
		authorized.POST("/UploadChatImage", uploads.UploadChatImage)
		authorized.POST("/FetchChatImages", uploads.FetchChatImages)
		authorized.POST("/DeleteChatImage", uploads.DeleteChatImage)

		// Video consultation routes
		authorized.POST("/CreateVideoConsultation", video.CreateVideoConsultation)
		authorized.POST("/EndVideoConsultation", video.EndVideoConsultation)
		authorized.POST("/SendVideoContext", video.SendVideoContext)
		authorized.POST("/VideoConsultationStatus", video.VideoConsultationStatus)

		// SSE (Server-Sent Events) route
		authorized.GET("/NotificationSSE", SSE.NotificationSSE)
	}

	// Static file serving for local-disk uploads
	authorized.Static("/Uploads", "./Uploads")
}
