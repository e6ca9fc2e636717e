package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bandhub/internal/app/controllers"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/middleware"
	"github.com/yigit/bandhub/internal/pkg/websocket"
)

// Controllers groups every HTTP handler the router mounts
type Controllers struct {
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Capability   *controllers.CapabilityController
	Session      *controllers.SessionController
	Song         *controllers.SongController
	Chat         *controllers.ChatController
	Feedback     *controllers.FeedbackController
	Media        *controllers.MediaController
	Notification *controllers.NotificationController
	Backup       *controllers.BackupController
	WebSocket    *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "pong")
	})

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/refresh", c.Auth.RefreshToken)
		auth.POST("/logout", c.Auth.Logout)
	}

	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	// Pending accounts can still see and edit themselves
	self := authenticated.Group("/users/me")
	self.Use(authMiddleware.Authenticated())
	{
		self.GET("", c.User.GetProfile)
		self.PUT("", c.User.UpdateProfile)
	}

	approved := authenticated.Group("")
	approved.Use(authMiddleware.ApprovedRequired())

	admin := approved.Group("")
	admin.Use(authMiddleware.AdminRequired())

	users := approved.Group("/users")
	{
		users.GET("/:userId/capabilities", c.User.ListUserCapabilities)
		users.PUT("/:userId/capabilities", c.User.SetUserCapabilities)
	}
	adminUsers := admin.Group("/users")
	{
		adminUsers.GET("", c.User.ListUsers)
		adminUsers.POST("/status", c.User.SetUserStatus)
	}

	adminOnly := admin.Group("/admin")
	{
		adminOnly.GET("/dashboard", c.User.Dashboard)
		adminOnly.GET("/backup", c.Backup.Backup)
		adminOnly.POST("/restore", c.Backup.Restore)
	}

	capabilities := approved.Group("/capabilities")
	{
		capabilities.GET("", c.Capability.ListCapabilities)
	}
	capabilitiesAdmin := admin.Group("/capabilities")
	{
		capabilitiesAdmin.POST("", c.Capability.CreateCapability)
		capabilitiesAdmin.POST("/sync", c.Capability.SyncCapabilities)
		capabilitiesAdmin.DELETE("/:capabilityId", c.Capability.DeleteCapability)
	}

	sessions := approved.Group("/sessions")
	{
		sessions.GET("", c.Session.ListSessions)
		sessions.GET("/:sessionId", c.Session.GetSession)

		sessions.POST("/:sessionId/songs", c.Session.AddSong)
		sessions.PUT("/:sessionId/songs/order", c.Session.ReorderSongs)
		sessions.DELETE("/:sessionId/songs/:songId", c.Session.RemoveSong)

		sessions.POST("/:sessionId/commitments", c.Session.Commit)
		sessions.DELETE("/:sessionId/commitments", c.Session.Withdraw)

		sessions.GET("/:sessionId/media", c.Media.ListMedia)
		sessions.POST("/:sessionId/media", c.Media.UploadMedia)
		sessions.POST("/:sessionId/media/sign", c.Media.SignUpload)
		sessions.POST("/:sessionId/media/register", c.Media.RegisterMedia)
	}
	sessionsAdmin := admin.Group("/sessions")
	{
		sessionsAdmin.POST("", c.Session.CreateSession)
		sessionsAdmin.DELETE("/:sessionId", c.Session.DeleteSession)
		sessionsAdmin.POST("/:sessionId/invites", c.Notification.SendInvites)
		sessionsAdmin.POST("/:sessionId/reminders", c.Notification.SendReminders)
	}

	approved.DELETE("/media/:kind/:mediaId", c.Media.DeleteMedia)

	songs := approved.Group("/songs")
	{
		songs.GET("", c.Song.ListSongs)
		songs.POST("", c.Song.CreateSong)
		songs.POST("/suggestions", c.Song.Suggest)
		songs.GET("/:songId", c.Song.GetSong)
		songs.PATCH("/:songId", c.Song.UpdateSong)
		songs.PUT("/:songId/capabilities", c.Song.SetCapabilities)
		songs.POST("/:songId/vote", c.Song.ToggleVote)
	}
	admin.PUT("/songs/:songId/status", c.Song.SetStatus)

	chat := approved.Group("/chat")
	{
		chat.GET("/scopes/:scope/messages", c.Chat.GetChatMessages)
		chat.POST("/scopes/:scope/messages", c.Chat.SendChatMessage)
		chat.POST("/scopes/:scope/read", c.Chat.MarkRead)
		chat.POST("/messages/:messageId/reactions", c.Chat.ToggleReaction)
		chat.GET("/unread", c.Chat.UnreadCount)
		chat.GET("/ws", c.WebSocket.HandleConnection)
	}

	feedback := approved.Group("/feedback")
	{
		feedback.GET("", c.Feedback.ListFeedback)
		feedback.POST("", c.Feedback.SubmitFeedback)
		feedback.POST("/:feedbackId/vote", c.Feedback.Vote)
	}
	feedbackAdmin := admin.Group("/feedback")
	{
		feedbackAdmin.POST("/:feedbackId/replies", c.Feedback.Reply)
		feedbackAdmin.PUT("/:feedbackId/status", c.Feedback.SetStatus)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})
}
