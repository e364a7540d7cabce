package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yigit/campusconnect/internal/app/controllers"
	"github.com/yigit/campusconnect/internal/middleware"
	"github.com/yigit/campusconnect/internal/pkg/websocket"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Auth       *controllers.AuthController
	Profile    *controllers.ProfileController
	Note       *controllers.NoteController
	Event      *controllers.EventController
	Community  *controllers.CommunityController
	TeamFinder *controllers.TeamFinderController
	Anonymous  *controllers.AnonymousController
	Message    *controllers.MessageController
	College    *controllers.CollegeController
	Health     *controllers.HealthController
	WebSocket  *websocket.Handler

	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter

	// UploadDir is served at /uploads when files are stored locally
	UploadDir string
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h Handlers) {
	router.GET("/ping", h.Health.Ping)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if h.UploadDir != "" {
		router.Static("/uploads", h.UploadDir)
	}

	// API version group
	v1 := router.Group("/api/v1")
	v1.GET("/health", h.Health.Health)

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
	v1.GET("/colleges", h.College.GetAllColleges)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(h.AuthMiddleware.JWTAuth())

	limit := h.RateLimiter.Limit

	authenticated.POST("/auth/logout", h.Auth.Logout)
	authenticated.GET("/auth/me", h.Auth.Me)
	authenticated.GET("/ws", h.WebSocket.HandleConnection)

	profiles := authenticated.Group("/profiles")
	{
		profiles.GET("/me", h.Profile.GetMyProfile)
		profiles.PUT("/me", h.Profile.UpdateMyProfile)
		profiles.GET("/me/stats", h.Profile.GetMyStats)
		profiles.POST("/me/avatar", h.Profile.UploadAvatar)
		profiles.POST("/me/photo", h.Profile.UploadPhoto)
		profiles.GET("/:id", h.Profile.GetProfile)
	}

	notes := authenticated.Group("/notes")
	{
		notes.GET("", h.Note.GetAllNotes)
		notes.GET("/stats", h.Note.GetNoteStats)
		notes.POST("", h.Note.CreateNote)
		notes.GET("/:id", h.Note.GetNoteByID)
		notes.PUT("/:id", h.Note.UpdateNote)
		notes.DELETE("/:id", h.Note.DeleteNote)
		notes.POST("/:id/download", h.Note.DownloadNote)
	}

	events := authenticated.Group("/events")
	{
		events.GET("", h.Event.GetAllEvents)
		events.GET("/mine/registrations", h.Event.GetMyRegistrations)
		events.POST("", h.Event.CreateEvent)
		events.GET("/:id", h.Event.GetEventByID)
		events.PUT("/:id", h.Event.UpdateEvent)
		events.DELETE("/:id", h.Event.DeleteEvent)
		events.POST("/:id/register", h.Event.Register)
		events.DELETE("/:id/register", h.Event.Unregister)
		events.POST("/:id/like", limit("like"), h.Event.ToggleLike)
	}

	communities := authenticated.Group("/communities")
	{
		communities.GET("", h.Community.GetAllCommunities)
		communities.GET("/mine", h.Community.GetMyCommunities)
		communities.POST("", h.Community.CreateCommunity)
		communities.GET("/:id", h.Community.GetCommunityByID)
		communities.PUT("/:id", h.Community.UpdateCommunity)
		communities.DELETE("/:id", h.Community.DeleteCommunity)
		communities.POST("/:id/join", h.Community.JoinCommunity)
		communities.DELETE("/:id/join", h.Community.LeaveCommunity)
		communities.GET("/:id/members", h.Community.GetMembers)
	}

	teamPosts := authenticated.Group("/team-posts")
	{
		teamPosts.GET("", h.TeamFinder.GetAllPosts)
		teamPosts.GET("/mine", h.TeamFinder.GetMyPosts)
		teamPosts.GET("/stats", h.TeamFinder.GetStats)
		teamPosts.POST("", h.TeamFinder.CreatePost)
		teamPosts.DELETE("/:id", h.TeamFinder.DeletePost)
		teamPosts.POST("/:id/contact", limit("contact"), h.TeamFinder.Contact)
	}

	anonymous := authenticated.Group("/anonymous")
	{
		anonymous.GET("/posts", h.Anonymous.GetPosts)
		anonymous.POST("/posts", h.Anonymous.CreatePost)
		anonymous.DELETE("/posts/:id", h.Anonymous.DeletePost)
		anonymous.POST("/posts/:id/vote", limit("vote"), h.Anonymous.Vote)
		anonymous.GET("/posts/:id/comments", h.Anonymous.GetComments)
		anonymous.POST("/posts/:id/comments", limit("comment"), h.Anonymous.CreateComment)
		anonymous.DELETE("/comments/:id", h.Anonymous.DeleteComment)
		anonymous.POST("/comments/:id/like", limit("like"), h.Anonymous.ToggleCommentLike)
	}

	messages := authenticated.Group("/messages")
	{
		messages.POST("", limit("message"), h.Message.SendMessage)
		messages.GET("/conversations", h.Message.GetConversations)
		messages.GET("/inbox", h.Message.GetInbox)
		messages.GET("/unread-count", h.Message.GetUnreadCount)
		messages.GET("/with/:userId", h.Message.GetThread)
		messages.POST("/with/:userId/read", h.Message.MarkRead)
	}

	colleges := authenticated.Group("/colleges")
	{
		colleges.POST("", h.College.CreateCollege)
		colleges.DELETE("/:id", h.College.DeleteCollege)
	}
}
