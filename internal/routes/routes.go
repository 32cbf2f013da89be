package routes

import (
	"github.com/gin-gonic/gin"

	"vibro/internal/handlers"
	"vibro/internal/middleware"
	"vibro/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	videoHandler *handlers.VideoHandler,
	commentHandler *handlers.CommentHandler,
	sessions services.SessionService,
	users services.UserService,
) *gin.Engine {

	// ---- public
	auth := r.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/google", authHandler.GoogleLogin)
		auth.POST("/register", userHandler.Register)
		auth.POST("/register/confirm", userHandler.ConfirmRegistration)
		auth.POST("/password/reset-request", userHandler.RequestPasswordReset)
		auth.POST("/password/reset", userHandler.ResetPassword)
		auth.POST("/logout", authHandler.Logout)
	}

	r.GET("/videos", videoHandler.List)
	r.GET("/videos/:id", videoHandler.Get)
	r.GET("/videos/:id/stats", videoHandler.Stats)
	r.GET("/videos/:id/comments", commentHandler.ListByVideo)

	// ---- protected (session cookie)
	// Group-scoped, not engine-wide: engine-wide middleware would also wrap
	// gin's 404/405 fallbacks and turn them into 401s.
	protected := r.Group("", middleware.SessionAuth(sessions, users))

	protected.GET("/auth/me", authHandler.Me)
	protected.PUT("/profile", userHandler.UpdateProfile)

	videos := protected.Group("/videos")
	{
		videos.POST("/", videoHandler.Upload)
		videos.DELETE("/:id", videoHandler.Delete)
		videos.POST("/:id/like", videoHandler.Like)
		videos.DELETE("/:id/like", videoHandler.Unlike)
		videos.POST("/:id/comments", commentHandler.Post)
	}

	uploads := protected.Group("/uploads")
	{
		uploads.POST("/grant", videoHandler.UploadGrant)
		uploads.POST("/direct", videoHandler.DirectUpload)
	}

	comments := protected.Group("/comments")
	{
		comments.DELETE("/:id", commentHandler.Delete)
		comments.POST("/:id/like", commentHandler.Like)
		comments.DELETE("/:id/like", commentHandler.Unlike)
	}

	return r
}
