package handlers

import (
	"time"

	"learnhub/internal/middleware"
	"learnhub/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(authHandler *AuthHandler, courseHandler *CourseHandler, progressHandler *ProgressHandler, sessions *session.Manager, limiter *middleware.RateLimiter, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())

	config := cors.DefaultConfig()
	config.AllowOrigins = origins
	config.AllowCredentials = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", middleware.RequestIDHeader}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	r.Use(cors.New(config))

	api := r.Group("/api/v1")
	{
		api.POST("/session", limiter.Limit("login", 5, 1*time.Minute), authHandler.Login)
		api.GET("/session", authHandler.Current)
		api.DELETE("/session", authHandler.Logout)
		api.POST("/register", limiter.Limit("register", 3, 10*time.Minute), authHandler.Register)

		// каталог доступен и без входа
		api.GET("/courses", courseHandler.List)
		api.GET("/courses/:id", courseHandler.GetOne)
		api.GET("/courses/:id/access", courseHandler.Access)

		views := api.Group("/views")
		{
			views.PUT("/:view/course/:id", courseHandler.ShowInView)
			views.GET("/:view", courseHandler.ViewState)
			views.DELETE("/:view", courseHandler.CloseView)
		}

		learner := api.Group("")
		learner.Use(middleware.RequireSession(sessions, authHandler.tr))
		{
			learner.GET("/dashboard", progressHandler.Dashboard)
			learner.POST("/courses/:id/lessons/:lessonId/complete", progressHandler.CompleteLesson)
			learner.GET("/certificates", progressHandler.Certificates)
		}
	}

	return r
}
