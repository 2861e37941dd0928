package app

import (
	"interview_prep_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		sessions := api.Group("/sessions")
		{
			sessions.POST("", c.session.CreateSession)
			sessions.GET("/:id", c.session.GetSession)
			sessions.DELETE("/:id", c.session.DeleteSession)
			sessions.GET("/:id/question", c.session.GetCurrentQuestion)
			sessions.POST("/:id/answers", c.session.SubmitAnswer)
			sessions.GET("/:id/summary", c.session.GetSummary)
		}
	}
}
