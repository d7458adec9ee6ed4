package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/blogchain/internal/config"
	"github.com/blogchain/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.Server.RateLimit > 0 {
		router.Use(rateLimitMiddleware(newClientLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)))
	}

	// Handlers
	postHandler := NewPostHandler(services, log)
	accountHandler := NewAccountHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)

	// API v1
	v1 := router.Group("/v1")
	{
		posts := v1.Group("/posts")
		{
			posts.POST("", postHandler.PublishPost)
			posts.GET("/:post_id", postHandler.GetPost)
			posts.GET("/:post_id/comments", postHandler.GetComments)
			posts.POST("/:post_id/comments", postHandler.PublishComment)
			posts.POST("/:post_id/tips", postHandler.TipPost)
		}

		v1.GET("/accounts/:account_id/balance", accountHandler.GetBalance)
		v1.GET("/events", accountHandler.GetEvents)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "blogchain",
	})
}
