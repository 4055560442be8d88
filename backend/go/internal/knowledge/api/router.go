package api

import (
	"Saber/backend/go/pkg/httpmiddleware"
	"Saber/backend/go/pkg/ratelimiter"

	"github.com/gin-gonic/gin"
)

// RouterConfig selects the optional middleware.
type RouterConfig struct {
	// JwtSecret enables bearer auth on /api/v1 when set.
	JwtSecret string
	// Limiter enables per-sender rate limiting on /api/v1 when set.
	Limiter ratelimiter.KeyedLimiter
}

// NewRouter builds the gin engine.
func NewRouter(a *API, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	RegisterRoutes(router, a, cfg)
	return router
}

// RegisterRoutes registers all the routes of the knowledge service.
func RegisterRoutes(router *gin.Engine, a *API, cfg RouterConfig) {
	router.GET("/healthz", a.HealthHandler)

	v1 := router.Group("/api/v1")
	if cfg.JwtSecret != "" {
		v1.Use(AuthMiddleware(cfg.JwtSecret))
	}
	if cfg.Limiter != nil {
		v1.Use(httpmiddleware.RateLimitBy(cfg.Limiter, rateLimitKey))
	}
	{
		v1.POST("/messages", a.PostMessageHandler)
		v1.GET("/facts", a.ListFactsHandler)
	}
}
