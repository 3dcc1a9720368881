package handler

import (
	"asset-marketplace/internal/adapter/http/middleware"
	redisStore "asset-marketplace/internal/adapter/storage/redis"
	"asset-marketplace/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	MarketplaceSvc ports.MarketplaceService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	listingHandler := NewListingHandler(deps.MarketplaceSvc)
	proceedsHandler := NewProceedsHandler(deps.MarketplaceSvc)

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public read routes ---
	v1.GET("/listings", rl("reads"), listingHandler.ListListings)
	v1.GET("/listings/:registry/:token_id", rl("reads"), listingHandler.GetListing)

	// --- Authenticated mutation routes ---
	listings := v1.Group("/listings", jwtAuth)
	{
		listings.POST("", rl("mutations"), listingHandler.ListItem)
		listings.PUT("/:registry/:token_id", rl("mutations"), listingHandler.UpdateListing)
		listings.DELETE("/:registry/:token_id", rl("mutations"), listingHandler.CancelListing)
		listings.POST("/:registry/:token_id/buy", rl("mutations"), listingHandler.BuyItem)
	}

	proceeds := v1.Group("/proceeds", jwtAuth)
	{
		proceeds.GET("", rl("reads"), proceedsHandler.GetProceeds)
		proceeds.POST("/withdraw", rl("withdrawals"), proceedsHandler.Withdraw)
	}

	return r
}
