package handler

import (
	"skin-marketplace/internal/adapter/http/middleware"
	"skin-marketplace/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	AccountSvc     ports.AccountService
	InventorySvc   ports.InventoryService
	MarketSvc      ports.MarketplaceService
	JournalSvc     ports.JournalService
	TokenSvc       ports.TokenService
	RateLimitStore middleware.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	rules := middleware.DefaultRateLimitRules()

	// rl returns the limiter for group, or a noop when rate limiting is disabled.
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

	v1 := r.Group("/api/v1")

	// --- Public routes ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	accountHandler := NewAccountHandler(deps.AccountSvc, deps.InventorySvc, deps.JournalSvc)
	marketHandler := NewMarketplaceHandler(deps.MarketSvc)
	adminHandler := NewAdminHandler(deps.InventorySvc)

	authed := v1.Group("", jwtAuth)
	{
		authed.GET("/accounts/me", rl("read"), accountHandler.Me)
		authed.GET("/accounts/:id/items", rl("read"), accountHandler.OwnerItems)
		authed.POST("/wallet/deposit", rl("wallet_deposit"), accountHandler.Deposit)
		authed.GET("/transactions/history", rl("read"), accountHandler.History)
		authed.GET("/inventory", rl("read"), accountHandler.Inventory)
	}

	market := authed.Group("/marketplace/listings")
	{
		market.GET("", rl("read"), marketHandler.Browse)
		market.GET("/mine", rl("read"), marketHandler.Mine)
		market.POST("", rl("market_write"), marketHandler.Create)
		market.DELETE("/:id", rl("market_write"), marketHandler.Cancel)
		market.POST("/:id/purchase", rl("market_write"), marketHandler.Purchase)
	}

	admin := authed.Group("/admin", middleware.RequireAdmin(), rl("admin"))
	{
		admin.GET("/items", adminHandler.ListItems)
		admin.POST("/items", adminHandler.CreateItem)
		admin.PATCH("/items/:id", adminHandler.EditItem)
		admin.DELETE("/items/:id", adminHandler.DeleteItem)
	}

	return r
}
