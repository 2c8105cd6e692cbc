package handler

import (
	"collectible-sale-gateway/internal/adapter/http/middleware"
	redisStore "collectible-sale-gateway/internal/adapter/storage/redis"
	"collectible-sale-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	MintSvc        ports.MintService
	VaultSvc       ports.VaultService
	ViewSvc        ports.ViewService
	AdminSvc       ports.AdminService
	TokenSvc       ports.TokenService
	SigSvc         ports.SignatureService
	NonceStore     ports.NonceStore
	NotifySecret   string // shared secret for transfer notification HMAC
	ItemRepo       ports.ItemRepository
	EventRepo      ports.EventRepository
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

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	saleHandler := NewSaleHandler(deps.ViewSvc, deps.ItemRepo, deps.EventRepo)
	sale := v1.Group("/sale")
	{
		sale.GET("/status", rl("views"), saleHandler.Status)
		sale.GET("/cost", rl("views"), saleHandler.Cost)
		sale.GET("/allowance/:account", rl("views"), saleHandler.Allowance)
	}
	v1.GET("/events", rl("views"), saleHandler.ListEvents)

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	mintHandler := NewMintHandler(deps.MintSvc)
	vaultHandler := NewVaultHandler(deps.VaultSvc)

	v1.POST("/mint", jwtAuth, rl("mint"), mintHandler.Mint)

	items := v1.Group("/items")
	{
		items.GET("", rl("views"), saleHandler.ListItems)
		items.GET("/:id", rl("views"), saleHandler.GetItem)
		items.DELETE("/:id", jwtAuth, rl("mint"), mintHandler.Burn)
		items.POST("/:id/approve", jwtAuth, rl("mint"), mintHandler.ApproveListing)
	}

	// --- Vault routes ---
	notifyAuth := middleware.NotifyAuth(deps.NotifySecret, deps.SigSvc, deps.NonceStore, deps.Logger)
	vaults := v1.Group("/vaults")
	{
		vaults.GET("/:id", rl("views"), vaultHandler.Info)
		vaults.POST("/:id/deposit", jwtAuth, rl("vault"), vaultHandler.DepositBase)
		vaults.POST("/:id/transfers", notifyAuth, rl("notify"), vaultHandler.OnAssetTransfer)
		vaults.POST("/:id/release", jwtAuth, rl("vault"), vaultHandler.Release)
	}

	// --- Administration (JWT-authenticated; capability check in the service) ---
	adminHandler := NewAdminHandler(deps.AdminSvc)
	admin := v1.Group("/admin", jwtAuth)
	{
		admin.PUT("/sale", rl("admin"), adminHandler.UpdateSale)
		admin.POST("/whitelist", rl("admin"), adminHandler.AddWhitelist)
		admin.POST("/admins", rl("admin"), adminHandler.AddAdmin)
		admin.DELETE("/admins/:account", rl("admin"), adminHandler.RemoveAdmin)
		admin.GET("/admins", rl("admin"), adminHandler.ListAdmins)
	}

	return r
}
