package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"collectible-sale-gateway/config"
	"collectible-sale-gateway/internal/adapter/gateway"
	httpHandler "collectible-sale-gateway/internal/adapter/http/handler"
	pgStorage "collectible-sale-gateway/internal/adapter/storage/postgres"
	redisStorage "collectible-sale-gateway/internal/adapter/storage/redis"
	"collectible-sale-gateway/internal/core/domain"
	"collectible-sale-gateway/internal/core/ports"
	"collectible-sale-gateway/internal/service"
	"collectible-sale-gateway/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Collectible Sale Gateway")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	saleRepo := pgStorage.NewSaleRepo(pool)
	allowanceRepo := pgStorage.NewAllowanceRepo(pool)
	itemRepo := pgStorage.NewItemRepo(pool)
	vaultRepo := pgStorage.NewVaultRepo(pool)
	pendingRepo := pgStorage.NewPendingOpRepo(pool)
	accountRepo := pgStorage.NewAccountRepo(pool)
	adminRepo := pgStorage.NewAdminRepo(pool)
	eventRepo := pgStorage.NewEventRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	nonceStore := redisStorage.NewNonceStore(rdb)
	receiptCache := redisStorage.NewReceiptCache(rdb)

	// Seed the sale configuration on first boot. The database row is
	// authoritative afterwards; changes go through the admin endpoints.
	seed, err := saleFromConfig(cfg.Sale)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid seed sale configuration")
	}
	if err := saleRepo.Bootstrap(ctx, seed); err != nil {
		log.Fatal().Err(err).Msg("Failed to bootstrap sale configuration")
	}

	// Initialize external gateways
	httpClient := &http.Client{Timeout: cfg.Gateway.RequestTimeout}
	assetGateway := gateway.NewAssetGateway(cfg.Gateway, httpClient, log)
	listingRegistry := gateway.NewListingRegistry(cfg.Gateway, httpClient, log)

	// Initialize core services
	sigSvc := service.NewHMACSignatureService()
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize business services
	authSvc := service.NewAuthService(accountRepo, hashSvc, tokenSvc)
	vaultSvc := service.NewVaultService(vaultRepo, eventRepo, assetGateway, transactor, cfg.Vault, log)
	mintSvc := service.NewMintService(
		saleRepo,
		allowanceRepo,
		itemRepo,
		pendingRepo,
		eventRepo,
		vaultSvc,
		assetGateway,
		listingRegistry,
		receiptCache,
		transactor,
		cfg.Owner,
		cfg.Vault,
		log,
	)
	viewSvc := service.NewViewService(saleRepo, allowanceRepo, itemRepo, cfg.Owner)
	adminSvc := service.NewAdminService(saleRepo, allowanceRepo, adminRepo, transactor, cfg.Owner, log)

	// Initialize rate limit store
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		MintSvc:        mintSvc,
		VaultSvc:       vaultSvc,
		ViewSvc:        viewSvc,
		AdminSvc:       adminSvc,
		TokenSvc:       tokenSvc,
		SigSvc:         sigSvc,
		NonceStore:     nonceStore,
		NotifySecret:   cfg.Notify.Secret,
		ItemRepo:       itemRepo,
		EventRepo:      eventRepo,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// saleFromConfig translates the seed configuration into the domain shape:
// empty strings and zero values become unset pointers.
func saleFromConfig(cfg config.SaleConfig) (*domain.Sale, error) {
	sale := &domain.Sale{
		Price:     cfg.Price,
		UpdatedAt: time.Now(),
	}

	parse := func(raw, name string) (*time.Time, error) {
		if raw == "" {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		return &t, nil
	}

	var err error
	if sale.PresaleStart, err = parse(cfg.PresaleStart, "presale_start"); err != nil {
		return nil, err
	}
	if sale.PublicStart, err = parse(cfg.PublicStart, "public_start"); err != nil {
		return nil, err
	}

	if cfg.PresalePrice > 0 {
		p := cfg.PresalePrice
		sale.PresalePrice = &p
	}
	if cfg.Allowance > 0 {
		a := cfg.Allowance
		sale.Allowance = &a
	}
	if cfg.MintRateLimit > 0 {
		r := cfg.MintRateLimit
		sale.MintRateLimit = &r
	}
	if cfg.MaxSupply > 0 {
		m := cfg.MaxSupply
		sale.MaxSupply = &m
	}
	if cfg.RoyaltyAccount != "" {
		acc := cfg.RoyaltyAccount
		bps := cfg.RoyaltyBps
		sale.RoyaltyAccount = &acc
		sale.RoyaltyBps = &bps
	}

	if err := sale.Validate(); err != nil {
		return nil, err
	}
	return sale, nil
}
