package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skin-marketplace/config"
	kafkaEvents "skin-marketplace/internal/adapter/events/kafka"
	httpHandler "skin-marketplace/internal/adapter/http/handler"
	pgStorage "skin-marketplace/internal/adapter/storage/postgres"
	redisStorage "skin-marketplace/internal/adapter/storage/redis"
	"skin-marketplace/internal/core/ports"
	"skin-marketplace/internal/service"
	"skin-marketplace/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfgPath := os.Getenv("SKM_CONFIG")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting skin marketplace")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("jwt.secret must be set (SKM_JWT_SECRET)")
	}

	ctx := context.Background()

	// PostgreSQL
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	if cfg.Database.ApplySchema {
		if err := pgStorage.ApplySchema(ctx, pool, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply schema")
		}
	}

	healthCheckers := []ports.HealthChecker{pgStorage.NewHealthCheck(pool)}

	// Redis is optional: without it rate limiting and the item lock are disabled.
	var (
		rateLimitStore *redisStorage.RateLimitStore
		itemLocker     ports.ItemLocker
	)
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")

		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		itemLocker = redisStorage.NewItemLocker(rdb, cfg.Marketplace.LockExpiry, logger.Component(log, "item_locker"))
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	} else {
		log.Warn().Msg("Redis disabled: rate limiting and item locks are off")
	}

	// Kafka is optional: without brokers, committed events are not published.
	var publisher ports.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kp := kafkaEvents.NewPublisher(cfg.Kafka)
		defer func() {
			if err := kp.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close Kafka publisher")
			}
		}()
		publisher = kafkaEvents.NewBreakerPublisher(kp, kafkaEvents.DefaultBreakerSettings(), logger.Component(log, "events"))
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("Kafka publisher ready")
	}

	// Repositories
	accountRepo := pgStorage.NewAccountRepo(pool)
	itemRepo := pgStorage.NewItemRepo(pool)
	listingRepo := pgStorage.NewListingRepo(pool)
	ledgerRepo := pgStorage.NewLedgerRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool, logger.Component(log, "transactor"))

	// Core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	journal := service.NewJournal(ledgerRepo)
	accounts := service.NewAccountManager(accountRepo, journal, transactor, publisher, cfg.Marketplace.MaxDeposit, logger.Component(log, "accounts"))
	inventory := service.NewInventoryManager(itemRepo, listingRepo, accountRepo, transactor, logger.Component(log, "inventory"))
	market := service.NewMarketplaceEngine(accounts, inventory, journal, listingRepo, transactor, itemLocker, publisher, logger.Component(log, "marketplace"))
	authSvc := service.NewAuthService(accounts, accountRepo, hashSvc, tokenSvc)
	auditSvc := service.NewAuditService(auditRepo, logger.Component(log, "audit"))

	if err := bootstrapAdmin(ctx, cfg.Admin, accounts, hashSvc, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to bootstrap admin account")
	}

	gin.SetMode(cfg.Server.Mode)

	routerDeps := httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		AccountSvc:     accounts,
		InventorySvc:   inventory,
		MarketSvc:      market,
		JournalSvc:     journal,
		TokenSvc:       tokenSvc,
		HealthCheckers: healthCheckers,
		AuditSvc:       auditSvc,
		Logger:         log,
	}
	if rateLimitStore != nil {
		routerDeps.RateLimitStore = rateLimitStore
	}
	router := httpHandler.SetupRouter(routerDeps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
	}

	log.Info().Msg("Server exited")
}

// bootstrapAdmin creates the configured administrator on first start.
func bootstrapAdmin(ctx context.Context, cfg config.AdminConfig, accounts ports.AccountService, hashSvc ports.HashService, log zerolog.Logger) error {
	if cfg.Email == "" {
		return nil
	}
	if cfg.Password == "" {
		return fmt.Errorf("admin.password must be set when admin.email is")
	}

	hash, err := hashSvc.Hash(cfg.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin, err := accounts.EnsureAdmin(ctx, cfg.Name, service.NormalizeEmail(cfg.Email), hash)
	if err != nil {
		return err
	}
	log.Info().Str("account_id", admin.ID.String()).Msg("Admin account ready")
	return nil
}
