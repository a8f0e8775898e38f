package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ibpipeline/pipeline-api/internal/api"
	"github.com/ibpipeline/pipeline-api/internal/core/domain"
	"github.com/ibpipeline/pipeline-api/internal/core/service"
	"github.com/ibpipeline/pipeline-api/internal/infrastructure/config"
	"github.com/ibpipeline/pipeline-api/internal/infrastructure/crypto"
	mongodb "github.com/ibpipeline/pipeline-api/internal/infrastructure/db/mongo"
	redisdb "github.com/ibpipeline/pipeline-api/internal/infrastructure/db/redis"
	"github.com/ibpipeline/pipeline-api/internal/infrastructure/queue"
	"github.com/ibpipeline/pipeline-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() { _ = rdb.Close() }()

	userRepo := mongodb.NewUserRepository(db)
	dealRepo := mongodb.NewDealRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}
	if err := dealRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create deal indexes")
	}

	// --- Core services ---
	codec, err := service.NewTokenCodec(cfg.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("token codec misconfigured")
	}
	hasher := crypto.NewBcryptHasher()

	bus := redisdb.NewStreamBus(rdb)
	publisher := queue.NewPublisher(cfg.Audit.Workers, cfg.Audit.SendTimeout, bus, log)
	publisher.Start(ctx)

	authService := service.NewAuthService(userRepo, hasher, codec, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, log)
	dealService := service.NewDealService(dealRepo, publisher, log)
	userService := service.NewUserService(userRepo, hasher, log)

	if err := seedAdmin(ctx, userService, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin user")
	}

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		Codec:       codec,
		AuthService: authService,
		DealService: dealService,
		UserService: userService,
		Mongo:       db,
		Redis:       rdb,
		Logger:      log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// seedAdmin creates the default admin account when no user with the
// configured username exists yet.
func seedAdmin(ctx context.Context, users *service.UserService, cfg *config.Config) error {
	log := logger.Get()

	_, err := users.GetByUsername(ctx, cfg.Seed.AdminUsername)
	if err == nil {
		log.Info().Msg("admin user already exists, skipping initialization")
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	if _, err := users.CreateUser(ctx, cfg.Seed.AdminUsername, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, domain.RoleAdmin); err != nil {
		return err
	}
	log.Info().Str("username", cfg.Seed.AdminUsername).Msg("default admin user created")
	return nil
}
