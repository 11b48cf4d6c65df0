package main

import (
	"context"
	"errors"
	"fmt"
	"moodmatch/backend/internal/api"
	"moodmatch/backend/internal/api/handler"
	"moodmatch/backend/internal/auth"
	"moodmatch/backend/internal/chathub"
	"moodmatch/backend/internal/classifier"
	"moodmatch/backend/internal/companion"
	"moodmatch/backend/internal/config"
	"moodmatch/backend/internal/logger"
	"moodmatch/backend/internal/storage"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func setupDependencies(ctx context.Context, cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	// 1. Database (postgres in production, sqlite locally)
	db, err := storage.Open(cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect %s: %w", cfg.DB.Driver, err)
	}
	// 2. Migrations
	if err := storage.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// 3. Redis, optional
	rdb, err := storage.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect redis: %w", err)
	}
	if rdb == nil {
		logger.Get().Warn().Msg("REDIS_ADDR not set, sessions and companion history are kept in memory")
	}

	logger.Get().Info().Str("driver", cfg.DB.Driver).Msg("database ready, migrations complete")
	return db, rdb, nil
}

func setupCompanion(ctx context.Context, cfg config.AIConfig) *companion.Service {
	if !cfg.Enabled() {
		logger.Get().Warn().Msg("AI provider not configured, /ai-chat will answer with an error")
		return nil
	}
	chatModel, err := companion.NewArkModel(ctx, cfg)
	if err != nil {
		logger.Get().Error().Err(err).Msg("failed to create chat model")
		return nil
	}
	svc, err := companion.NewService(ctx, chatModel)
	if err != nil {
		logger.Get().Error().Err(err).Msg("failed to build companion chain")
		return nil
	}
	return svc
}

func main() {
	loaded := config.LoadDotEnv()

	cfg, err := config.Load(config.DefaultConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.App.Env)
	log := logger.Get()
	log.Info().Strs("env_files", loaded).Str("env", cfg.App.Env).Msg("starting MoodMatch backend")

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, rdb, err := setupDependencies(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise dependencies")
	}
	s := storage.NewStorageService(db, rdb)

	matcher := chathub.NewMatcherService(s)
	h := &handler.Handler{
		Storage:      s,
		Matcher:      matcher,
		Ingest:       chathub.NewIngestService(s, matcher),
		Hub:          chathub.NewManagerService(s, matcher),
		Auth:         auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL, storage.NewSessionStore(rdb)),
		Classifier:   classifier.New(cfg.Classifier),
		Companion:    setupCompanion(ctx, cfg.AI),
		Bot:          companion.NewCannedBot(),
		History:      storage.NewHistoryStore(rdb, config.CompanionHistoryLimit, cfg.Auth.TokenTTL),
		CookieName:   cfg.Auth.CookieName,
		SecureCookie: cfg.App.Env == "production",
		Ping:         s.Ping,
	}
	if !cfg.Classifier.Enabled() {
		log.Warn().Msg("CLASSIFIER_URL not set, /detect will report the model as not loaded")
	}

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.App.Port),
		Handler:        api.NewRouter(h, cfg.App.Origins()),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
