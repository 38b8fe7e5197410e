package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	_ "cribhub/docs" // swagger docs

	"cribhub/internal/auth"
	"cribhub/internal/cache"
	"cribhub/internal/config"
	"cribhub/internal/db"
	"cribhub/internal/handler"
	"cribhub/internal/logger"
	"cribhub/internal/router"
	"cribhub/internal/service"
	"cribhub/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Crib Hub API
// @version 1.0
// @description Group spaces with invite keys, membership and message logs.
// @host localhost:3000
// @BasePath /
// @schemes http
func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogFile,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	})
	if err != nil {
		stdlog.Fatalf("logger init: %v", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal("store init", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	if cfg.ResetDB {
		log.Warn("RESET_DB=true, existing data was dropped")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.UserCacheTTL)
	if err := cacheClient.Ping(ctx); err != nil {
		log.Warn("redis unreachable, user profiles will not be cached", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	var avatars service.AvatarPublisher
	provider, err := storage.New(ctx, storage.Options{
		Driver:        cfg.StorageDriver,
		Endpoint:      cfg.StorageEndpoint,
		Region:        cfg.StorageRegion,
		AccessKey:     cfg.StorageAccessKey,
		SecretKey:     cfg.StorageSecretKey,
		UseSSL:        cfg.StorageUseSSL,
		Bucket:        cfg.StorageBucket,
		PublicBaseURL: cfg.StoragePublicBaseURL,
		PublicPrefix:  cfg.AvatarPrefix,
	})
	if err != nil {
		log.Error("object storage unavailable, profile picture uploads will fail", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	} else {
		avatars = storage.NewAvatarPublisher(provider, cfg.AvatarPrefix)
	}

	// Initialize services
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	userService := service.NewUserService(store.Users, hasher, avatars, cacheClient, cfg.DefaultAvatarLink, log)
	cribService := service.NewCribService(store.Cribs, service.NewEnricher(store.Users), log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler()
	userHandler := handler.NewUserHandler(userService, log)
	cribHandler := handler.NewCribHandler(cribService, log)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, log, healthHandler, userHandler, cribHandler)

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info("server listening", zap.String("addr", addr), zap.String("store", cfg.StoreDriver))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Error("store close", zap.Error(err))
	}
	if err := cacheClient.Close(); err != nil {
		log.Error("cache close", zap.Error(err))
	}
}
