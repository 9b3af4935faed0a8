package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/backend/internal/config"
	"storefront/backend/internal/httpserver"
	"storefront/backend/internal/infrastructure/cloudinary"
	"storefront/backend/internal/infrastructure/mongodb"
	"storefront/backend/internal/infrastructure/token"
	"storefront/backend/internal/logging"
	authusecase "storefront/backend/internal/usecase/auth"
	bannerusecase "storefront/backend/internal/usecase/banner"
	categoryusecase "storefront/backend/internal/usecase/category"
	productusecase "storefront/backend/internal/usecase/product"
	uploadusecase "storefront/backend/internal/usecase/upload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logging.Setup(logging.Options{
		Service: "storefront-backend",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	rootCtx := context.Background()
	connectCtx, cancelConnect := context.WithTimeout(rootCtx, 15*time.Second)
	db, err := mongodb.New(connectCtx, cfg.MongoURL, cfg.MongoDatabase)
	cancelConnect()
	if err != nil {
		slog.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer db.Close(rootCtx)

	if err := db.EnsureIndexes(rootCtx); err != nil {
		slog.Error("failed to create database indexes", "err", err)
		os.Exit(1)
	}

	assets := cloudinary.New(cloudinary.Config{
		CloudName: cfg.CloudName,
		APIKey:    cfg.CloudAPIKey,
		APISecret: cfg.CloudAPISecret,
		Folder:    cfg.UploadFolder,
		Timeout:   cfg.AssetTimeout,
	})

	tokenManager := token.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry, cfg.JWTIssuer)

	services := httpserver.Services{
		Auth:     authusecase.NewService(mongodb.NewUserRepository(db), tokenManager),
		Product:  productusecase.NewService(mongodb.NewProductRepository(db), assets),
		Category: categoryusecase.NewService(mongodb.NewCategoryRepository(db)),
		Banner:   bannerusecase.NewService(mongodb.NewBannerRepository(db), assets),
		Upload:   uploadusecase.NewService(assets),
	}

	server := httpserver.NewServer(cfg, services)
	slog.Info("HTTP server listening", "addr", server.Addr())

	go func() {
		if err := server.Start(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				slog.Info("HTTP server closed")
				return
			}
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown failed", "err", err)
	} else {
		slog.Info("graceful shutdown completed")
	}
}
