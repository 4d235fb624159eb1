package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/observability"
	"storefront/internal/repository"
)

func main() {
	config.Load()
	cfg := config.AppEnv
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(logger)

	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := database.Connect(ctx, cfg.MongoURI, 10*time.Second)
	if err != nil {
		logger.Fatal("mongo connect failed", zap.Error(err))
	}
	defer func() {
		disconnectCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = client.Disconnect(disconnectCtx)
	}()

	db := client.Database(cfg.DBName)
	logger.Info("mongo connected", zap.String("db", db.Name()))

	if err := database.EnsureUserIndexes(ctx, db); err != nil {
		logger.Fatal("user indexes", zap.Error(err))
	}
	if err := database.EnsureProductIndexes(ctx, db); err != nil {
		logger.Warn("product index warning", zap.Error(err))
	}
	if err := database.EnsureOrderIndexes(ctx, db); err != nil {
		logger.Warn("order index warning", zap.Error(err))
	}

	accounts := repository.NewAccountStore(db, cfg.DBTimeout)
	catalog := repository.NewCatalogStore(db, cfg.DBTimeout)
	orders := repository.NewOrderStore(db, cfg.DBTimeout)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	authService := auth.NewService(accounts, tokens, cfg.BcryptCost)

	router := handlers.NewRouter(handlers.Deps{
		Auth:    authService,
		Tokens:  tokens,
		Catalog: catalog,
		Orders:  orders,
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
		Metrics:        observability.NewMetrics(),
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
