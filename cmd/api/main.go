// @title Gift Registry API
// @version 1.0
// @description Contribution accounting and settlement for gift registry events.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
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

	"github.com/prometheus/client_golang/prometheus"

	"giftregistry/config"
	_ "giftregistry/docs"
	"giftregistry/internal/adapters/auth"
	"giftregistry/internal/app"
	deliveryhttp "giftregistry/internal/delivery/http"
	"giftregistry/internal/delivery/http/controllers"
	"giftregistry/internal/delivery/http/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Error("wire application", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close resources", "err", err)
		}
	}()

	router := deliveryhttp.NewRouter(deliveryhttp.RouterDeps{
		Logger:          logger,
		Articles:        controllers.NewArticleController(logger, a.Marks),
		Settlements:     controllers.NewSettlementController(logger, a.Settlements),
		TokenVerifier:   auth.NewJWTVerifier(cfg.JWTSecret),
		SettlementKey:   cfg.SettlementAPIKey,
		MetricsGatherer: prometheus.DefaultGatherer,
	})
	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, router))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	logger.Info("server stopped")
}
