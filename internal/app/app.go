// Package app wires configuration, stores and adapters into the services used by
// the API server and the settlement CLI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"giftregistry/config"
	"giftregistry/internal/adapters/payments"
	"giftregistry/internal/adapters/redislock"
	"giftregistry/internal/domain"
	"giftregistry/internal/observability"
	"giftregistry/internal/repository/postgres"
	"giftregistry/internal/services"
)

// App holds the wired services and the resources that must be closed on shutdown.
type App struct {
	DB          *sql.DB
	Redis       *goredis.Client
	Marks       domain.MarkService
	Settlements domain.SettlementService
}

// New opens the database (and Redis when configured) and builds the services.
// Settlement metrics are registered on reg.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*App, error) {
	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	a := &App{DB: db}
	var locker domain.RunLocker
	if cfg.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr, DialTimeout: 5 * time.Second})
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			_ = db.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		a.Redis = rdb
		locker = redislock.NewLocker(rdb)
	} else {
		logger.Warn("REDIS_ADDR not set, settlement runs are not locked across processes")
	}

	eventRepo := postgres.NewEventRepository(db)
	processor := payments.NewHTTPProcessor(payments.Config{
		BaseURL: cfg.PaymentsBaseURL,
		APIKey:  cfg.PaymentsAPIKey,
		Timeout: cfg.PaymentsTimeout,
	}, nil)

	a.Marks = services.NewMarkService(
		eventRepo,
		postgres.NewEventInvitationRepository(db),
		postgres.NewArticleRepository(db),
		postgres.NewLedgerRepository(db),
		cfg.ContextTimeout,
	)
	a.Settlements = services.NewSettlementService(
		eventRepo,
		postgres.NewSettlementRepository(db),
		processor,
		locker,
		cfg.SettlementLockTTL,
		observability.NewSettlementMetrics(reg),
		logger.With("component", "settlement"),
	)
	return a, nil
}

// Close releases the database and Redis connections.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	errs = append(errs, a.DB.Close())
	return errors.Join(errs...)
}
