package cli

import (
	"context"
	"fmt"

	"invoice-portal/config"
	"invoice-portal/database"
	"invoice-portal/internal/infra/cache"
	"invoice-portal/internal/infra/logging"
	"invoice-portal/internal/store"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// app holds the process-wide handles shared by the commands.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	db       *gorm.DB
	redis    cache.Client
	invoices store.InvoiceRepository
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.Log)

	db, err := database.Open(cfg.DBURL, log)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, db: db}
	a.invoices = store.NewInvoiceStore(db)

	if cfg.Redis.URL != "" {
		rc, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			// The cache is optional; run uncached rather than refuse to start.
			log.Warn().Err(err).Msg("redis unavailable, invoice cache disabled")
		} else {
			a.redis = rc
			a.invoices = cache.NewInvoiceCache(a.invoices, rc, cfg.Redis.TTL)
			log.Info().Dur("ttl", cfg.Redis.TTL).Msg("invoice cache enabled")
		}
	}
	return a, nil
}

func (a *app) Close() error {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	return sqlDB.Close()
}
