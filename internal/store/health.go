package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Health probes the database behind the stores.
type Health struct {
	db *gorm.DB
}

func NewHealth(db *gorm.DB) *Health {
	return &Health{db: db}
}

func (h *Health) Ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}

// Dialect reports the active gorm dialect ("postgres", "sqlite").
func (h *Health) Dialect() string {
	return h.db.Dialector.Name()
}
