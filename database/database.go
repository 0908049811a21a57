package database

import (
	"fmt"
	"strings"
	"time"

	"invoice-portal/internal/domain/billing"
	"invoice-portal/internal/domain/plans"
	"invoice-portal/internal/domain/subscriptions"
	"invoice-portal/internal/domain/users"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite://"

// Open connects to Postgres, or to SQLite when dsn starts with sqlite://
// (local runs and tests). The caller owns the returned handle.
func Open(dsn string, log zerolog.Logger) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database: empty DSN")
	}

	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, sqlitePrefix) {
		dialector = sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix))
	} else {
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		// Invoices outlive the subscriptions they reference.
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger: gormlogger.New(zerologWriter{log}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the tables for every domain model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&users.User{},
		&plans.Plan{},
		&subscriptions.Subscription{},
		&billing.Invoice{},
	); err != nil {
		return fmt.Errorf("database: automigrate: %w", err)
	}
	return nil
}

type zerologWriter struct{ log zerolog.Logger }

func (w zerologWriter) Printf(format string, args ...interface{}) {
	w.log.Warn().Str("component", "gorm").Msgf(format, args...)
}
