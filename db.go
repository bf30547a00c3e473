package main

import (
	"fmt"
	"log/slog"

	"budgettracker/pkg/database"

	"gorm.io/gorm"
)

// initDB opens the configured database and, unless DB_AUTO_MIGRATE is off,
// migrates the schema. A failed migration is logged and startup continues so
// a read-only role can still serve traffic against an existing schema.
func initDB(cfg Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := database.Open(database.Options{Driver: cfg.DBDriver, DSN: cfg.DBDSN})
	if err != nil {
		return nil, fmt.Errorf("failed to connect %s database: %w", cfg.DBDriver, err)
	}
	if cfg.DBAutoMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Warn("migration warning", "error", err)
		}
	}
	return db, nil
}
