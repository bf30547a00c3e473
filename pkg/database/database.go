// Package database opens the gorm connection and owns the schema.
package database

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"budgettracker/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options selects the backing store. Postgres is the production target;
// SQLite (pure Go) serves local development and tests.
type Options struct {
	Driver   string
	DSN      string
	LogLevel logger.LogLevel
}

// OptionsFromEnv reads DB_DRIVER and DB_DSN for the operator tools, which
// load .env themselves before calling it.
func OptionsFromEnv() (Options, error) {
	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		return Options{}, errors.New("DB_DSN not set in environment")
	}
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = DriverPostgres
	}
	return Options{Driver: driver, DSN: dsn}, nil
}

// Open connects to the configured database and verifies the connection.
func Open(opts Options) (*gorm.DB, error) {
	if strings.TrimSpace(opts.DSN) == "" {
		return nil, errors.New("database DSN is empty")
	}
	var dialector gorm.Dialector
	switch strings.ToLower(opts.Driver) {
	case "", DriverPostgres, "postgresql":
		dialector = postgres.Open(opts.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(opts.DSN))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
	level := opts.LogLevel
	if level == 0 {
		level = logger.Warn
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", opts.Driver, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// sqliteDSN turns on foreign keys for every pooled connection so that
// deleting a user cascades to their budgets as it does on Postgres.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// Migrate creates or updates the tables. Users go first so the budgets
// foreign key can be applied.
func Migrate(db *gorm.DB) error {
	for _, m := range []any{&models.User{}, &models.Budget{}, &models.TokenBlacklist{}} {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsUniqueViolation reports whether err comes from a unique index, either as
// gorm's translated error or as the raw driver message.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint")
}
