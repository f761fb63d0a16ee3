package database

import (
	"fmt"
	"time"

	"budgetd/internal/logger"
	"budgetd/internal/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Manager handles relational database operations
type Manager struct {
	db  *gorm.DB
	cfg *Config
}

// NewManager opens a GORM connection for the configured relational driver.
func NewManager(cfg *Config) (*Manager, error) {
	var db *gorm.DB
	var err error

	switch cfg.Driver {
	case DriverPostgres:
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true, // Required for pooled connections like Supavisor; harmless otherwise
		}), &gorm.Config{})
	case DriverSQLite:
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
	default:
		return nil, fmt.Errorf("driver %q is not relational", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Manager{db: db, cfg: cfg}, nil
}

// Migrate brings the schema up to date. Postgres uses the SQL migrations in
// migrations/ via golang-migrate; SQLite (dev and tests) auto-migrates the
// GORM models since golang-migrate has no driver for the cgo-free sqlite.
func (m *Manager) Migrate() error {
	if m.cfg.Driver == DriverSQLite {
		return m.db.AutoMigrate(&models.User{}, &models.Transaction{})
	}

	logger.Get().Info("Running database migrations...")

	mig, err := migrate.New("file://migrations", m.cfg.URL())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close closes the underlying connection pool.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
