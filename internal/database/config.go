package database

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Driver names accepted in STORAGE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverBolt     = "bolt"
)

// Config holds storage configuration. Driver selects the backend: a
// relational store (postgres/sqlite via GORM) or the embedded bbolt file.
type Config struct {
	Driver string

	// Relational settings
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	// File paths for the embedded backends
	SQLitePath string
	BoltPath   string
}

// NewConfig creates a new storage configuration from the environment.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// It's okay if .env doesn't exist, we'll use defaults or environment variables
		fmt.Println("Warning: .env file not found")
	}

	cfg := &Config{
		Driver:     getEnv("STORAGE_DRIVER", DriverPostgres),
		Host:       getEnv("DB_HOST", "localhost"),
		Port:       getEnv("DB_PORT", "5432"),
		User:       getEnv("DB_USER", "budgetd"),
		Password:   getEnv("DB_PASSWORD", "budgetd"),
		DBName:     getEnv("DB_NAME", "budget_tracker"),
		SSLMode:    getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "budgetd.db"),
		BoltPath:   getEnv("BOLT_PATH", "budgetd.bolt"),
	}

	switch cfg.Driver {
	case DriverPostgres, DriverSQLite, DriverBolt:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q (use postgres, sqlite, or bolt)", cfg.Driver)
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL returns the postgres:// URL used by golang-migrate.
func (c *Config) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
