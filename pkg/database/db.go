package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Options describe the Postgres connection. Empty fields fall back to
// the usual local defaults.
type Options struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Connect opens a Postgres-backed gorm handle. The handle is returned to
// the caller and injected everywhere; there is no package-level instance,
// so tests can run against their own databases.
func Connect(opts Options) (*gorm.DB, error) {
	if opts.Host == "" {
		opts.Host = "localhost"
	}
	if opts.Port == "" {
		opts.Port = "5432"
	}
	if opts.User == "" {
		opts.User = "postgres"
	}
	if opts.SSLMode == "" {
		opts.SSLMode = "disable"
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		opts.Host, opts.User, opts.Password, opts.Name, opts.Port, opts.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return db, nil
}
