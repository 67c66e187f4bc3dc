package database

import (
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"haushaltsbuch/internal/config"
	"haushaltsbuch/internal/logger"
	"haushaltsbuch/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNoDatabase is returned for SQL operations on the file backend.
var ErrNoDatabase = errors.New("store backend has no database")

// Manager opens the configured record store backend
type Manager struct {
	kind    string
	db      *gorm.DB
	url     string
	backend store.Backend
}

// NewManager creates a new database manager for cfg.StoreBackend
func NewManager(cfg *config.Config) (*Manager, error) {
	switch cfg.StoreBackend {
	case config.BackendFile:
		backend, err := store.NewFileBackend(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return &Manager{kind: cfg.StoreBackend, backend: backend}, nil

	case config.BackendSQLite:
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return &Manager{
			kind:    cfg.StoreBackend,
			db:      db,
			url:     "sqlite3://" + cfg.SQLitePath,
			backend: store.NewSQLBackend(db, store.DefaultDocumentName),
		}, nil

	case config.BackendPostgres:
		db, err := gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.PostgresDSN(),
			PreferSimpleProtocol: true,
		}), &gorm.Config{})
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

		return &Manager{
			kind:    cfg.StoreBackend,
			db:      db,
			url:     cfg.PostgresURL(),
			backend: store.NewSQLBackend(db, store.DefaultDocumentName),
		}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// Kind returns the backend name: file, sqlite or postgres.
func (m *Manager) Kind() string {
	return m.kind
}

// Backend returns the record store backend
func (m *Manager) Backend() store.Backend {
	return m.backend
}

// DB returns the underlying GORM database instance, nil for the file backend
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Migrator returns a golang-migrate instance over the embedded migrations.
// The caller must Close it.
func (m *Manager) Migrator() (*migrate.Migrate, error) {
	if m.db == nil {
		return nil, ErrNoDatabase
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to create iofs source: %w", err)
	}

	mig, err := migrate.NewWithSourceInstance("iofs", src, m.url)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return mig, nil
}

// RunMigrations applies pending SQL migrations. It is a no-op for the file
// backend.
func (m *Manager) RunMigrations() error {
	if m.db == nil {
		return nil
	}

	logger.Get().Infow("Running database migrations...", "backend", m.kind)

	mig, err := m.Migrator()
	if err != nil {
		return err
	}
	defer CloseMigrator(mig)

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

// CloseMigrator closes mig and logs close errors.
func CloseMigrator(mig *migrate.Migrate) {
	srcErr, dbErr := mig.Close()
	if srcErr != nil {
		logger.Get().Warnf("migrate source close error: %v", srcErr)
	}
	if dbErr != nil {
		logger.Get().Warnf("migrate database close error: %v", dbErr)
	}
}

// Close releases the database connection.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
