// Package testutil provides test helpers for setting up throwaway dataset
// stores, creating fixtures, and making assertions.
package testutil

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"haushaltsbuch/internal/models"
	"haushaltsbuch/internal/store"
)

// SetupTestRepository creates a repository over a JSON file in a temporary
// directory. The file does not exist until the first access.
func SetupTestRepository(t *testing.T) *store.Repository {
	t.Helper()

	backend, err := store.NewFileBackend(filepath.Join(t.TempDir(), "db.json"))
	if err != nil {
		t.Fatalf("failed to create file backend: %v", err)
	}
	return store.NewRepository(backend)
}

// SetupTestSQLRepository creates a repository over a SQLite database file in
// a temporary directory with the documents table migrated.
func SetupTestSQLRepository(t *testing.T) (*store.Repository, *gorm.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Document{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return store.NewRepository(store.NewSQLBackend(db, store.DefaultDocumentName)), db
}

// TeardownTestDB closes the underlying database connection.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}
