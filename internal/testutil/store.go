// Package testutil provides test helpers for setting up throwaway stores,
// creating fixtures, and making assertions.
package testutil

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"budgetd/internal/models"
	"budgetd/internal/storage"
)

// SetupGormStore creates a storage adapter over an in-memory SQLite database
// with all models migrated.
func SetupGormStore(t *testing.T) *storage.GormStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Transaction{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	store := storage.NewGormStoreFromDB(db)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})
	return store
}

// SetupBoltStore creates a storage adapter over a bbolt file in a temp dir.
func SetupBoltStore(t *testing.T) *storage.BoltStore {
	t.Helper()

	store, err := storage.NewBoltStore(filepath.Join(t.TempDir(), "test.bolt"))
	if err != nil {
		t.Fatalf("failed to open test bolt store: %v", err)
	}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close test bolt store: %v", err)
		}
	})
	return store
}
