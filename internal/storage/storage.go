// Package storage defines the storage adapter behind which the relational
// and file-backed backends sit. Services depend only on the Store interface;
// nothing above this package branches on which backend is active.
package storage

import (
	"fmt"

	"budgetd/internal/database"
	"budgetd/internal/models"
)

// TransactionUpdate carries partial update fields. Nil pointers mean
// "keep the existing value", mirroring SQL COALESCE semantics.
type TransactionUpdate struct {
	Date        *models.Date
	Amount      *float64
	Category    *string
	Description *string
}

// TransactionStore is the capability set the transaction service needs.
type TransactionStore interface {
	// Insert stores a transaction, assigning its id.
	Insert(tx *models.Transaction) error
	// InsertBatch stores all transactions or none of them.
	InsertBatch(txs []models.Transaction) ([]models.Transaction, error)
	// ListAll returns every transaction ordered by date descending,
	// ties in insertion order.
	ListAll() ([]models.Transaction, error)
	// Update applies the non-nil fields and returns the updated row,
	// or ErrTransactionNotFound.
	Update(id string, fields TransactionUpdate) (*models.Transaction, error)
	// Delete removes the transaction or returns ErrTransactionNotFound.
	Delete(id string) error
}

// UserStore is the capability set the user service needs.
type UserStore interface {
	CreateUser(u *models.User) error
	GetUserByUsername(username string) (*models.User, error)
	// UserExists reports whether the username or email is already taken.
	UserExists(username, email string) (bool, error)
}

// Store combines both capability sets behind one handle.
type Store interface {
	TransactionStore
	UserStore
	Close() error
}

// Open constructs the store selected by cfg.Driver. The returned handle is
// passed down explicitly; there is no package-level singleton.
func Open(cfg *database.Config) (Store, error) {
	switch cfg.Driver {
	case database.DriverPostgres, database.DriverSQLite:
		manager, err := database.NewManager(cfg)
		if err != nil {
			return nil, err
		}
		if err := manager.Migrate(); err != nil {
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		return NewGormStore(manager), nil
	case database.DriverBolt:
		return NewBoltStore(cfg.BoltPath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
