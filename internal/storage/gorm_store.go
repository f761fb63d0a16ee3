package storage

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"budgetd/internal/database"
	apperrors "budgetd/internal/errors"
	"budgetd/internal/models"
)

// GormStore implements Store on top of a relational database (PostgreSQL or
// SQLite) through GORM.
type GormStore struct {
	db      *gorm.DB
	manager *database.Manager
}

// NewGormStore wraps an opened database manager.
func NewGormStore(manager *database.Manager) *GormStore {
	return &GormStore{db: manager.DB(), manager: manager}
}

// NewGormStoreFromDB wraps a raw GORM handle. Used by tests.
func NewGormStoreFromDB(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Insert(tx *models.Transaction) error {
	if err := s.db.Create(tx).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return nil
}

// InsertBatch stores the whole batch inside a single database transaction,
// so a mid-batch failure commits nothing.
func (s *GormStore) InsertBatch(txs []models.Transaction) ([]models.Transaction, error) {
	err := s.db.Transaction(func(dbtx *gorm.DB) error {
		for i := range txs {
			if err := dbtx.Create(&txs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return txs, nil
}

// ListAll orders by date descending; same-date rows keep insertion order
// via the created_at tie-break.
func (s *GormStore) ListAll() ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := s.db.Order("date DESC, created_at ASC").Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return txs, nil
}

func (s *GormStore) Update(id string, fields TransactionUpdate) (*models.Transaction, error) {
	var tx models.Transaction
	err := s.db.Transaction(func(dbtx *gorm.DB) error {
		if err := dbtx.First(&tx, "id = ?", id).Error; err != nil {
			return err
		}
		applyUpdate(&tx, fields)
		return dbtx.Save(&tx).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &tx, nil
}

func (s *GormStore) Delete(id string) error {
	result := s.db.Delete(&models.Transaction{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrStorage, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

func (s *GormStore) CreateUser(u *models.User) error {
	if err := s.db.Create(u).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return nil
}

func (s *GormStore) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "username = ?", strings.ToLower(username)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &user, nil
}

func (s *GormStore) UserExists(username, email string) (bool, error) {
	var count int64
	err := s.db.Model(&models.User{}).
		Where("username = ? OR email = ?", strings.ToLower(username), strings.ToLower(email)).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return count > 0, nil
}

func (s *GormStore) Close() error {
	if s.manager != nil {
		return s.manager.Close()
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// applyUpdate copies the non-nil fields onto the transaction, preserving
// existing values for omitted fields.
func applyUpdate(tx *models.Transaction, fields TransactionUpdate) {
	if fields.Date != nil {
		tx.Date = *fields.Date
	}
	if fields.Amount != nil {
		tx.Amount = *fields.Amount
	}
	if fields.Category != nil {
		tx.Category = *fields.Category
	}
	if fields.Description != nil {
		tx.Description = *fields.Description
	}
}
