package storage

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	apperrors "budgetd/internal/errors"
	"budgetd/internal/models"
	"budgetd/internal/uuid"
)

var (
	transactionsBucketName = []byte("transactions")
	usersBucketName        = []byte("users")
	usersByNameBucketName  = []byte("users_by_username")
	usersByEmailBucketName = []byte("users_by_email")
)

// errNotFound is an internal marker translated to the AppError sentinels at
// the method boundary.
var errNotFound = errors.New("record not found")

// BoltStore implements Store on a single bbolt file. Records are stored as
// JSON values keyed by their UUIDv7 id; bbolt serializes writers, so
// concurrent imports and deletes cannot lose updates the way a whole-file
// read-modify-write JSON store can.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the bbolt file and its buckets.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{
			transactionsBucketName,
			usersBucketName,
			usersByNameBucketName,
			usersByEmailBucketName,
		} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Insert(txn *models.Transaction) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return putTransaction(tx.Bucket(transactionsBucketName), txn)
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return nil
}

// InsertBatch writes every row inside one bolt transaction; a failure rolls
// the whole batch back.
func (s *BoltStore) InsertBatch(txns []models.Transaction) ([]models.Transaction, error) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(transactionsBucketName)
		for i := range txns {
			if err := putTransaction(bucket, &txns[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return txns, nil
}

func (s *BoltStore) ListAll() ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(transactionsBucketName).ForEach(func(k, v []byte) error {
			var txn models.Transaction
			if err := json.Unmarshal(v, &txn); err != nil {
				return err
			}
			txns = append(txns, txn)
			return nil
		})
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	// Date descending; same-date rows in insertion order (created_at).
	sort.SliceStable(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date.Time) {
			return txns[i].Date.After(txns[j].Date.Time)
		}
		return txns[i].CreatedAt.Before(txns[j].CreatedAt)
	})
	return txns, nil
}

func (s *BoltStore) Update(id string, fields TransactionUpdate) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(transactionsBucketName)
		raw := bucket.Get([]byte(id))
		if raw == nil {
			return errNotFound
		}
		if err := json.Unmarshal(raw, &txn); err != nil {
			return err
		}

		applyUpdate(&txn, fields)
		txn.UpdatedAt = time.Now()

		updated, err := json.Marshal(&txn)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(id), updated)
	})
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &txn, nil
}

func (s *BoltStore) Delete(id string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(transactionsBucketName)
		if bucket.Get([]byte(id)) == nil {
			return errNotFound
		}
		return bucket.Delete([]byte(id))
	})
	if err != nil {
		if errors.Is(err, errNotFound) {
			return apperrors.ErrTransactionNotFound
		}
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return nil
}

func (s *BoltStore) CreateUser(u *models.User) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		if u.ID == "" {
			u.ID = uuid.New()
		}
		now := time.Now()
		u.CreatedAt = now
		u.UpdatedAt = now

		raw, err := json.Marshal(u)
		if err != nil {
			return err
		}
		if err := tx.Bucket(usersBucketName).Put([]byte(u.ID), raw); err != nil {
			return err
		}
		if err := tx.Bucket(usersByNameBucketName).Put([]byte(strings.ToLower(u.Username)), []byte(u.ID)); err != nil {
			return err
		}
		return tx.Bucket(usersByEmailBucketName).Put([]byte(strings.ToLower(u.Email)), []byte(u.ID))
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return nil
}

func (s *BoltStore) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket(usersByNameBucketName).Get([]byte(strings.ToLower(username)))
		if id == nil {
			return errNotFound
		}
		raw := tx.Bucket(usersBucketName).Get(id)
		if raw == nil {
			return errNotFound
		}
		return json.Unmarshal(raw, &user)
	})
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &user, nil
}

func (s *BoltStore) UserExists(username, email string) (bool, error) {
	var exists bool
	err := s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(usersByNameBucketName).Get([]byte(strings.ToLower(username))) != nil {
			exists = true
			return nil
		}
		if tx.Bucket(usersByEmailBucketName).Get([]byte(strings.ToLower(email))) != nil {
			exists = true
		}
		return nil
	})
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return exists, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// putTransaction assigns an id and timestamps, then writes the JSON value.
func putTransaction(bucket *bolt.Bucket, txn *models.Transaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New()
	}
	now := time.Now()
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = now
	}
	txn.UpdatedAt = now

	raw, err := json.Marshal(txn)
	if err != nil {
		return err
	}
	return bucket.Put([]byte(txn.ID), raw)
}
