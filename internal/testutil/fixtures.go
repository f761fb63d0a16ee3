package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"budgetd/internal/models"
	"budgetd/internal/storage"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique
// username/email. The plaintext password is "password123".
func CreateTestUser(t *testing.T, store storage.UserStore) *models.User {
	t.Helper()

	n := nextID()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: fmt.Sprintf("user%d", n),
		Email:    fmt.Sprintf("user%d@test.com", n),
		Password: string(hash),
	}
	if err := store.CreateUser(user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTransaction inserts a transaction with the given date and amount.
func CreateTestTransaction(t *testing.T, store storage.TransactionStore, date string, amount float64, category string) *models.Transaction {
	t.Helper()

	parsed, err := models.ParseDate(date)
	if err != nil {
		t.Fatalf("invalid fixture date %q: %v", date, err)
	}

	txn := &models.Transaction{
		Date:     parsed,
		Amount:   amount,
		Category: category,
	}
	if err := store.Insert(txn); err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return txn
}
