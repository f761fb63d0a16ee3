package storage_test

import (
	"testing"

	"budgetd/internal/models"
	"budgetd/internal/storage"
	"budgetd/internal/testutil"
)

// Both backends must satisfy the same adapter contract, so every case runs
// against each.
func forEachBackend(t *testing.T, fn func(t *testing.T, store storage.Store)) {
	t.Run("gorm", func(t *testing.T) {
		fn(t, testutil.SetupGormStore(t))
	})
	t.Run("bolt", func(t *testing.T) {
		fn(t, testutil.SetupBoltStore(t))
	})
}

func TestInsertAndListRoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store storage.Store) {
		created := testutil.CreateTestTransaction(t, store, "2024-01-05", 1500, "salary")
		if created.ID == "" {
			t.Fatal("expected storage to assign an id")
		}

		txns, err := store.ListAll()
		testutil.AssertNoError(t, err)

		if len(txns) != 1 {
			t.Fatalf("expected exactly 1 transaction, got %d", len(txns))
		}
		got := txns[0]
		if got.ID != created.ID {
			t.Errorf("id not preserved: %q vs %q", got.ID, created.ID)
		}
		if got.Date.String() != "2024-01-05" || got.Amount != 1500 || got.Category != "salary" {
			t.Errorf("fields not preserved: %+v", got)
		}
	})
}

func TestListOrdering(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store storage.Store) {
		oldest := testutil.CreateTestTransaction(t, store, "2024-01-01", 1, "")
		tieFirst := testutil.CreateTestTransaction(t, store, "2024-02-01", 2, "")
		tieSecond := testutil.CreateTestTransaction(t, store, "2024-02-01", 3, "")
		newest := testutil.CreateTestTransaction(t, store, "2024-03-01", 4, "")

		txns, err := store.ListAll()
		testutil.AssertNoError(t, err)

		wantOrder := []string{newest.ID, tieFirst.ID, tieSecond.ID, oldest.ID}
		if len(txns) != len(wantOrder) {
			t.Fatalf("expected %d transactions, got %d", len(wantOrder), len(txns))
		}
		for i, want := range wantOrder {
			if txns[i].ID != want {
				t.Errorf("position %d: expected id %s, got %s (amount %v)",
					i, want, txns[i].ID, txns[i].Amount)
			}
		}
	})
}

func TestInsertBatch(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store storage.Store) {
		date, _ := models.ParseDate("2024-01-05")
		batch := []models.Transaction{
			{Date: date, Amount: 100},
			{Date: date, Amount: -50},
		}

		created, err := store.InsertBatch(batch)
		testutil.AssertNoError(t, err)

		if len(created) != 2 {
			t.Fatalf("expected 2 created, got %d", len(created))
		}
		for _, txn := range created {
			if txn.ID == "" {
				t.Error("expected assigned id on batch insert")
			}
		}

		txns, err := store.ListAll()
		testutil.AssertNoError(t, err)
		if len(txns) != 2 {
			t.Errorf("expected 2 stored, got %d", len(txns))
		}
	})
}

func TestUpdatePreservesOmittedFields(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store storage.Store) {
		created := testutil.CreateTestTransaction(t, store, "2024-01-05", 100, "food")

		newAmount := 250.0
		updated, err := store.Update(created.ID, storage.TransactionUpdate{Amount: &newAmount})
		testutil.AssertNoError(t, err)

		if updated.Amount != 250 {
			t.Errorf("expected amount 250, got %v", updated.Amount)
		}
		if updated.Date.String() != "2024-01-05" {
			t.Errorf("date not preserved: %s", updated.Date)
		}
		if updated.Category != "food" {
			t.Errorf("category not preserved: %q", updated.Category)
		}
	})
}

func TestUpdateAllFields(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store storage.Store) {
		created := testutil.CreateTestTransaction(t, store, "2024-01-05", 100, "food")

		date, _ := models.ParseDate("2024-02-01")
		amount := -12.5
		category := "transport"
		description := "bus ticket"
		updated, err := store.Update(created.ID, storage.TransactionUpdate{
			Date:        &date,
			Amount:      &amount,
			Category:    &category,
			Description: &description,
		})
		testutil.AssertNoError(t, err)

		if updated.Date.String() != "2024-02-01" || updated.Amount != -12.5 ||
			updated.Category != "transport" || updated.Description != "bus ticket" {
			t.Errorf("update incomplete: %+v", updated)
		}
	})
}

func TestUpdateMissingID(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store storage.Store) {
		amount := 1.0
		_, err := store.Update("00000000-0000-7000-8000-000000000000", storage.TransactionUpdate{Amount: &amount})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDelete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store storage.Store) {
		created := testutil.CreateTestTransaction(t, store, "2024-01-05", 100, "")

		testutil.AssertNoError(t, store.Delete(created.ID))

		txns, err := store.ListAll()
		testutil.AssertNoError(t, err)
		if len(txns) != 0 {
			t.Errorf("expected empty store after delete, got %d rows", len(txns))
		}

		// Deleting again must report the miss, not silently succeed.
		testutil.AssertAppError(t, store.Delete(created.ID), "TRANSACTION_NOT_FOUND")
	})
}

func TestUsers(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store storage.Store) {
		user := testutil.CreateTestUser(t, store)
		if user.ID == "" {
			t.Fatal("expected assigned user id")
		}

		got, err := store.GetUserByUsername(user.Username)
		testutil.AssertNoError(t, err)
		if got.Email != user.Email {
			t.Errorf("expected email %q, got %q", user.Email, got.Email)
		}

		taken, err := store.UserExists(user.Username, "other@test.com")
		testutil.AssertNoError(t, err)
		if !taken {
			t.Error("expected username to be reported taken")
		}

		taken, err = store.UserExists("someone-else", user.Email)
		testutil.AssertNoError(t, err)
		if !taken {
			t.Error("expected email to be reported taken")
		}

		taken, err = store.UserExists("nobody", "nobody@test.com")
		testutil.AssertNoError(t, err)
		if taken {
			t.Error("expected unknown user to be reported free")
		}

		_, err = store.GetUserByUsername("nobody")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
