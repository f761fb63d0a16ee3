package services

import (
	"io"
	"time"

	"budgetd/internal/models"
	"budgetd/internal/storage"
	"budgetd/internal/summary"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(username, email, password, confirm string) (*models.User, error)
	Login(username, password string) (*models.User, error)
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	ImportCSV(r io.Reader) (int, error)
	BatchCreate(txns []models.Transaction) ([]models.Transaction, error)
	GetAll() ([]models.Transaction, error)
	UpdateOne(id string, fields storage.TransactionUpdate) (*models.Transaction, error)
	DeleteOne(id string) error
	MonthlySummary(year int, month time.Month) (summary.Totals, error)
	MonthlyBreakdown() (summary.Report, error)
}
