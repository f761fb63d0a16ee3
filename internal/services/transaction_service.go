package services

import (
	"io"
	"math"
	"time"

	apperrors "budgetd/internal/errors"
	"budgetd/internal/importer"
	"budgetd/internal/models"
	"budgetd/internal/storage"
	"budgetd/internal/summary"
)

// transactionService orchestrates the parser, aggregator, and storage
// adapter. It never inspects which storage backend is active.
type transactionService struct {
	store storage.TransactionStore
}

// NewTransactionService creates a new TransactionServicer backed by the given store.
func NewTransactionService(store storage.TransactionStore) TransactionServicer {
	return &transactionService{store: store}
}

// ImportCSV parses the whole file, then inserts every row in a single batch.
// Both halves are all-or-nothing: a malformed row aborts before any insert,
// and an insert failure commits no rows.
func (s *transactionService) ImportCSV(r io.Reader) (int, error) {
	txns, err := importer.ParseAll(r)
	if err != nil {
		return 0, err
	}
	if len(txns) == 0 {
		return 0, nil
	}

	inserted, err := s.store.InsertBatch(txns)
	if err != nil {
		return 0, err
	}
	return len(inserted), nil
}

// BatchCreate validates and inserts a batch of transactions.
func (s *transactionService) BatchCreate(txns []models.Transaction) ([]models.Transaction, error) {
	if len(txns) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transactions must be a non-empty array")
	}
	for _, txn := range txns {
		if err := validateTransaction(&txn); err != nil {
			return nil, err
		}
	}
	return s.store.InsertBatch(txns)
}

func (s *transactionService) GetAll() ([]models.Transaction, error) {
	return s.store.ListAll()
}

// UpdateOne applies the supplied fields; omitted fields keep their values.
func (s *transactionService) UpdateOne(id string, fields storage.TransactionUpdate) (*models.Transaction, error) {
	if fields.Amount != nil && (math.IsNaN(*fields.Amount) || math.IsInf(*fields.Amount, 0)) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be finite")
	}
	return s.store.Update(id, fields)
}

func (s *transactionService) DeleteOne(id string) error {
	return s.store.Delete(id)
}

// MonthlySummary returns income/expense totals for one calendar month.
func (s *transactionService) MonthlySummary(year int, month time.Month) (summary.Totals, error) {
	txns, err := s.store.ListAll()
	if err != nil {
		return summary.Totals{}, err
	}
	return summary.ForMonth(txns, year, month), nil
}

// MonthlyBreakdown returns totals for every month with transactions,
// most recent month first.
func (s *transactionService) MonthlyBreakdown() (summary.Report, error) {
	txns, err := s.store.ListAll()
	if err != nil {
		return nil, err
	}
	return summary.ByMonth(txns), nil
}

func validateTransaction(txn *models.Transaction) error {
	if txn.Date.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	if math.IsNaN(txn.Amount) || math.IsInf(txn.Amount, 0) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be finite")
	}
	return nil
}
