// Package importer converts tabular CSV input into transaction records.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	apperrors "budgetd/internal/errors"
	"budgetd/internal/models"
)

// Column names recognized in the CSV header. date and amount are required;
// category and description are optional.
const (
	columnDate        = "date"
	columnAmount      = "amount"
	columnCategory    = "category"
	columnDescription = "description"
)

// RowError identifies the exact row and value that failed validation.
type RowError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: invalid %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Parser reads CSV rows lazily and yields typed transactions. It holds no
// retry state; restarting requires a fresh reader.
type Parser struct {
	reader  *csv.Reader
	columns map[string]int
	line    int
}

// NewParser reads the header row and maps the recognized columns. Column
// order does not matter and unknown columns are ignored.
func NewParser(r io.Reader) (*Parser, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, apperrors.WithMessage(apperrors.ErrCSVParse, "empty CSV input")
		}
		return nil, apperrors.Wrap(apperrors.ErrCSVParse, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{columnDate, columnAmount} {
		if _, ok := columns[required]; !ok {
			return nil, apperrors.WithMessage(apperrors.ErrCSVParse,
				fmt.Sprintf("missing required column %q", required))
		}
	}

	return &Parser{reader: reader, columns: columns, line: 1}, nil
}

// Next returns the next transaction, or io.EOF when the input is exhausted.
// Malformed rows yield a *RowError wrapped in a CSV_PARSE AppError; a
// non-numeric amount is always an error, never a silent zero.
func (p *Parser) Next() (*models.Transaction, error) {
	record, err := p.reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, apperrors.Wrap(apperrors.ErrCSVParse, err)
	}
	p.line++

	rawDate := p.field(record, columnDate)
	date, err := models.ParseDate(rawDate)
	if err != nil {
		return nil, p.rowError(columnDate, rawDate, err)
	}

	rawAmount := p.field(record, columnAmount)
	amount, err := strconv.ParseFloat(strings.TrimSpace(rawAmount), 64)
	if err != nil {
		return nil, p.rowError(columnAmount, rawAmount, errors.New("not a number"))
	}
	// ParseFloat accepts "NaN" and "Inf"; neither is a valid amount.
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, p.rowError(columnAmount, rawAmount, errors.New("amount must be finite"))
	}

	return &models.Transaction{
		Date:        date,
		Amount:      amount,
		Category:    p.field(record, columnCategory),
		Description: p.field(record, columnDescription),
	}, nil
}

// ParseAll reads every row eagerly, aborting on the first malformed row so a
// bad file never yields a partial result.
func ParseAll(r io.Reader) ([]models.Transaction, error) {
	parser, err := NewParser(r)
	if err != nil {
		return nil, err
	}

	var txns []models.Transaction
	for {
		txn, err := parser.Next()
		if err == io.EOF {
			return txns, nil
		}
		if err != nil {
			return nil, err
		}
		txns = append(txns, *txn)
	}
}

func (p *Parser) field(record []string, column string) string {
	idx, ok := p.columns[column]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func (p *Parser) rowError(field, value string, err error) error {
	rowErr := &RowError{Line: p.line, Field: field, Value: value, Err: err}
	return &apperrors.AppError{
		Code:       apperrors.ErrCSVParse.Code,
		Message:    apperrors.ErrCSVParse.Message,
		Details:    rowErr.Error(),
		StatusCode: apperrors.ErrCSVParse.StatusCode,
		Internal:   rowErr,
	}
}
