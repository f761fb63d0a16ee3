// Package summary aggregates transactions into monthly income and expense
// totals. Income is the sum of positive amounts, expenses the sum of
// absolute values of negative amounts; zero amounts count toward neither.
package summary

import (
	"bytes"
	"encoding/json"
	"time"

	"budgetd/internal/models"
)

// Totals holds income and expense sums for one period.
type Totals struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

func (t *Totals) add(amount float64) {
	switch {
	case amount > 0:
		t.Income += amount
	case amount < 0:
		t.Expenses += -amount
	}
}

// ForMonth sums the transactions falling in the given calendar month.
// An empty match set yields zero totals, not an error.
func ForMonth(txns []models.Transaction, year int, month time.Month) Totals {
	var totals Totals
	for _, txn := range txns {
		if txn.Date.Year() == year && txn.Date.Month() == month {
			totals.add(txn.Amount)
		}
	}
	return totals
}

// MonthTotals is one month's entry in a Report.
type MonthTotals struct {
	Year  int
	Month time.Month
	Totals
}

// Label returns the human-readable month key, e.g. "January 2024".
func (m MonthTotals) Label() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// Report is a per-month breakdown ordered most-recent month first.
type Report []MonthTotals

// ByMonth partitions transactions by calendar month and totals each
// partition independently. Permuting the input does not change any totals.
func ByMonth(txns []models.Transaction) Report {
	buckets := make(map[int]*MonthTotals)
	var order []int

	for _, txn := range txns {
		key := txn.Date.Year()*12 + int(txn.Date.Month()) - 1
		bucket, ok := buckets[key]
		if !ok {
			bucket = &MonthTotals{Year: txn.Date.Year(), Month: txn.Date.Month()}
			buckets[key] = bucket
			order = append(order, key)
		}
		bucket.add(txn.Amount)
	}

	// Most recent month first. Insertion-sort the small key set rather
	// than tracking dates separately.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && order[j] > order[j-1]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	report := make(Report, 0, len(order))
	for _, key := range order {
		report = append(report, *buckets[key])
	}
	return report
}

// MarshalJSON emits the report as a JSON object keyed by month label,
// preserving most-recent-first key order (a Go map would not).
func (r Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, month := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(month.Label())
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(month.Totals)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
