package models

// Transaction represents a single dated monetary movement. The sign of
// Amount encodes direction: positive is income, negative is expense.
type Transaction struct {
	Base
	Date        Date    `gorm:"type:date;not null;index" json:"date"`
	Amount      float64 `gorm:"not null" json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}
