package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day semantics. It marshals to
// "YYYY-MM-DD" and accepts both that form and RFC3339 timestamps on input,
// discarding the time component.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a calendar date from "YYYY-MM-DD" or RFC3339 input.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{t}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return NewDate(t.Year(), t.Month(), t.Day()), nil
	}
	return Date{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
}

// String returns the date in YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer so GORM can persist the date column.
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

// Scan implements sql.Scanner. Drivers hand back either time.Time (postgres)
// or the raw text/bytes (sqlite).
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
}

// scanText handles the textual forms SQLite hands back for date columns.
func (d *Date) scanText(s string) error {
	if parsed, err := ParseDate(s); err == nil {
		*d = parsed
		return nil
	}
	for _, layout := range []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			*d = NewDate(t.Year(), t.Month(), t.Day())
			return nil
		}
	}
	return fmt.Errorf("cannot scan %q into Date", s)
}

// GormDataType tells GORM which column type to use.
func (Date) GormDataType() string {
	return "date"
}
