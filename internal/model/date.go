package model

import (
	"encoding/json"
	"time"
)

// DateLayout is the canonical day/month/year rendering of a transaction date.
const DateLayout = "02/01/2006"

// NullDate is an optional calendar date.
type NullDate struct {
	Time  time.Time
	Valid bool
}

// NewNullDate returns a valid NullDate truncated to the calendar day.
func NewNullDate(t time.Time) NullDate {
	return NullDate{
		Time:  time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
		Valid: true,
	}
}

// String renders the date as DD/MM/YYYY, or "" when absent.
func (d NullDate) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(DateLayout)
}

// MonthKey returns "YYYY-MM", or "" when absent.
func (d NullDate) MonthKey() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format("2006-01")
}

// MarshalJSON encodes the date as "DD/MM/YYYY" or null.
func (d NullDate) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}
