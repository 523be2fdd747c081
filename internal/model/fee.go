package model

import (
	"github.com/shopspring/decimal"
)

// RecordKind distinguishes detected occurrences from synthetic rows.
type RecordKind string

const (
	KindEntry    RecordKind = "entry"
	KindTotal    RecordKind = "total"
	KindSentinel RecordKind = "sentinel"
)

// FeeRecord is one detected fee occurrence, or a synthetic totals/sentinel row.
type FeeRecord struct {
	Category    Category            `json:"category"`
	Kind        RecordKind          `json:"kind"`
	Serial      int                 `json:"serial,omitempty"` // 1-based among entries
	Label       string              `json:"label,omitempty"`  // transfer sub-label or month key
	Description string              `json:"description"`
	Date        NullDate            `json:"date"`
	Amount      decimal.NullDecimal `json:"amount"` // underlying transaction value
	Actual      decimal.NullDecimal `json:"actual"`
	Expected    decimal.NullDecimal `json:"expected"`
	Overcharge  decimal.NullDecimal `json:"overcharge"`
}

// IsSummary reports whether the record is a totals or sentinel row.
func (r FeeRecord) IsSummary() bool {
	return r.Kind == KindTotal || r.Kind == KindSentinel
}

// CategoryReport is the ordered output of one detector.
type CategoryReport struct {
	Category Category    `json:"category"`
	Title    string      `json:"title"`
	Records  []FeeRecord `json:"records"`
}

// Entries returns the records that are real detected occurrences.
func (c CategoryReport) Entries() []FeeRecord {
	var out []FeeRecord
	for _, r := range c.Records {
		if r.Kind == KindEntry {
			out = append(out, r)
		}
	}
	return out
}

// Empty reports whether the category produced only its sentinel row.
func (c CategoryReport) Empty() bool {
	return len(c.Records) == 1 && c.Records[0].Kind == KindSentinel
}

// Total returns the trailing totals record, if present.
func (c CategoryReport) Total() (FeeRecord, bool) {
	if len(c.Records) == 0 {
		return FeeRecord{}, false
	}
	last := c.Records[len(c.Records)-1]
	if last.Kind != KindTotal {
		return FeeRecord{}, false
	}
	return last, true
}
