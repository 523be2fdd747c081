// Package fields extracts amounts, dates and tagged charges from single
// statement lines. Every function is total: a missing or malformed token is
// reported as an absent value, never as an error.
package fields

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/feeaudit/internal/model"
)

// amountPattern matches a digit-grouped number with exactly two fractional digits.
const amountPattern = `\d[\d,]*\.\d{2}`

var (
	amountRe = regexp.MustCompile(amountPattern)

	// 15-JAN-24, 15-Jan- 24
	dashDateRe = regexp.MustCompile(`\b(\d{2})-([A-Za-z]{3})-\s?(\d{2})\b`)
	// 15/01/2024
	slashDateRe = regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`)
)

const (
	dashDateLayout  = "02-Jan-06"
	slashDateLayout = "02/01/2006"
)

// ExtractAmount returns the first amount token in line with group separators removed.
func ExtractAmount(line string) decimal.NullDecimal {
	m := amountRe.FindString(line)
	if m == "" {
		return decimal.NullDecimal{}
	}
	return parseAmount(m)
}

// ExtractDate returns the transaction date found in line.
// The DD-MON-YY convention is tried first; when it is present but names an
// impossible date the result is absent rather than falling back.
func ExtractDate(line string) model.NullDate {
	if m := dashDateRe.FindStringSubmatch(line); m != nil {
		t, err := time.Parse(dashDateLayout, m[1]+"-"+m[2]+"-"+m[3])
		if err != nil {
			return model.NullDate{}
		}
		return model.NewNullDate(t)
	}
	if m := slashDateRe.FindStringSubmatch(line); m != nil {
		t, err := time.Parse(slashDateLayout, m[1])
		if err != nil {
			return model.NullDate{}
		}
		return model.NewNullDate(t)
	}
	return model.NullDate{}
}

// Tag finds an amount that immediately follows a literal label such as "Charge:".
type Tag struct {
	label string
	re    *regexp.Regexp
}

// Labels used by statement annotations.
var (
	ChargeTag       = NewTag("Charge:")
	ActualChargeTag = NewTag("Actual Charge:")
)

// NewTag compiles a case-insensitive matcher for label.
func NewTag(label string) *Tag {
	return &Tag{
		label: label,
		re:    regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `\s*(` + amountPattern + `)`),
	}
}

// Label returns the literal label.
func (t *Tag) Label() string { return t.label }

// Extract returns the amount following the label in line.
func (t *Tag) Extract(line string) decimal.NullDecimal {
	m := t.re.FindStringSubmatch(line)
	if m == nil {
		return decimal.NullDecimal{}
	}
	return parseAmount(m[1])
}

// ExtractTaggedAmount returns the amount that follows label in line.
func ExtractTaggedAmount(line, label string) decimal.NullDecimal {
	if label == "" {
		return decimal.NullDecimal{}
	}
	return NewTag(label).Extract(line)
}

// Lines splits a statement blob into lines, dropping carriage returns.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}

func parseAmount(token string) decimal.NullDecimal {
	d, err := decimal.NewFromString(strings.ReplaceAll(token, ",", ""))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d.Round(2))
}
