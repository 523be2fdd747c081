// Package detect finds fee-bearing lines in statement text and reconciles each
// charge against the tariff. Detectors are independent: each one reads the
// whole statement and returns its own category report.
package detect

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/feeaudit/internal/fields"
	"github.com/cleared-dev/feeaudit/internal/model"
	"github.com/cleared-dev/feeaudit/internal/tariff"
)

// ErrNoText is returned when a detector is given no statement at all.
var ErrNoText = errors.New("no statement text to analyze")

// Column renders one field of a FeeRecord for tabular output.
type Column struct {
	Header string
	Money  bool // cells are two-decimal amounts or empty
	Value  func(model.FeeRecord) string
}

// scanFunc turns the statement lines into entry records for one category.
type scanFunc func(d *Detector, lines []string) []model.FeeRecord

// Detector is one row of the category table: what to look for, how to price
// it, and how to lay the result out.
type Detector struct {
	Category   model.Category
	Title      string
	Keywords   []string
	Pattern    *regexp.Regexp
	Columns    []Column
	TotalLabel string // description of the totals row
	EmptyLabel string // description of the sentinel row

	schedule tariff.Schedule
	scan     scanFunc
}

// Detect scans the statement and returns the category report with its
// trailing totals row, or a single sentinel row when nothing matched.
func (d *Detector) Detect(stmt *model.Statement) (model.CategoryReport, error) {
	if stmt == nil {
		return model.CategoryReport{}, ErrNoText
	}
	entries := d.scan(d, fields.Lines(stmt.Text))
	return d.finish(entries), nil
}

// Candidates returns the lines selected by the category pattern.
func (d *Detector) Candidates(lines []string) []string {
	var out []string
	for _, l := range lines {
		if d.Pattern.MatchString(l) {
			out = append(out, l)
		}
	}
	return out
}

func (d *Detector) finish(entries []model.FeeRecord) model.CategoryReport {
	rep := model.CategoryReport{Category: d.Category, Title: d.Title}
	if len(entries) == 0 {
		rep.Records = []model.FeeRecord{{
			Category:    d.Category,
			Kind:        model.KindSentinel,
			Description: d.EmptyLabel,
			Amount:      decimal.NewNullDecimal(decimal.Zero),
		}}
		return rep
	}

	total := model.FeeRecord{
		Category:    d.Category,
		Kind:        model.KindTotal,
		Description: d.TotalLabel,
	}
	records := make([]model.FeeRecord, 0, len(entries)+1)
	for i, e := range entries {
		e.Category = d.Category
		e.Kind = model.KindEntry
		e.Serial = i + 1
		total.Amount = addNull(total.Amount, e.Amount)
		total.Actual = addNull(total.Actual, e.Actual)
		total.Expected = addNull(total.Expected, e.Expected)
		total.Overcharge = addNull(total.Overcharge, e.Overcharge)
		records = append(records, e)
	}
	rep.Records = append(records, total)
	return rep
}

// addNull adds v to sum, skipping absent values.
func addNull(sum, v decimal.NullDecimal) decimal.NullDecimal {
	if !v.Valid {
		return sum
	}
	if !sum.Valid {
		return v
	}
	return decimal.NewNullDecimal(sum.Decimal.Add(v.Decimal))
}

func known(v decimal.Decimal) decimal.NullDecimal { return decimal.NewNullDecimal(v) }

// overcharge clamps actual-expected at zero; absent when either side is unknown.
func overcharge(actual, expected decimal.NullDecimal) decimal.NullDecimal {
	if !actual.Valid || !expected.Valid {
		return decimal.NullDecimal{}
	}
	return known(tariff.Overcharge(actual.Decimal, expected.Decimal))
}

// keywordPattern builds a case-insensitive alternation of literal keywords.
func keywordPattern(words ...string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
}

// Column helpers.

func serialColumn() Column {
	return Column{Header: "S/N", Value: func(r model.FeeRecord) string {
		switch r.Kind {
		case model.KindTotal:
			return "Total"
		case model.KindSentinel:
			return "None"
		default:
			return strconv.Itoa(r.Serial)
		}
	}}
}

func dateColumn(header string) Column {
	return Column{Header: header, Value: func(r model.FeeRecord) string { return r.Date.String() }}
}

func labelColumn(header string) Column {
	return Column{Header: header, Value: func(r model.FeeRecord) string { return r.Label }}
}

func descriptionColumn() Column {
	return Column{Header: "Description", Value: func(r model.FeeRecord) string { return r.Description }}
}

func moneyColumn(header string, field func(model.FeeRecord) decimal.NullDecimal) Column {
	return Column{Header: header, Money: true, Value: func(r model.FeeRecord) string {
		v := field(r)
		if !v.Valid {
			return ""
		}
		return v.Decimal.StringFixed(2)
	}}
}

func amountOf(r model.FeeRecord) decimal.NullDecimal     { return r.Amount }
func actualOf(r model.FeeRecord) decimal.NullDecimal     { return r.Actual }
func expectedOf(r model.FeeRecord) decimal.NullDecimal   { return r.Expected }
func overchargeOf(r model.FeeRecord) decimal.NullDecimal { return r.Overcharge }
