// Package report runs the detectors over a statement and exposes the results
// as read-only tables for the writers, the CLI and the API.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/feeaudit/internal/detect"
	"github.com/cleared-dev/feeaudit/internal/logger"
	"github.com/cleared-dev/feeaudit/internal/model"
)

// Options tune how Assemble runs the detectors.
type Options struct {
	Parallel bool // one goroutine per category
}

// Table is the rendered form of one category report.
type Table struct {
	Category model.Category    `json:"category"`
	Title    string            `json:"title"`
	Columns  []string          `json:"columns"`
	Money    []bool            `json:"-"`
	Rows     [][]string        `json:"rows"`
	Records  []model.FeeRecord `json:"records"`
}

// CategorySummary totals one category.
type CategorySummary struct {
	Category   model.Category      `json:"category"`
	Title      string              `json:"title"`
	Entries    int                 `json:"entries"`
	Amount     decimal.NullDecimal `json:"amount"`
	Actual     decimal.NullDecimal `json:"actual"`
	Expected   decimal.NullDecimal `json:"expected"`
	Overcharge decimal.NullDecimal `json:"overcharge"`
}

// Report is the named set of category reports for one statement.
type Report struct {
	source    string
	detectors []*detect.Detector
	results   map[model.Category]model.CategoryReport
}

// Assemble runs every detector in reg over stmt. Results are keyed by
// category and always ordered as the registry is.
func Assemble(ctx context.Context, stmt *model.Statement, reg *detect.Registry, opts Options) (*Report, error) {
	if stmt == nil {
		return nil, detect.ErrNoText
	}
	log := logger.FromContext(ctx)
	start := time.Now()

	detectors := reg.All()
	results := make([]model.CategoryReport, len(detectors))

	run := func(i int) error {
		rep, err := detectors[i].Detect(stmt)
		if err != nil {
			return fmt.Errorf("detecting %s: %w", detectors[i].Category, err)
		}
		results[i] = rep
		log.Debug().
			Str("category", string(rep.Category)).
			Int("matches", len(rep.Entries())).
			Msg("category scanned")
		return nil
	}

	if opts.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i := range detectors {
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return run(i)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range detectors {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := run(i); err != nil {
				return nil, err
			}
		}
	}

	r := &Report{
		source:    stmt.Source,
		detectors: detectors,
		results:   make(map[model.Category]model.CategoryReport, len(detectors)),
	}
	for _, rep := range results {
		r.results[rep.Category] = rep
	}
	log.Info().
		Str("source", stmt.Source).
		Int("categories", len(detectors)).
		Bool("parallel", opts.Parallel).
		Dur("elapsed", time.Since(start)).
		Msg("statement audited")
	return r, nil
}

// Source is the name of the audited statement.
func (r *Report) Source() string { return r.source }

// Categories returns the report's categories in report order.
func (r *Report) Categories() []model.Category {
	out := make([]model.Category, len(r.detectors))
	for i, d := range r.detectors {
		out[i] = d.Category
	}
	return out
}

// Get returns the category report for c.
func (r *Report) Get(c model.Category) (model.CategoryReport, bool) {
	rep, ok := r.results[c]
	return rep, ok
}

// Table renders category c with its detector's column schema.
func (r *Report) Table(c model.Category) (Table, bool) {
	for _, d := range r.detectors {
		if d.Category == c {
			return buildTable(d, r.results[c]), true
		}
	}
	return Table{}, false
}

// Tables returns every table keyed by category name.
func (r *Report) Tables() map[string]Table {
	out := make(map[string]Table, len(r.detectors))
	for _, d := range r.detectors {
		out[string(d.Category)] = buildTable(d, r.results[d.Category])
	}
	return out
}

// OrderedTables returns every table in report order.
func (r *Report) OrderedTables() []Table {
	out := make([]Table, len(r.detectors))
	for i, d := range r.detectors {
		out[i] = buildTable(d, r.results[d.Category])
	}
	return out
}

// Summary returns one line per category taken from its totals row.
// Categories with no matches have zero entries and absent totals.
func (r *Report) Summary() []CategorySummary {
	out := make([]CategorySummary, 0, len(r.detectors))
	for _, d := range r.detectors {
		rep := r.results[d.Category]
		s := CategorySummary{
			Category: d.Category,
			Title:    d.Title,
			Entries:  len(rep.Entries()),
		}
		if total, ok := rep.Total(); ok {
			s.Amount = total.Amount
			s.Actual = total.Actual
			s.Expected = total.Expected
			s.Overcharge = total.Overcharge
		}
		out = append(out, s)
	}
	return out
}

// IsSummaryRow reports whether row is a totals or "no entries" row. Such
// rows carry Total or None in their leading S/N cell instead of a number.
func IsSummaryRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.TrimSpace(row[0])
	return strings.HasPrefix(first, "Total") || first == "None" || strings.HasPrefix(first, "No ")
}

func buildTable(d *detect.Detector, rep model.CategoryReport) Table {
	t := Table{
		Category: d.Category,
		Title:    d.Title,
		Columns:  make([]string, len(d.Columns)),
		Money:    make([]bool, len(d.Columns)),
		Rows:     make([][]string, 0, len(rep.Records)),
		Records:  rep.Records,
	}
	for i, c := range d.Columns {
		t.Columns[i] = c.Header
		t.Money[i] = c.Money
	}
	for _, rec := range rep.Records {
		row := make([]string, len(d.Columns))
		for i, c := range d.Columns {
			row[i] = c.Value(rec)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
