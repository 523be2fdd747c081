package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes one block per category: a "# Title" marker row, the
// header row, the data rows, then a blank separator row.
func WriteCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	for i, t := range r.OrderedTables() {
		if i > 0 {
			if err := cw.Write([]string{""}); err != nil {
				return fmt.Errorf("failed to write CSV separator: %w", err)
			}
		}
		if err := cw.Write([]string{"# " + t.Title}); err != nil {
			return fmt.Errorf("failed to write CSV title: %w", err)
		}
		if err := cw.Write(t.Columns); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
		if err := cw.WriteAll(t.Rows); err != nil {
			return fmt.Errorf("failed to write CSV rows for %s: %w", t.Category, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
