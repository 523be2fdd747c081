package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	summaryStyle = cellStyle.Foreground(lipgloss.Color("241"))
)

// WriteText renders every category as a bordered table, then the summary.
func WriteText(w io.Writer, r *Report) error {
	if _, err := fmt.Fprintf(w, "Fee audit: %s\n\n", r.Source()); err != nil {
		return err
	}
	for _, t := range r.OrderedTables() {
		if _, err := fmt.Fprintf(w, "%s\n%s\n\n", titleStyle.Render(t.Title), renderTable(t.Columns, t.Rows)); err != nil {
			return fmt.Errorf("writing %s: %w", t.Category, err)
		}
	}

	header := []string{"Category", "Entries", "Actual Charge", "Expected Charge", "Overcharged Amount"}
	var rows [][]string
	for _, s := range r.Summary() {
		rows = append(rows, []string{
			string(s.Category), strconv.Itoa(s.Entries),
			fixed(s.Actual), fixed(s.Expected), fixed(s.Overcharge),
		})
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n", titleStyle.Render("Summary"), renderTable(header, rows))
	return err
}

func renderTable(header []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(rows) && IsSummaryRow(rows[row]):
				return summaryStyle
			default:
				return cellStyle
			}
		}).
		String()
}

func fixed(v decimal.NullDecimal) string {
	if !v.Valid {
		return "-"
	}
	return v.Decimal.StringFixed(2)
}
