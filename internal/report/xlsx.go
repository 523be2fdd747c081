package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// SummarySheet is the first worksheet of an XLSX report.
const SummarySheet = "summary"

// WriteXLSX writes a workbook with a summary sheet followed by one sheet per
// category, named by category key. Amount cells are numeric.
func WriteXLSX(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, r, bold); err != nil {
		return err
	}

	for _, t := range r.OrderedTables() {
		sheet := string(t.Category)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", sheet, err)
		}
		if err := f.SetCellValue(sheet, "A1", t.Title); err != nil {
			return fmt.Errorf("failed to write title for %s: %w", sheet, err)
		}
		if err := setRow(f, sheet, 2, stringsToCells(t.Columns), bold); err != nil {
			return err
		}
		for i, row := range t.Rows {
			cells := make([]interface{}, len(row))
			for j, v := range row {
				cells[j] = cellValue(v, t.Money[j])
			}
			style := 0
			if t.Records[i].IsSummary() {
				style = bold
			}
			if err := setRow(f, sheet, i+3, cells, style); err != nil {
				return err
			}
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, r *Report, bold int) error {
	header := []string{"Category", "Title", "Entries", "Amount", "Actual Charge", "Expected Charge", "Overcharged Amount"}
	if err := setRow(f, SummarySheet, 1, stringsToCells(header), bold); err != nil {
		return err
	}
	for i, s := range r.Summary() {
		row := []interface{}{
			string(s.Category), s.Title, s.Entries,
			nullCell(s.Amount), nullCell(s.Actual), nullCell(s.Expected), nullCell(s.Overcharge),
		}
		if err := setRow(f, SummarySheet, i+2, row, 0); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, n int, cells []interface{}, style int) error {
	start, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &cells); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, n, err)
	}
	if style == 0 || len(cells) == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(cells), n)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, style)
}

func stringsToCells(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// cellValue turns a rendered amount back into a number for spreadsheet use.
func cellValue(v string, money bool) interface{} {
	if !money || v == "" {
		return v
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return v
	}
	return d.InexactFloat64()
}

func nullCell(v decimal.NullDecimal) interface{} {
	if !v.Valid {
		return ""
	}
	return v.Decimal.Round(2).InexactFloat64()
}
