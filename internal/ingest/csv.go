package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVExtractor flattens a CSV export into one line per row, cells separated
// by single spaces, header row included.
type CSVExtractor struct{}

// Format returns the file extension handled.
func (e *CSVExtractor) Format() string { return "csv" }

// Extract decodes the file and stringifies its rows.
func (e *CSVExtractor) Extract(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading csv: %w", err)
	}
	text, err := Decode(data)
	if err != nil {
		return "", err
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parsing csv: %w", err)
	}

	lines := make([]string, 0, len(records))
	for _, rec := range records {
		cells := make([]string, 0, len(rec))
		for _, c := range rec {
			if c = strings.TrimSpace(c); c != "" {
				cells = append(cells, c)
			}
		}
		if len(cells) > 0 {
			lines = append(lines, strings.Join(cells, " "))
		}
	}
	return strings.Join(lines, "\n"), nil
}
