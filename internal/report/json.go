package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// Document is the JSON form of a report.
type Document struct {
	Source     string            `json:"source"`
	Categories []Table           `json:"categories"`
	Summary    []CategorySummary `json:"summary"`
}

// NewDocument flattens r for JSON encoding.
func NewDocument(r *Report) Document {
	return Document{
		Source:     r.Source(),
		Categories: r.OrderedTables(),
		Summary:    r.Summary(),
	}
}

// WriteJSON writes the report as an indented JSON document.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(r)); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}
