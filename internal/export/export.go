// Package export serializes parsed sessions and the summary table for
// downstream tooling: CSV for spreadsheets, JSON for everything else.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/runnerr0/devicepulse/internal/session"
	"github.com/runnerr0/devicepulse/internal/summary"
)

// WriteCSV writes the summary table with a header row. Absent metrics
// become empty cells.
func WriteCSV(w io.Writer, table summary.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(summary.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range table.Rows {
		if err := cw.Write(row.Values()); err != nil {
			return fmt.Errorf("write csv row %s: %w", row.Session, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSessionsJSON writes the full session records, pretty-printed, with
// capture timestamps as RFC3339.
func WriteSessionsJSON(w io.Writer, records []session.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// WriteSummaryJSON writes the summary table rows, pretty-printed.
func WriteSummaryJSON(w io.Writer, table summary.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(table.Rows)
}
