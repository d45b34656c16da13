package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/runnerr0/devicepulse/internal/export"
	"github.com/runnerr0/devicepulse/internal/session"
	"github.com/runnerr0/devicepulse/internal/summary"
)

// Execute implements the go-flags Commander interface for ScanCommand.
func (c *ScanCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	root, err := resolveRoot(c.Args.Root, cfg)
	if err != nil {
		return err
	}

	records, err := parseSessions(root)
	if err != nil {
		return err
	}

	table := summary.Project(records)

	if c.globals != nil && c.globals.JSON {
		return export.WriteSummaryJSON(os.Stdout, table)
	}
	return printSummaryTable(records, table)
}

// printSummaryTable renders the headline metrics one session per line,
// absent values as "-".
func printSummaryTable(records []session.Record, table summary.Table) error {
	if len(table.Rows) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	failures := 0
	for _, r := range records {
		failures += len(r.Failures)
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tCAPTURED\tFILES\tBATT%\tBATT°C\tMODEL\tPROCS\tRAM%")
	for _, row := range table.Rows {
		captured := "-"
		if !row.Timestamp.IsZero() {
			captured = row.Timestamp.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			row.Session, captured, row.FilesParsed,
			orDash(row.BatteryLevel.String()),
			orDash(row.BatteryTemp.String()),
			orDash(row.Model.String()),
			orDash(row.ProcessCount.String()),
			orDash(row.RAMUsagePercent.String()),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d sessions", len(table.Rows))
	if failures > 0 {
		fmt.Printf(", %d file failures", failures)
	}
	fmt.Println()
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
