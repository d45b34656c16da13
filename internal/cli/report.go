package cli

import (
	"fmt"
	"os"

	"github.com/runnerr0/devicepulse/internal/report"
	"github.com/runnerr0/devicepulse/internal/summary"
)

// Execute implements the go-flags Commander interface for ReportCommand.
func (c *ReportCommand) Execute(args []string) error {
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
	if len(records) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	topN := c.TopN
	if topN <= 0 {
		topN = cfg.Report.TopN
	}

	table := summary.Project(records)

	switch c.Kind {
	case "battery":
		report.BatteryHealth(os.Stdout, table)
	case "process":
		report.ProcessPerformance(os.Stdout, records, topN)
	case "drain":
		report.DrainSources(os.Stdout, records, topN)
	case "all":
		report.BatteryHealth(os.Stdout, table)
		fmt.Println()
		report.ProcessPerformance(os.Stdout, records, topN)
		fmt.Println()
		report.DrainSources(os.Stdout, records, topN)
	default:
		return fmt.Errorf("unknown report kind %q (use battery, process, drain, or all)", c.Kind)
	}

	return nil
}
