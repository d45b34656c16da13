package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/runnerr0/devicepulse/internal/config"
	"github.com/runnerr0/devicepulse/internal/export"
	"github.com/runnerr0/devicepulse/internal/summary"
)

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
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
		fmt.Println("No sessions found, nothing exported.")
		return nil
	}

	dir := c.Dir
	if dir == "" {
		dir = cfg.Export.Dir
	}
	dir, err = config.ExpandPath(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	table := summary.Project(records)
	stamp := time.Now().Format("20060102_150405")

	writeCSV := c.Format == "csv" || c.Format == "all"
	writeJSON := c.Format == "json" || c.Format == "all"
	if !writeCSV && !writeJSON {
		return fmt.Errorf("unknown export format %q (use csv, json, or all)", c.Format)
	}

	if writeCSV {
		path := filepath.Join(dir, fmt.Sprintf("devicepulse_summary_%s.csv", stamp))
		if err := writeFile(path, func(f *os.File) error {
			return export.WriteCSV(f, table)
		}); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
	}

	if writeJSON {
		path := filepath.Join(dir, fmt.Sprintf("devicepulse_sessions_%s.json", stamp))
		if err := writeFile(path, func(f *os.File) error {
			return export.WriteSessionsJSON(f, records)
		}); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
	}

	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
