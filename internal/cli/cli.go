// Package cli wires the devicepulse subcommands onto a go-flags parser.
package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Scan   *ScanCommand
	Report *ReportCommand
	Export *ExportCommand
	Ingest *IngestCommand
	Status *StatusCommand
	Prune  *PruneCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "devicepulse"
	parser.LongDescription = "Parse Android diagnostic dumps into per-session metrics, trends, and reports."

	cmds := &commands{
		Scan:   &ScanCommand{globals: &globals, version: version},
		Report: &ReportCommand{globals: &globals, version: version},
		Export: &ExportCommand{globals: &globals, version: version},
		Ingest: &IngestCommand{globals: &globals, version: version},
		Status: &StatusCommand{globals: &globals, version: version},
		Prune:  &PruneCommand{globals: &globals, version: version},
	}

	parser.AddCommand("scan", "Parse sessions and print the summary table", "Parse every capture session under a root directory and print the summary table.", cmds.Scan)
	parser.AddCommand("report", "Run battery, process, and drain analyses", "Parse sessions and run battery-health, process-performance, and drain-source analyses.", cmds.Report)
	parser.AddCommand("export", "Write summary CSV and session JSON files", "Parse sessions and write the summary table and session records to files.", cmds.Export)
	parser.AddCommand("ingest", "Parse sessions and persist them to SQLite", "Parse sessions and upsert their records and summary rows into the local database.", cmds.Ingest)
	parser.AddCommand("status", "Show stored-session statistics", "Show stored-session counts, capture time range, and database size.", cmds.Status)
	parser.AddCommand("prune", "Delete stored sessions past retention", "Delete stored sessions captured before the retention cutoff.", cmds.Prune)

	return parser, &globals, cmds
}

// Run is the main entry point for the devicepulse CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("devicepulse %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
