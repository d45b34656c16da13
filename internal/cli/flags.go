package cli

import "github.com/runnerr0/devicepulse/internal/storage"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// rootArg is the positional capture-root argument shared by the parsing verbs.
type rootArg struct {
	Root string `positional-arg-name:"root" description:"Directory whose subdirectories are capture sessions"`
}

// ScanCommand — parse sessions and print the summary table.
type ScanCommand struct {
	Args rootArg `positional-args:"yes"`

	globals *GlobalFlags
	version string
}

// ReportCommand — run battery, process, and drain analyses.
type ReportCommand struct {
	Args rootArg `positional-args:"yes"`
	Kind string  `long:"kind" description:"Analysis to run: battery | process | drain | all" default:"all"`
	TopN int     `long:"top" description:"Entries per top-consumers list (0 = config default)"`

	globals *GlobalFlags
	version string
}

// ExportCommand — write summary CSV and session JSON files.
type ExportCommand struct {
	Args   rootArg `positional-args:"yes"`
	Format string  `long:"format" description:"Output format: csv | json | all" default:"all"`
	Dir    string  `long:"dir" description:"Output directory (overrides config)"`

	globals *GlobalFlags
	version string
}

// IngestCommand — parse sessions and persist them to SQLite.
type IngestCommand struct {
	Args rootArg `positional-args:"yes"`

	globals *GlobalFlags
	version string
	store   *storage.SQLiteStore // injectable for testing; nil means open configured DB
}

// StatusCommand — show stored-session counts, time range, database size.
type StatusCommand struct {
	globals *GlobalFlags
	version string
	store   *storage.SQLiteStore
}

// PruneCommand — delete stored sessions past the retention cutoff.
type PruneCommand struct {
	OlderThan string `long:"older-than" description:"Override retention period (e.g., 90d, 12w)"`
	DryRun    bool   `long:"dry-run" description:"Show what would be pruned without deleting"`

	globals *GlobalFlags
	version string
	store   *storage.SQLiteStore
}
