package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/runnerr0/devicepulse/internal/config"
	"github.com/runnerr0/devicepulse/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string              `json:"version"`
	DatabasePath      string              `json:"database_path"`
	DatabaseSizeBytes int64               `json:"database_size_bytes"`
	TotalSessions     int64               `json:"total_sessions"`
	WithTimestamp     int64               `json:"with_timestamp"`
	OldestCapture     string              `json:"oldest_capture,omitempty"`
	NewestCapture     string              `json:"newest_capture,omitempty"`
	RetentionDays     int                 `json:"retention_days"`
	Categories        []categoryCountJSON `json:"categories"`
}

type categoryCountJSON struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	store := c.store
	var db *sql.DB
	if store == nil {
		store, db, err = openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		defer store.Close()
	}

	return c.executeWithStore(store, db, cfg)
}

// executeWithStore runs status against a provided store (for testing).
// db may be nil; the size is then reported from the file alone.
func (c *StatusCommand) executeWithStore(store *storage.SQLiteStore, db *sql.DB, cfg *config.Config) error {
	stats, err := store.GetStats(context.Background())
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	dbPath, err := cfg.DBPath()
	if err != nil {
		return err
	}
	dbSize := getDatabaseSize(db, dbPath)

	if c.globals != nil && c.globals.JSON {
		return c.printStatusJSON(stats, dbPath, dbSize, cfg.Retention.Days)
	}
	return c.printStatusHuman(stats, dbPath, dbSize, cfg.Retention.Days)
}

func (c *StatusCommand) printStatusHuman(stats *storage.Stats, dbPath string, dbSize int64, retentionDays int) error {
	fmt.Println("Devicepulse Status")
	fmt.Println("==================")
	fmt.Printf("Version:       %s\n", c.version)
	fmt.Printf("Database:      %s (%s)\n", dbPath, formatBytes(dbSize))
	fmt.Printf("Sessions:      %s\n", formatNumber(stats.TotalSessions))

	if stats.TotalSessions > 0 {
		pct := float64(stats.WithTimestamp) / float64(stats.TotalSessions) * 100
		fmt.Printf("Timestamped:   %s (%.1f%%)\n", formatNumber(stats.WithTimestamp), pct)
	}

	if stats.WithTimestamp > 0 {
		fmt.Printf("Oldest:        %s\n", stats.OldestCapture.Local().Format("2006-01-02"))
		fmt.Printf("Newest:        %s\n", stats.NewestCapture.Local().Format("2006-01-02"))
	}

	fmt.Printf("Retention:     %d days\n", retentionDays)

	if len(stats.CategoryCounts) > 0 {
		fmt.Println()
		fmt.Println("Categories:")
		for _, cc := range stats.CategoryCounts {
			fmt.Printf("  %-24s %s\n", cc.Category, formatNumber(cc.Count))
		}
	}

	return nil
}

func (c *StatusCommand) printStatusJSON(stats *storage.Stats, dbPath string, dbSize int64, retentionDays int) error {
	out := statusJSON{
		Version:           c.version,
		DatabasePath:      dbPath,
		DatabaseSizeBytes: dbSize,
		TotalSessions:     stats.TotalSessions,
		WithTimestamp:     stats.WithTimestamp,
		RetentionDays:     retentionDays,
		Categories:        make([]categoryCountJSON, len(stats.CategoryCounts)),
	}

	if stats.WithTimestamp > 0 {
		out.OldestCapture = stats.OldestCapture.UTC().Format(time.RFC3339)
		out.NewestCapture = stats.NewestCapture.UTC().Format(time.RFC3339)
	}

	for i, cc := range stats.CategoryCounts {
		out.Categories[i] = categoryCountJSON{Category: cc.Category, Count: cc.Count}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// getDatabaseSize returns the database file size in bytes. For on-disk
// databases it uses os.Stat; for in-memory databases it queries
// page_count * page_size.
func getDatabaseSize(db *sql.DB, dbPath string) int64 {
	if info, err := os.Stat(dbPath); err == nil {
		return info.Size()
	}

	if db == nil {
		return 0
	}
	var pageCount, pageSize int64
	if err := db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0
	}
	if err := db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0
	}
	return pageCount * pageSize
}
