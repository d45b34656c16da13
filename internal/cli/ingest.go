package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/devicepulse/internal/storage"
	"github.com/runnerr0/devicepulse/internal/summary"
)

// Execute implements the go-flags Commander interface for IngestCommand.
func (c *IngestCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	root, err := resolveRoot(c.Args.Root, cfg)
	if err != nil {
		return err
	}

	store := c.store
	if store == nil {
		opened, db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		defer opened.Close()
		store = opened
	}

	return c.executeWithStore(store, root)
}

// executeWithStore runs ingest against a provided store (for testing).
func (c *IngestCommand) executeWithStore(store *storage.SQLiteStore, root string) error {
	ctx := context.Background()

	records, err := parseSessions(root)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No sessions found, nothing ingested.")
		return nil
	}

	table := summary.Project(records)

	rows := make(map[string]summary.Row, len(table.Rows))
	for _, row := range table.Rows {
		rows[row.Session] = row
	}

	for _, rec := range records {
		if err := store.UpsertSession(ctx, rec, rows[rec.ID]); err != nil {
			return fmt.Errorf("ingest session %s: %w", rec.ID, err)
		}
	}

	fmt.Printf("Ingested %d sessions\n", len(records))
	return nil
}
