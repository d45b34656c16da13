package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/runnerr0/devicepulse/internal/storage"
)

// Execute implements the go-flags Commander interface for PruneCommand.
func (c *PruneCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	retention := time.Duration(cfg.Retention.Days) * 24 * time.Hour
	if c.OlderThan != "" {
		retention, err = parseDuration(c.OlderThan)
		if err != nil {
			return err
		}
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

	return c.executeWithStore(store, retention)
}

// executeWithStore runs prune against a provided store (for testing).
func (c *PruneCommand) executeWithStore(store *storage.SQLiteStore, retention time.Duration) error {
	ctx := context.Background()
	cutoff := time.Now().Add(-retention)

	if c.DryRun {
		count, err := countOlderThan(ctx, store, cutoff)
		if err != nil {
			return err
		}
		fmt.Printf("[DRY RUN] Would prune %d sessions older than %s\n",
			count, formatDurationHuman(retention))
		return nil
	}

	pruned, err := store.PruneOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	fmt.Printf("Pruned %d sessions older than %s\n", pruned, formatDurationHuman(retention))
	return nil
}

// countOlderThan counts the sessions a prune at this cutoff would delete.
// Undated sessions never age out.
func countOlderThan(ctx context.Context, store *storage.SQLiteStore, cutoff time.Time) (int, error) {
	sessions, err := store.ListSessions(ctx, 0)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, s := range sessions {
		if !s.CapturedAt.IsZero() && s.CapturedAt.Before(cutoff) {
			count++
		}
	}
	return count, nil
}
