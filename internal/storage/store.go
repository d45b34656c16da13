// Package storage persists parsed sessions and their summary rows to
// SQLite so trends can be inspected across capture runs without
// re-parsing the raw dumps.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/runnerr0/devicepulse/internal/session"
	"github.com/runnerr0/devicepulse/internal/summary"
	"github.com/runnerr0/devicepulse/internal/value"
)

// Store defines the devicepulse data operations.
type Store interface {
	UpsertSession(ctx context.Context, rec session.Record, row summary.Row) error
	GetSession(ctx context.Context, id string) (*StoredSession, error)
	ListSessions(ctx context.Context, limit int) ([]StoredSession, error)
	GetStats(ctx context.Context) (*Stats, error)
	PruneOlderThan(ctx context.Context, olderThan time.Time) (int64, error)
	Close() error
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	upsertSession *sql.Stmt
	upsertRow     *sql.Stmt
	getSession    *sql.Stmt
}

// NewSQLiteStore creates a SQLiteStore from an already-opened and migrated
// database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}
	return s, nil
}

// Close releases the prepared statements. The caller owns the *sql.DB.
func (s *SQLiteStore) Close() error {
	for _, stmt := range []*sql.Stmt{s.upsertSession, s.upsertRow, s.getSession} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.upsertSession, err = s.db.Prepare(`
		INSERT INTO sessions (session, captured_at, files_parsed, categories, detail)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session) DO UPDATE SET
			captured_at = excluded.captured_at,
			files_parsed = excluded.files_parsed,
			categories = excluded.categories,
			detail = excluded.detail
	`)
	if err != nil {
		return err
	}

	s.upsertRow, err = s.db.Prepare(`
		INSERT INTO summary_rows (
			session, battery_level, battery_voltage, battery_temp,
			charging_status, ac_powered, usb_powered, phone_temp,
			model, brand, android_version,
			cpu_temp, gpu_temp, battery_temp_thermal, skin_temp,
			total_processes, total_ram_gb, used_ram_mb, ram_usage_percent,
			total_screen_ms, total_cpu_ms, total_wake_lock_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session) DO UPDATE SET
			battery_level = excluded.battery_level,
			battery_voltage = excluded.battery_voltage,
			battery_temp = excluded.battery_temp,
			charging_status = excluded.charging_status,
			ac_powered = excluded.ac_powered,
			usb_powered = excluded.usb_powered,
			phone_temp = excluded.phone_temp,
			model = excluded.model,
			brand = excluded.brand,
			android_version = excluded.android_version,
			cpu_temp = excluded.cpu_temp,
			gpu_temp = excluded.gpu_temp,
			battery_temp_thermal = excluded.battery_temp_thermal,
			skin_temp = excluded.skin_temp,
			total_processes = excluded.total_processes,
			total_ram_gb = excluded.total_ram_gb,
			used_ram_mb = excluded.used_ram_mb,
			ram_usage_percent = excluded.ram_usage_percent,
			total_screen_ms = excluded.total_screen_ms,
			total_cpu_ms = excluded.total_cpu_ms,
			total_wake_lock_ms = excluded.total_wake_lock_ms
	`)
	if err != nil {
		return err
	}

	s.getSession, err = s.db.Prepare(`
		SELECT session, captured_at, files_parsed, categories, detail, created_at
		FROM sessions WHERE session = ?
	`)
	return err
}

// UpsertSession stores a parsed session record and its summary row.
// Re-ingesting the same session replaces the stored copy.
func (s *SQLiteStore) UpsertSession(ctx context.Context, rec session.Record, row summary.Row) error {
	detail, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", rec.ID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.StmtContext(ctx, s.upsertSession).ExecContext(ctx,
		rec.ID, nullTime(rec.Timestamp), len(rec.FilesParsed),
		strings.Join(rec.Categories(), ","), string(detail),
	)
	if err != nil {
		return fmt.Errorf("upsert session %s: %w", rec.ID, err)
	}

	_, err = tx.StmtContext(ctx, s.upsertRow).ExecContext(ctx,
		row.Session,
		nullNumber(row.BatteryLevel), nullNumber(row.BatteryVoltage), nullNumber(row.BatteryTemp),
		nullNumber(row.ChargingStatus), nullBool(row.ACPowered), nullBool(row.USBPowered),
		nullNumber(row.PhoneTemp),
		nullText(row.Model), nullText(row.Brand), nullText(row.OSVersion),
		nullNumber(row.CPUTemp), nullNumber(row.GPUTemp), nullNumber(row.BatteryTempThermal),
		nullNumber(row.SkinTemp),
		nullNumber(row.ProcessCount), nullNumber(row.TotalRAMGB), nullNumber(row.UsedRAMMB),
		nullNumber(row.RAMUsagePercent),
		nullNumber(row.TotalScreenMs), nullNumber(row.TotalCPUMs), nullNumber(row.TotalWakeLockMs),
	)
	if err != nil {
		return fmt.Errorf("upsert summary row %s: %w", row.Session, err)
	}

	return tx.Commit()
}

// GetSession retrieves one stored session by its directory name.
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*StoredSession, error) {
	var stored StoredSession
	var captured sql.NullString
	var categories string
	var created string

	err := s.getSession.QueryRowContext(ctx, id).Scan(
		&stored.Session, &captured, &stored.FilesParsed, &categories, &stored.Detail, &created,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session %s not found", id)
		}
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}

	if captured.Valid {
		stored.CapturedAt, _ = parseTimestamp(captured.String)
	}
	if categories != "" {
		stored.Categories = strings.Split(categories, ",")
	}
	stored.CreatedAt, _ = parseTimestamp(created)

	return &stored, nil
}

// ListSessions returns stored sessions ordered by capture time ascending,
// undated sessions last. limit <= 0 means no limit.
func (s *SQLiteStore) ListSessions(ctx context.Context, limit int) ([]StoredSession, error) {
	q := `
		SELECT session, captured_at, files_parsed, categories, detail, created_at
		FROM sessions
		ORDER BY captured_at IS NULL, captured_at ASC, session ASC
	`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []StoredSession
	for rows.Next() {
		var stored StoredSession
		var captured sql.NullString
		var categories, created string
		if err := rows.Scan(&stored.Session, &captured, &stored.FilesParsed,
			&categories, &stored.Detail, &created); err != nil {
			return nil, err
		}
		if captured.Valid {
			stored.CapturedAt, _ = parseTimestamp(captured.String)
		}
		if categories != "" {
			stored.Categories = strings.Split(categories, ",")
		}
		stored.CreatedAt, _ = parseTimestamp(created)
		out = append(out, stored)
	}
	return out, rows.Err()
}

// GetStats returns aggregate statistics over the stored sessions.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	var oldest, newest sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(captured_at), MIN(captured_at), MAX(captured_at)
		FROM sessions
	`).Scan(&stats.TotalSessions, &stats.WithTimestamp, &oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("session stats: %w", err)
	}
	if oldest.Valid {
		stats.OldestCapture, _ = parseTimestamp(oldest.String)
	}
	if newest.Valid {
		stats.NewestCapture, _ = parseTimestamp(newest.String)
	}

	counts, err := s.categoryCounts(ctx)
	if err != nil {
		return nil, err
	}
	stats.CategoryCounts = counts

	return stats, nil
}

// categoryCounts counts sessions per category. Categories are stored as a
// comma-joined list, so the tally happens here rather than in SQL.
func (s *SQLiteStore) categoryCounts(ctx context.Context) ([]CategoryCount, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT categories FROM sessions")
	if err != nil {
		return nil, fmt.Errorf("category counts: %w", err)
	}
	defer rows.Close()

	tally := map[string]int64{}
	for rows.Next() {
		var categories string
		if err := rows.Scan(&categories); err != nil {
			return nil, err
		}
		if categories == "" {
			continue
		}
		for _, c := range strings.Split(categories, ",") {
			tally[c]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]CategoryCount, 0, len(tally))
	for _, name := range session.CategoryOrder {
		if n, ok := tally[name]; ok {
			out = append(out, CategoryCount{Category: name, Count: n})
		}
	}
	return out, nil
}

// PruneOlderThan deletes stored sessions captured before the cutoff.
// Sessions without a capture timestamp are never pruned by age.
func (s *SQLiteStore) PruneOlderThan(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE captured_at IS NOT NULL AND captured_at < ?",
		olderThan.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	return res.RowsAffected()
}

// nullTime converts a possibly-zero time to a nullable SQL argument.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// nullNumber converts a numeric Value to a nullable SQL argument.
func nullNumber(v value.Value) any {
	if f, ok := v.Float(); ok {
		return f
	}
	return nil
}

// nullBool converts a boolean Value to a nullable SQL argument.
func nullBool(v value.Value) any {
	if b, ok := v.Bool(); ok {
		return b
	}
	return nil
}

// nullText converts a text Value to a nullable SQL argument.
func nullText(v value.Value) any {
	if s, ok := v.Text(); ok {
		return s
	}
	return nil
}

// parseTimestamp tries the timestamp formats SQLite hands back.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}
