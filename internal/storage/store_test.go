package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/devicepulse/internal/extract"
	"github.com/runnerr0/devicepulse/internal/session"
	"github.com/runnerr0/devicepulse/internal/summary"
	"github.com/runnerr0/devicepulse/internal/value"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)

	runner := NewMigrationRunner(db)
	require.NoError(t, runner.Run())

	store, err := NewSQLiteStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
		db.Close()
	})
	return store
}

func testRecord(id string, ts time.Time) session.Record {
	return session.Record{
		ID:          id,
		Timestamp:   ts,
		FilesParsed: []string{"battery_basic.txt", "device_info.txt"},
		Battery: &extract.BatteryReport{
			Fields: value.Fields{
				"std_level":   value.Int(85),
				"std_voltage": value.Int(4250),
			},
		},
		Device: &extract.DeviceReport{
			Fields: value.Fields{
				"model": value.Text("CPH2451"),
				"brand": value.Text("OnePlus"),
			},
		},
	}
}

func testRow(id string, ts time.Time) summary.Row {
	return summary.Row{
		Session:        id,
		Timestamp:      ts,
		FilesParsed:    2,
		BatteryLevel:   value.Int(85),
		BatteryVoltage: value.Int(4250),
		BatteryTemp:    value.Float(32.5),
		ACPowered:      value.Bool(false),
		Model:          value.Text("CPH2451"),
		Brand:          value.Text("OnePlus"),
	}
}

func TestUpsertAndGetSession(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	ts := time.Date(2025, 8, 23, 3, 20, 7, 0, time.UTC)

	rec := testRecord("23-Aug-25_03-20-07", ts)
	require.NoError(t, store.UpsertSession(ctx, rec, testRow(rec.ID, ts)))

	stored, err := store.GetSession(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, stored.Session)
	assert.Equal(t, ts, stored.CapturedAt.UTC())
	assert.Equal(t, 2, stored.FilesParsed)
	assert.Equal(t, []string{session.CategoryBattery, session.CategoryDevice}, stored.Categories)
	assert.Contains(t, stored.Detail, `"std_level":85`)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestGetSessionNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetSession(context.Background(), "no-such-session")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestUpsertSessionReplaces(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	ts := time.Date(2025, 8, 23, 3, 20, 7, 0, time.UTC)

	rec := testRecord("23-Aug-25_03-20-07", ts)
	require.NoError(t, store.UpsertSession(ctx, rec, testRow(rec.ID, ts)))

	rec.FilesParsed = append(rec.FilesParsed, "thermal.txt")
	rec.Thermal = &extract.ThermalReport{
		Sensors: map[string]extract.Sensor{"CPU": {Value: 41.2, Type: 3}},
	}
	require.NoError(t, store.UpsertSession(ctx, rec, testRow(rec.ID, ts)))

	stored, err := store.GetSession(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.FilesParsed)
	assert.Contains(t, stored.Categories, session.CategoryThermal)

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalSessions)
}

func TestUpsertSessionWithoutTimestamp(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := testRecord("misc-dump", time.Time{})
	require.NoError(t, store.UpsertSession(ctx, rec, testRow(rec.ID, time.Time{})))

	stored, err := store.GetSession(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, stored.CapturedAt.IsZero())
}

func TestAbsentMetricsStoredAsNull(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := session.Record{ID: "sparse", FilesParsed: []string{"power.txt"}}
	row := summary.Row{Session: "sparse", FilesParsed: 1}
	require.NoError(t, store.UpsertSession(ctx, rec, row))

	var level, model sql.NullString
	err := store.db.QueryRow(
		"SELECT battery_level, model FROM summary_rows WHERE session = ?", "sparse",
	).Scan(&level, &model)
	require.NoError(t, err)
	assert.False(t, level.Valid)
	assert.False(t, model.Valid)
}

func TestListSessionsOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	later := time.Date(2025, 8, 24, 10, 0, 0, 0, time.UTC)
	earlier := time.Date(2025, 8, 23, 10, 0, 0, 0, time.UTC)

	for _, s := range []struct {
		id string
		ts time.Time
	}{
		{"24-Aug-25_10-00-00", later},
		{"undated", time.Time{}},
		{"23-Aug-25_10-00-00", earlier},
	} {
		rec := testRecord(s.id, s.ts)
		require.NoError(t, store.UpsertSession(ctx, rec, testRow(s.id, s.ts)))
	}

	sessions, err := store.ListSessions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "23-Aug-25_10-00-00", sessions[0].Session)
	assert.Equal(t, "24-Aug-25_10-00-00", sessions[1].Session)
	assert.Equal(t, "undated", sessions[2].Session)

	limited, err := store.ListSessions(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestGetStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	oldest := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)
	newest := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)

	recA := testRecord("20-Aug-25_00-00-00", oldest)
	require.NoError(t, store.UpsertSession(ctx, recA, testRow(recA.ID, oldest)))

	recB := testRecord("25-Aug-25_00-00-00", newest)
	recB.Thermal = &extract.ThermalReport{}
	require.NoError(t, store.UpsertSession(ctx, recB, testRow(recB.ID, newest)))

	recC := testRecord("undated", time.Time{})
	require.NoError(t, store.UpsertSession(ctx, recC, testRow(recC.ID, time.Time{})))

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalSessions)
	assert.Equal(t, int64(2), stats.WithTimestamp)
	assert.Equal(t, oldest, stats.OldestCapture.UTC())
	assert.Equal(t, newest, stats.NewestCapture.UTC())

	require.Len(t, stats.CategoryCounts, 3)
	assert.Equal(t, CategoryCount{Category: session.CategoryBattery, Count: 3}, stats.CategoryCounts[0])
	assert.Equal(t, CategoryCount{Category: session.CategoryDevice, Count: 3}, stats.CategoryCounts[1])
	assert.Equal(t, CategoryCount{Category: session.CategoryThermal, Count: 1}, stats.CategoryCounts[2])
}

func TestGetStatsEmpty(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalSessions)
	assert.True(t, stats.OldestCapture.IsZero())
	assert.Empty(t, stats.CategoryCounts)
}

func TestPruneOlderThan(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	old := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)

	for _, s := range []struct {
		id string
		ts time.Time
	}{
		{"1-May-25_00-00-00", old},
		{"25-Aug-25_00-00-00", recent},
		{"undated", time.Time{}},
	} {
		rec := testRecord(s.id, s.ts)
		require.NoError(t, store.UpsertSession(ctx, rec, testRow(s.id, s.ts)))
	}

	pruned, err := store.PruneOlderThan(ctx, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	sessions, err := store.ListSessions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	// Cascade removes the summary row alongside its session.
	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM summary_rows").Scan(&count))
	assert.Equal(t, 2, count)
}
