package cli

import (
	"bytes"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/devicepulse/internal/storage"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// openTestStore creates a migrated in-memory store for command tests.
func openTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	runner := storage.NewMigrationRunner(db)
	require.NoError(t, runner.Run())

	store, err := storage.NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

// writeSession creates a session directory with the given files under root.
func writeSession(t *testing.T, root, name string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	for filename, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644))
	}
}

const batteryDump = `Current Battery Service state:
  AC powered: false
  USB powered: true
  level: 85
  voltage: 4250
  temperature: 325
  status: 2

`

const deviceDump = "Model: CPH2449\nBrand: OnePlus\nAndroid Version: 14\n"

// writeCaptureRoot builds a two-session capture tree and returns its root.
func writeCaptureRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeSession(t, root, "23-Aug-25_03-20-07-44", map[string]string{
		"battery_basic.txt": batteryDump,
		"device_info.txt":   deviceDump,
	})
	writeSession(t, root, "24-Aug-25_10-00-00-00", map[string]string{
		"battery_basic.txt": batteryDump,
	})
	return root
}
