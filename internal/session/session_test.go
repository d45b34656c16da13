package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/runnerr0/devicepulse/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSession creates a session directory with the given files under root.
func writeSession(t *testing.T, root, name string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	for filename, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644))
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		dirname string
		want    time.Time
		wantOK  bool
	}{
		{"23-Aug-25_03-20-07-44", time.Date(2025, time.August, 23, 3, 20, 7, 0, time.UTC), true},
		{"01-Jan-26_00-00-00-00", time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), true},
		{"23-Aug-25_03-20-07", time.Date(2025, time.August, 23, 3, 20, 7, 0, time.UTC), true},
		{"not-a-timestamp", time.Time{}, false},
		{"23-08-25_03-20-07-44", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseTimestamp(tt.dirname)
		assert.Equal(t, tt.wantOK, ok, "ParseTimestamp(%q)", tt.dirname)
		if tt.wantOK {
			assert.True(t, got.Equal(tt.want), "ParseTimestamp(%q) = %v, want %v", tt.dirname, got, tt.want)
		}
	}
}

func TestParseAllMissingRoot(t *testing.T) {
	records, err := ParseAll(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
	assert.Empty(t, records)
}

func TestParseAllSingleFileSession(t *testing.T) {
	root := t.TempDir()
	writeSession(t, root, "23-Aug-25_03-20-07-44", map[string]string{
		"device_info.txt": "Model: CPH2449\nBrand: OnePlus\n",
	})

	records, err := ParseAll(root)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "23-Aug-25_03-20-07-44", rec.ID)
	assert.False(t, rec.Timestamp.IsZero())

	// Exactly one category present, eight absent.
	require.NotNil(t, rec.Device)
	assert.Equal(t, value.Text("CPH2449"), rec.Device.Fields.Get("model"))
	assert.Equal(t, []string{CategoryDevice}, rec.Categories())
	assert.Nil(t, rec.Battery)
	assert.Nil(t, rec.Thermal)
	assert.Nil(t, rec.Power)
	assert.Nil(t, rec.CPU)
	assert.Nil(t, rec.Processes)
	assert.Nil(t, rec.Memory)
	assert.Nil(t, rec.Usage)
	assert.Nil(t, rec.BatteryDetail)
}

func TestParseAllMalformedDirnameRetained(t *testing.T) {
	root := t.TempDir()
	writeSession(t, root, "not-a-timestamp", map[string]string{
		"power.txt": "Power state: AWAKE\nWake Locks: size=2\n",
	})

	records, err := ParseAll(root)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "not-a-timestamp", rec.ID)
	assert.True(t, rec.Timestamp.IsZero())
	require.NotNil(t, rec.Power)
	assert.Equal(t, value.Int(2), rec.Power.WakeLockCount)
}

func TestParseAllUnrecognizedFilesIgnored(t *testing.T) {
	root := t.TempDir()
	writeSession(t, root, "23-Aug-25_03-20-07-44", map[string]string{
		"notes.txt":       "operator scribbles",
		"screenshot.png":  "\x89PNG",
		"memory_info.txt": "Total RAM: 2,048K\nFree RAM: 1,024K\n",
	})

	records, err := ParseAll(root)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, []string{"memory_info.txt"}, rec.FilesParsed)
	assert.Empty(t, rec.Failures)
}

func TestParseAllMultipleSessions(t *testing.T) {
	root := t.TempDir()
	writeSession(t, root, "22-Aug-25_10-00-00-00", map[string]string{
		"cpuinfo.txt": "Total: 12%\nCPU0: 1800MHz\n",
	})
	writeSession(t, root, "23-Aug-25_03-20-07-44", map[string]string{
		"thermal.txt": "Temperature{mValue=350, mType=3, mName=CPU, mStatus=0}\n",
	})
	// Plain files at the root are not sessions.
	require.NoError(t, os.WriteFile(filepath.Join(root, "README"), []byte("x"), 0644))

	records, err := ParseAll(root)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestParseAllEmptySessionDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "23-Aug-25_03-20-07-44"), 0755))

	records, err := ParseAll(root)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].FilesParsed)
	assert.Empty(t, records[0].Categories())
}

func TestRecordMarshalJSON(t *testing.T) {
	root := t.TempDir()
	writeSession(t, root, "23-Aug-25_03-20-07-44", map[string]string{
		"device_info.txt": "Model: CPH2449\n",
	})

	records, err := ParseAll(root)
	require.NoError(t, err)

	data, err := json.Marshal(records[0])
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "23-Aug-25_03-20-07-44", decoded["session"])
	assert.Equal(t, "2025-08-23T03:20:07Z", decoded["captured_at"])
	assert.Contains(t, decoded, "device_info")
	assert.NotContains(t, decoded, "thermal")
}

func TestRecordMarshalJSONOmitsZeroTimestamp(t *testing.T) {
	data, err := json.Marshal(Record{ID: "not-a-timestamp"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "captured_at")
}
