// Package session discovers diagnostic capture sessions under a root
// directory and runs the category extractors over each session's files.
package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/runnerr0/devicepulse/internal/extract"
)

// Category names, also the recognized filenames (minus .txt) inside a
// session directory.
const (
	CategoryBattery       = "battery_basic"
	CategoryDevice        = "device_info"
	CategoryThermal       = "thermal"
	CategoryPower         = "power"
	CategoryCPU           = "cpuinfo"
	CategoryProcstats     = "procstats"
	CategoryMemory        = "memory_info"
	CategoryUsage         = "usage_stats"
	CategoryBatteryDetail = "battery_stats_detailed"
)

// CategoryOrder is the fixed presentation order for category names.
var CategoryOrder = []string{
	CategoryBattery,
	CategoryDevice,
	CategoryThermal,
	CategoryPower,
	CategoryCPU,
	CategoryProcstats,
	CategoryMemory,
	CategoryUsage,
	CategoryBatteryDetail,
}

// Failure records a per-file extraction problem. Failures never abort a
// run; they are kept on the record so callers and tests can see them.
type Failure struct {
	File string `json:"file"`
	Err  error  `json:"-"`
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.File, f.Err)
}

// Record is one diagnostic capture session: its directory name, the
// capture timestamp parsed from that name (zero when the name does not
// match), and whichever category reports were extracted. A nil category
// pointer means the file was missing or unreadable, never "empty".
type Record struct {
	ID          string    `json:"session"`
	Timestamp   time.Time `json:"-"`
	FilesParsed []string  `json:"files_parsed,omitempty"`
	Failures    []Failure `json:"-"`

	Battery       *extract.BatteryReport       `json:"battery_basic,omitempty"`
	Device        *extract.DeviceReport        `json:"device_info,omitempty"`
	Thermal       *extract.ThermalReport       `json:"thermal,omitempty"`
	Power         *extract.PowerReport         `json:"power,omitempty"`
	CPU           *extract.CPUReport           `json:"cpuinfo,omitempty"`
	Processes     *extract.ProcessReport       `json:"procstats,omitempty"`
	Memory        *extract.MemoryReport        `json:"memory_info,omitempty"`
	Usage         *extract.UsageReport         `json:"usage_stats,omitempty"`
	BatteryDetail *extract.BatteryDetailReport `json:"battery_stats_detailed,omitempty"`
}

// MarshalJSON renders the capture timestamp as RFC3339, omitting it
// entirely when the directory name carried no parseable timestamp.
func (r Record) MarshalJSON() ([]byte, error) {
	type alias Record
	out := struct {
		alias
		CapturedAt string `json:"captured_at,omitempty"`
	}{alias: alias(r)}
	if !r.Timestamp.IsZero() {
		out.CapturedAt = r.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(out)
}

// dirTimestampRe matches session directory names like
// "23-Aug-25_03-20-07-44". The trailing "-44" is sub-second noise from
// the capture script and is discarded before parsing.
var dirTimestampRe = regexp.MustCompile(`^(\d{1,2}-[A-Za-z]{3}-\d{2}_\d{2}-\d{2}-\d{2})(?:-\d+)?$`)

const dirTimestampLayout = "2-Jan-06_15-04-05"

// ParseTimestamp parses the capture timestamp encoded in a session
// directory name. ok is false when the name does not match the pattern.
func ParseTimestamp(dirname string) (time.Time, bool) {
	m := dirTimestampRe.FindStringSubmatch(dirname)
	if m == nil {
		return time.Time{}, false
	}
	ts, err := time.Parse(dirTimestampLayout, m[1])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// ParseAll discovers every session directory under root and parses the
// recognized diagnostic files in each. Unrecognized files are ignored; a
// directory whose name carries no parseable timestamp is retained with a
// zero timestamp and a logged warning. Only an unreadable root is an
// error, and it yields an empty result rather than a partial one.
func ParseAll(root string) ([]Record, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read sessions root %s: %w", root, err)
	}

	var records []Record
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		records = append(records, parseDir(root, entry.Name()))
	}

	slog.Info("parsed diagnostic sessions", "root", root, "sessions", len(records))
	return records, nil
}

// parseDir parses one session directory into a Record.
func parseDir(root, name string) Record {
	rec := Record{ID: name}

	ts, ok := ParseTimestamp(name)
	if ok {
		rec.Timestamp = ts
	} else {
		slog.Warn("session directory name has no parseable timestamp", "session", name)
	}

	dir := filepath.Join(root, name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		rec.Failures = append(rec.Failures, Failure{File: dir, Err: err})
		slog.Warn("cannot list session directory", "session", name, "error", err)
		return rec
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		filename := entry.Name()
		if !recognized(filename) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, filename))
		if err != nil {
			rec.Failures = append(rec.Failures, Failure{File: filename, Err: err})
			slog.Warn("cannot read diagnostic file", "session", name, "file", filename, "error", err)
			continue
		}

		rec.apply(filename, string(data))
		rec.FilesParsed = append(rec.FilesParsed, filename)
	}

	slog.Debug("parsed session", "session", name, "files", len(rec.FilesParsed))
	return rec
}

// recognized reports whether filename maps to a category extractor.
func recognized(filename string) bool {
	switch filename {
	case CategoryBattery + ".txt", CategoryDevice + ".txt", CategoryThermal + ".txt",
		CategoryPower + ".txt", CategoryCPU + ".txt", CategoryProcstats + ".txt",
		CategoryMemory + ".txt", CategoryUsage + ".txt", CategoryBatteryDetail + ".txt":
		return true
	}
	return false
}

// apply dispatches one file's text to its category extractor.
func (r *Record) apply(filename, text string) {
	switch filename {
	case CategoryBattery + ".txt":
		r.Battery = extract.Battery(text)
	case CategoryDevice + ".txt":
		r.Device = extract.Device(text)
	case CategoryThermal + ".txt":
		r.Thermal = extract.Thermal(text)
	case CategoryPower + ".txt":
		r.Power = extract.Power(text)
	case CategoryCPU + ".txt":
		r.CPU = extract.CPU(text)
	case CategoryProcstats + ".txt":
		r.Processes = extract.Processes(text)
	case CategoryMemory + ".txt":
		r.Memory = extract.Memory(text)
	case CategoryUsage + ".txt":
		r.Usage = extract.Usage(text)
	case CategoryBatteryDetail + ".txt":
		r.BatteryDetail = extract.BatteryDetail(text)
	}
}

// Categories lists the category names present on the record, in the fixed
// category order.
func (r *Record) Categories() []string {
	var out []string
	if r.Battery != nil {
		out = append(out, CategoryBattery)
	}
	if r.Device != nil {
		out = append(out, CategoryDevice)
	}
	if r.Thermal != nil {
		out = append(out, CategoryThermal)
	}
	if r.Power != nil {
		out = append(out, CategoryPower)
	}
	if r.CPU != nil {
		out = append(out, CategoryCPU)
	}
	if r.Processes != nil {
		out = append(out, CategoryProcstats)
	}
	if r.Memory != nil {
		out = append(out, CategoryMemory)
	}
	if r.Usage != nil {
		out = append(out, CategoryUsage)
	}
	if r.BatteryDetail != nil {
		out = append(out, CategoryBatteryDetail)
	}
	return out
}
