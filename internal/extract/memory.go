package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/runnerr0/devicepulse/internal/value"
)

var (
	totalRAMRe = regexp.MustCompile(`Total RAM: ([\d,]+)\s*K`)
	freeRAMRe  = regexp.MustCompile(`Free RAM: ([\d,]+)\s*K`)
)

// AppMemory is one app's share of RAM. The per-app breakdown of a meminfo
// dump is not parsed yet; MemoryReport.AppMemory is always empty. Kept as
// a typed placeholder so storing and exporting code does not change when
// the breakdown parser lands.
type AppMemory struct {
	Name     string  `json:"name"`
	MemoryMB float64 `json:"memory_mb"`
}

// MemoryReport holds the RAM counters derived from a memory_info.txt dump.
type MemoryReport struct {
	Fields    value.Fields `json:"fields"`
	AppMemory []AppMemory  `json:"app_memory"`
}

// Memory extracts total and free RAM. The dump reports kilobytes with
// thousands separators ("Total RAM: 1,048,576K"); separators are stripped
// before conversion. Used RAM and the usage percentage are derived only
// when both totals are present.
func Memory(text string) *MemoryReport {
	fields := value.Fields{}

	if m := totalRAMRe.FindStringSubmatch(text); m != nil {
		if kb, ok := groupedInt(m[1]); ok {
			fields["total_ram_kb"] = value.Int(kb)
			fields["total_ram_mb"] = value.Float(float64(kb) / 1024)
			fields["total_ram_gb"] = value.Float(float64(kb) / 1024 / 1024)
		}
	}

	if m := freeRAMRe.FindStringSubmatch(text); m != nil {
		if kb, ok := groupedInt(m[1]); ok {
			fields["free_ram_kb"] = value.Int(kb)
			freeMB := float64(kb) / 1024
			fields["free_ram_mb"] = value.Float(freeMB)

			if totalMB, ok := fields.Float("total_ram_mb"); ok && totalMB > 0 {
				usedMB := totalMB - freeMB
				fields["used_ram_mb"] = value.Float(usedMB)
				fields["ram_usage_percent"] = value.Float(usedMB / totalMB * 100)
			}
		}
	}

	return &MemoryReport{Fields: fields, AppMemory: []AppMemory{}}
}

// groupedInt parses a digit string that may contain thousands separators.
func groupedInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
