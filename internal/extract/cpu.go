package extract

import (
	"regexp"
	"strconv"

	"github.com/runnerr0/devicepulse/internal/value"
)

var (
	cpuLoadRe = regexp.MustCompile(`Total: (\d+)%`)
	cpuFreqRe = regexp.MustCompile(`CPU(\d+): (\d+)MHz`)
)

// CPUReport holds the overall load percentage and per-core clock
// frequencies in MHz, keyed by core index.
type CPUReport struct {
	TotalLoad value.Value `json:"total_load"`
	CoreMHz   map[int]int `json:"core_mhz,omitempty"`
}

// CPU extracts the total load line and every per-core frequency line from
// a cpuinfo.txt dump. Both are optional; a dump without the expected
// patterns yields an empty report.
func CPU(text string) *CPUReport {
	report := &CPUReport{}

	if m := cpuLoadRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			report.TotalLoad = value.Int(n)
		}
	}

	freqs := cpuFreqRe.FindAllStringSubmatch(text, -1)
	if len(freqs) > 0 {
		report.CoreMHz = make(map[int]int, len(freqs))
		for _, m := range freqs {
			core, err1 := strconv.Atoi(m[1])
			mhz, err2 := strconv.Atoi(m[2])
			if err1 != nil || err2 != nil {
				continue
			}
			report.CoreMHz[core] = mhz
		}
	}

	return report
}
