package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/runnerr0/devicepulse/internal/value"
)

var (
	procTotalRe      = regexp.MustCompile(`TOTAL: (\d+)% \(([^)]+)\)`)
	procPersistentRe = regexp.MustCompile(`Persistent: (\d+)%`)
	procBndFgsRe     = regexp.MustCompile(`Bnd Fgs: (\d+)%`)
	procServiceRe    = regexp.MustCompile(`Service: (\d+)%`)
)

// Process is one process entry from a procstats dump.
type Process struct {
	Package string       `json:"package"`
	User    string       `json:"user"`
	Version string       `json:"version"`
	Stats   value.Fields `json:"stats"`
}

// ProcessReport is the ordered list of processes found in the dump.
type ProcessReport struct {
	Processes []Process `json:"processes"`
}

// Processes walks a procstats.txt dump line by line. A "* pkg / user /
// version:" line opens a new process; it stays open until the next opener
// or end of input, at which point it is flushed to the list. Statistic
// lines inside an open process are matched against the four known
// templates; anything else is ignored. The final open process is flushed
// at end of input, so a dump need not end on a boundary line.
func Processes(text string) *ProcessReport {
	report := &ProcessReport{}

	var current *Process
	flush := func() {
		if current != nil {
			report.Processes = append(report.Processes, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "*") && strings.Contains(line, " / ") {
			flush()
			parts := strings.Split(line, " / ")
			if len(parts) >= 3 {
				current = &Process{
					Package: strings.TrimSpace(strings.TrimPrefix(parts[0], "*")),
					User:    strings.TrimSpace(parts[1]),
					Version: strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(parts[2]), ":")),
					Stats:   value.Fields{},
				}
			}
			continue
		}

		if current == nil || !strings.Contains(line, ":") {
			continue
		}

		switch {
		case strings.Contains(line, "TOTAL:"):
			if m := procTotalRe.FindStringSubmatch(line); m != nil {
				current.Stats["total_percent"] = value.Int(mustInt(m[1]))
				current.Stats["total_memory"] = value.Text(m[2])
			}
		case strings.Contains(line, "Persistent:"):
			if m := procPersistentRe.FindStringSubmatch(line); m != nil {
				current.Stats["persistent_percent"] = value.Int(mustInt(m[1]))
			}
		case strings.Contains(line, "Bnd Fgs:"):
			if m := procBndFgsRe.FindStringSubmatch(line); m != nil {
				current.Stats["bound_foreground_percent"] = value.Int(mustInt(m[1]))
			}
		case strings.Contains(line, "Service:"):
			if m := procServiceRe.FindStringSubmatch(line); m != nil {
				current.Stats["service_percent"] = value.Int(mustInt(m[1]))
			}
		}
	}
	flush()

	return report
}

// mustInt converts a string already matched by a \d+ group.
func mustInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
