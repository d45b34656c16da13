package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/runnerr0/devicepulse/internal/value"
)

var (
	powerStateRe = regexp.MustCompile(`Power state: (.+)`)
	wakeLocksRe  = regexp.MustCompile(`Wake Locks: size=(\d+)`)
)

// PowerReport holds the power manager state line and the wake lock count.
type PowerReport struct {
	State         value.Value `json:"state"`
	WakeLockCount value.Value `json:"wake_lock_count"`
}

// Power extracts the free-text power state and the wake lock count from a
// power.txt dump. The first occurrence of each wins.
func Power(text string) *PowerReport {
	report := &PowerReport{}

	if m := powerStateRe.FindStringSubmatch(text); m != nil {
		report.State = value.Text(strings.TrimSpace(m[1]))
	}
	if m := wakeLocksRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			report.WakeLockCount = value.Int(n)
		}
	}

	return report
}
