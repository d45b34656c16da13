package extract

import (
	"regexp"
	"strings"

	"github.com/runnerr0/devicepulse/internal/value"
)

var (
	usagePackageRe    = regexp.MustCompile(`Package (\S+)`)
	usageForegroundRe = regexp.MustCompile(`Total time in foreground: (.+)`)
	usageVisibleRe    = regexp.MustCompile(`Total time visible: (.+)`)
	usageBackgroundRe = regexp.MustCompile(`Total time in background: (.+)`)
)

// AppUsage is one app's usage-stats entry. Durations are kept as the
// opaque strings the dump prints ("1h 23m 4s"); nothing downstream needs
// them as numbers.
type AppUsage struct {
	Package string       `json:"package"`
	Stats   value.Fields `json:"stats"`
}

// UsageReport is the ordered list of app usage entries.
type UsageReport struct {
	Apps []AppUsage `json:"apps"`
}

// Usage walks a usage_stats.txt dump line by line. A "Package <name>:"
// line opens a new app entry; the three known time-in-state lines populate
// it until the next opener or end of input.
func Usage(text string) *UsageReport {
	report := &UsageReport{}

	var current *AppUsage
	flush := func() {
		if current != nil {
			report.Apps = append(report.Apps, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "Package ") && strings.Contains(line, ":") {
			flush()
			if m := usagePackageRe.FindStringSubmatch(line); m != nil {
				current = &AppUsage{
					Package: strings.TrimSuffix(m[1], ":"),
					Stats:   value.Fields{},
				}
			}
			continue
		}

		if current == nil || !strings.Contains(line, ":") {
			continue
		}

		switch {
		case strings.Contains(line, "Total time in foreground:"):
			if m := usageForegroundRe.FindStringSubmatch(line); m != nil {
				current.Stats["foreground_time"] = value.Text(m[1])
			}
		case strings.Contains(line, "Total time visible:"):
			if m := usageVisibleRe.FindStringSubmatch(line); m != nil {
				current.Stats["visible_time"] = value.Text(m[1])
			}
		case strings.Contains(line, "Total time in background:"):
			if m := usageBackgroundRe.FindStringSubmatch(line); m != nil {
				current.Stats["background_time"] = value.Text(m[1])
			}
		}
	}
	flush()

	return report
}
