package extract

import (
	"regexp"
	"strings"

	"github.com/runnerr0/devicepulse/internal/value"
)

var (
	statsPeriodRe = regexp.MustCompile(`Statistics since (.+):`)
	appEntryRe    = regexp.MustCompile(`^\s+(\S+):`)

	screenMsRe = regexp.MustCompile(`Screen: (\d+) ms`)
	cpuMsRe    = regexp.MustCompile(`CPU: (\d+) ms`)
	wakeMsRe   = regexp.MustCompile(`Wake lock: (\d+) ms`)
	mobileMsRe = regexp.MustCompile(`Mobile network: (\d+) ms`)
	wifiMsRe   = regexp.MustCompile(`Wifi: (\d+) ms`)
)

// AppBattery is one app's battery attribution entry. Stats holds the five
// known resource categories, each in milliseconds.
type AppBattery struct {
	Package string       `json:"package"`
	Stats   value.Fields `json:"stats"`
}

// BatteryDetailReport holds per-app battery attribution plus totals summed
// across all apps. The totals are derived at parse time; they are zero,
// not absent, when the dump lists no apps.
type BatteryDetailReport struct {
	Period          value.Value  `json:"period"`
	Apps            []AppBattery `json:"apps"`
	TotalScreenMs   int64        `json:"total_screen_ms"`
	TotalCPUMs      int64        `json:"total_cpu_ms"`
	TotalWakeLockMs int64        `json:"total_wake_lock_ms"`
}

// BatteryDetail walks a battery_stats_detailed.txt dump. Indentation
// carries the structure: a top-level "Statistics since <period>" line sets
// the period label, a one-level indented line ending with a colon opens a
// per-app entry, and two-level indented lines populate that entry's
// resource milliseconds when they match a known template.
func BatteryDetail(text string) *BatteryDetailReport {
	report := &BatteryDetailReport{}

	var current *AppBattery
	flush := func() {
		if current != nil {
			report.Apps = append(report.Apps, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "Statistics since "):
			if m := statsPeriodRe.FindStringSubmatch(trimmed); m != nil {
				report.Period = value.Text(m[1])
			}

		case appLevel(line) && strings.HasSuffix(trimmed, ":"):
			flush()
			if m := appEntryRe.FindStringSubmatch(line); m != nil {
				current = &AppBattery{
					Package: strings.TrimSuffix(m[1], ":"),
					Stats:   value.Fields{},
				}
			}

		case statLevel(line) && current != nil:
			matchMs(current.Stats, trimmed)
		}
	}
	flush()

	for _, app := range report.Apps {
		if n, ok := app.Stats.Int("screen_time_ms"); ok {
			report.TotalScreenMs += n
		}
		if n, ok := app.Stats.Int("cpu_time_ms"); ok {
			report.TotalCPUMs += n
		}
		if n, ok := app.Stats.Int("wake_lock_ms"); ok {
			report.TotalWakeLockMs += n
		}
	}

	return report
}

// appLevel reports one level of indentation: the app-entry depth.
func appLevel(line string) bool {
	return strings.HasPrefix(line, "  ") && !strings.HasPrefix(line, "    ")
}

// statLevel reports two levels of indentation: the per-app statistic depth.
func statLevel(line string) bool {
	return strings.HasPrefix(line, "    ")
}

func matchMs(stats value.Fields, line string) {
	set := func(re *regexp.Regexp, key string) bool {
		if m := re.FindStringSubmatch(line); m != nil {
			stats[key] = value.Int(mustInt(m[1]))
			return true
		}
		return false
	}

	switch {
	case strings.Contains(line, "Screen"):
		set(screenMsRe, "screen_time_ms")
	case strings.Contains(line, "CPU"):
		set(cpuMsRe, "cpu_time_ms")
	case strings.Contains(line, "Wake lock"):
		set(wakeMsRe, "wake_lock_ms")
	case strings.Contains(line, "Mobile network"):
		set(mobileMsRe, "mobile_network_ms")
	case strings.Contains(line, "Wifi"):
		set(wifiMsRe, "wifi_time_ms")
	}
}
