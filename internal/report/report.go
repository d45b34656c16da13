// Package report prints human-readable analyses of parsed diagnostic
// sessions: battery health, process activity, and battery drain sources.
// It only reads records and summary rows; it contains no extraction logic.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/runnerr0/devicepulse/internal/extract"
	"github.com/runnerr0/devicepulse/internal/session"
	"github.com/runnerr0/devicepulse/internal/summary"
	"github.com/runnerr0/devicepulse/internal/value"
)

// Warning thresholds, in degrees Celsius.
const (
	batteryMaxTempWarn  = 45.0
	batteryMeanTempWarn = 40.0
	socTempWarn         = 80.0
)

// BatteryHealth prints battery level statistics, drain rates between
// consecutive sessions, temperature analysis, and a device summary.
func BatteryHealth(w io.Writer, table summary.Table) {
	fmt.Fprintln(w, "Battery Health")
	fmt.Fprintln(w, "==============")

	levels, levelRows := collectFloat(table.Rows, func(r summary.Row) value.Value { return r.BatteryLevel })
	if len(levels) == 0 {
		fmt.Fprintln(w, "No battery level data.")
	} else {
		mean, min, max, std := stats(levels)
		fmt.Fprintf(w, "Battery level: avg %.1f%%, min %.0f%%, max %.0f%%, stddev %.1f%%\n", mean, min, max, std)
		printDrainRates(w, levelRows)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Temperatures")
	fmt.Fprintln(w, "------------")
	printTempStats(w, "Battery", table.Rows, func(r summary.Row) value.Value { return r.BatteryTemp })
	printTempStats(w, "CPU", table.Rows, func(r summary.Row) value.Value { return r.CPUTemp })
	printTempStats(w, "GPU", table.Rows, func(r summary.Row) value.Value { return r.GPUTemp })
	printTempStats(w, "Skin", table.Rows, func(r summary.Row) value.Value { return r.SkinTemp })

	fmt.Fprintln(w)
	printDeviceSummary(w, table.Rows)
}

// printDrainRates reports battery percent-per-hour between consecutive
// dated sessions. Positive rates are charging, negative discharging.
func printDrainRates(w io.Writer, rows []summary.Row) {
	type sample struct {
		ts    time.Time
		level float64
	}
	var samples []sample
	for _, r := range rows {
		if r.Timestamp.IsZero() {
			continue
		}
		if lvl, ok := r.BatteryLevel.Float(); ok {
			samples = append(samples, sample{r.Timestamp, lvl})
		}
	}
	if len(samples) < 2 {
		return
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].ts.Before(samples[j].ts) })

	var rates, charging, discharging []float64
	for i := 1; i < len(samples); i++ {
		hours := samples[i].ts.Sub(samples[i-1].ts).Hours()
		if hours <= 0 {
			continue
		}
		rate := (samples[i].level - samples[i-1].level) / hours
		rates = append(rates, rate)
		if rate > 0 {
			charging = append(charging, rate)
		} else if rate < 0 {
			discharging = append(discharging, rate)
		}
	}
	if len(rates) == 0 {
		return
	}

	mean, min, max, _ := stats(rates)
	fmt.Fprintf(w, "Drain rate: avg %+.2f%%/h, fastest drain %+.2f%%/h, slowest %+.2f%%/h\n", mean, min, max)
	if len(charging) > 0 {
		m, _, _, _ := stats(charging)
		fmt.Fprintf(w, "Charging rate: avg %+.2f%%/h\n", m)
	}
	if len(discharging) > 0 {
		m, _, _, _ := stats(discharging)
		fmt.Fprintf(w, "Discharging rate: avg %+.2f%%/h\n", m)
	}
}

func printTempStats(w io.Writer, label string, rows []summary.Row, pick func(summary.Row) value.Value) {
	temps, _ := collectFloat(rows, pick)
	if len(temps) == 0 {
		return
	}
	mean, min, max, std := stats(temps)
	fmt.Fprintf(w, "%-8s avg %.1f°C, min %.1f°C, max %.1f°C, stddev %.1f°C\n", label+":", mean, min, max, std)

	switch label {
	case "Battery":
		if max > batteryMaxTempWarn {
			fmt.Fprintf(w, "  WARNING: maximum battery temperature exceeds %.0f°C\n", batteryMaxTempWarn)
		}
		if mean > batteryMeanTempWarn {
			fmt.Fprintln(w, "  WARNING: average battery temperature is high")
		}
	case "CPU", "GPU":
		if max > socTempWarn {
			fmt.Fprintf(w, "  WARNING: maximum %s temperature exceeds %.0f°C\n", label, socTempWarn)
		}
	}
}

func printDeviceSummary(w io.Writer, rows []summary.Row) {
	fmt.Fprintln(w, "Device")
	fmt.Fprintln(w, "------")
	if v, ok := firstText(rows, func(r summary.Row) value.Value { return r.Model }); ok {
		fmt.Fprintf(w, "Model:           %s\n", v)
	}
	if v, ok := firstText(rows, func(r summary.Row) value.Value { return r.Brand }); ok {
		fmt.Fprintf(w, "Brand:           %s\n", v)
	}
	if v, ok := firstText(rows, func(r summary.Row) value.Value { return r.OSVersion }); ok {
		fmt.Fprintf(w, "Android version: %s\n", v)
	}
	fmt.Fprintf(w, "Sessions:        %d\n", len(rows))

	var oldest, newest time.Time
	for _, r := range rows {
		if r.Timestamp.IsZero() {
			continue
		}
		if oldest.IsZero() || r.Timestamp.Before(oldest) {
			oldest = r.Timestamp
		}
		if r.Timestamp.After(newest) {
			newest = r.Timestamp
		}
	}
	if !oldest.IsZero() {
		fmt.Fprintf(w, "Collection span: %s\n", newest.Sub(oldest))
	}
}

// ProcessPerformance prints, per session, the process count, the top
// processes by total runtime percentage, and the memory picture.
func ProcessPerformance(w io.Writer, records []session.Record, topN int) {
	fmt.Fprintln(w, "Process Performance")
	fmt.Fprintln(w, "===================")

	for _, rec := range records {
		fmt.Fprintf(w, "\nSession %s\n", rec.ID)

		if rec.Processes != nil {
			procs := rec.Processes.Processes
			fmt.Fprintf(w, "  Processes: %d\n", len(procs))

			sorted := make([]extract.Process, len(procs))
			copy(sorted, procs)
			sort.SliceStable(sorted, func(i, j int) bool {
				pi, _ := sorted[i].Stats.Float("total_percent")
				pj, _ := sorted[j].Stats.Float("total_percent")
				return pi > pj
			})

			for i, p := range sorted {
				if i >= topN {
					break
				}
				fmt.Fprintf(w, "  %d. %s total %s%%", i+1, p.Package, orNA(p.Stats.Get("total_percent")))
				if v := p.Stats.Get("service_percent"); !v.IsAbsent() {
					fmt.Fprintf(w, ", service %s%%", v)
				}
				fmt.Fprintln(w)
			}
		}

		if rec.Memory != nil {
			if gb, ok := rec.Memory.Fields.Float("total_ram_gb"); ok {
				fmt.Fprintf(w, "  Total RAM: %.2f GB\n", gb)
			}
			if mb, ok := rec.Memory.Fields.Float("used_ram_mb"); ok {
				fmt.Fprintf(w, "  Used RAM:  %.1f MB\n", mb)
			}
			if pct, ok := rec.Memory.Fields.Float("ram_usage_percent"); ok {
				fmt.Fprintf(w, "  RAM usage: %.1f%%\n", pct)
			}
		}
	}
}

// DrainSources prints, per session, the top battery consumers by wake
// lock, CPU, and screen time.
func DrainSources(w io.Writer, records []session.Record, topN int) {
	fmt.Fprintln(w, "Battery Drain Sources")
	fmt.Fprintln(w, "=====================")

	for _, rec := range records {
		if rec.BatteryDetail == nil {
			continue
		}
		fmt.Fprintf(w, "\nSession %s\n", rec.ID)

		printTopApps(w, rec.BatteryDetail.Apps, "wake_lock_ms", "Wake lock", topN)
		printTopApps(w, rec.BatteryDetail.Apps, "cpu_time_ms", "CPU", topN)
		printTopApps(w, rec.BatteryDetail.Apps, "screen_time_ms", "Screen", topN)
	}
}

func printTopApps(w io.Writer, apps []extract.AppBattery, key, label string, topN int) {
	type ranked struct {
		pkg string
		ms  int64
	}
	var rankedApps []ranked
	for _, app := range apps {
		if ms, ok := app.Stats.Int(key); ok && ms > 0 {
			rankedApps = append(rankedApps, ranked{app.Package, ms})
		}
	}
	if len(rankedApps) == 0 {
		return
	}
	sort.SliceStable(rankedApps, func(i, j int) bool { return rankedApps[i].ms > rankedApps[j].ms })

	fmt.Fprintf(w, "  Top %s consumers:\n", label)
	for i, r := range rankedApps {
		if i >= topN {
			break
		}
		fmt.Fprintf(w, "    %d. %s: %.1fs\n", i+1, r.pkg, float64(r.ms)/1000)
	}
}

// collectFloat gathers the numeric values the picker finds, together with
// the rows that carried them.
func collectFloat(rows []summary.Row, pick func(summary.Row) value.Value) ([]float64, []summary.Row) {
	var vals []float64
	var kept []summary.Row
	for _, r := range rows {
		if f, ok := pick(r).Float(); ok {
			vals = append(vals, f)
			kept = append(kept, r)
		}
	}
	return vals, kept
}

func firstText(rows []summary.Row, pick func(summary.Row) value.Value) (string, bool) {
	for _, r := range rows {
		if s, ok := pick(r).Text(); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

func orNA(v value.Value) string {
	if v.IsAbsent() {
		return "N/A"
	}
	return v.String()
}

// stats returns mean, min, max, and population standard deviation.
func stats(vals []float64) (mean, min, max, std float64) {
	min = vals[0]
	max = vals[0]
	var sum float64
	for _, v := range vals {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean = sum / float64(len(vals))

	var sq float64
	for _, v := range vals {
		sq += (v - mean) * (v - mean)
	}
	std = math.Sqrt(sq / float64(len(vals)))
	return mean, min, max, std
}
