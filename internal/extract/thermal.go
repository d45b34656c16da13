package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/runnerr0/devicepulse/internal/value"
)

var (
	sensorRe        = regexp.MustCompile(`Temperature\{mValue=([\d.]+), mType=(\d+), mName=([^,]+)`)
	thermalStatusRe = regexp.MustCompile(`Thermal Status: (\d+)`)
)

// Sensor is one thermal sensor reading in degrees Celsius.
type Sensor struct {
	Value float64 `json:"value"`
	Type  int     `json:"type"`
}

// ThermalReport maps sensor name to its latest reading, plus the overall
// thermal throttling status code when present.
type ThermalReport struct {
	Sensors map[string]Sensor `json:"sensors"`
	Status  value.Value       `json:"status"`
}

// Thermal extracts every sensor-reading token from a thermal.txt dump.
// When the same sensor name appears more than once, the last occurrence
// wins. Readings above 100 are assumed to be in tenths of a degree and are
// divided by 10. That is a heuristic, not a device contract: a genuine
// reading above 100°C would be misread, but handset sensors do not report
// those.
func Thermal(text string) *ThermalReport {
	report := &ThermalReport{Sensors: map[string]Sensor{}}

	for _, m := range sensorRe.FindAllStringSubmatch(text, -1) {
		raw, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if raw > 100 {
			raw /= 10.0
		}
		typ, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		name := strings.TrimSpace(m[3])
		report.Sensors[name] = Sensor{Value: raw, Type: typ}
	}

	if m := thermalStatusRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			report.Status = value.Int(n)
		}
	}

	return report
}
