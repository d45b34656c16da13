// Package summary flattens heterogeneous session records into a single
// wide table, one row per session, for cross-session trend analysis.
package summary

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/runnerr0/devicepulse/internal/extract"
	"github.com/runnerr0/devicepulse/internal/session"
	"github.com/runnerr0/devicepulse/internal/value"
)

// Row is one session's headline metrics. Every metric is a value.Value so
// a missing source category projects to Absent, never to zero.
type Row struct {
	Session     string    `json:"session"`
	Timestamp   time.Time `json:"-"`
	FilesParsed int       `json:"files_parsed"`

	BatteryLevel   value.Value `json:"battery_level"`
	BatteryVoltage value.Value `json:"battery_voltage"`
	BatteryTemp    value.Value `json:"battery_temperature"`
	ChargingStatus value.Value `json:"charging_status"`
	ACPowered      value.Value `json:"ac_powered"`
	USBPowered     value.Value `json:"usb_powered"`
	PhoneTemp      value.Value `json:"phone_temp"`

	Model     value.Value `json:"model"`
	Brand     value.Value `json:"brand"`
	OSVersion value.Value `json:"android_version"`

	CPUTemp            value.Value `json:"cpu_temp"`
	GPUTemp            value.Value `json:"gpu_temp"`
	BatteryTempThermal value.Value `json:"battery_temp_thermal"`
	SkinTemp           value.Value `json:"skin_temp"`

	ProcessCount    value.Value `json:"total_processes"`
	TotalRAMGB      value.Value `json:"total_ram_gb"`
	UsedRAMMB       value.Value `json:"used_ram_mb"`
	RAMUsagePercent value.Value `json:"ram_usage_percent"`

	TotalScreenMs   value.Value `json:"total_screen_time_ms"`
	TotalCPUMs      value.Value `json:"total_cpu_time_ms"`
	TotalWakeLockMs value.Value `json:"total_wake_lock_ms"`
}

// MarshalJSON renders the capture timestamp as RFC3339, omitting it when
// the session carried no parseable timestamp.
func (r Row) MarshalJSON() ([]byte, error) {
	type alias Row
	out := struct {
		alias
		Timestamp string `json:"timestamp,omitempty"`
	}{alias: alias(r)}
	if !r.Timestamp.IsZero() {
		out.Timestamp = r.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(out)
}

// Table is the summary rows sorted ascending by capture timestamp.
type Table struct {
	Rows []Row
}

// Columns is the fixed CSV/display column order. "session" and
// "timestamp" lead, then the headline metrics in Row field order.
var Columns = []string{
	"session", "timestamp", "files_parsed",
	"battery_level", "battery_voltage", "battery_temperature",
	"charging_status", "ac_powered", "usb_powered", "phone_temp",
	"model", "brand", "android_version",
	"cpu_temp", "gpu_temp", "battery_temp_thermal", "skin_temp",
	"total_processes", "total_ram_gb", "used_ram_mb", "ram_usage_percent",
	"total_screen_time_ms", "total_cpu_time_ms", "total_wake_lock_ms",
}

// Values renders the row in Columns order. The timestamp renders as
// RFC3339, or empty when unknown; absent metrics render as "".
func (r Row) Values() []string {
	ts := ""
	if !r.Timestamp.IsZero() {
		ts = r.Timestamp.UTC().Format(time.RFC3339)
	}
	fields := []value.Value{
		r.BatteryLevel, r.BatteryVoltage, r.BatteryTemp,
		r.ChargingStatus, r.ACPowered, r.USBPowered, r.PhoneTemp,
		r.Model, r.Brand, r.OSVersion,
		r.CPUTemp, r.GPUTemp, r.BatteryTempThermal, r.SkinTemp,
		r.ProcessCount, r.TotalRAMGB, r.UsedRAMMB, r.RAMUsagePercent,
		r.TotalScreenMs, r.TotalCPUMs, r.TotalWakeLockMs,
	}

	out := []string{r.Session, ts, value.Int(int64(r.FilesParsed)).String()}
	for _, v := range fields {
		out = append(out, v.String())
	}
	return out
}

// Project flattens the session records into a Table. Rows are ordered by
// capture timestamp ascending; sessions without a parseable timestamp sort
// after all dated ones, ordered among themselves by session id so the
// result is deterministic. Project never fails: zero records yield an
// empty table.
func Project(records []session.Record) Table {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, projectRecord(rec))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ti, tj := rows[i].Timestamp, rows[j].Timestamp
		switch {
		case ti.IsZero() && tj.IsZero():
			return rows[i].Session < rows[j].Session
		case ti.IsZero():
			return false
		case tj.IsZero():
			return true
		default:
			return ti.Before(tj)
		}
	})

	return Table{Rows: rows}
}

func projectRecord(rec session.Record) Row {
	row := Row{
		Session:     rec.ID,
		Timestamp:   rec.Timestamp,
		FilesParsed: len(rec.FilesParsed),
	}

	if b := rec.Battery; b != nil {
		row.BatteryLevel = b.Fields.Get("std_level")
		row.BatteryVoltage = b.Fields.Get("std_voltage")
		row.BatteryTemp = b.Fields.Get("std_temperature")
		row.ChargingStatus = b.Fields.Get("std_status")
		row.ACPowered = b.Fields.Get("std_AC powered")
		row.USBPowered = b.Fields.Get("std_USB powered")
		row.PhoneTemp = b.Fields.Get("vendor_PhoneTemp")
	}

	if d := rec.Device; d != nil {
		row.Model = d.Fields.Get("model")
		row.Brand = d.Fields.Get("brand")
		row.OSVersion = d.Fields.Get("android_version")
	}

	if th := rec.Thermal; th != nil {
		row.CPUTemp = sensorValue(th, "CPU")
		row.GPUTemp = sensorValue(th, "GPU")
		row.BatteryTempThermal = sensorValue(th, "BATTERY")
		row.SkinTemp = sensorValue(th, "SKIN")
	}

	if p := rec.Processes; p != nil {
		row.ProcessCount = value.Int(int64(len(p.Processes)))
	}

	if m := rec.Memory; m != nil {
		row.TotalRAMGB = m.Fields.Get("total_ram_gb")
		row.UsedRAMMB = m.Fields.Get("used_ram_mb")
		row.RAMUsagePercent = m.Fields.Get("ram_usage_percent")
	}

	if bd := rec.BatteryDetail; bd != nil {
		row.TotalScreenMs = value.Int(bd.TotalScreenMs)
		row.TotalCPUMs = value.Int(bd.TotalCPUMs)
		row.TotalWakeLockMs = value.Int(bd.TotalWakeLockMs)
	}

	return row
}

func sensorValue(th *extract.ThermalReport, name string) value.Value {
	if s, ok := th.Sensors[name]; ok {
		return value.Float(s.Value)
	}
	return value.Absent
}
