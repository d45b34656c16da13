package extract

import (
	"testing"

	"github.com/runnerr0/devicepulse/internal/value"
	"github.com/stretchr/testify/assert"
)

const batteryDump = `Battery service dump
Current OPLUS Battery Service state:
  PhoneTemp: 312
  level: 85
  ChargerType: 2
Current Battery Service state:
  AC powered: false
  USB powered: true
  level: 84
  voltage: 4385
  temperature: 235
  status: 2
  health: 2
  technology: Li-ion

trailing noise`

func TestBattery(t *testing.T) {
	report := Battery(batteryDump)
	f := report.Fields

	// Vendor block, namespaced and temp-scaled.
	assert.Equal(t, value.Float(31.2), f.Get("vendor_PhoneTemp"))
	assert.Equal(t, value.Int(85), f.Get("vendor_level"))
	assert.Equal(t, value.Int(2), f.Get("vendor_ChargerType"))

	// Standard block keeps its own namespace; the sibling "level" fields
	// never collide.
	assert.Equal(t, value.Int(84), f.Get("std_level"))
	assert.Equal(t, value.Int(4385), f.Get("std_voltage"))
	assert.Equal(t, value.Float(23.5), f.Get("std_temperature"))
	assert.Equal(t, value.Bool(false), f.Get("std_AC powered"))
	assert.Equal(t, value.Bool(true), f.Get("std_USB powered"))
	assert.Equal(t, value.Text("Li-ion"), f.Get("std_technology"))
}

func TestBatteryStandardBlockEndsAtBlankLine(t *testing.T) {
	report := Battery(batteryDump)
	assert.Equal(t, value.Absent, report.Fields.Get("std_trailing noise"))
}

func TestBatteryVendorBlockOnly(t *testing.T) {
	dump := "Current OPLUS Battery Service state:\n  level: 90\n"
	report := Battery(dump)

	assert.Equal(t, value.Int(90), report.Fields.Get("vendor_level"))
	assert.Equal(t, value.Absent, report.Fields.Get("std_level"))
}

func TestBatteryEmptyDump(t *testing.T) {
	report := Battery("")
	assert.Empty(t, report.Fields)
}
