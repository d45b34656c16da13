package extract

import "github.com/runnerr0/devicepulse/internal/value"

// Markers for the two battery service blocks that share battery_basic.txt.
// Vendor firmware prints its extended block first, then the standard
// Android one; key names overlap between the two, hence the namespacing.
const (
	vendorBatteryStart = "Current OPLUS Battery Service state:"
	stdBatteryStart    = "Current Battery Service state:"
)

// BatteryReport holds the flat key/value state of both battery blocks.
// Vendor fields carry the "vendor_" prefix, standard fields "std_".
type BatteryReport struct {
	Fields value.Fields `json:"fields"`
}

// Battery extracts the vendor-extended and standard battery service blocks
// from a battery_basic.txt dump. Integer fields whose names mention "temp"
// are reported in tenths of a degree and are rescaled to degrees.
func Battery(text string) *BatteryReport {
	fields := value.Fields{}

	if block, ok := Section(text, vendorBatteryStart, stdBatteryStart); ok {
		for k, v := range keyValues(block, "vendor_", isTempKey) {
			fields[k] = v
		}
	}
	if block, ok := Section(text, stdBatteryStart, "\n\n"); ok {
		for k, v := range keyValues(block, "std_", isTempKey) {
			fields[k] = v
		}
	}

	return &BatteryReport{Fields: fields}
}
