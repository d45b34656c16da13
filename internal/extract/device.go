package extract

import (
	"regexp"
	"strings"

	"github.com/runnerr0/devicepulse/internal/value"
)

var (
	modelRe   = regexp.MustCompile(`Model: (.+)`)
	brandRe   = regexp.MustCompile(`Brand: (.+)`)
	osVerRe   = regexp.MustCompile(`Android Version: (.+)`)
	buildProp = regexp.MustCompile(`\[(.+?)\]: \[(.+?)\]`)
)

// DeviceReport holds device identity fields plus every build property
// found in the dump, the latter namespaced with "prop_".
type DeviceReport struct {
	Fields value.Fields `json:"fields"`
}

// Device extracts the model, brand, and OS version lines (first match wins)
// and all bracketed [prop]: [value] pairs from a device_info.txt dump.
// A property repeated later in the file overwrites the earlier occurrence.
func Device(text string) *DeviceReport {
	fields := value.Fields{}

	firstMatch := func(re *regexp.Regexp, key string) {
		if m := re.FindStringSubmatch(text); m != nil {
			fields[key] = value.Text(strings.TrimSpace(m[1]))
		}
	}
	firstMatch(modelRe, "model")
	firstMatch(brandRe, "brand")
	firstMatch(osVerRe, "android_version")

	for _, m := range buildProp.FindAllStringSubmatch(text, -1) {
		fields["prop_"+m[1]] = value.Text(m[2])
	}

	return &DeviceReport{Fields: fields}
}
