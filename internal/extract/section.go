// Package extract turns raw diagnostic dump text into typed records, one
// extractor per capture category. Extractors are pure functions of the text:
// they never touch the filesystem and never fail. Malformed input simply
// yields fewer fields.
package extract

import (
	"strings"

	"github.com/runnerr0/devicepulse/internal/value"
)

// Section returns the text strictly between the first occurrence of start
// and the first subsequent occurrence of end. An empty end marker means
// "to end of text". ok is false when the start marker is absent; a block
// missing from a dump is normal format drift, not an error.
func Section(text, start, end string) (string, bool) {
	i := strings.Index(text, start)
	if i < 0 {
		return "", false
	}
	body := text[i+len(start):]
	if end == "" {
		return body, true
	}
	if j := strings.Index(body, end); j >= 0 {
		body = body[:j]
	}
	return body, true
}

// keyValues parses every "key : value" line of a block into a Fields record.
// Keys are namespaced with prefix so same-named fields from sibling blocks
// never collide. When scaleTenths reports true for a key, an integer value
// is re-typed as tenths of a unit (raw temperature telemetry convention).
func keyValues(block, prefix string, scaleTenths func(key string) bool) value.Fields {
	fields := value.Fields{}
	for _, line := range strings.Split(block, "\n") {
		key, raw, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		v := value.Coerce(strings.TrimSpace(raw))
		if scaleTenths != nil && scaleTenths(key) {
			v = value.Tenths(v)
		}
		fields[prefix+key] = v
	}
	return fields
}

// isTempKey reports whether a field name refers to a temperature reading.
func isTempKey(key string) bool {
	return strings.Contains(strings.ToLower(key), "temp")
}
