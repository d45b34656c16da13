// Package value provides the closed scalar type used by every extractor.
// Diagnostic dumps carry loosely typed tokens; Value pins each one to a
// single variant (int, float, bool, text) and makes absence explicit so
// downstream code never confuses "missing" with zero.
package value

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the Value variants.
type Kind int

const (
	KindAbsent Kind = iota
	KindInt
	KindFloat
	KindBool
	KindText
)

// Value is a tagged scalar. The zero Value is Absent.
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	s    string
}

// Absent is the canonical missing value.
var Absent = Value{}

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a float.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Text wraps a string.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the value is missing.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Int returns the integer payload. ok is false for any other variant.
func (v Value) Int() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// Float returns a numeric payload as float64. Both KindFloat and KindInt
// qualify; everything else returns ok=false.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// Bool returns the boolean payload. ok is false for any other variant.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Text returns the string payload. ok is false for any other variant.
func (v Value) Text() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.s, true
}

// String renders the payload for human output. Absent renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindText:
		return v.s
	default:
		return ""
	}
}

// MarshalJSON emits the native JSON form of the payload; Absent becomes null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f)
	case KindBool:
		return json.Marshal(v.b)
	case KindText:
		return json.Marshal(v.s)
	default:
		return []byte("null"), nil
	}
}

// Coerce converts a trimmed token into a typed Value. Rules, in order:
// an all-digit token becomes an integer ("045" is integer 45), "true" and
// "false" (any case) become booleans, anything else stays text.
func Coerce(token string) Value {
	if isDigits(token) {
		// Tokens longer than an int64 fall through to text rather than
		// silently truncating.
		if n, err := strconv.ParseInt(token, 10, 64); err == nil {
			return Int(n)
		}
		return Text(token)
	}
	switch strings.ToLower(token) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	return Text(token)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Tenths re-types an integer value as the decimal it encodes in
// tenths-of-a-unit form (235 -> 23.5). Non-integer values pass through
// unchanged; the caller decides which fields carry the encoding.
func Tenths(v Value) Value {
	if n, ok := v.Int(); ok {
		return Float(float64(n) / 10.0)
	}
	return v
}

// Fields is a flat record: field name to typed scalar. A missing field is
// represented by a missing key, never by a placeholder entry.
type Fields map[string]Value

// Get returns the value for key, or Absent when the key is missing.
func (f Fields) Get(key string) Value {
	if f == nil {
		return Absent
	}
	if v, ok := f[key]; ok {
		return v
	}
	return Absent
}

// Float returns the numeric value for key as float64.
func (f Fields) Float(key string) (float64, bool) {
	return f.Get(key).Float()
}

// Int returns the integer value for key.
func (f Fields) Int(key string) (int64, bool) {
	return f.Get(key).Int()
}

// GoString aids test failure messages.
func (v Value) GoString() string {
	switch v.kind {
	case KindAbsent:
		return "value.Absent"
	case KindInt:
		return fmt.Sprintf("value.Int(%d)", v.i)
	case KindFloat:
		return fmt.Sprintf("value.Float(%g)", v.f)
	case KindBool:
		return fmt.Sprintf("value.Bool(%t)", v.b)
	default:
		return fmt.Sprintf("value.Text(%q)", v.s)
	}
}
