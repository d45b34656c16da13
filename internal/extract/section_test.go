package extract

import (
	"testing"

	"github.com/runnerr0/devicepulse/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSection(t *testing.T) {
	text := "header\nSTART\ninside\nlines\nEND\ntrailer"

	tests := []struct {
		name     string
		start    string
		end      string
		want     string
		wantOK   bool
	}{
		{"bounded", "START", "END", "\ninside\nlines\n", true},
		{"to end of text", "START", "", "\ninside\nlines\nEND\ntrailer", true},
		{"end marker absent runs to end", "START", "NOPE", "\ninside\nlines\nEND\ntrailer", true},
		{"start marker absent", "MISSING", "END", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Section(text, tt.start, tt.end)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSectionFirstOccurrenceWins(t *testing.T) {
	text := "A first A second END late END"
	got, ok := Section(text, "A", "END")
	require.True(t, ok)
	assert.Equal(t, " first A second ", got)
}

func TestKeyValuesNamespacing(t *testing.T) {
	block := "  level : 85\n  voltage: 4385\n  present: true\njunk line\n  : empty key\n"

	fields := keyValues(block, "std_", nil)

	assert.Equal(t, value.Int(85), fields.Get("std_level"))
	assert.Equal(t, value.Int(4385), fields.Get("std_voltage"))
	assert.Equal(t, value.Bool(true), fields.Get("std_present"))
	assert.Equal(t, value.Absent, fields.Get("level"), "unprefixed key must not exist")
	assert.Len(t, fields, 3, "junk and empty-key lines contribute nothing")
}

func TestKeyValuesTenthsScaling(t *testing.T) {
	block := "temperature: 235\ntempo: 120\nlevel: 85\n"

	fields := keyValues(block, "", isTempKey)

	assert.Equal(t, value.Float(23.5), fields.Get("temperature"))
	// Substring match is deliberate: any key mentioning temp is telemetry
	// in tenths.
	assert.Equal(t, value.Float(12), fields.Get("tempo"))
	assert.Equal(t, value.Int(85), fields.Get("level"))
}

func TestKeyValuesNonIntegerTempUnscaled(t *testing.T) {
	fields := keyValues("temperature: warm\n", "", isTempKey)
	assert.Equal(t, value.Text("warm"), fields.Get("temperature"))
}
