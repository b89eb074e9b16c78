package offset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePresets(t *testing.T) {
	cases := []struct {
		preset string
		hours  float64
	}{
		{"at-event", 0},
		{"5m", 1.0 / 12},
		{"15m", 0.25},
		{"30m", 0.5},
		{"1h", 1},
		{"2h", 2},
		{"1d", 24},
		{"2d", 48},
		{"1w", 168},
	}

	for _, c := range cases {
		hours, err := Resolve(PresetSelection(c.preset))
		assert.Nil(t, err, "preset %s should resolve", c.preset)
		assert.Equal(t, c.hours, hours, "preset %s", c.preset)
	}
}

func TestResolveUnknownPresetPanics(t *testing.T) {
	assert.Panics(t, func() {
		Resolve(PresetSelection("3h"))
	})
}

func TestResolveCustom(t *testing.T) {
	cases := []struct {
		magnitude string
		unit      Unit
		hours     float64
	}{
		{"0", UnitMinutes, 0},
		{"30", UnitMinutes, 0.5},
		{"90", UnitMinutes, 1.5},
		{"1", UnitHours, 1},
		{"36", UnitHours, 36},
		{"1", UnitDays, 24},
		{"7", UnitDays, 168},
		{" 2 ", UnitDays, 48},
	}

	for _, c := range cases {
		hours, err := Resolve(CustomSelection(c.magnitude, c.unit))
		assert.Nil(t, err, "custom %s %s should resolve", c.magnitude, c.unit)
		assert.Equal(t, c.hours, hours, "custom %s %s", c.magnitude, c.unit)
	}
}

func TestResolveCustomRejectsBadMagnitude(t *testing.T) {
	for _, magnitude := range []string{"", "abc", "1.5", "-1", "2h"} {
		_, err := Resolve(CustomSelection(magnitude, UnitHours))
		assert.ErrorIs(t, err, ErrInvalidMagnitude, "magnitude %q", magnitude)
	}
}

func TestKnownPreset(t *testing.T) {
	for _, id := range Presets() {
		assert.True(t, KnownPreset(id))
	}
	assert.False(t, KnownPreset("never"))
	assert.False(t, KnownPreset(""))
}

func TestMinutesTruncates(t *testing.T) {
	assert.Equal(t, int64(60), Minutes(1))
	assert.Equal(t, int64(5), Minutes(1.0/12))
	assert.Equal(t, int64(1440), Minutes(24))
	// 0.01h is 36s; below a minute it is discarded.
	assert.Equal(t, int64(0), Minutes(0.01))
}
