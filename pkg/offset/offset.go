package offset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Unit is the unit of a custom reminder magnitude.
type Unit string

const (
	UnitMinutes Unit = "minutes"
	UnitHours   Unit = "hours"
	UnitDays    Unit = "days"
)

// ErrInvalidMagnitude is returned when a custom magnitude does not parse as a
// non-negative integer. The caller keeps its previous selection.
var ErrInvalidMagnitude = errors.New("invalid reminder magnitude")

// Kind tells whether a selection comes from the preset table or from a
// user-entered value/unit pair.
type Kind int

const (
	KindPreset Kind = iota
	KindCustom
)

// Selection is a reminder choice, either one of the fixed presets or a custom
// (magnitude, unit) pair.
type Selection struct {
	Kind      Kind
	Preset    string
	Magnitude string
	Unit      Unit
}

// PresetSelection returns a selection for the given preset id.
func PresetSelection(id string) Selection {
	return Selection{Kind: KindPreset, Preset: id}
}

// CustomSelection returns a selection for a user-entered magnitude and unit.
func CustomSelection(magnitude string, unit Unit) Selection {
	return Selection{Kind: KindCustom, Magnitude: magnitude, Unit: unit}
}

type presetEntry struct {
	ID    string
	Hours float64
}

// The fixed preset table, in display order.
var presets = []presetEntry{
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

// Presets returns the preset ids in display order.
func Presets() []string {
	ids := make([]string, 0, len(presets))
	for _, p := range presets {
		ids = append(ids, p.ID)
	}
	return ids
}

// KnownPreset reports whether id is one of the fixed presets. Transport
// layers use it to reject unknown ids before Resolve, which treats an unknown
// preset as a programming error.
func KnownPreset(id string) bool {
	for _, p := range presets {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Resolve converts a reminder selection into a lead time in hours.
//
// Preset selections are looked up in the fixed table; an unknown preset id
// panics since presets never come from free-form input. Custom selections
// must carry a non-negative integer magnitude, otherwise ErrInvalidMagnitude
// is returned. There is no upper bound; a lead time longer than the time
// until the event is legal and simply never fires.
func Resolve(sel Selection) (float64, error) {
	switch sel.Kind {
	case KindPreset:
		for _, p := range presets {
			if p.ID == sel.Preset {
				return p.Hours, nil
			}
		}
		panic(fmt.Sprintf("offset: unknown preset %q", sel.Preset))
	case KindCustom:
		magnitude, err := strconv.Atoi(strings.TrimSpace(sel.Magnitude))
		if err != nil || magnitude < 0 {
			return 0, fmt.Errorf("magnitude %q: %w", sel.Magnitude, ErrInvalidMagnitude)
		}
		switch sel.Unit {
		case UnitMinutes:
			return float64(magnitude) / 60, nil
		case UnitHours:
			return float64(magnitude), nil
		case UnitDays:
			return float64(magnitude) * 24, nil
		default:
			panic(fmt.Sprintf("offset: unknown unit %q", sel.Unit))
		}
	default:
		panic(fmt.Sprintf("offset: unknown selection kind %d", sel.Kind))
	}
}

// Duration converts a lead time in hours to a time.Duration.
func Duration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

// Minutes converts a lead time in hours to whole minutes, discarding any
// fraction below a minute. Calendar alarms only take minute granularity.
func Minutes(hours float64) int64 {
	return int64(Duration(hours) / time.Minute)
}
