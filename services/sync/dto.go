package sync

import (
	"fmt"
	"time"

	"github.com/vexprep/reminder-sync/pkg/offset"
	tournaments "github.com/vexprep/reminder-sync/repos/tournaments"
)

type customReminder struct {
	Magnitude string `json:"magnitude"`
	Unit      string `json:"unit"`
}

// reminderSelection is the JSON union for one reminder choice: either a
// preset id or a custom magnitude/unit pair, never both.
type reminderSelection struct {
	Preset string          `json:"preset,omitempty"`
	Custom *customReminder `json:"custom,omitempty"`
}

type addTournamentRequest struct {
	Name      string              `json:"name"`
	StartsAt  time.Time           `json:"startsAt"`
	Location  string              `json:"location"`
	Reminders []reminderSelection `json:"reminders"`
}

type updateRemindersRequest struct {
	Reminders []reminderSelection `json:"reminders"`
}

func (r updateRemindersRequest) toSelections() ([]offset.Selection, error) {
	selections := make([]offset.Selection, 0, len(r.Reminders))
	for _, sel := range r.Reminders {
		resolved, err := sel.toSelection()
		if err != nil {
			return nil, err
		}
		selections = append(selections, resolved)
	}
	return selections, nil
}

type tournamentResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	StartsAt        time.Time `json:"startsAt"`
	Location        string    `json:"location"`
	ReminderHours   []float64 `json:"reminderHours"`
	CalendarEventID string    `json:"calendarEventId,omitempty"`
}

func (r addTournamentRequest) toAddRequest() (AddRequest, error) {
	selections := make([]offset.Selection, 0, len(r.Reminders))
	for _, sel := range r.Reminders {
		resolved, err := sel.toSelection()
		if err != nil {
			return AddRequest{}, err
		}
		selections = append(selections, resolved)
	}
	return AddRequest{
		Name:      r.Name,
		StartsAt:  r.StartsAt,
		Location:  r.Location,
		Reminders: selections,
	}, nil
}

func (r reminderSelection) toSelection() (offset.Selection, error) {
	switch {
	case r.Preset != "" && r.Custom != nil:
		return offset.Selection{}, fmt.Errorf("reminder must be either preset or custom, not both")
	case r.Preset != "":
		if !offset.KnownPreset(r.Preset) {
			return offset.Selection{}, fmt.Errorf("unknown reminder preset %q", r.Preset)
		}
		return offset.PresetSelection(r.Preset), nil
	case r.Custom != nil:
		unit := offset.Unit(r.Custom.Unit)
		switch unit {
		case offset.UnitMinutes, offset.UnitHours, offset.UnitDays:
			return offset.CustomSelection(r.Custom.Magnitude, unit), nil
		default:
			return offset.Selection{}, fmt.Errorf("unknown reminder unit %q", r.Custom.Unit)
		}
	default:
		return offset.Selection{}, fmt.Errorf("reminder must set preset or custom")
	}
}

func toTournamentResponse(t tournaments.Tournament) tournamentResponse {
	return tournamentResponse{
		ID:              t.ID,
		Name:            t.Name,
		StartsAt:        t.StartsAt,
		Location:        t.Location,
		ReminderHours:   t.ReminderHours,
		CalendarEventID: t.CalendarEventID,
	}
}
