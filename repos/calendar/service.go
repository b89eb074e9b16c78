package calendar

import (
	"context"
	"errors"
	"time"

	"golang.org/x/xerrors"

	"github.com/vexprep/reminder-sync/pkg/eventref"
	"github.com/vexprep/reminder-sync/pkg/offset"
	tournaments "github.com/vexprep/reminder-sync/repos/tournaments"
)

// eventWindow is the fixed duration of a projected tournament event.
const eventWindow = 8 * time.Hour

const checklistNote = "Remember to bring:\n- Robot and controller\n- Engineering notebook\n- Spare parts and tools\n- Team information"

// Service projects one tournament record onto exactly one calendar event.
//
// The event is created once per tournament; reminder edits never re-issue it.
// Its embedded alarms are a best-effort snapshot at creation time, while
// local notifications stay exactly current through the notify reconcile.
type Service struct {
	backend Backend
}

// NewService creates a new projector over the given backend.
func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// CreateEvent creates the calendar event for a tournament and returns an
// opaque event reference. The target calendar is the one flagged primary,
// else the first listed; ErrNoCalendarAvailable when there is none.
func (s *Service) CreateEvent(ctx context.Context, t tournaments.Tournament) (string, error) {
	calendars, err := s.backend.ListCalendars(ctx)
	if err != nil {
		return "", &PlatformError{Op: "list calendars", Err: err}
	}
	if len(calendars) == 0 {
		return "", ErrNoCalendarAvailable
	}

	target := calendars[0]
	for _, c := range calendars {
		if c.Primary {
			target = c
			break
		}
	}

	minutes := make([]int64, 0, len(t.ReminderHours))
	for _, h := range t.ReminderHours {
		minutes = append(minutes, offset.Minutes(h))
	}

	event := EventInput{
		Title:         "VEX Tournament: " + t.Name,
		Start:         t.StartsAt,
		End:           t.StartsAt.Add(eventWindow),
		Location:      t.Location,
		Notes:         checklistNote,
		MinutesBefore: minutes,
	}

	eventID, err := s.backend.CreateEvent(ctx, target.ID, event)
	if err != nil {
		return "", &PlatformError{Op: "create event", Err: err}
	}
	return eventref.Encode(target.ID, eventID), nil
}

// DeleteEvent removes the projected event. A reference whose event is
// already gone is success, not an error; the absence of the event is the
// desired outcome either way.
func (s *Service) DeleteEvent(ctx context.Context, ref string) error {
	calendarID, eventID, err := eventref.Decode(ref)
	if err != nil {
		return xerrors.Errorf("decode event reference %q: %w", ref, err)
	}
	if err := s.backend.DeleteEvent(ctx, calendarID, eventID); err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return nil
		}
		return &PlatformError{Op: "delete event", Err: err}
	}
	return nil
}
