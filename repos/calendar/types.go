package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoCalendarAvailable is returned when the backend exposes no writable
// calendar.
var ErrNoCalendarAvailable = errors.New("no writable calendar available")

// ErrEventNotFound is returned by a backend when the target event no longer
// exists. The projector treats it as success on delete.
var ErrEventNotFound = errors.New("calendar event not found")

// PlatformError reports a calendar backend failure. No partial event exists
// when it is returned.
type PlatformError struct {
	Op  string
	Err error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("calendar %s: %v", e.Op, e.Err)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// Calendar is one calendar exposed by the backend.
type Calendar struct {
	ID      string
	Primary bool
}

// EventInput is the single event projected from a tournament.
type EventInput struct {
	Title         string
	Start         time.Time
	End           time.Time
	Location      string
	Notes         string
	MinutesBefore []int64
}

// Backend is the platform calendar API the projector writes through.
type Backend interface {
	ListCalendars(ctx context.Context) ([]Calendar, error)
	CreateEvent(ctx context.Context, calendarID string, event EventInput) (string, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}
