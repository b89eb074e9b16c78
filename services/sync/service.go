package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/vexprep/reminder-sync/pkg/offset"
	tournaments "github.com/vexprep/reminder-sync/repos/tournaments"
)

// Stage names carried by SyncError.
const (
	StageCreateEvent = "create-event"
	StageDeleteEvent = "delete-event"
	StageReconcile   = "reconcile"
)

// SyncError reports which stage of a mutating operation failed and for which
// tournament, so the caller can decide whether to retry the whole operation.
type SyncError struct {
	Stage        string
	TournamentID string
	Err          error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s failed for tournament %s: %v", e.Stage, e.TournamentID, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Store is the authoritative tournament list.
type Store interface {
	Create(name string, startsAt time.Time, location string, reminderHours []float64) (*tournaments.Tournament, error)
	UpdateReminders(id string, reminderHours []float64) (*tournaments.Tournament, error)
	Delete(id string) (*tournaments.Tournament, error)
	List() []tournaments.Tournament
	SetCalendarEvent(id, eventID string) error
}

// Calendar projects one tournament record onto one calendar event.
type Calendar interface {
	CreateEvent(ctx context.Context, t tournaments.Tournament) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// Notifier reconciles the scheduled notification set against a tournament
// list.
type Notifier interface {
	Reconcile(ctx context.Context, list []tournaments.Tournament) error
}

// AddRequest is the input to Add, with reminders still as user selections.
type AddRequest struct {
	Name      string
	StartsAt  time.Time
	Location  string
	Reminders []offset.Selection
}

// SyncService sequences store, calendar and notification mutations so the
// three stay consistent. Each stage is awaited before the next because later
// stages depend on earlier results.
type SyncService struct {
	store    Store
	calendar Calendar
	notify   Notifier
}

// NewSyncService creates a new orchestrator.
func NewSyncService(store Store, calendar Calendar, notify Notifier) *SyncService {
	return &SyncService{
		store:    store,
		calendar: calendar,
		notify:   notify,
	}
}

// Add validates and stores a tournament, projects its calendar event, then
// reconciles notifications over the whole store.
//
// Validation failures abort before any external call. A calendar failure
// rolls the record back out of the store; a tournament without its calendar
// projection is not-yet-added from the user's perspective. A reconcile
// failure after a successful calendar create keeps both the record and the
// event and is reported with StageReconcile so the caller retries the
// reconcile, not the creation.
func (s *SyncService) Add(ctx context.Context, req AddRequest) (*tournaments.Tournament, error) {
	hours := make([]float64, 0, len(req.Reminders))
	for _, sel := range req.Reminders {
		h, err := offset.Resolve(sel)
		if err != nil {
			return nil, err
		}
		hours = append(hours, h)
	}

	record, err := s.store.Create(req.Name, req.StartsAt, req.Location, hours)
	if err != nil {
		return nil, err
	}

	eventID, err := s.calendar.CreateEvent(ctx, *record)
	if err != nil {
		if _, rollbackErr := s.store.Delete(record.ID); rollbackErr != nil {
			log.Printf("Failed to roll back tournament %s: %v\n", record.ID, rollbackErr)
		}
		return nil, &SyncError{Stage: StageCreateEvent, TournamentID: record.ID, Err: err}
	}
	if err := s.store.SetCalendarEvent(record.ID, eventID); err != nil {
		return nil, &SyncError{Stage: StageCreateEvent, TournamentID: record.ID, Err: err}
	}
	record.CalendarEventID = eventID

	if err := s.notify.Reconcile(ctx, s.store.List()); err != nil {
		return record, &SyncError{Stage: StageReconcile, TournamentID: record.ID, Err: err}
	}
	return record, nil
}

// UpdateReminders replaces a tournament's reminder set and reconciles
// notifications over the whole store. The calendar event is deliberately not
// re-issued; its alarms remain a creation-time snapshot while local
// notifications are kept exactly current.
func (s *SyncService) UpdateReminders(ctx context.Context, id string, selections []offset.Selection) (*tournaments.Tournament, error) {
	hours := make([]float64, 0, len(selections))
	for _, sel := range selections {
		h, err := offset.Resolve(sel)
		if err != nil {
			return nil, err
		}
		hours = append(hours, h)
	}

	record, err := s.store.UpdateReminders(id, hours)
	if err != nil {
		return nil, err
	}

	if err := s.notify.Reconcile(ctx, s.store.List()); err != nil {
		return record, &SyncError{Stage: StageReconcile, TournamentID: record.ID, Err: err}
	}
	return record, nil
}

// Delete removes a tournament, then its calendar event, then reconciles
// notifications over the remaining set. The record stays removed whatever
// happens afterwards; calendar deletion and reconcile are both attempted and
// both failures reported.
func (s *SyncService) Delete(ctx context.Context, id string) error {
	record, err := s.store.Delete(id)
	if err != nil {
		return err
	}

	var failures []error
	if record.CalendarEventID != "" {
		if err := s.calendar.DeleteEvent(ctx, record.CalendarEventID); err != nil {
			failures = append(failures, &SyncError{Stage: StageDeleteEvent, TournamentID: id, Err: err})
		}
	}
	if err := s.notify.Reconcile(ctx, s.store.List()); err != nil {
		failures = append(failures, &SyncError{Stage: StageReconcile, TournamentID: id, Err: err})
	}
	return errors.Join(failures...)
}

// List returns the current tournaments in insertion order.
func (s *SyncService) List() []tournaments.Tournament {
	return s.store.List()
}

// ReconcileAll reruns the full notification reconcile over the current
// store. Used once at startup after the snapshot load, by the periodic
// refresh job, and as the user-visible retry after a partial failure.
func (s *SyncService) ReconcileAll(ctx context.Context) error {
	return s.notify.Reconcile(ctx, s.store.List())
}
