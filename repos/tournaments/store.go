package tournaments

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/samborkent/uuidv7"
	"github.com/xorcare/pointer"
	"golang.org/x/xerrors"
)

const snapshotCollection = "TournamentReminders"

// ErrNotFound is returned when a tournament id is not in the store.
var ErrNotFound = errors.New("tournament not found")

// ValidationError reports bad user input. Nothing has been changed when it is
// returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Store is the authoritative in-memory tournament list for the session,
// kept in insertion order. It is the single place where identity and
// validation invariants are enforced; calendar and notification side effects
// belong to the orchestrator.
//
// When a Firestore client is present, records that reached their calendar
// projection are mirrored to Firestore so they can be reloaded at startup.
// A nil client gives a session-only store.
type Store struct {
	mu              sync.Mutex
	firestoreClient *firestore.Client
	records         []*Tournament
	index           map[string]*Tournament
}

// NewStore creates an empty store. firestoreClient may be nil.
func NewStore(firestoreClient *firestore.Client) *Store {
	return &Store{
		firestoreClient: firestoreClient,
		index:           map[string]*Tournament{},
	}
}

// Create validates the input, assigns a fresh id and appends the record.
// Duplicate reminder offsets are collapsed, keeping first occurrence order.
func (s *Store) Create(name string, startsAt time.Time, location string, reminderHours []float64) (*Tournament, error) {
	name = strings.TrimSpace(name)
	location = strings.TrimSpace(location)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if location == "" {
		return nil, &ValidationError{Field: "location", Reason: "must not be empty"}
	}
	if len(reminderHours) == 0 {
		return nil, &ValidationError{Field: "reminders", Reason: "at least one reminder is required"}
	}

	var hours []float64
	for _, h := range reminderHours {
		if h < 0 {
			return nil, &ValidationError{Field: "reminders", Reason: "lead time must not be negative"}
		}
		if containsHours(hours, h) {
			continue
		}
		hours = append(hours, h)
	}

	record := &Tournament{
		ID:            uuidv7.New().String(),
		Name:          name,
		StartsAt:      startsAt,
		Location:      location,
		ReminderHours: hours,
	}

	s.mu.Lock()
	s.records = append(s.records, record)
	s.index[record.ID] = record
	s.mu.Unlock()

	copied := *record
	return &copied, nil
}

// UpdateReminders replaces a record's reminder set, validated and deduped
// the same way as at creation. The calendar event is not touched; its
// embedded alarms stay a creation-time snapshot and only the notification
// reconcile reflects the change.
func (s *Store) UpdateReminders(id string, reminderHours []float64) (*Tournament, error) {
	if len(reminderHours) == 0 {
		return nil, &ValidationError{Field: "reminders", Reason: "at least one reminder is required"}
	}
	var hours []float64
	for _, h := range reminderHours {
		if h < 0 {
			return nil, &ValidationError{Field: "reminders", Reason: "lead time must not be negative"}
		}
		if containsHours(hours, h) {
			continue
		}
		hours = append(hours, h)
	}

	s.mu.Lock()
	record, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	record.ReminderHours = hours
	copied := *record
	s.mu.Unlock()

	if copied.CalendarEventID != "" {
		s.writeSnapshot(&copied)
	}
	return &copied, nil
}

// Delete removes the record and returns it so the caller can unwind its
// external side effects.
func (s *Store) Delete(id string) (*Tournament, error) {
	s.mu.Lock()
	record, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	delete(s.index, id)
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.deleteSnapshot(id)

	copied := *record
	return &copied, nil
}

// List returns the tournaments in insertion order. Display sorting is a view
// concern, not the store's.
func (s *Store) List() []Tournament {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Tournament, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, *r)
	}
	return out
}

// SetCalendarEvent attaches the calendar projection id to a record. Only now
// is the record considered durable, so this is also the point where it is
// mirrored to Firestore.
func (s *Store) SetCalendarEvent(id, eventID string) error {
	s.mu.Lock()
	record, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	record.CalendarEventID = eventID
	copied := *record
	s.mu.Unlock()

	s.writeSnapshot(&copied)
	return nil
}

// LoadSnapshot replaces the store contents with the mirrored records from
// Firestore. Intended for startup, before any mutation; the caller runs one
// notification reconcile afterwards.
func (s *Store) LoadSnapshot(ctx context.Context) error {
	if s.firestoreClient == nil {
		return nil
	}

	docs, err := s.firestoreClient.Collection(snapshotCollection).Documents(ctx).GetAll()
	if err != nil {
		return xerrors.Errorf("load tournament snapshot: %w", err)
	}

	var records []*Tournament
	for _, doc := range docs {
		var d tournamentDoc
		if err := doc.DataTo(&d); err != nil {
			// If this fails, we have an inconsistency error as we control both the data written to
			// Firestore and the shape of our snapshot struct.
			return xerrors.Errorf("consistency error. Converting %+v to tournament failed: %w", doc, err)
		}
		record := &Tournament{
			ID:            d.ID,
			Name:          d.Name,
			StartsAt:      d.StartsAt,
			Location:      d.Location,
			ReminderHours: d.ReminderHours,
		}
		if d.CalendarEventID != nil {
			record.CalendarEventID = *d.CalendarEventID
		}
		records = append(records, record)
	}

	// uuidv7 ids are time-ordered, so sorting by id restores insertion order.
	sort.Slice(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})

	s.mu.Lock()
	s.records = records
	s.index = make(map[string]*Tournament, len(records))
	for _, r := range records {
		s.index[r.ID] = r
	}
	s.mu.Unlock()
	return nil
}

func (s *Store) writeSnapshot(t *Tournament) {
	if s.firestoreClient == nil {
		return
	}
	doc := tournamentDoc{
		ID:            t.ID,
		Name:          t.Name,
		StartsAt:      t.StartsAt,
		Location:      t.Location,
		ReminderHours: t.ReminderHours,
	}
	if t.CalendarEventID != "" {
		doc.CalendarEventID = pointer.String(t.CalendarEventID)
	}
	if _, err := s.firestoreClient.Collection(snapshotCollection).Doc(t.ID).Set(context.Background(), doc); err != nil {
		log.Printf("Failed to write tournament to Firestore: %v\n", err)
	}
}

func (s *Store) deleteSnapshot(id string) {
	if s.firestoreClient == nil {
		return
	}
	if _, err := s.firestoreClient.Collection(snapshotCollection).Doc(id).Delete(context.Background()); err != nil {
		log.Printf("Failed to delete tournament from Firestore: %v\n", err)
	}
}

func containsHours(hours []float64, h float64) bool {
	for _, existing := range hours {
		if existing == h {
			return true
		}
	}
	return false
}
