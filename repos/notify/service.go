package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/xerrors"

	"github.com/vexprep/reminder-sync/pkg/offset"
	tournaments "github.com/vexprep/reminder-sync/repos/tournaments"
)

// Service keeps the platform's scheduled notification set consistent with
// the tournament list by full recompute-and-resubmit.
type Service struct {
	platform Platform
	now      func() time.Time
}

// NewService creates a new scheduler over the given platform.
func NewService(platform Platform) *Service {
	return &Service{
		platform: platform,
		now:      time.Now,
	}
}

// Reconcile cancels every pending trigger and resubmits the full future
// trigger set computed from the given tournaments.
//
// Triggers whose fire instant is at or before now are silently dropped; a
// stale reminder is not actionable and is not an error. An individual
// submission failure does not abort the rest; the affected tournament ids
// are reported in a PartialFailure so the caller can retry. The cancel step
// is never rolled back.
func (s *Service) Reconcile(ctx context.Context, list []tournaments.Tournament) error {
	if err := s.platform.CancelAll(ctx); err != nil {
		return xerrors.Errorf("cancel pending triggers: %w", err)
	}

	now := s.now()
	var failed []string
	for _, t := range list {
		complete := true
		for _, hours := range t.ReminderHours {
			fireAt := t.StartsAt.Add(-offset.Duration(hours))
			if !fireAt.After(now) {
				continue
			}
			if err := s.platform.ScheduleAt(ctx, fireAt, buildNotification(t, hours)); err != nil {
				log.Printf("Failed to schedule reminder for tournament %s: %v\n", t.ID, err)
				complete = false
			}
		}
		if !complete {
			failed = append(failed, t.ID)
		}
	}

	if len(failed) > 0 {
		return &PartialFailure{TournamentIDs: failed}
	}
	return nil
}

func buildNotification(t tournaments.Tournament, hours float64) Notification {
	if hours == 0 {
		return Notification{
			Title:         "Tournament Day Checklist 📋",
			Body:          "Final check: batteries, tools, and robot ready!",
			CorrelationID: t.ID,
		}
	}
	return Notification{
		Title:         "VEX Tournament: " + t.Name,
		Body:          fmt.Sprintf("Starts %s at %s", leadTimeLabel(hours), t.Location),
		CorrelationID: t.ID,
	}
}

func leadTimeLabel(hours float64) string {
	d := offset.Duration(hours)
	switch {
	case d < time.Hour:
		return fmt.Sprintf("in %d min", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("in %gh", hours)
	default:
		return fmt.Sprintf("in %gd", hours/24)
	}
}
