package notify

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Notification is one local notification payload. CorrelationID ties it back
// to the tournament it was computed from.
type Notification struct {
	Title         string
	Body          string
	CorrelationID string
}

// Platform is the native notification scheduler. Its only primitives are
// "schedule exactly one trigger" and "cancel every pending trigger"; there is
// no cancel-by-id, which is why reconciliation always recomputes the full
// set.
type Platform interface {
	CancelAll(ctx context.Context) error
	ScheduleAt(ctx context.Context, fireAt time.Time, n Notification) error
}

// Delivery sends a fired notification to the team.
type Delivery interface {
	Send(ctx context.Context, n Notification) error
}

// PartialFailure reports a reconcile that scheduled some triggers but not
// all. The named tournaments may be missing reminders until the caller
// retries; the cancel step cannot be rolled back.
type PartialFailure struct {
	TournamentIDs []string
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("reminders incompletely scheduled for tournaments: %s", strings.Join(e.TournamentIDs, ", "))
}
