package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	tournaments "github.com/vexprep/reminder-sync/repos/tournaments"
)

type scheduled struct {
	fireAt time.Time
	n      Notification
}

type fakePlatform struct {
	cancelCalls int
	cancelErr   error
	failFor     map[string]bool // correlation ids whose submission fails
	triggers    []scheduled
}

func (p *fakePlatform) CancelAll(ctx context.Context) error {
	if p.cancelErr != nil {
		return p.cancelErr
	}
	p.cancelCalls++
	p.triggers = nil
	return nil
}

func (p *fakePlatform) ScheduleAt(ctx context.Context, fireAt time.Time, n Notification) error {
	if p.failFor[n.CorrelationID] {
		return errors.New("platform cap reached")
	}
	p.triggers = append(p.triggers, scheduled{fireAt: fireAt, n: n})
	return nil
}

var clock = time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC)

func newTestService(platform Platform) *Service {
	s := NewService(platform)
	s.now = func() time.Time { return clock }
	return s
}

func tournament(id, name string, startsAt time.Time, hours ...float64) tournaments.Tournament {
	return tournaments.Tournament{
		ID:            id,
		Name:          name,
		StartsAt:      startsAt,
		Location:      "Lincoln High Gym",
		ReminderHours: hours,
	}
}

func TestReconcileSubmitsOnlyFutureTriggers(t *testing.T) {
	platform := &fakePlatform{}
	service := newTestService(platform)

	list := []tournaments.Tournament{
		// Starts in 2h: 1h-before is future, 0h-before is future, 24h-before is past.
		tournament("t-1", "Regional A", clock.Add(2*time.Hour), 0, 1, 24),
		// Already started: everything is past.
		tournament("t-2", "Regional B", clock.Add(-time.Hour), 0, 1),
	}

	err := service.Reconcile(context.Background(), list)
	assert.Nil(t, err)
	assert.Len(t, platform.triggers, 2)
	for _, trig := range platform.triggers {
		assert.True(t, trig.fireAt.After(clock), "only future triggers are submitted")
		assert.Equal(t, "t-1", trig.n.CorrelationID)
	}
}

func TestReconcileTwoHourScenario(t *testing.T) {
	platform := &fakePlatform{}
	service := newTestService(platform)

	// Regional A starts in exactly 2 hours with reminders [0h, 1h, 24h]:
	// the 1h trigger fires at now+1h, the 0h trigger at now+2h, and the 24h
	// one is in the past and dropped.
	list := []tournaments.Tournament{
		tournament("t-1", "Regional A", clock.Add(2*time.Hour), 0, 1, 24),
	}

	err := service.Reconcile(context.Background(), list)
	assert.Nil(t, err)
	assert.Len(t, platform.triggers, 2)
	assert.Equal(t, clock.Add(2*time.Hour), platform.triggers[0].fireAt)
	assert.Equal(t, clock.Add(time.Hour), platform.triggers[1].fireAt)
}

func TestReconcileDropsTriggerAtExactlyNow(t *testing.T) {
	platform := &fakePlatform{}
	service := newTestService(platform)

	// 1h before a start one hour from now is exactly now; at-or-before is
	// dropped.
	list := []tournaments.Tournament{
		tournament("t-1", "Regional A", clock.Add(time.Hour), 1),
	}

	err := service.Reconcile(context.Background(), list)
	assert.Nil(t, err)
	assert.Empty(t, platform.triggers)
}

func TestReconcileCancelsBeforeSubmitting(t *testing.T) {
	platform := &fakePlatform{}
	service := newTestService(platform)

	list := []tournaments.Tournament{
		tournament("t-1", "Regional A", clock.Add(2*time.Hour), 1),
	}

	assert.Nil(t, service.Reconcile(context.Background(), list))
	assert.Nil(t, service.Reconcile(context.Background(), list))
	assert.Equal(t, 2, platform.cancelCalls)
	assert.Len(t, platform.triggers, 1, "double reconcile produces the same trigger set")
}

func TestReconcileEmptySet(t *testing.T) {
	platform := &fakePlatform{}
	service := newTestService(platform)

	err := service.Reconcile(context.Background(), nil)
	assert.Nil(t, err)
	assert.Equal(t, 1, platform.cancelCalls, "cancel-all runs even for an empty set")
	assert.Empty(t, platform.triggers)
}

func TestReconcileCancelFailure(t *testing.T) {
	platform := &fakePlatform{cancelErr: errors.New("platform down")}
	service := newTestService(platform)

	err := service.Reconcile(context.Background(), nil)
	assert.NotNil(t, err)
}

func TestReconcilePartialFailureContinues(t *testing.T) {
	platform := &fakePlatform{failFor: map[string]bool{"t-2": true}}
	service := newTestService(platform)

	list := []tournaments.Tournament{
		tournament("t-1", "Regional A", clock.Add(2*time.Hour), 1),
		tournament("t-2", "Regional B", clock.Add(3*time.Hour), 1, 2),
		tournament("t-3", "Regional C", clock.Add(4*time.Hour), 1),
	}

	err := service.Reconcile(context.Background(), list)
	var pf *PartialFailure
	assert.ErrorAs(t, err, &pf)
	assert.Equal(t, []string{"t-2"}, pf.TournamentIDs)
	// The failing tournament did not abort the others.
	assert.Len(t, platform.triggers, 2)
	assert.Equal(t, "t-1", platform.triggers[0].n.CorrelationID)
	assert.Equal(t, "t-3", platform.triggers[1].n.CorrelationID)
}

func TestReconcileCorrelationIDsDoNotBleed(t *testing.T) {
	platform := &fakePlatform{}
	service := newTestService(platform)

	// Overlapping lead times across two tournaments.
	list := []tournaments.Tournament{
		tournament("t-1", "Regional A", clock.Add(5*time.Hour), 1, 2),
		tournament("t-2", "Regional B", clock.Add(5*time.Hour), 1, 2),
	}

	err := service.Reconcile(context.Background(), list)
	assert.Nil(t, err)
	assert.Len(t, platform.triggers, 4)

	counts := map[string]int{}
	for _, trig := range platform.triggers {
		counts[trig.n.CorrelationID]++
	}
	assert.Equal(t, map[string]int{"t-1": 2, "t-2": 2}, counts)
}

func TestBuildNotificationContent(t *testing.T) {
	record := tournament("t-1", "Regional A", clock.Add(2*time.Hour), 0, 1)

	atEvent := buildNotification(record, 0)
	assert.Equal(t, "Tournament Day Checklist 📋", atEvent.Title)
	assert.Equal(t, "Final check: batteries, tools, and robot ready!", atEvent.Body)
	assert.Equal(t, "t-1", atEvent.CorrelationID)

	ahead := buildNotification(record, 1)
	assert.Equal(t, "VEX Tournament: Regional A", ahead.Title)
	assert.Contains(t, ahead.Body, "Lincoln High Gym")
}

func TestLeadTimeLabel(t *testing.T) {
	assert.Equal(t, "in 30 min", leadTimeLabel(0.5))
	assert.Equal(t, "in 2h", leadTimeLabel(2))
	assert.Equal(t, "in 1d", leadTimeLabel(24))
	assert.Equal(t, "in 7d", leadTimeLabel(168))
}
