package notify

import (
	"context"
	"log"
	"sync"
	"time"
)

// LocalPlatform is the in-process notification platform. Pending triggers
// are plain timers; when one fires, the payload is handed to the delivery
// channel. It exposes exactly the two primitives the reconcile algorithm is
// built on.
//
// It is safe for concurrent use.
type LocalPlatform struct {
	mu       sync.Mutex
	delivery Delivery
	serial   int
	timers   map[int]*time.Timer
}

// NewLocalPlatform creates an empty platform delivering through delivery.
func NewLocalPlatform(delivery Delivery) *LocalPlatform {
	return &LocalPlatform{
		delivery: delivery,
		timers:   map[int]*time.Timer{},
	}
}

// CancelAll stops every pending trigger. Cancelling zero is success.
func (p *LocalPlatform) CancelAll(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, timer := range p.timers {
		timer.Stop()
		delete(p.timers, id)
	}
	return nil
}

// ScheduleAt registers one trigger firing at fireAt.
func (p *LocalPlatform) ScheduleAt(ctx context.Context, fireAt time.Time, n Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.serial++
	id := p.serial
	delay := time.Until(fireAt)
	if delay < 0 {
		delay = 0
	}
	p.timers[id] = time.AfterFunc(delay, func() {
		p.fire(id, n)
	})
	return nil
}

// Pending reports how many triggers are waiting to fire.
func (p *LocalPlatform) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.timers)
}

func (p *LocalPlatform) fire(id int, n Notification) {
	p.mu.Lock()
	delete(p.timers, id)
	p.mu.Unlock()

	if err := p.delivery.Send(context.Background(), n); err != nil {
		log.Printf("Failed to deliver notification for tournament %s: %v\n", n.CorrelationID, err)
	}
}
