// Package pace spaces out repeated requests at a fixed rate.
package pace

import (
	"context"
	"sync"
	"time"
)

// Pacer schedules runs with a leaky bucket: a virtual drip time advances at
// a fixed rate and each call to Next returns when the next run should start.
// A run that starts late does not make the following runs burst.
//
// A nil *Pacer never waits.
//
// Pacer is safe for concurrent use.
type Pacer struct {
	mu          sync.Mutex
	rate        float64 // runs per second
	lastDrip    time.Time
	accumulated float64
	waited      time.Duration
	now         func() time.Time
}

// New returns a Pacer for rate runs per second, or nil when rate is not
// positive. The first run is due immediately.
func New(rate float64) *Pacer {
	if rate <= 0 {
		return nil
	}
	return &Pacer{
		rate:        rate,
		lastDrip:    time.Now(),
		accumulated: 1,
		now:         time.Now,
	}
}

// Rate returns the runs per second, 0 for a nil Pacer.
func (p *Pacer) Rate() float64 {
	if p == nil {
		return 0
	}
	return p.rate
}

// Next returns when the next run should start. The time is in the past when
// the caller is behind schedule.
func (p *Pacer) Next() time.Time {
	if p == nil {
		return time.Now()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	elapsed := now.Sub(p.lastDrip).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}

	p.accumulated += elapsed * p.rate
	if p.accumulated > 1 {
		p.accumulated = 1
	}

	if p.accumulated >= 1 {
		p.accumulated = 0
		p.lastDrip = now
		return now
	}

	wait := time.Duration((1 - p.accumulated) / p.rate * float64(time.Second))
	next := now.Add(wait)

	// The drip moves to next so waking up at next does not count twice.
	p.accumulated = 0
	p.lastDrip = next
	p.waited += wait
	return next
}

// Wait blocks until the next run is due or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	d := time.Until(p.Next())
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Waited returns the total delay Next has scheduled so far.
func (p *Pacer) Waited() time.Duration {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waited
}
