package ratelimit

import (
	"sync"
	"time"
)

// Pacer enforces a minimum spacing between outbound requests. The interval
// is measured from the end of the previous request (Mark) to the start of
// the next one (Wait), so slow responses do not eat into the pause.
type Pacer struct {
	interval time.Duration
	last     time.Time
	mu       sync.Mutex

	now   func() time.Time
	sleep func(time.Duration)
}

// NewPacer creates a pacer with the given minimum inter-request interval.
// A non-positive interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{
		interval: interval,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// NewPacerWithClock creates a pacer with an injected clock for tests.
func NewPacerWithClock(interval time.Duration, now func() time.Time, sleep func(time.Duration)) *Pacer {
	return &Pacer{
		interval: interval,
		now:      now,
		sleep:    sleep,
	}
}

// Wait blocks until the interval since the previous Mark has elapsed.
// The first call never blocks.
func (p *Pacer) Wait() {
	p.mu.Lock()
	last := p.last
	p.mu.Unlock()

	if p.interval <= 0 || last.IsZero() {
		return
	}

	if remaining := p.interval - p.now().Sub(last); remaining > 0 {
		p.sleep(remaining)
	}
}

// Mark records the end of a request as the reference point for the next Wait.
func (p *Pacer) Mark() {
	p.mu.Lock()
	p.last = p.now()
	p.mu.Unlock()
}
