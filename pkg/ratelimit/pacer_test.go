package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock drives a Pacer deterministically.
type fakeClock struct {
	current time.Time
	slept   []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time { return c.current }

func (c *fakeClock) sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.current = c.current.Add(d)
}

func (c *fakeClock) advance(d time.Duration) { c.current = c.current.Add(d) }

func TestPacerFirstWaitDoesNotBlock(t *testing.T) {
	clock := newFakeClock()
	p := NewPacerWithClock(time.Second, clock.now, clock.sleep)

	p.Wait()
	assert.Empty(t, clock.slept)
}

func TestPacerSpacesFromEndOfPreviousRequest(t *testing.T) {
	clock := newFakeClock()
	p := NewPacerWithClock(1500*time.Millisecond, clock.now, clock.sleep)

	p.Wait()
	clock.advance(200 * time.Millisecond) // request in flight
	p.Mark()

	// Next request starts 300ms after the previous one finished: the pacer
	// must sleep the remaining 1200ms regardless of how long the previous
	// request itself took.
	clock.advance(300 * time.Millisecond)
	p.Wait()

	assert.Equal(t, []time.Duration{1200 * time.Millisecond}, clock.slept)
}

func TestPacerNoSleepWhenIntervalAlreadyElapsed(t *testing.T) {
	clock := newFakeClock()
	p := NewPacerWithClock(time.Second, clock.now, clock.sleep)

	p.Wait()
	p.Mark()
	clock.advance(2 * time.Second)
	p.Wait()

	assert.Empty(t, clock.slept)
}

func TestPacerZeroIntervalDisabled(t *testing.T) {
	clock := newFakeClock()
	p := NewPacerWithClock(0, clock.now, clock.sleep)

	p.Wait()
	p.Mark()
	p.Wait()

	assert.Empty(t, clock.slept)
}

func TestPacerSequentialRequests(t *testing.T) {
	clock := newFakeClock()
	p := NewPacerWithClock(time.Second, clock.now, clock.sleep)

	for i := 0; i < 3; i++ {
		p.Wait()
		clock.advance(100 * time.Millisecond) // request duration
		p.Mark()
	}

	// Requests 2 and 3 start immediately after the previous Mark, so the
	// pacer sleeps the full interval both times.
	assert.Equal(t, []time.Duration{time.Second, time.Second}, clock.slept)
}
