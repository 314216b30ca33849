package testfixtures

import (
	"fmt"
	"sync"
	"time"

	"github.com/example/smart-calendar/internal/civil"
)

// Clock is a settable time source. It satisfies calendar.Clock, so the same
// instance drives both timestamps and the "today" used for status derivation.
type Clock struct {
	mu       sync.Mutex
	current  time.Time
	location *time.Location
}

// NewClock returns a clock at start, or at ReferenceTime when start is zero.
// Dates are computed in start's location.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start, location: start.Location()}
}

// NewClockOn returns a clock at 09:00 UTC on day.
func NewClockOn(day civil.Date) *Clock {
	return NewClock(day.In(time.UTC).Add(9 * time.Hour))
}

// Now returns the clock's instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowFunc adapts Now for constructors that take a func() time.Time.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Today returns the clock's calendar date.
func (c *Clock) Today() civil.Date {
	c.mu.Lock()
	defer c.mu.Unlock()
	return civil.Today(c.current, c.location)
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d and returns the new instant.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}

// AdvanceDays moves the clock forward by whole days and returns the new date.
func (c *Clock) AdvanceDays(n int) civil.Date {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.AddDate(0, 0, n)
	return civil.Today(c.current, c.location)
}

// IDGenerator hands out "<prefix>-<n>" identifiers in order.
type IDGenerator struct {
	mu     sync.Mutex
	prefix string
	next   uint64
}

// NewIDGenerator returns a generator for prefix, "evt" when empty.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "evt"
	}
	return &IDGenerator{prefix: prefix}
}

// Next returns the following identifier.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%d", g.prefix, g.next)
}

// NextFunc adapts Next for constructors that take a func() string.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}

// Reset restarts the sequence so the next identifier is "<prefix>-1".
func (g *IDGenerator) Reset() {
	g.mu.Lock()
	g.next = 0
	g.mu.Unlock()
}
