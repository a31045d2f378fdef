// Package clock abstracts wall-clock time so build timestamps can be pinned in tests.
package clock

import "time"

// StampLayout is the layout used for every persisted timestamp (manifests, job files,
// history rows): UTC, second precision.
const StampLayout = "2006-01-02T15:04:05Z07:00"

// Clock provides the current time.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current system time.
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// FakeClock implements Clock with a settable time for testing.
type FakeClock struct {
	current time.Time
}

// NewFakeClock creates a new FakeClock pinned at t.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t}
}

// Now returns the pinned time.
func (c *FakeClock) Now() time.Time {
	return c.current
}

// Advance moves the pinned time forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

// Stamp renders the clock's current time as a UTC timestamp truncated to seconds.
func Stamp(c Clock) string {
	return c.Now().UTC().Truncate(time.Second).Format(StampLayout)
}
