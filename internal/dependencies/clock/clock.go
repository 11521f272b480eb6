package clock

import "time"

// TimestampLayout is the human-readable wall-clock format stamped on history entries
const TimestampLayout = "15:04:05"

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// Timestamp formats the clock's current time for display
func Timestamp(c Clock) string {
	return c.Now().Format(TimestampLayout)
}
