package clock

import "time"

// Clock is the time source for session timestamps. Injecting it keeps
// CreatedAt/UpdatedAt deterministic under test.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New creates a RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current system time
func (c *RealClock) Now() time.Time {
	return time.Now()
}
