// Package clock provides an abstraction for time operations to improve testability.
// Commit signatures read the current time through Clock so tests can pin it.
package clock

import "time"

// Clock is an interface for time operations.
type Clock interface {
	// Now returns the current time, including the local UTC offset.
	Now() time.Time
}

// RealClock implements Clock using the actual system time.
type RealClock struct{}

// Now returns the current time from the system clock.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Fixed is a Clock that always returns the same instant.
type Fixed time.Time

// Now returns the fixed instant.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}

var (
	_ Clock = RealClock{}
	_ Clock = Fixed{}
)
