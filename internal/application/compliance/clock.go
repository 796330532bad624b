package compliance

import "time"

// Clock supplies the current time to lifecycle derivation.  Injected so that
// day-boundary behavior is testable without sleeping across midnight.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }
