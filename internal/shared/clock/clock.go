// Package clock abstracts "now" so date-keyed rules can be tested.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func System() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Fixed always returns t (in UTC).
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f).UTC() }

// Or returns c, or the system clock when c is nil.
func Or(c Clock) Clock {
	if c == nil {
		return System()
	}
	return c
}
