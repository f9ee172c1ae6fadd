package core

import "time"

// Clock supplies the current moment.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the host wall clock.
var SystemClock Clock = ClockFunc(time.Now)
