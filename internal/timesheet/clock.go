package timesheet

import "time"

// Clock abstracts time.Now so event registration can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location, so "today" follows the
// company's time zone rather than the server's.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }
