package calendar

import (
	"time"

	"github.com/example/smart-calendar/internal/civil"
)

// Clock supplies the current calendar date.
type Clock interface {
	Today() civil.Date
}

// SystemClock reads wall-clock time in a fixed location.
type SystemClock struct {
	Location *time.Location
	Now      func() time.Time
}

// Today returns the current date in the clock's location.
func (c SystemClock) Today() civil.Date {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return civil.Today(now(), c.Location)
}
