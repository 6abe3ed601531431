package calendar

import (
	"time"

	"github.com/Aishakabeer/todolist/pkg/models"
)

// Clock supplies the current time. The grid builder and the request parsers
// read "today" through it so tests can pin the date.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system time. A nil Location means server local time.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

// Today returns the calendar date of clock.Now() in the clock's location.
func Today(clock Clock) models.Date {
	return models.DateOf(clock.Now())
}
