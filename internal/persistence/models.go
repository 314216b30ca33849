package persistence

import (
	"time"

	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/civil"
)

// EventFilter narrows event queries. Nil fields do not filter.
type EventFilter struct {
	Category         *calendar.Category
	Status           *calendar.Status
	LinkedPropertyID *string
	StartsFrom       *civil.Date
	StartsTo         *civil.Date
}

// Matches reports whether e satisfies every set field of the filter.
func (f EventFilter) Matches(e calendar.Event) bool {
	if f.Category != nil && e.Category != *f.Category {
		return false
	}
	if f.Status != nil && e.Status != *f.Status {
		return false
	}
	if f.LinkedPropertyID != nil {
		if e.LinkedPropertyID == nil || *e.LinkedPropertyID != *f.LinkedPropertyID {
			return false
		}
	}
	if f.StartsFrom != nil && e.StartDate.Before(*f.StartsFrom) {
		return false
	}
	if f.StartsTo != nil && e.StartDate.After(*f.StartsTo) {
		return false
	}
	return true
}

// Dismissal is a suggestion key (or revision) an owner chose to hide.
type Dismissal struct {
	OwnerID     string
	Key         string
	DismissedAt time.Time
}
