package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/civil"
	"github.com/example/smart-calendar/internal/recurrence"
	"github.com/example/smart-calendar/internal/suggest"
)

// DefaultOwner owns every fixture unless overridden.
const DefaultOwner = "owner-1"

var eventCounter uint64

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the baseline instant used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDate returns the calendar date of ReferenceTime.
func ReferenceDate() civil.Date {
	return civil.Of(referenceTime)
}

// EventOption customises NewEvent.
type EventOption func(*calendar.Event)

// NewEvent returns a valid upcoming one-time event starting a week after
// ReferenceDate. Identifiers are unique across calls.
func NewEvent(opts ...EventOption) calendar.Event {
	idx := atomic.AddUint64(&eventCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	e := calendar.Event{
		ID:          fmt.Sprintf("fixture-%03d", idx),
		OwnerID:     DefaultOwner,
		Title:       fmt.Sprintf("Task %03d", idx),
		Category:    calendar.CategoryHVAC,
		StartDate:   ReferenceDate().AddDays(7),
		Recurrence:  recurrence.OneTime,
		Status:      calendar.StatusUpcoming,
		Visibility:  calendar.VisibilityPrivate,
		NotifyDayOf: true,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// WithEventID sets the id.
func WithEventID(id string) EventOption {
	return func(e *calendar.Event) { e.ID = id }
}

// WithOwner sets the owner.
func WithOwner(owner string) EventOption {
	return func(e *calendar.Event) { e.OwnerID = owner }
}

// WithTitle sets the title.
func WithTitle(title string) EventOption {
	return func(e *calendar.Event) { e.Title = title }
}

// WithCategory sets the category.
func WithCategory(c calendar.Category) EventOption {
	return func(e *calendar.Event) { e.Category = c }
}

// WithStart sets the start date.
func WithStart(d civil.Date) EventOption {
	return func(e *calendar.Event) { e.StartDate = d }
}

// WithEnd sets the end date.
func WithEnd(d civil.Date) EventOption {
	return func(e *calendar.Event) { e.EndDate = &d }
}

// WithRecurrence sets the recurrence.
func WithRecurrence(r recurrence.Recurrence) EventOption {
	return func(e *calendar.Event) { e.Recurrence = r }
}

// WithStatus sets the stored status.
func WithStatus(s calendar.Status) EventOption {
	return func(e *calendar.Event) { e.Status = s }
}

// WithNotify sets the three notification flags.
func WithNotify(dayOf, oneWeek, thirtyDays bool) EventOption {
	return func(e *calendar.Event) {
		e.NotifyDayOf = dayOf
		e.Notify1Week = oneWeek
		e.Notify30Days = thirtyDays
	}
}

// WithTemplateKey marks the event as created from a template or suggestion.
func WithTemplateKey(key string, suggested bool) EventOption {
	return func(e *calendar.Event) {
		e.TemplateKey = key
		e.IsSuggested = suggested
	}
}

// WithLinkedProperty links the event to a property.
func WithLinkedProperty(id string) EventOption {
	return func(e *calendar.Event) { e.LinkedPropertyID = &id }
}

// NewDraft returns a valid draft starting on start.
func NewDraft(title string, start civil.Date) calendar.Draft {
	return calendar.Draft{
		Title:       title,
		Category:    calendar.CategoryHVAC,
		StartDate:   start,
		Recurrence:  recurrence.OneTime,
		Visibility:  calendar.VisibilityPrivate,
		NotifyDayOf: true,
	}
}

// SignalSnapshot returns one record of every kind dated relative to today:
// lease 42 ends in 90 days, warranty 99 expires in 45 days, policy 7 renews
// in 120 days and document 3 expires in 200 days.
func SignalSnapshot(today civil.Date) suggest.Snapshot {
	return suggest.Snapshot{
		Leases: []suggest.Lease{{
			ID:           "42",
			PropertyID:   "prop-1",
			PropertyName: "12 Elm Street",
			TenantName:   "Jordan Lee",
			EndDate:      today.AddDays(90),
		}},
		Warranties: []suggest.Warranty{{
			ID:         "99",
			PropertyID: "prop-1",
			ItemName:   "Dishwasher",
			Provider:   "Acme Appliances",
			ExpiresOn:  today.AddDays(45),
		}},
		Policies: []suggest.InsurancePolicy{{
			ID:           "7",
			PropertyID:   "prop-1",
			Kind:         "homeowners",
			Carrier:      "Mutual Insurance",
			PolicyNumber: "HO-1234",
			RenewalDate:  today.AddDays(120),
		}},
		Documents: []suggest.Document{{
			ID:        "3",
			Title:     "Passport",
			Kind:      "passport",
			ExpiresOn: today.AddDays(200),
		}},
	}
}
