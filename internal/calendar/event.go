// Package calendar holds the calendar event model together with the pure
// rules that operate on it: category taxonomy, status derivation and
// notification scheduling.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/smart-calendar/internal/civil"
	"github.com/example/smart-calendar/internal/recurrence"
)

// Status is the lifecycle label attached to an event instance.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusOverdue   Status = "overdue"
	StatusCompleted Status = "completed"
)

// ParseStatus validates a stored or user supplied status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.TrimSpace(strings.ToLower(s))); st {
	case StatusUpcoming, StatusOverdue, StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("calendar: unknown status %q", s)
}

// Visibility is advisory sharing metadata consumed by downstream collaborators.
type Visibility string

const (
	VisibilityPrivate       Visibility = "private"
	VisibilityShared        Visibility = "shared"
	VisibilityEmergencyOnly Visibility = "emergency_only"
)

// Valid reports whether v is a known visibility.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityShared, VisibilityEmergencyOnly:
		return true
	}
	return false
}

// Event is a persisted calendar obligation owned by a single account.
type Event struct {
	ID               string                `json:"id"`
	OwnerID          string                `json:"owner_id"`
	Title            string                `json:"title"`
	Category         Category              `json:"category,omitempty"`
	StartDate        civil.Date            `json:"start_date"`
	EndDate          *civil.Date           `json:"end_date,omitempty"`
	Recurrence       recurrence.Recurrence `json:"recurrence"`
	Status           Status                `json:"status"`
	LinkedPropertyID *string               `json:"linked_property_id,omitempty"`
	Notes            string                `json:"notes,omitempty"`
	Visibility       Visibility            `json:"visibility"`
	NotifyDayOf      bool                  `json:"notify_day_of"`
	Notify1Week      bool                  `json:"notify_1_week"`
	Notify30Days     bool                  `json:"notify_30_days"`
	TemplateKey      string                `json:"template_key,omitempty"`
	IsSuggested      bool                  `json:"is_suggested"`
	CompletedOn      *civil.Date           `json:"completed_on,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// IsCompleted reports whether the event reached its terminal state.
func (e Event) IsCompleted() bool {
	return e.Status == StatusCompleted
}

// Validate checks the event invariants.
func (e Event) Validate() error {
	verr := &ValidationError{}
	validateFields(verr, e.Title, e.Category, e.StartDate, e.EndDate, e.Recurrence, e.Visibility)
	if e.Status != "" {
		if _, err := ParseStatus(string(e.Status)); err != nil {
			verr.Add("status", "is not a known status")
		}
	}
	return verr.OrNil()
}

// Draft carries the caller supplied fields of a new event. Templates and
// suggestions both produce drafts.
type Draft struct {
	Title            string                `json:"title"`
	Category         Category              `json:"category,omitempty"`
	StartDate        civil.Date            `json:"start_date"`
	EndDate          *civil.Date           `json:"end_date,omitempty"`
	Recurrence       recurrence.Recurrence `json:"recurrence,omitempty"`
	LinkedPropertyID *string               `json:"linked_property_id,omitempty"`
	Notes            string                `json:"notes,omitempty"`
	Visibility       Visibility            `json:"visibility,omitempty"`
	NotifyDayOf      bool                  `json:"notify_day_of"`
	Notify1Week      bool                  `json:"notify_1_week"`
	Notify30Days     bool                  `json:"notify_30_days"`
	TemplateKey      string                `json:"template_key,omitempty"`
	IsSuggested      bool                  `json:"is_suggested"`
}

// Normalize trims text and fills defaults for recurrence and visibility.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Notes = strings.TrimSpace(d.Notes)
	d.TemplateKey = strings.TrimSpace(d.TemplateKey)
	if d.Recurrence == "" {
		d.Recurrence = recurrence.OneTime
	}
	if d.Visibility == "" {
		d.Visibility = VisibilityPrivate
	}
	if d.LinkedPropertyID != nil && strings.TrimSpace(*d.LinkedPropertyID) == "" {
		d.LinkedPropertyID = nil
	}
	return d
}

// Validate reports every invalid field of the normalized draft.
func (d Draft) Validate() error {
	n := d.Normalize()
	verr := &ValidationError{}
	validateFields(verr, n.Title, n.Category, n.StartDate, n.EndDate, n.Recurrence, n.Visibility)
	return verr.OrNil()
}

// NewEvent builds an event from a validated draft. The status is derived
// from today so a draft dated in the past is stored as overdue.
func NewEvent(id, ownerID string, d Draft, today civil.Date, now time.Time) (Event, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return Event{}, err
	}

	e := Event{
		ID:               id,
		OwnerID:          ownerID,
		Title:            d.Title,
		Category:         d.Category,
		StartDate:        d.StartDate,
		EndDate:          cloneDate(d.EndDate),
		Recurrence:       d.Recurrence,
		LinkedPropertyID: cloneString(d.LinkedPropertyID),
		Notes:            d.Notes,
		Visibility:       d.Visibility,
		NotifyDayOf:      d.NotifyDayOf,
		Notify1Week:      d.Notify1Week,
		Notify30Days:     d.Notify30Days,
		TemplateKey:      d.TemplateKey,
		IsSuggested:      d.IsSuggested,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	e.Status = DeriveStatus(e, today)
	return e, nil
}

// Patch describes a partial update. Nil fields are left unchanged.
type Patch struct {
	Title               *string                `json:"title,omitempty"`
	Category            *Category              `json:"category,omitempty"`
	StartDate           *civil.Date            `json:"start_date,omitempty"`
	EndDate             *civil.Date            `json:"end_date,omitempty"`
	ClearEndDate        bool                   `json:"clear_end_date,omitempty"`
	Recurrence          *recurrence.Recurrence `json:"recurrence,omitempty"`
	LinkedPropertyID    *string                `json:"linked_property_id,omitempty"`
	ClearLinkedProperty bool                   `json:"clear_linked_property,omitempty"`
	Notes               *string                `json:"notes,omitempty"`
	Visibility          *Visibility            `json:"visibility,omitempty"`
	NotifyDayOf         *bool                  `json:"notify_day_of,omitempty"`
	Notify1Week         *bool                  `json:"notify_1_week,omitempty"`
	Notify30Days        *bool                  `json:"notify_30_days,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Apply returns e with the patch applied, validated and with its status
// reconciled against today. e itself is not modified.
func (p Patch) Apply(e Event, today civil.Date) (Event, error) {
	out := e
	out.EndDate = cloneDate(e.EndDate)
	out.LinkedPropertyID = cloneString(e.LinkedPropertyID)

	if p.Title != nil {
		out.Title = strings.TrimSpace(*p.Title)
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.StartDate != nil {
		out.StartDate = *p.StartDate
	}
	if p.ClearEndDate {
		out.EndDate = nil
	} else if p.EndDate != nil {
		out.EndDate = cloneDate(p.EndDate)
	}
	if p.Recurrence != nil {
		out.Recurrence = *p.Recurrence
	}
	if p.ClearLinkedProperty {
		out.LinkedPropertyID = nil
	} else if p.LinkedPropertyID != nil {
		out.LinkedPropertyID = cloneString(p.LinkedPropertyID)
	}
	if p.Notes != nil {
		out.Notes = strings.TrimSpace(*p.Notes)
	}
	if p.Visibility != nil {
		out.Visibility = *p.Visibility
	}
	if p.NotifyDayOf != nil {
		out.NotifyDayOf = *p.NotifyDayOf
	}
	if p.Notify1Week != nil {
		out.Notify1Week = *p.Notify1Week
	}
	if p.Notify30Days != nil {
		out.Notify30Days = *p.Notify30Days
	}

	if err := out.Validate(); err != nil {
		return Event{}, err
	}
	return Reconcile(out, today), nil
}

func validateFields(verr *ValidationError, title string, category Category, start civil.Date, end *civil.Date, rec recurrence.Recurrence, vis Visibility) {
	if strings.TrimSpace(title) == "" {
		verr.Add("title", "is required")
	}
	if !category.Valid() {
		verr.Add("category", "is not a known category")
	}
	if start.IsZero() {
		verr.Add("start_date", "is required")
	}
	if end != nil && !end.IsZero() && !start.IsZero() && end.Before(start) {
		verr.Add("end_date", "must not be before start_date")
	}
	if !rec.Valid() {
		verr.Add("recurrence", "is not a supported recurrence")
	}
	if !vis.Valid() {
		verr.Add("visibility", "must be private, shared or emergency_only")
	}
}

func cloneDate(d *civil.Date) *civil.Date {
	if d == nil || d.IsZero() {
		return nil
	}
	c := *d
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
