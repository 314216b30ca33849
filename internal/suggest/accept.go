package suggest

import (
	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/civil"
	"github.com/example/smart-calendar/internal/recurrence"
)

// Accept turns a suggestion into a new event draft. The suggestion key
// becomes the template key so the candidate is not suggested again.
func Accept(s Suggestion) calendar.Draft {
	return calendar.Draft{
		Title:            s.Title,
		Category:         s.Category,
		StartDate:        s.StartDate,
		Recurrence:       recurrence.OneTime,
		LinkedPropertyID: s.LinkedPropertyID,
		Notes:            s.Notes,
		Visibility:       calendar.VisibilityPrivate,
		NotifyDayOf:      true,
		Notify1Week:      true,
		TemplateKey:      s.Key,
		IsSuggested:      true,
	}
}

// Edit holds user overrides applied before acceptance. Nil fields keep the
// suggested value.
type Edit struct {
	Title            *string                `json:"title,omitempty"`
	Category         *calendar.Category     `json:"category,omitempty"`
	StartDate        *civil.Date            `json:"start_date,omitempty"`
	EndDate          *civil.Date            `json:"end_date,omitempty"`
	Recurrence       *recurrence.Recurrence `json:"recurrence,omitempty"`
	Notes            *string                `json:"notes,omitempty"`
	Visibility       *calendar.Visibility   `json:"visibility,omitempty"`
	LinkedPropertyID *string                `json:"linked_property_id,omitempty"`
	NotifyDayOf      *bool                  `json:"notify_day_of,omitempty"`
	Notify1Week      *bool                  `json:"notify_1_week,omitempty"`
	Notify30Days     *bool                  `json:"notify_30_days,omitempty"`
}

// AcceptEdited is Accept with user overrides. The key and the suggested
// provenance are kept whatever the edit says.
func AcceptEdited(s Suggestion, edit Edit) calendar.Draft {
	d := Accept(s)
	if edit.Title != nil {
		d.Title = *edit.Title
	}
	if edit.Category != nil {
		d.Category = *edit.Category
	}
	if edit.StartDate != nil {
		d.StartDate = *edit.StartDate
	}
	if edit.EndDate != nil {
		end := *edit.EndDate
		d.EndDate = &end
	}
	if edit.Recurrence != nil {
		d.Recurrence = *edit.Recurrence
	}
	if edit.Notes != nil {
		d.Notes = *edit.Notes
	}
	if edit.Visibility != nil {
		d.Visibility = *edit.Visibility
	}
	if edit.LinkedPropertyID != nil {
		id := *edit.LinkedPropertyID
		d.LinkedPropertyID = &id
	}
	if edit.NotifyDayOf != nil {
		d.NotifyDayOf = *edit.NotifyDayOf
	}
	if edit.Notify1Week != nil {
		d.Notify1Week = *edit.Notify1Week
	}
	if edit.Notify30Days != nil {
		d.Notify30Days = *edit.Notify30Days
	}

	d.TemplateKey = s.Key
	d.IsSuggested = true
	return d
}
