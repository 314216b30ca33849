// Package ics renders calendar events as an RFC 5545 feed that calendar
// clients can subscribe to.
package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/recurrence"
)

// DefaultProductID identifies the feed producer.
const DefaultProductID = "-//smart-calendar//reminder engine//EN"

// Options controls feed metadata.
type Options struct {
	Name      string
	ProductID string
	// Domain is appended to event ids to form globally unique UIDs.
	Domain string
	// Now stamps DTSTAMP; zero means time.Now.
	Now time.Time
}

// Export writes events as a VCALENDAR. Every event is all-day; recurring
// events carry an RRULE and each enabled notify flag becomes a DISPLAY
// alarm.
func Export(w io.Writer, events []calendar.Event, opts Options) error {
	cal, err := Build(events, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, cal.Serialize())
	return err
}

// Build assembles the calendar without serialising it.
func Build(events []calendar.Event, opts Options) (*ical.Calendar, error) {
	if opts.ProductID == "" {
		opts.ProductID = DefaultProductID
	}
	if opts.Domain == "" {
		opts.Domain = "smart-calendar.local"
	}
	stamp := opts.Now
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(opts.ProductID)
	if opts.Name != "" {
		cal.SetName(opts.Name)
	}

	for _, e := range events {
		if err := addEvent(cal, e, opts.Domain, stamp.UTC()); err != nil {
			return nil, fmt.Errorf("ics: event %s: %w", e.ID, err)
		}
	}
	return cal, nil
}

func addEvent(cal *ical.Calendar, e calendar.Event, domain string, stamp time.Time) error {
	ev := cal.AddEvent(e.ID + "@" + domain)
	ev.SetDtStampTime(stamp)
	if !e.CreatedAt.IsZero() {
		ev.SetCreatedTime(e.CreatedAt.UTC())
	}
	if !e.UpdatedAt.IsZero() {
		ev.SetModifiedAt(e.UpdatedAt.UTC())
	}

	ev.SetAllDayStartAt(e.StartDate.In(time.UTC))
	// DTEND is exclusive for all-day events.
	end := e.StartDate
	if e.EndDate != nil {
		end = *e.EndDate
	}
	ev.SetAllDayEndAt(end.AddDays(1).In(time.UTC))

	ev.SetSummary(e.Title)
	if desc := description(e); desc != "" {
		ev.SetDescription(desc)
	}
	if e.Category != calendar.Uncategorized {
		ev.AddProperty(ical.ComponentPropertyCategories, e.Category.Label())
	}
	ev.SetClass(classification(e.Visibility))

	if e.IsCompleted() {
		ev.SetStatus(ical.ObjectStatusCompleted)
	} else {
		ev.SetStatus(ical.ObjectStatusConfirmed)
	}

	if e.Recurrence.IsRecurring() && !e.IsCompleted() {
		rule, err := recurrence.RRule(e.Recurrence, e.StartDate)
		if err != nil {
			return err
		}
		ev.AddRrule(rule.OrigOptions.RRuleString())
	}

	if !e.IsCompleted() {
		for _, a := range alarms(e) {
			alarm := ev.AddAlarm()
			alarm.SetAction(ical.ActionDisplay)
			alarm.SetTrigger(a.trigger)
			alarm.SetProperty(ical.ComponentPropertyDescription, a.text)
		}
	}
	return nil
}

type alarmSpec struct {
	trigger string
	text    string
}

func alarms(e calendar.Event) []alarmSpec {
	var out []alarmSpec
	if e.NotifyDayOf {
		out = append(out, alarmSpec{trigger: "PT0S", text: e.Title + " is due today"})
	}
	if e.Notify1Week {
		out = append(out, alarmSpec{trigger: "-P7D", text: e.Title + " is due in one week"})
	}
	if e.Notify30Days {
		out = append(out, alarmSpec{trigger: "-P30D", text: e.Title + " is due in 30 days"})
	}
	return out
}

func classification(v calendar.Visibility) ical.Classification {
	switch v {
	case calendar.VisibilityShared:
		return ical.ClassificationPublic
	case calendar.VisibilityEmergencyOnly:
		return ical.ClassificationConfidential
	default:
		return ical.ClassificationPrivate
	}
}

func description(e calendar.Event) string {
	var parts []string
	if e.Notes != "" {
		parts = append(parts, e.Notes)
	}
	if e.Recurrence.IsRecurring() {
		parts = append(parts, "Repeats: "+e.Recurrence.Label())
	}
	if e.CompletedOn != nil {
		parts = append(parts, "Completed on "+e.CompletedOn.String())
	}
	return strings.Join(parts, "\n")
}
