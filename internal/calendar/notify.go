package calendar

import (
	"sort"

	"github.com/example/smart-calendar/internal/civil"
)

// Horizon is one of the fixed notification lead times.
type Horizon string

const (
	HorizonDayOf  Horizon = "day_of"
	Horizon1Week  Horizon = "1_week"
	Horizon30Days Horizon = "30_days"
)

// LeadDays returns how many days before the start date the horizon fires.
func (h Horizon) LeadDays() int {
	switch h {
	case Horizon1Week:
		return 7
	case Horizon30Days:
		return 30
	}
	return 0
}

// Notification is a single trigger date derived from an event's notify flags.
type Notification struct {
	EventID string     `json:"event_id"`
	Title   string     `json:"title"`
	Date    civil.Date `json:"date"`
	Horizon Horizon    `json:"horizon"`
}

// ScheduleNotifications returns one trigger per enabled flag, earliest first.
// Triggers already in the past are returned as well; suppressing them is up
// to whoever delivers notifications.
func ScheduleNotifications(e Event) []Notification {
	out := make([]Notification, 0, 3)
	add := func(enabled bool, h Horizon) {
		if !enabled {
			return
		}
		out = append(out, Notification{
			EventID: e.ID,
			Title:   e.Title,
			Date:    e.StartDate.AddDays(-h.LeadDays()),
			Horizon: h,
		})
	}

	add(e.Notify30Days, Horizon30Days)
	add(e.Notify1Week, Horizon1Week)
	add(e.NotifyDayOf, HorizonDayOf)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// NotificationsOn returns every trigger firing on day across events.
// Completed events never notify.
func NotificationsOn(events []Event, day civil.Date) []Notification {
	var out []Notification
	for _, e := range events {
		if e.IsCompleted() {
			continue
		}
		for _, n := range ScheduleNotifications(e) {
			if n.Date.Equal(day) {
				out = append(out, n)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Horizon.LeadDays() != out[j].Horizon.LeadDays() {
			return out[i].Horizon.LeadDays() < out[j].Horizon.LeadDays()
		}
		return out[i].EventID < out[j].EventID
	})
	return out
}
