package persistence

import (
	"testing"

	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/civil"
)

func TestEventFilterMatches(t *testing.T) {
	t.Parallel()

	prop := "prop-1"
	other := "prop-2"
	hvac := calendar.CategoryHVAC
	overdue := calendar.StatusOverdue
	from := civil.MustParse("2024-03-01")
	to := civil.MustParse("2024-03-31")

	event := calendar.Event{
		Category:         calendar.CategoryHVAC,
		Status:           calendar.StatusOverdue,
		StartDate:        civil.MustParse("2024-03-15"),
		LinkedPropertyID: &prop,
	}

	tests := []struct {
		name   string
		filter EventFilter
		want   bool
	}{
		{name: "empty filter", filter: EventFilter{}, want: true},
		{name: "all fields match", filter: EventFilter{Category: &hvac, Status: &overdue, LinkedPropertyID: &prop, StartsFrom: &from, StartsTo: &to}, want: true},
		{name: "other property", filter: EventFilter{LinkedPropertyID: &other}, want: false},
		{name: "before range", filter: EventFilter{StartsFrom: &to}, want: false},
		{name: "after range", filter: EventFilter{StartsTo: &from}, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.filter.Matches(event); got != tt.want {
				t.Fatalf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}

	unlinked := event
	unlinked.LinkedPropertyID = nil
	if (EventFilter{LinkedPropertyID: &prop}).Matches(unlinked) {
		t.Fatalf("unlinked event must not match a property filter")
	}
}
