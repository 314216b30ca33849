package views

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/civil"
)

func event(id, title, start string) calendar.Event {
	return calendar.Event{ID: id, Title: title, StartDate: civil.MustParse(start), Status: calendar.StatusUpcoming}
}

func TestBucketFor(t *testing.T) {
	t.Parallel()

	// Friday 2024-03-15; Monday week runs 03-11..03-17.
	today := civil.MustParse("2024-03-15")
	monday := NewPartitioner(time.Monday)
	sunday := NewPartitioner(time.Sunday)

	completedPast := event("c", "done", "2024-03-01")
	completedPast.Status = calendar.StatusCompleted

	tests := []struct {
		name  string
		p     Partitioner
		event calendar.Event
		want  Bucket
	}{
		{name: "completed beats overdue", p: monday, event: completedPast, want: BucketCompleted},
		{name: "yesterday overdue", p: monday, event: event("1", "a", "2024-03-14"), want: BucketOverdue},
		{name: "today", p: monday, event: event("2", "a", "2024-03-15"), want: BucketToday},
		{name: "sunday in monday week", p: monday, event: event("3", "a", "2024-03-17"), want: BucketThisWeek},
		{name: "sunday starts next week", p: sunday, event: event("4", "a", "2024-03-17"), want: BucketThisMonth},
		{name: "later this month", p: monday, event: event("5", "a", "2024-03-28"), want: BucketThisMonth},
		{name: "next month", p: monday, event: event("6", "a", "2024-04-01"), want: BucketUpcoming},
		{name: "stored overdue but future", p: monday, event: calendar.Event{ID: "7", StartDate: civil.MustParse("2024-03-16"), Status: calendar.StatusOverdue}, want: BucketThisWeek},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.p.BucketFor(tc.event, today))
		})
	}
}

func TestBucketForWeekCrossingMonth(t *testing.T) {
	t.Parallel()

	today := civil.MustParse("2024-03-29") // Friday
	p := NewPartitioner(time.Monday)

	assert.Equal(t, BucketThisWeek, p.BucketFor(event("1", "a", "2024-03-31"), today))
	assert.Equal(t, BucketUpcoming, p.BucketFor(event("2", "a", "2024-04-01"), today))
}

func TestPartitionForListOrderAndOmission(t *testing.T) {
	t.Parallel()

	today := civil.MustParse("2024-03-15")
	done := event("d", "Filed taxes", "2024-02-01")
	done.Status = calendar.StatusCompleted

	events := []calendar.Event{
		event("u", "Renew lease", "2024-05-01"),
		event("o2", "Smoke detectors", "2024-03-10"),
		event("o1", "Gutters", "2024-03-10"),
		event("o0", "Gutters", "2024-03-10"),
		event("t", "Pay rent", "2024-03-15"),
		done,
	}

	sections := NewPartitioner(time.Monday).PartitionForList(events, today)

	require.Len(t, sections, 4)
	assert.Equal(t, BucketOverdue, sections[0].Bucket)
	assert.Equal(t, "Overdue", sections[0].Label)
	assert.Equal(t, []string{"o0", "o1", "o2"}, ids(sections[0].Events))
	assert.Equal(t, BucketToday, sections[1].Bucket)
	assert.Equal(t, BucketUpcoming, sections[2].Bucket)
	assert.Equal(t, BucketCompleted, sections[3].Bucket)

	assert.Empty(t, NewPartitioner(time.Monday).PartitionForList(nil, today))
}

func TestPartitionForListIsExhaustiveAndExclusive(t *testing.T) {
	t.Parallel()

	today := civil.MustParse("2024-03-15")
	var events []calendar.Event
	for offset := -45; offset <= 75; offset++ {
		e := event(fmt.Sprintf("e%03d", offset+45), "x", today.AddDays(offset).String())
		if offset%9 == 0 {
			e.Status = calendar.StatusCompleted
		}
		events = append(events, e)
	}

	for _, ws := range []time.Weekday{time.Monday, time.Sunday} {
		sections := NewPartitioner(ws).PartitionForList(events, today)

		seen := map[string]int{}
		for _, s := range sections {
			require.NotEmpty(t, s.Events)
			for _, e := range s.Events {
				seen[e.ID]++
			}
		}
		require.Len(t, seen, len(events))
		for id, n := range seen {
			if n != 1 {
				t.Fatalf("event %s appeared %d times", id, n)
			}
		}
	}
}

func ids(events []calendar.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}
