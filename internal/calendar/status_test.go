package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/smart-calendar/internal/civil"
)

func TestDeriveStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		start  string
		status Status
		today  string
		want   Status
	}{
		{name: "past start is overdue", start: "2024-03-10", status: StatusUpcoming, today: "2024-03-15", want: StatusOverdue},
		{name: "same day is upcoming", start: "2024-03-15", status: StatusUpcoming, today: "2024-03-15", want: StatusUpcoming},
		{name: "stale overdue flips back", start: "2024-03-20", status: StatusOverdue, today: "2024-03-15", want: StatusUpcoming},
		{name: "yesterday is overdue", start: "2024-03-14", status: "", today: "2024-03-15", want: StatusOverdue},
		{name: "completed in past", start: "2024-03-10", status: StatusCompleted, today: "2024-03-15", want: StatusCompleted},
		{name: "completed in future", start: "2024-04-10", status: StatusCompleted, today: "2024-03-15", want: StatusCompleted},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			e := Event{StartDate: civil.MustParse(tc.start), Status: tc.status}
			assert.Equal(t, tc.want, DeriveStatus(e, civil.MustParse(tc.today)))
		})
	}
}

func TestDeriveStatusProperties(t *testing.T) {
	t.Parallel()

	today := civil.MustParse("2024-06-15")
	for offset := -400; offset <= 400; offset++ {
		start := today.AddDays(offset)

		open := DeriveStatus(Event{StartDate: start, Status: StatusUpcoming}, today)
		want := StatusUpcoming
		if start.Before(today) {
			want = StatusOverdue
		}
		if open != want {
			t.Fatalf("start %s: got %s, want %s", start, open, want)
		}

		if got := DeriveStatus(Event{StartDate: start, Status: StatusCompleted}, today); got != StatusCompleted {
			t.Fatalf("completed event with start %s derived %s", start, got)
		}
	}
}

func TestReconcileAll(t *testing.T) {
	t.Parallel()

	today := civil.MustParse("2024-03-15")
	events := []Event{
		{ID: "a", StartDate: civil.MustParse("2024-03-01"), Status: StatusUpcoming},
		{ID: "b", StartDate: civil.MustParse("2024-03-20"), Status: StatusUpcoming},
		{ID: "c", StartDate: civil.MustParse("2024-03-01"), Status: StatusCompleted},
	}

	changed := ReconcileAll(events, today)

	assert.Equal(t, []int{0}, changed)
	assert.Equal(t, StatusOverdue, events[0].Status)
	assert.Equal(t, StatusUpcoming, events[1].Status)
	assert.Equal(t, StatusCompleted, events[2].Status)
}
