package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/smart-calendar/internal/civil"
)

func TestScheduleNotifications(t *testing.T) {
	t.Parallel()

	t.Run("week and thirty days only", func(t *testing.T) {
		t.Parallel()

		e := Event{ID: "evt-1", StartDate: civil.MustParse("2024-06-30"), Notify1Week: true, Notify30Days: true}
		got := ScheduleNotifications(e)

		require.Len(t, got, 2)
		assert.Equal(t, "2024-05-31", got[0].Date.String())
		assert.Equal(t, Horizon30Days, got[0].Horizon)
		assert.Equal(t, "2024-06-23", got[1].Date.String())
		assert.Equal(t, Horizon1Week, got[1].Horizon)
		for _, n := range got {
			assert.NotEqual(t, HorizonDayOf, n.Horizon)
			assert.Equal(t, "evt-1", n.EventID)
		}
	})

	t.Run("no flags", func(t *testing.T) {
		t.Parallel()

		got := ScheduleNotifications(Event{StartDate: civil.MustParse("2024-06-30")})
		assert.Empty(t, got)
	})

	t.Run("past triggers are kept", func(t *testing.T) {
		t.Parallel()

		got := ScheduleNotifications(Event{StartDate: civil.MustParse("2020-01-01"), NotifyDayOf: true})
		require.Len(t, got, 1)
		assert.Equal(t, "2020-01-01", got[0].Date.String())
	})
}

func TestScheduleNotificationsMatchesFlags(t *testing.T) {
	t.Parallel()

	start := civil.MustParse("2024-03-05")
	for mask := 0; mask < 8; mask++ {
		e := Event{
			StartDate:    start,
			NotifyDayOf:  mask&1 != 0,
			Notify1Week:  mask&2 != 0,
			Notify30Days: mask&4 != 0,
		}

		want := map[Horizon]civil.Date{}
		if e.NotifyDayOf {
			want[HorizonDayOf] = start
		}
		if e.Notify1Week {
			want[Horizon1Week] = start.AddDays(-7)
		}
		if e.Notify30Days {
			want[Horizon30Days] = start.AddDays(-30)
		}

		got := map[Horizon]civil.Date{}
		for i, n := range ScheduleNotifications(e) {
			if _, dup := got[n.Horizon]; dup {
				t.Fatalf("mask %d: duplicate horizon %s", mask, n.Horizon)
			}
			got[n.Horizon] = n.Date
			if i > 0 {
				assert.False(t, n.Date.Before(ScheduleNotifications(e)[i-1].Date), "mask %d not sorted", mask)
			}
		}
		assert.Equal(t, want, got, "mask %d", mask)
	}
}

func TestNotificationsOn(t *testing.T) {
	t.Parallel()

	events := []Event{
		{ID: "b", StartDate: civil.MustParse("2024-07-08"), Notify1Week: true},
		{ID: "a", StartDate: civil.MustParse("2024-07-01"), NotifyDayOf: true},
		{ID: "c", StartDate: civil.MustParse("2024-07-01"), NotifyDayOf: true, Status: StatusCompleted},
		{ID: "d", StartDate: civil.MustParse("2024-07-31"), Notify30Days: true},
		{ID: "e", StartDate: civil.MustParse("2024-07-02"), NotifyDayOf: true},
	}

	got := NotificationsOn(events, civil.MustParse("2024-07-01"))

	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].EventID)
	assert.Equal(t, HorizonDayOf, got[0].Horizon)
	assert.Equal(t, "b", got[1].EventID)
	assert.Equal(t, Horizon1Week, got[1].Horizon)
	assert.Equal(t, "d", got[2].EventID)
	assert.Equal(t, Horizon30Days, got[2].Horizon)
}
