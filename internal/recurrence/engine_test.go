package recurrence

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/smart-calendar/internal/civil"
)

func TestNext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		start string
		rule  Recurrence
		want  string
	}{
		{name: "daily", start: "2024-12-31", rule: Daily, want: "2025-01-01"},
		{name: "weekly", start: "2024-02-26", rule: Weekly, want: "2024-03-04"},
		{name: "biweekly", start: "2024-02-20", rule: Biweekly, want: "2024-03-05"},
		{name: "monthly leap clamp", start: "2024-01-31", rule: Monthly, want: "2024-02-29"},
		{name: "monthly non leap clamp", start: "2023-01-31", rule: Monthly, want: "2023-02-28"},
		{name: "monthly plain", start: "2024-05-10", rule: Monthly, want: "2024-06-10"},
		{name: "quarterly clamp", start: "2024-11-30", rule: Quarterly, want: "2025-02-28"},
		{name: "semi annual clamp", start: "2024-08-31", rule: SemiAnnual, want: "2025-02-28"},
		{name: "annual leap day", start: "2024-02-29", rule: Annual, want: "2025-02-28"},
		{name: "annual plain", start: "2024-06-30", rule: Annual, want: "2025-06-30"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Next(civil.MustParse(tc.start), tc.rule)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestNextRejectsOneTimeAndUnknown(t *testing.T) {
	t.Parallel()

	_, err := Next(civil.MustParse("2024-01-01"), OneTime)
	if !errors.Is(err, ErrNotRecurring) {
		t.Fatalf("expected ErrNotRecurring, got %v", err)
	}

	_, err = Next(civil.MustParse("2024-01-01"), Recurrence("fortnightly"))
	if !errors.Is(err, ErrInvalidRecurrence) {
		t.Fatalf("expected ErrInvalidRecurrence, got %v", err)
	}
}

func TestNextIsStrictlyLater(t *testing.T) {
	t.Parallel()

	start := civil.MustParse("2023-01-01")
	for _, r := range All() {
		if !r.IsRecurring() {
			continue
		}
		for i := 0; i < 3*366; i++ {
			d := start.AddDays(i)
			next, err := Next(d, r)
			if err != nil {
				t.Fatalf("Next(%s, %s) returned error: %v", d, r, err)
			}
			if !next.After(d) {
				t.Fatalf("Next(%s, %s) = %s, want a later date", d, r, next)
			}
		}
	}
}

func TestOccurrences(t *testing.T) {
	t.Parallel()

	got, err := Occurrences(civil.MustParse("2024-01-31"), Monthly, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2024-02-29", got[0].String())
	assert.Equal(t, "2024-03-29", got[1].String())
	assert.Equal(t, "2024-04-29", got[2].String())

	capped, err := Occurrences(civil.MustParse("2024-01-01"), Daily, MaxOccurrences+50)
	require.NoError(t, err)
	assert.Len(t, capped, MaxOccurrences)

	none, err := Occurrences(civil.MustParse("2024-01-01"), Daily, 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = Occurrences(civil.MustParse("2024-01-01"), OneTime, 2)
	assert.ErrorIs(t, err, ErrNotRecurring)
}

func TestBetween(t *testing.T) {
	t.Parallel()

	t.Run("weekly window includes anchor", func(t *testing.T) {
		t.Parallel()

		got, err := Between(civil.MustParse("2024-03-04"), Weekly, civil.MustParse("2024-03-01"), civil.MustParse("2024-03-25"))
		require.NoError(t, err)
		assert.Equal(t, []civil.Date{
			civil.MustParse("2024-03-04"),
			civil.MustParse("2024-03-11"),
			civil.MustParse("2024-03-18"),
			civil.MustParse("2024-03-25"),
		}, got)
	})

	t.Run("window after anchor", func(t *testing.T) {
		t.Parallel()

		got, err := Between(civil.MustParse("2024-01-15"), Quarterly, civil.MustParse("2024-05-01"), civil.MustParse("2024-12-31"))
		require.NoError(t, err)
		assert.Equal(t, []civil.Date{civil.MustParse("2024-07-15"), civil.MustParse("2024-10-15")}, got)
	})

	t.Run("one time", func(t *testing.T) {
		t.Parallel()

		got, err := Between(civil.MustParse("2024-01-15"), OneTime, civil.MustParse("2024-01-01"), civil.MustParse("2024-01-31"))
		require.NoError(t, err)
		assert.Equal(t, []civil.Date{civil.MustParse("2024-01-15")}, got)

		got, err = Between(civil.MustParse("2024-02-15"), OneTime, civil.MustParse("2024-01-01"), civil.MustParse("2024-01-31"))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("inverted window", func(t *testing.T) {
		t.Parallel()

		_, err := Between(civil.MustParse("2024-01-15"), Daily, civil.MustParse("2024-02-01"), civil.MustParse("2024-01-01"))
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})
}

func TestPeriodContains(t *testing.T) {
	t.Parallel()

	start := civil.MustParse("2024-01-31")

	tests := []struct {
		name string
		rule Recurrence
		day  string
		want bool
	}{
		{name: "period start", rule: Monthly, day: "2024-01-31", want: true},
		{name: "last day of period", rule: Monthly, day: "2024-02-28", want: true},
		{name: "next period", rule: Monthly, day: "2024-02-29", want: false},
		{name: "before period", rule: Monthly, day: "2024-01-30", want: false},
		{name: "weekly inside", rule: Weekly, day: "2024-02-06", want: true},
		{name: "weekly boundary", rule: Weekly, day: "2024-02-07", want: false},
		{name: "one time same day", rule: OneTime, day: "2024-01-31", want: true},
		{name: "one time next day", rule: OneTime, day: "2024-02-01", want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := PeriodContains(start, tc.rule, civil.MustParse(tc.day))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	r, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, OneTime, r)

	r, err = Parse(" Semi_Annual ")
	require.NoError(t, err)
	assert.Equal(t, SemiAnnual, r)

	_, err = Parse("hourly")
	assert.ErrorIs(t, err, ErrInvalidRecurrence)

	assert.False(t, OneTime.IsRecurring())
	assert.True(t, Biweekly.IsRecurring())
	assert.Equal(t, "Every 2 weeks", Biweekly.Label())
	assert.Len(t, All(), 8)
}

func TestRRuleMatchesNext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		start string
		rule  Recurrence
		steps int
	}{
		{name: "daily", start: "2024-02-27", rule: Daily, steps: 5},
		{name: "weekly", start: "2024-03-04", rule: Weekly, steps: 6},
		{name: "biweekly", start: "2024-03-04", rule: Biweekly, steps: 6},
		{name: "monthly mid month", start: "2024-01-15", rule: Monthly, steps: 12},
		{name: "quarterly", start: "2024-02-10", rule: Quarterly, steps: 4},
		{name: "semi annual", start: "2024-04-01", rule: SemiAnnual, steps: 4},
		{name: "annual", start: "2024-06-30", rule: Annual, steps: 3},
		{name: "annual from leap day", start: "2024-02-29", rule: Annual, steps: 3},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			start := civil.MustParse(tc.start)
			rule, err := RRule(tc.rule, start)
			require.NoError(t, err)

			current := start
			at := start.In(time.UTC)
			for i := 0; i < tc.steps; i++ {
				next, err := Next(current, tc.rule)
				require.NoError(t, err)

				at = rule.After(at, false)
				assert.Equal(t, next.String(), civil.Of(at.UTC()).String(), "step %d", i+1)
				current = next
			}
		})
	}
}

func TestRRuleEndOfMonthUsesLastDay(t *testing.T) {
	t.Parallel()

	start := civil.MustParse("2024-01-31")
	rule, err := RRule(Monthly, start)
	require.NoError(t, err)

	assert.Contains(t, rule.OrigOptions.RRuleString(), "BYMONTHDAY=-1")

	first := rule.After(start.In(time.UTC), false)
	next, err := Next(start, Monthly)
	require.NoError(t, err)
	assert.Equal(t, next.String(), civil.Of(first.UTC()).String())

	leap := civil.MustParse("2024-02-29")
	annual, err := RRule(Annual, leap)
	require.NoError(t, err)
	assert.Contains(t, annual.OrigOptions.RRuleString(), "BYMONTH=2")
	assert.Contains(t, annual.OrigOptions.RRuleString(), "BYMONTHDAY=-1")
	assert.Equal(t, "2025-02-28", civil.Of(annual.After(leap.In(time.UTC), false).UTC()).String())
	assert.Equal(t, "2028-02-29", civil.Of(annual.After(civil.MustParse("2027-03-01").In(time.UTC), false).UTC()).String())

	_, err = RRule(OneTime, start)
	assert.ErrorIs(t, err, ErrNotRecurring)
}
