package civil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndString(t *testing.T) {
	t.Parallel()

	d, err := Parse("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.March, Day: 15}, d)
	assert.Equal(t, "2024-03-15", d.String())

	_, err = Parse("2024-02-30")
	require.ErrorIs(t, err, ErrInvalidDate)

	_, err = Parse("15/03/2024")
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestCompare(t *testing.T) {
	t.Parallel()

	a := MustParse("2024-03-10")
	b := MustParse("2024-03-15")

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, b.After(a))
	assert.True(t, a.Equal(MustParse("2024-03-10")))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, -1, MustParse("2023-12-31").Compare(MustParse("2024-01-01")))
}

func TestAddMonthsClamped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		start  string
		months int
		want   string
	}{
		{name: "leap february", start: "2024-01-31", months: 1, want: "2024-02-29"},
		{name: "non leap february", start: "2023-01-31", months: 1, want: "2023-02-28"},
		{name: "quarter into short month", start: "2024-03-31", months: 3, want: "2024-06-30"},
		{name: "year boundary", start: "2024-11-30", months: 3, want: "2025-02-28"},
		{name: "leap day annual", start: "2024-02-29", months: 12, want: "2025-02-28"},
		{name: "plain", start: "2024-05-15", months: 6, want: "2024-11-15"},
		{name: "backwards", start: "2024-03-31", months: -1, want: "2024-02-29"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := MustParse(tc.start).AddMonthsClamped(tc.months)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestWeekAndMonthBoundaries(t *testing.T) {
	t.Parallel()

	d := MustParse("2024-03-15") // Friday

	assert.Equal(t, "2024-03-11", d.StartOfWeek(time.Monday).String())
	assert.Equal(t, "2024-03-10", d.StartOfWeek(time.Sunday).String())
	assert.Equal(t, "2024-03-01", d.StartOfMonth().String())
	assert.Equal(t, "2024-03-31", d.EndOfMonth().String())
	assert.Equal(t, 29, DaysIn(2024, time.February))
	assert.True(t, MustParse("2024-02-29").IsLastDayOfMonth())
	assert.Equal(t, 5, d.DaysSince(MustParse("2024-03-10")))
}

func TestJSONRoundTripAndNull(t *testing.T) {
	t.Parallel()

	type payload struct {
		Start Date  `json:"start"`
		End   *Date `json:"end"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2024-06-30","end":null}`), &p))
	assert.Equal(t, MustParse("2024-06-30"), p.Start)
	assert.Nil(t, p.End)

	out, err := json.Marshal(payload{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":null,"end":null}`, string(out))

	require.Error(t, json.Unmarshal([]byte(`{"start":"tomorrow"}`), &p))
}

func TestScanAndValue(t *testing.T) {
	t.Parallel()

	var d Date
	require.NoError(t, d.Scan("2024-01-02"))
	assert.Equal(t, "2024-01-02", d.String())

	require.NoError(t, d.Scan(time.Date(2024, time.July, 4, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-07-04", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	v, err := MustParse("2024-01-02").Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", v)

	require.Error(t, d.Scan(42))
}

func TestToday(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 14, 20, 0, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)

	assert.Equal(t, "2024-03-15", Today(now, tokyo).String())
	assert.Equal(t, "2024-03-14", Today(now, nil).String())
}
