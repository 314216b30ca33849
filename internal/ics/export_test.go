package ics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/civil"
	"github.com/example/smart-calendar/internal/recurrence"
)

func TestExportRoundTrip(t *testing.T) {
	t.Parallel()

	end := civil.MustParse("2024-03-02")
	completedOn := civil.MustParse("2024-02-01")
	events := []calendar.Event{
		{
			ID:          "evt-1",
			Title:       "Replace HVAC filter",
			Category:    calendar.CategoryHVAC,
			StartDate:   civil.MustParse("2024-03-01"),
			EndDate:     &end,
			Recurrence:  recurrence.Quarterly,
			Status:      calendar.StatusUpcoming,
			Visibility:  calendar.VisibilityShared,
			NotifyDayOf: true,
			Notify1Week: true,
			Notes:       "20x25x1",
		},
		{
			ID:           "evt-2",
			Title:        "Renew passport",
			StartDate:    civil.MustParse("2024-01-15"),
			Recurrence:   recurrence.OneTime,
			Status:       calendar.StatusCompleted,
			Visibility:   calendar.VisibilityPrivate,
			Notify30Days: true,
			CompletedOn:  &completedOn,
		},
	}

	var buf bytes.Buffer
	err := Export(&buf, events, Options{Name: "Home", Now: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	body := buf.String()
	assert.Contains(t, body, "X-WR-CALNAME:Home")
	assert.Contains(t, body, "DTSTART;VALUE=DATE:20240301")
	assert.Contains(t, body, "DTEND;VALUE=DATE:20240303")
	assert.Contains(t, body, "FREQ=MONTHLY")
	assert.Contains(t, body, "INTERVAL=3")
	assert.Contains(t, body, "CATEGORIES:HVAC Service")
	assert.Contains(t, body, "CLASS:PUBLIC")
	assert.Contains(t, body, "TRIGGER:PT0S")
	assert.Contains(t, body, "TRIGGER:-P7D")
	assert.NotContains(t, body, "TRIGGER:-P30D", "completed events carry no alarms")
	assert.Contains(t, body, "STATUS:COMPLETED")

	parsed, err := ical.ParseCalendar(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, parsed.Events(), 2)

	first := parsed.Events()[0]
	assert.Equal(t, "evt-1@smart-calendar.local", first.Id())
	assert.Equal(t, "Replace HVAC filter", first.GetProperty(ical.ComponentPropertySummary).Value)
	assert.Nil(t, parsed.Events()[1].GetProperty(ical.ComponentPropertyRrule))
}

func TestExportSingleDayDefaultsEnd(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Export(&buf, []calendar.Event{{
		ID:         "evt-1",
		Title:      "Property tax",
		StartDate:  civil.MustParse("2024-12-31"),
		Recurrence: recurrence.OneTime,
		Visibility: calendar.VisibilityEmergencyOnly,
	}}, Options{})
	require.NoError(t, err)

	body := buf.String()
	assert.Contains(t, body, "DTSTART;VALUE=DATE:20241231")
	assert.Contains(t, body, "DTEND;VALUE=DATE:20250101")
	assert.Contains(t, body, "CLASS:CONFIDENTIAL")
	assert.Contains(t, body, "PRODID:"+DefaultProductID)
	assert.NotContains(t, body, "RRULE")
}
