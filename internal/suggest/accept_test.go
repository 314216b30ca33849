package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/civil"
	"github.com/example/smart-calendar/internal/recurrence"
)

func TestAccept(t *testing.T) {
	t.Parallel()

	prop := "prop-1"
	s := Suggestion{
		Key:              "lease_end_42",
		Rule:             RuleLeaseEnd,
		Title:            "Lease ends: Maple Street Duplex",
		Category:         calendar.CategoryLeaseEnd,
		StartDate:        civil.MustParse("2024-08-31"),
		Notes:            "Lease term ends.",
		LinkedPropertyID: &prop,
	}

	d := Accept(s)

	assert.True(t, d.IsSuggested)
	assert.Equal(t, "lease_end_42", d.TemplateKey)
	assert.Equal(t, s.Title, d.Title)
	assert.Equal(t, s.StartDate, d.StartDate)
	assert.Equal(t, recurrence.OneTime, d.Recurrence)
	assert.True(t, d.NotifyDayOf)
	assert.True(t, d.Notify1Week)
	assert.False(t, d.Notify30Days)
	require.NoError(t, d.Validate())
}

func TestAcceptEditedKeepsProvenance(t *testing.T) {
	t.Parallel()

	s := Suggestion{
		Key:       "warranty_99",
		Title:     "Warranty expires: Water heater",
		Category:  calendar.CategoryWarranty,
		StartDate: civil.MustParse("2024-05-15"),
	}

	title := "Call HeatCo about water heater"
	start := civil.MustParse("2024-05-01")
	rec := recurrence.Annual
	thirty := true
	d := AcceptEdited(s, Edit{Title: &title, StartDate: &start, Recurrence: &rec, Notify30Days: &thirty})

	assert.Equal(t, title, d.Title)
	assert.Equal(t, start, d.StartDate)
	assert.Equal(t, recurrence.Annual, d.Recurrence)
	assert.True(t, d.Notify30Days)
	assert.Equal(t, calendar.CategoryWarranty, d.Category)
	assert.Equal(t, "warranty_99", d.TemplateKey)
	assert.True(t, d.IsSuggested)
}
