package views

import (
	"sort"

	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/civil"
)

// DefaultCellLimit is the number of events a month cell shows before
// collapsing the rest into a count.
const DefaultCellLimit = 3

// Day is a single cell of the month grid. Events holds every event starting
// on Date; truncation is left to Visible.
type Day struct {
	Date    civil.Date       `json:"date"`
	InMonth bool             `json:"in_month"`
	IsToday bool             `json:"is_today"`
	Events  []calendar.Event `json:"events"`
}

// Visible returns at most limit events plus the number left out.
func (d Day) Visible(limit int) ([]calendar.Event, int) {
	if limit < 0 || len(d.Events) <= limit {
		return d.Events, 0
	}
	return d.Events[:limit:limit], len(d.Events) - limit
}

// MonthView is the full display grid for one month.
type MonthView struct {
	Year      int                             `json:"year"`
	Month     int                             `json:"month"`
	WeekStart string                          `json:"week_start"`
	Weeks     [][]Day                         `json:"weeks"`
	ByDate    map[civil.Date][]calendar.Event `json:"-"`
}

// Days returns the grid flattened in display order.
func (m MonthView) Days() []Day {
	out := make([]Day, 0, len(m.Weeks)*7)
	for _, w := range m.Weeks {
		out = append(out, w...)
	}
	return out
}

// PartitionForMonth builds the grid for the month containing monthAnchor.
// The grid spans whole display weeks from the week holding the 1st to the
// week holding the last day, so neighbouring months fill the edges.
func (p Partitioner) PartitionForMonth(events []calendar.Event, monthAnchor, today civil.Date) MonthView {
	first := monthAnchor.StartOfMonth()
	last := monthAnchor.EndOfMonth()
	gridStart := first.StartOfWeek(p.WeekStart)
	gridEnd := last.StartOfWeek(p.WeekStart).AddDays(6)

	byDate := make(map[civil.Date][]calendar.Event)
	for _, e := range events {
		if e.StartDate.Before(gridStart) || e.StartDate.After(gridEnd) {
			continue
		}
		byDate[e.StartDate] = append(byDate[e.StartDate], e)
	}
	for d := range byDate {
		list := byDate[d]
		sort.SliceStable(list, func(i, j int) bool {
			return lessByCategory(list[i], list[j])
		})
	}

	view := MonthView{
		Year:      first.Year,
		Month:     int(first.Month),
		WeekStart: p.WeekStart.String(),
		ByDate:    byDate,
	}

	for weekStart := gridStart; !weekStart.After(gridEnd); weekStart = weekStart.AddDays(7) {
		week := make([]Day, 7)
		for i := range week {
			d := weekStart.AddDays(i)
			week[i] = Day{
				Date:    d,
				InMonth: d.SameMonth(first),
				IsToday: d.Equal(today),
				Events:  byDate[d],
			}
		}
		view.Weeks = append(view.Weeks, week)
	}
	return view
}
