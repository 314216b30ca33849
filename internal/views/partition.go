// Package views groups calendar events into the date buckets rendered by the
// list and month views.
package views

import (
	"sort"
	"time"

	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/civil"
)

// Bucket names a list-view section.
type Bucket string

const (
	BucketOverdue   Bucket = "overdue"
	BucketToday     Bucket = "today"
	BucketThisWeek  Bucket = "this_week"
	BucketThisMonth Bucket = "this_month"
	BucketUpcoming  Bucket = "upcoming"
	BucketCompleted Bucket = "completed"
)

var bucketOrder = []Bucket{BucketOverdue, BucketToday, BucketThisWeek, BucketThisMonth, BucketUpcoming, BucketCompleted}

// Buckets returns the list-view sections in render order.
func Buckets() []Bucket {
	out := make([]Bucket, len(bucketOrder))
	copy(out, bucketOrder)
	return out
}

// Label returns the section heading.
func (b Bucket) Label() string {
	switch b {
	case BucketOverdue:
		return "Overdue"
	case BucketToday:
		return "Today"
	case BucketThisWeek:
		return "This Week"
	case BucketThisMonth:
		return "This Month"
	case BucketUpcoming:
		return "Upcoming"
	case BucketCompleted:
		return "Completed"
	}
	return string(b)
}

// Section is a non-empty list-view bucket.
type Section struct {
	Bucket Bucket           `json:"bucket"`
	Label  string           `json:"label"`
	Events []calendar.Event `json:"events"`
}

// Partitioner buckets events relative to a calendar week that starts on WeekStart.
type Partitioner struct {
	WeekStart time.Weekday
}

// NewPartitioner returns a partitioner using weekStart as the first day of the week.
func NewPartitioner(weekStart time.Weekday) Partitioner {
	return Partitioner{WeekStart: weekStart}
}

// BucketFor places e in exactly one bucket. Rules are evaluated in priority
// order: completed, overdue, today, this week, this month, upcoming.
func (p Partitioner) BucketFor(e calendar.Event, today civil.Date) Bucket {
	if e.IsCompleted() {
		return BucketCompleted
	}
	if calendar.DeriveStatus(e, today) == calendar.StatusOverdue {
		return BucketOverdue
	}
	if e.StartDate.Equal(today) {
		return BucketToday
	}

	weekEnd := today.StartOfWeek(p.WeekStart).AddDays(6)
	if !e.StartDate.After(weekEnd) {
		return BucketThisWeek
	}
	if e.StartDate.SameMonth(today) {
		return BucketThisMonth
	}
	return BucketUpcoming
}

// PartitionForList returns the non-empty sections in render order. Events
// within a section are ordered by start date, then title, then id.
func (p Partitioner) PartitionForList(events []calendar.Event, today civil.Date) []Section {
	grouped := make(map[Bucket][]calendar.Event, len(bucketOrder))
	for _, e := range events {
		b := p.BucketFor(e, today)
		grouped[b] = append(grouped[b], e)
	}

	sections := make([]Section, 0, len(grouped))
	for _, b := range bucketOrder {
		list := grouped[b]
		if len(list) == 0 {
			continue
		}
		sort.SliceStable(list, func(i, j int) bool {
			return lessByDate(list[i], list[j])
		})
		sections = append(sections, Section{Bucket: b, Label: b.Label(), Events: list})
	}
	return sections
}

func lessByDate(a, b calendar.Event) bool {
	if c := a.StartDate.Compare(b.StartDate); c != 0 {
		return c < 0
	}
	if a.Title != b.Title {
		return a.Title < b.Title
	}
	return a.ID < b.ID
}

func lessByCategory(a, b calendar.Event) bool {
	if ra, rb := a.Category.Rank(), b.Category.Rank(); ra != rb {
		return ra < rb
	}
	if a.Title != b.Title {
		return a.Title < b.Title
	}
	return a.ID < b.ID
}
