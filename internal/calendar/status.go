package calendar

import "github.com/example/smart-calendar/internal/civil"

// DeriveStatus classifies e against today. Completion is sticky; otherwise
// an event is overdue only when its start date is strictly before today, so
// an event due today is still upcoming.
func DeriveStatus(e Event, today civil.Date) Status {
	if e.Status == StatusCompleted {
		return StatusCompleted
	}
	if e.StartDate.Before(today) {
		return StatusOverdue
	}
	return StatusUpcoming
}

// Reconcile returns e with its stored status re-derived for today.
func Reconcile(e Event, today civil.Date) Event {
	e.Status = DeriveStatus(e, today)
	return e
}

// ReconcileAll re-derives the status of every event in place and returns the
// indexes whose stored status changed.
func ReconcileAll(events []Event, today civil.Date) []int {
	var changed []int
	for i := range events {
		next := DeriveStatus(events[i], today)
		if next != events[i].Status {
			events[i].Status = next
			changed = append(changed, i)
		}
	}
	return changed
}
