package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/example/smart-calendar/internal/civil"
)

// Recurrence names the period after which an obligation repeats.
type Recurrence string

const (
	// OneTime events never repeat.
	OneTime Recurrence = "one_time"
	// Daily repeats every day.
	Daily Recurrence = "daily"
	// Weekly repeats every seven days.
	Weekly Recurrence = "weekly"
	// Biweekly repeats every fourteen days.
	Biweekly Recurrence = "biweekly"
	// Monthly repeats every calendar month.
	Monthly Recurrence = "monthly"
	// Quarterly repeats every three calendar months.
	Quarterly Recurrence = "quarterly"
	// SemiAnnual repeats every six calendar months.
	SemiAnnual Recurrence = "semi_annual"
	// Annual repeats every calendar year.
	Annual Recurrence = "annual"
)

// MaxOccurrences caps look-ahead expansion.
const MaxOccurrences = 366

var (
	// ErrNotRecurring indicates a next occurrence was requested for a one-time event.
	ErrNotRecurring = errors.New("recurrence: one_time has no next occurrence")
	// ErrInvalidRecurrence indicates the recurrence value is not supported.
	ErrInvalidRecurrence = errors.New("recurrence: invalid recurrence")
	// ErrInvalidWindow indicates the look-ahead window ends before it starts.
	ErrInvalidWindow = errors.New("recurrence: window end precedes start")
)

var ordered = []Recurrence{OneTime, Daily, Weekly, Biweekly, Monthly, Quarterly, SemiAnnual, Annual}

// All returns every supported recurrence in display order.
func All() []Recurrence {
	out := make([]Recurrence, len(ordered))
	copy(out, ordered)
	return out
}

// Parse converts a stored or user supplied value. Empty input means OneTime.
func Parse(s string) (Recurrence, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return OneTime, nil
	}
	r := Recurrence(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRecurrence, s)
	}
	return r, nil
}

// Valid reports whether r is a supported value.
func (r Recurrence) Valid() bool {
	switch r {
	case OneTime, Daily, Weekly, Biweekly, Monthly, Quarterly, SemiAnnual, Annual:
		return true
	}
	return false
}

// IsRecurring reports whether r describes a repeating obligation.
func (r Recurrence) IsRecurring() bool {
	return r.Valid() && r != OneTime
}

// Label returns the human readable name.
func (r Recurrence) Label() string {
	switch r {
	case OneTime:
		return "One time"
	case Daily:
		return "Daily"
	case Weekly:
		return "Weekly"
	case Biweekly:
		return "Every 2 weeks"
	case Monthly:
		return "Monthly"
	case Quarterly:
		return "Quarterly"
	case SemiAnnual:
		return "Every 6 months"
	case Annual:
		return "Annually"
	}
	return string(r)
}

// step returns the day or month increment for r; exactly one is non-zero.
func (r Recurrence) step() (days, months int, err error) {
	switch r {
	case Daily:
		return 1, 0, nil
	case Weekly:
		return 7, 0, nil
	case Biweekly:
		return 14, 0, nil
	case Monthly:
		return 0, 1, nil
	case Quarterly:
		return 0, 3, nil
	case SemiAnnual:
		return 0, 6, nil
	case Annual:
		return 0, 12, nil
	case OneTime:
		return 0, 0, ErrNotRecurring
	}
	return 0, 0, fmt.Errorf("%w: %q", ErrInvalidRecurrence, string(r))
}

// Next returns the occurrence following d.
//
// Month based rules clamp to the last valid day of the target month, so
// Jan 31 advances to Feb 28 (Feb 29 in leap years) and Feb 29 advances to
// Feb 28 of the following year.
func Next(d civil.Date, r Recurrence) (civil.Date, error) {
	days, months, err := r.step()
	if err != nil {
		return civil.Date{}, err
	}
	if months != 0 {
		return d.AddMonthsClamped(months), nil
	}
	return d.AddDays(days), nil
}

// Occurrences returns up to limit instances following anchor, in order.
// The anchor itself is not included.
func Occurrences(anchor civil.Date, r Recurrence, limit int) ([]civil.Date, error) {
	if limit <= 0 {
		return nil, nil
	}
	if limit > MaxOccurrences {
		limit = MaxOccurrences
	}

	out := make([]civil.Date, 0, limit)
	current := anchor
	for len(out) < limit {
		next, err := Next(current, r)
		if err != nil {
			return nil, err
		}
		out = append(out, next)
		current = next
	}
	return out, nil
}

// Between returns the instances of the series anchored at anchor (anchor
// included) that fall inside the inclusive window [from, to].
func Between(anchor civil.Date, r Recurrence, from, to civil.Date) ([]civil.Date, error) {
	if to.Before(from) {
		return nil, ErrInvalidWindow
	}
	if r == OneTime {
		if anchor.Before(from) || anchor.After(to) {
			return nil, nil
		}
		return []civil.Date{anchor}, nil
	}

	out := make([]civil.Date, 0)
	current := anchor
	for steps := 0; !current.After(to); steps++ {
		if steps > MaxOccurrences*4 {
			break
		}
		if !current.Before(from) {
			out = append(out, current)
			if len(out) >= MaxOccurrences {
				break
			}
		}
		next, err := Next(current, r)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return out, nil
}

// PeriodContains reports whether d falls within the period that begins at
// periodStart, i.e. [periodStart, Next(periodStart)). A one-time period is
// the single day periodStart.
func PeriodContains(periodStart civil.Date, r Recurrence, d civil.Date) (bool, error) {
	if d.Before(periodStart) {
		return false, nil
	}
	if r == OneTime {
		return d.Equal(periodStart), nil
	}
	end, err := Next(periodStart, r)
	if err != nil {
		return false, err
	}
	return d.Before(end), nil
}

// RRule translates r into an RFC 5545 recurrence rule starting at dtstart.
// Month based rules anchored on the last day of a month use BYMONTHDAY=-1 so
// calendar clients keep the end-of-month intent. Annual rules starting on
// Feb 29 use BYMONTH=2;BYMONTHDAY=-1 so non-leap years land on Feb 28.
func RRule(r Recurrence, dtstart civil.Date) (*rrule.RRule, error) {
	opt := rrule.ROption{
		Dtstart:  dtstart.In(nil),
		Interval: 1,
	}

	switch r {
	case Daily:
		opt.Freq = rrule.DAILY
	case Weekly:
		opt.Freq = rrule.WEEKLY
	case Biweekly:
		opt.Freq = rrule.WEEKLY
		opt.Interval = 2
	case Monthly:
		opt.Freq = rrule.MONTHLY
	case Quarterly:
		opt.Freq = rrule.MONTHLY
		opt.Interval = 3
	case SemiAnnual:
		opt.Freq = rrule.MONTHLY
		opt.Interval = 6
	case Annual:
		opt.Freq = rrule.YEARLY
	case OneTime:
		return nil, ErrNotRecurring
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidRecurrence, string(r))
	}

	if opt.Freq == rrule.MONTHLY && dtstart.IsLastDayOfMonth() && dtstart.Day > 28 {
		opt.Bymonthday = []int{-1}
	}
	if opt.Freq == rrule.YEARLY && dtstart.Month == time.February && dtstart.Day == 29 {
		opt.Bymonth = []int{2}
		opt.Bymonthday = []int{-1}
	}

	return rrule.NewRRule(opt)
}
