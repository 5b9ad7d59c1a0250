package calendar

import "log"

// scanLimit bounds working-day scans so a calendar whose work pattern and
// holidays rule out every day cannot spin forever. When the limit is hit
// the scan gives up and returns the day it started from.
const scanLimit = 3660

// Calendar is a work-pattern definition: which weekdays are worked, plus
// holiday exceptions. All methods are pure functions of (date, calendar).
type Calendar struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name,omitempty" json:"name,omitempty"`
	WorkDays    [7]bool `yaml:"work_days" json:"work_days"` // indexed by time.Weekday (Sunday = 0)
	Holidays    []Date  `yaml:"holidays,omitempty" json:"holidays,omitempty"`
	HoursPerDay float64 `yaml:"hours_per_day,omitempty" json:"hours_per_day,omitempty"`
	Default     bool    `yaml:"default,omitempty" json:"default,omitempty"`
}

// Standard returns the built-in Monday–Friday calendar with no holidays,
// used when a project defines no calendars at all.
func Standard() *Calendar {
	return &Calendar{
		ID:          "standard",
		Name:        "Standard (Mon–Fri)",
		WorkDays:    [7]bool{false, true, true, true, true, true, false},
		HoursPerDay: 8,
	}
}

// IsWorkingDay reports whether d is a working day on this calendar:
// the weekday flag must be set and d must not be a holiday.
func (c *Calendar) IsWorkingDay(d Date) bool {
	if !c.WorkDays[d.Weekday()] {
		return false
	}
	for _, h := range c.Holidays {
		if h == d {
			return false
		}
	}
	return true
}

// neverWorks reports whether no weekday is enabled at all.
func (c *Calendar) neverWorks() bool {
	for _, w := range c.WorkDays {
		if w {
			return false
		}
	}
	return true
}

// NextWorkingDay returns d if it is a working day, otherwise the first
// working day after it. The scan is bounded; on a calendar with no valid
// days it returns d unchanged.
func (c *Calendar) NextWorkingDay(d Date) Date {
	if c.neverWorks() {
		return d
	}
	cur := d
	for i := 0; i < scanLimit; i++ {
		if c.IsWorkingDay(cur) {
			return cur
		}
		cur = cur.AddDays(1)
	}
	return d
}

// PrevWorkingDay returns d if it is a working day, otherwise the nearest
// working day before it. Bounded like NextWorkingDay.
func (c *Calendar) PrevWorkingDay(d Date) Date {
	if c.neverWorks() {
		return d
	}
	cur := d
	for i := 0; i < scanLimit; i++ {
		if c.IsWorkingDay(cur) {
			return cur
		}
		cur = cur.AddDays(-1)
	}
	return d
}

// AddWorkingDays normalizes start forward to a working day, then advances
// exactly n further working days. n = 0 returns the normalized start.
// Negative n delegates to SubtractWorkingDays.
func (c *Calendar) AddWorkingDays(start Date, n int) Date {
	if n < 0 {
		return c.SubtractWorkingDays(start, -n)
	}
	d := c.NextWorkingDay(start)
	for i := 0; i < n; i++ {
		d = c.NextWorkingDay(d.AddDays(1))
	}
	return d
}

// SubtractWorkingDays normalizes end backward to a working day, then
// regresses exactly n further working days.
func (c *Calendar) SubtractWorkingDays(end Date, n int) Date {
	if n < 0 {
		return c.AddWorkingDays(end, -n)
	}
	d := c.PrevWorkingDay(end)
	for i := 0; i < n; i++ {
		d = c.PrevWorkingDay(d.AddDays(-1))
	}
	return d
}

// WorkingDaysBetween counts the working days in the half-open interval
// [from, to). Returns 0 when to is not after from.
func (c *Calendar) WorkingDaysBetween(from, to Date) int {
	if !to.After(from) {
		return 0
	}
	count := 0
	for d := from; d.Before(to); d = d.AddDays(1) {
		if c.IsWorkingDay(d) {
			count++
		}
	}
	return count
}

// Set resolves calendar references with the project fallback chain:
// explicit id → default id → flagged default → first calendar → built-in
// standard calendar.
type Set struct {
	byID      map[string]*Calendar
	ordered   []*Calendar
	defaultID string
}

// NewSet indexes the given calendars. Order is preserved for the
// first-calendar fallback.
func NewSet(calendars []*Calendar, defaultID string) *Set {
	s := &Set{
		byID:      make(map[string]*Calendar, len(calendars)),
		ordered:   calendars,
		defaultID: defaultID,
	}
	for _, c := range calendars {
		s.byID[c.ID] = c
	}
	return s
}

// Resolve returns the calendar for id, falling back per the chain above.
// An explicit id that resolves to nothing is recovered silently apart
// from a logged warning.
func (s *Set) Resolve(id string) *Calendar {
	if id != "" {
		if c, ok := s.byID[id]; ok {
			return c
		}
		log.Printf("warning: calendar %q not found, falling back to default", id)
	}
	return s.Default()
}

// Default returns the project default calendar, or the built-in standard
// calendar when the project defines none.
func (s *Set) Default() *Calendar {
	if c, ok := s.byID[s.defaultID]; ok {
		return c
	}
	for _, c := range s.ordered {
		if c.Default {
			return c
		}
	}
	if len(s.ordered) > 0 {
		return s.ordered[0]
	}
	return Standard()
}
