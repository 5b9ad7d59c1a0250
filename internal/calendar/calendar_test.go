package calendar

import (
	"testing"
)

func stdCal(t *testing.T, holidays ...string) *Calendar {
	t.Helper()
	c := Standard()
	for _, h := range holidays {
		c.Holidays = append(c.Holidays, MustParseDate(h))
	}
	return c
}

func TestIsWorkingDay(t *testing.T) {
	c := stdCal(t, "2025-06-09")

	if !c.IsWorkingDay(MustParseDate("2025-06-02")) {
		t.Error("Monday should be a working day")
	}
	if c.IsWorkingDay(MustParseDate("2025-06-07")) {
		t.Error("Saturday should not be a working day")
	}
	if c.IsWorkingDay(MustParseDate("2025-06-08")) {
		t.Error("Sunday should not be a working day")
	}
	if c.IsWorkingDay(MustParseDate("2025-06-09")) {
		t.Error("holiday should not be a working day")
	}
}

func TestAddWorkingDays(t *testing.T) {
	c := stdCal(t)

	// Already a working day, n = 0: unchanged
	if got := c.AddWorkingDays(MustParseDate("2025-06-02"), 0); got != MustParseDate("2025-06-02") {
		t.Errorf("n=0 on working day = %s", got)
	}
	// Saturday normalizes forward to Monday
	if got := c.AddWorkingDays(MustParseDate("2025-06-07"), 0); got != MustParseDate("2025-06-09") {
		t.Errorf("n=0 on Saturday = %s", got)
	}
	// Five working days from Monday crosses the weekend
	if got := c.AddWorkingDays(MustParseDate("2025-06-02"), 5); got != MustParseDate("2025-06-09") {
		t.Errorf("5 days from Monday = %s", got)
	}
	// Negative n subtracts
	if got := c.AddWorkingDays(MustParseDate("2025-06-09"), -5); got != MustParseDate("2025-06-02") {
		t.Errorf("-5 days from Monday = %s", got)
	}
}

func TestAddWorkingDaysSkipsHolidays(t *testing.T) {
	c := stdCal(t, "2025-06-09")

	if got := c.AddWorkingDays(MustParseDate("2025-06-02"), 5); got != MustParseDate("2025-06-10") {
		t.Errorf("5 days over a holiday = %s", got)
	}
}

func TestSubtractWorkingDays(t *testing.T) {
	c := stdCal(t)

	if got := c.SubtractWorkingDays(MustParseDate("2025-06-09"), 5); got != MustParseDate("2025-06-02") {
		t.Errorf("5 back from Monday = %s", got)
	}
	// Sunday normalizes backward to Friday
	if got := c.SubtractWorkingDays(MustParseDate("2025-06-08"), 0); got != MustParseDate("2025-06-06") {
		t.Errorf("n=0 on Sunday = %s", got)
	}
}

func TestAddSubtractInverse(t *testing.T) {
	c := stdCal(t, "2025-06-09", "2025-06-19")
	d := MustParseDate("2025-06-02")

	for n := 0; n <= 20; n++ {
		fwd := c.AddWorkingDays(d, n)
		if !c.IsWorkingDay(fwd) {
			t.Fatalf("AddWorkingDays(%d) landed on non-working day %s", n, fwd)
		}
		back := c.SubtractWorkingDays(fwd, n)
		if back != d {
			t.Errorf("n=%d: round trip %s -> %s -> %s", n, d, fwd, back)
		}
	}
}

func TestWorkingDaysBetween(t *testing.T) {
	c := stdCal(t)

	// Mon..Mon half-open: Mon-Fri = 5 working days
	if got := c.WorkingDaysBetween(MustParseDate("2025-06-02"), MustParseDate("2025-06-09")); got != 5 {
		t.Errorf("got %d, want 5", got)
	}
	if got := c.WorkingDaysBetween(MustParseDate("2025-06-02"), MustParseDate("2025-06-02")); got != 0 {
		t.Errorf("empty interval = %d", got)
	}
	if got := c.WorkingDaysBetween(MustParseDate("2025-06-09"), MustParseDate("2025-06-02")); got != 0 {
		t.Errorf("reversed interval = %d", got)
	}
}

func TestNoWorkDaysCalendarTerminates(t *testing.T) {
	c := &Calendar{ID: "never"}

	d := MustParseDate("2025-06-02")
	if c.IsWorkingDay(d) {
		t.Error("no-workday calendar should never have a working day")
	}
	// Must not loop forever; returns the input unchanged.
	if got := c.AddWorkingDays(d, 5); got != d {
		t.Errorf("AddWorkingDays on dead calendar = %s", got)
	}
	if got := c.SubtractWorkingDays(d, 5); got != d {
		t.Errorf("SubtractWorkingDays on dead calendar = %s", got)
	}
}

func TestSetResolveFallbackChain(t *testing.T) {
	a := &Calendar{ID: "a", WorkDays: Standard().WorkDays}
	b := &Calendar{ID: "b", WorkDays: Standard().WorkDays, Default: true}
	set := NewSet([]*Calendar{a, b}, "")

	if got := set.Resolve("a"); got != a {
		t.Error("explicit id should resolve directly")
	}
	if got := set.Resolve("missing"); got != b {
		t.Error("unresolved id should fall back to the flagged default")
	}
	if got := set.Resolve(""); got != b {
		t.Error("empty id should fall back to the flagged default")
	}

	set = NewSet([]*Calendar{a, b}, "a")
	if got := set.Resolve(""); got != a {
		t.Error("default id should win over the flagged default")
	}

	set = NewSet(nil, "")
	if got := set.Resolve("anything"); got.ID != "standard" {
		t.Errorf("empty set should fall back to the built-in calendar, got %s", got.ID)
	}
}
