package planning

import "time"

// civilDate is a calendar day with no time-of-day or location component,
// used as a map key everywhere the engine indexes by date. Horizon and
// LaborCalendar convert dates to civilDate when they store or look one
// up; other domain values keep their time.Time as supplied.
type civilDate struct {
	year  int
	month time.Month
	day   int
}

func toCivilDate(t time.Time) civilDate {
	y, m, d := t.Date()
	return civilDate{year: y, month: m, day: d}
}

func (c civilDate) Time() time.Time {
	return time.Date(c.year, c.month, c.day, 0, 0, 0, 0, time.UTC)
}

func (c civilDate) AddDays(n int) civilDate {
	return toCivilDate(c.Time().AddDate(0, 0, n))
}

func (c civilDate) Before(other civilDate) bool {
	return c.Time().Before(other.Time())
}

func (c civilDate) Sub(other civilDate) int {
	return int(c.Time().Sub(other.Time()).Hours() / 24)
}

func (c civilDate) Weekday() time.Weekday {
	return c.Time().Weekday()
}

func (c civilDate) String() string {
	return c.Time().Format("2006-01-02")
}

// Horizon is the ordered set of planning dates T = {t0, ..., t_{H-1}}.
type Horizon struct {
	start civilDate
	days  int
}

// NewHorizon builds a Horizon spanning [start, end] inclusive.
func NewHorizon(start, end time.Time) Horizon {
	s := toCivilDate(start)
	e := toCivilDate(end)
	n := e.Sub(s) + 1
	if n < 1 {
		n = 1
	}
	return Horizon{start: s, days: n}
}

// Len returns H, the number of planning days.
func (h Horizon) Len() int { return h.days }

// At returns t_i, the i-th planning date (0-indexed).
func (h Horizon) At(i int) time.Time { return h.start.AddDays(i).Time() }

// Start returns t_0.
func (h Horizon) Start() time.Time { return h.start.Time() }

// End returns t_{H-1}.
func (h Horizon) End() time.Time { return h.start.AddDays(h.days - 1).Time() }

// IndexOf returns the 0-based offset of date t within the horizon, and
// whether t actually falls within [t_0, t_{H-1}].
func (h Horizon) IndexOf(t time.Time) (int, bool) {
	i := toCivilDate(t).Sub(h.start)
	if i < 0 || i >= h.days {
		return 0, false
	}
	return i, true
}

// Contains reports whether t falls within [t_0, t_{H-1}].
func (h Horizon) Contains(t time.Time) bool {
	_, ok := h.IndexOf(t)
	return ok
}

// Dates returns every planning date in order.
func (h Horizon) Dates() []time.Time {
	out := make([]time.Time, h.days)
	for i := range out {
		out[i] = h.At(i)
	}
	return out
}
