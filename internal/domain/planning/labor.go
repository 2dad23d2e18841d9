package planning

import "time"

// MaxLaborHoursPerDay is the absolute ceiling on labor_hours_used on any
// day, fixed or not.
const MaxLaborHoursPerDay = 14.0

// MinimumPaidHoursIfNonFixed is the minimum paid hours floor on a
// non-fixed day with any production.
const MinimumPaidHoursIfNonFixed = 4.0

// ChangeoverOverheadHours and StartupOverheadHours give concrete hour
// costs to the changeover_overhead(t) and start_overhead(t) terms,
// which are otherwise unspecified per-event costs: a changeover
// (product_start) costs half an hour of line cleaning/setup; starting
// the line at all on a day (any_production) costs fifteen minutes of
// warm-up, charged once per day regardless of how many SKUs run.
const (
	ChangeoverOverheadHours = 0.5
	StartupOverheadHours    = 0.25
)

// LaborDay is one calendar day's labor terms.
type LaborDay struct {
	Date          time.Time
	IsFixedDay    bool
	FixedHours    float64
	RegularRate   float64
	OvertimeRate  float64
}

// MaxHours returns the labor-hours ceiling for this day: the fixed-hours
// cap on a fixed day, or the universal 14h ceiling otherwise.
func (d LaborDay) MaxHours() float64 {
	if d.IsFixedDay && d.FixedHours > 0 && d.FixedHours < MaxLaborHoursPerDay {
		return d.FixedHours
	}
	return MaxLaborHoursPerDay
}

// Cost returns the labor cost of paying for hours worked, splitting
// regular vs. overtime at FixedHours on a fixed day (overtime never
// applies below FixedHours; on a non-fixed day all paid hours are
// charged at RegularRate, since "overtime" presumes a base shift).
func (d LaborDay) Cost(hoursPaid float64) float64 {
	if !d.IsFixedDay || d.FixedHours <= 0 {
		return hoursPaid * d.RegularRate
	}
	if hoursPaid <= d.FixedHours {
		return hoursPaid * d.RegularRate
	}
	overtime := hoursPaid - d.FixedHours
	return d.FixedHours*d.RegularRate + overtime*d.OvertimeRate
}

// LaborCalendar maps each planning date to its labor terms.
type LaborCalendar map[civilDate]LaborDay

// Day returns the labor terms for date t, normalized to a civil date
// (time-of-day and location are not part of the planning horizon's
// identity).
func (c LaborCalendar) Day(t time.Time) (LaborDay, bool) {
	d, ok := c[toCivilDate(t)]
	return d, ok
}

// Set records the labor terms for the calendar day of date, normalized
// to a civil date. Used by ingress validation to build a calendar from
// input rows without exposing the unexported civilDate key type.
func (c LaborCalendar) Set(date time.Time, d LaborDay) {
	c[toCivilDate(date)] = d
}
