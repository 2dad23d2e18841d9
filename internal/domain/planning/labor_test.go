package planning_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breadworks/swpe/internal/domain/planning"
)

func TestLaborDay_MaxHours(t *testing.T) {
	fixed := planning.LaborDay{IsFixedDay: true, FixedHours: 8}
	assert.Equal(t, 8.0, fixed.MaxHours())

	weekend := planning.LaborDay{IsFixedDay: false}
	assert.Equal(t, planning.MaxLaborHoursPerDay, weekend.MaxHours())

	fixedAboveCeiling := planning.LaborDay{IsFixedDay: true, FixedHours: 20}
	assert.Equal(t, planning.MaxLaborHoursPerDay, fixedAboveCeiling.MaxHours())
}

func TestLaborDay_CostSplitsRegularAndOvertime(t *testing.T) {
	d := planning.LaborDay{IsFixedDay: true, FixedHours: 8, RegularRate: 20, OvertimeRate: 30}

	assert.Equal(t, 100.0, d.Cost(5))
	assert.Equal(t, 8*20+2*30.0, d.Cost(10))
}

func TestLaborDay_NonFixedDayChargesRegularRateOnly(t *testing.T) {
	d := planning.LaborDay{IsFixedDay: false, RegularRate: 25, OvertimeRate: 40}

	assert.Equal(t, 25*6.0, d.Cost(6))
}

func TestLaborCalendar_SetAndDayNormalizeToCivilDate(t *testing.T) {
	cal := planning.LaborCalendar{}
	date := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	cal.Set(date, planning.LaborDay{Date: date, RegularRate: 15})

	queried := time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC)
	day, ok := cal.Day(queried)
	require.True(t, ok)
	assert.Equal(t, 15.0, day.RegularRate)

	_, ok = cal.Day(date.AddDate(0, 0, 1))
	assert.False(t, ok)
}
