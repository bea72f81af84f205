package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tot-logger/visit-log-api/internal/models"
)

func testSchedules() []models.SpecialSchedule {
	return []models.SpecialSchedule{
		{ID: "2025-l13", Year: 2025, StartDate: "2025-09-04", EndDate: "2025-11-02", ProgramType: models.ProgramLevel13},
		{ID: "2026-shadow", Year: 2026, StartDate: "2026-01-09", EndDate: "2026-03-22", ProgramType: models.ProgramShadow},
	}
}

func TestScheduleServiceProgramTypeInsideRange(t *testing.T) {
	svc := NewScheduleService(testSchedules(), 0)

	assert.Equal(t, models.ProgramLevel13, svc.ProgramType("2025-09-04"))
	assert.Equal(t, models.ProgramLevel13, svc.ProgramType("2025-10-15"))
	assert.Equal(t, models.ProgramLevel13, svc.ProgramType("2025-11-02"))
	assert.Equal(t, models.ProgramShadow, svc.ProgramType("2026-02-01"))
}

func TestScheduleServiceProgramTypeOutsideRange(t *testing.T) {
	svc := NewScheduleService(testSchedules(), 0)

	assert.Equal(t, models.ProgramNormal, svc.ProgramType("2025-09-03"))
	assert.Equal(t, models.ProgramNormal, svc.ProgramType("2025-11-03"))
	assert.Equal(t, models.ProgramNormal, svc.ProgramType("2025-06-15"))
}

func TestScheduleServiceEarlyYearFallback(t *testing.T) {
	svc := NewScheduleService(testSchedules(), 4)

	// 2027 has no configured schedule, so early months resolve to unlimited.
	assert.Equal(t, models.ProgramUnlimited, svc.ProgramType("2027-01-15"))
	assert.Equal(t, models.ProgramUnlimited, svc.ProgramType("2027-04-30"))
	assert.Equal(t, models.ProgramNormal, svc.ProgramType("2027-05-01"))

	// 2026 has a schedule, so no fallback applies outside its ranges.
	assert.Equal(t, models.ProgramNormal, svc.ProgramType("2026-04-01"))
}

func TestScheduleServiceMalformedAndEmptyDates(t *testing.T) {
	svc := NewScheduleService(testSchedules(), 4)

	assert.Equal(t, models.ProgramNormal, svc.ProgramType(""))
	assert.Equal(t, models.ProgramNormal, svc.ProgramType("not-a-date"))
	assert.Equal(t, models.ProgramNormal, svc.ProgramType("2027/01/15"))
}

func TestScheduleServiceIsSpecialPeriod(t *testing.T) {
	svc := NewScheduleService(testSchedules(), 4)

	assert.True(t, svc.IsSpecialPeriod("2025-10-01"))
	assert.True(t, svc.IsSpecialPeriod("2027-02-01"))
	assert.False(t, svc.IsSpecialPeriod("2025-07-01"))
}

func TestScheduleServiceHasYearDefinition(t *testing.T) {
	svc := NewScheduleService(testSchedules(), 4)

	assert.True(t, svc.HasYearDefinition(2025))
	assert.True(t, svc.HasYearDefinition(2026))
	assert.False(t, svc.HasYearDefinition(2027))
}

func TestScheduleServiceFallbackMonthEndDefault(t *testing.T) {
	svc := NewScheduleService(nil, -3)
	assert.Equal(t, DefaultFallbackMonthEnd, svc.FallbackMonthEnd())

	svc = NewScheduleService(nil, 13)
	assert.Equal(t, DefaultFallbackMonthEnd, svc.FallbackMonthEnd())

	svc = NewScheduleService(nil, 3)
	assert.Equal(t, 3, svc.FallbackMonthEnd())
}
