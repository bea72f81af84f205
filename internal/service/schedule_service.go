package service

import (
	"strconv"
	"time"

	"github.com/tot-logger/visit-log-api/internal/models"
)

// DefaultFallbackMonthEnd bounds the early-year fallback window (inclusive).
const DefaultFallbackMonthEnd = 4

// ScheduleService resolves dates to program types using the configured
// special program ranges. Schedules are loaded once and treated as read-only
// reference data for the process lifetime.
type ScheduleService struct {
	schedules        []models.SpecialSchedule
	fallbackMonthEnd int
}

// NewScheduleService constructs the resolver.
func NewScheduleService(schedules []models.SpecialSchedule, fallbackMonthEnd int) *ScheduleService {
	if fallbackMonthEnd < 1 || fallbackMonthEnd > 12 {
		fallbackMonthEnd = DefaultFallbackMonthEnd
	}
	return &ScheduleService{schedules: schedules, fallbackMonthEnd: fallbackMonthEnd}
}

// ProgramType maps a YYYY-MM-DD date to the program expected to run.
// Unset or malformed dates resolve to NORMAL.
func (s *ScheduleService) ProgramType(date string) models.ProgramType {
	if date == "" {
		return models.ProgramNormal
	}

	// Inclusive range match on the configured schedules. Dates compare
	// lexicographically in YYYY-MM-DD form.
	for _, schedule := range s.schedules {
		if date >= schedule.StartDate && date <= schedule.EndDate {
			return schedule.ProgramType
		}
	}

	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return models.ProgramNormal
	}

	// Years with no configured schedule default the early months to the
	// unlimited program; which variant runs is simply not known yet.
	if !s.HasYearDefinition(parsed.Year()) && int(parsed.Month()) <= s.fallbackMonthEnd {
		return models.ProgramUnlimited
	}

	return models.ProgramNormal
}

// IsSpecialPeriod reports whether the date falls outside the normal program.
func (s *ScheduleService) IsSpecialPeriod(date string) bool {
	return s.ProgramType(date) != models.ProgramNormal
}

// HasYearDefinition reports whether any schedule is configured for the year.
func (s *ScheduleService) HasYearDefinition(year int) bool {
	prefix := strconv.Itoa(year)
	for _, schedule := range s.schedules {
		if schedule.Year == year {
			return true
		}
		if len(schedule.StartDate) >= 4 && schedule.StartDate[:4] == prefix {
			return true
		}
	}
	return false
}

// FallbackMonthEnd exposes the configured cutoff for the early-year window.
func (s *ScheduleService) FallbackMonthEnd() int {
	return s.fallbackMonthEnd
}
