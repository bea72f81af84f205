package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tot-logger/visit-log-api/internal/models"
)

func emptyState() models.DailyState {
	return models.DailyState{
		Assignments:  map[models.RoomKey]string{},
		Suspended:    map[models.Tour]bool{},
		ShaftHistory: map[models.Tour]models.Profile{},
	}
}

func TestAnalyzeProfileDefaultsFromProgram(t *testing.T) {
	schedule := NewScheduleService(testSchedules(), 4)
	svc := NewRecommendationService(schedule, 0)

	analysis := svc.AnalyzeProfile("2025-10-01", models.TourA, emptyState())
	assert.Equal(t, models.ProfileLevel13, analysis.DefaultProfile)
	assert.NotContains(t, analysis.CautionProfiles, models.ProfileLevel13)
	assert.Contains(t, analysis.CautionProfiles, models.ProfileStandard)

	analysis = svc.AnalyzeProfile("2026-02-01", models.TourA, emptyState())
	assert.Equal(t, models.ProfileShadow, analysis.DefaultProfile)

	analysis = svc.AnalyzeProfile("2025-07-01", models.TourA, emptyState())
	assert.Equal(t, models.ProfileStandard, analysis.DefaultProfile)
}

func TestAnalyzeProfileUnlimitedHasNoCautions(t *testing.T) {
	schedule := NewScheduleService(testSchedules(), 4)
	svc := NewRecommendationService(schedule, 0)

	// 2027 early-year fallback resolves to the unlimited program.
	analysis := svc.AnalyzeProfile("2027-02-01", models.TourA, emptyState())
	assert.Equal(t, models.ProfileUnknown, analysis.DefaultProfile)
	assert.Empty(t, analysis.CautionProfiles)
	assert.False(t, analysis.HasCaution(models.ProfileShadow))
}

func TestAnalyzeProfileEstablishedHistoryOverrides(t *testing.T) {
	schedule := NewScheduleService(testSchedules(), 4)
	svc := NewRecommendationService(schedule, 0)

	state := emptyState()
	state.ShaftHistory[models.TourB] = models.ProfileShadow

	// Mid-L13-period, but tour B is recorded as shadow today.
	analysis := svc.AnalyzeProfile("2025-10-01", models.TourB, state)
	assert.Equal(t, models.ProfileShadow, analysis.DefaultProfile)
	assert.True(t, analysis.HasCaution(models.ProfileLevel13))

	// An unknown history does not override.
	state.ShaftHistory[models.TourC] = models.ProfileUnknown
	analysis = svc.AnalyzeProfile("2025-10-01", models.TourC, state)
	assert.Equal(t, models.ProfileLevel13, analysis.DefaultProfile)
}

func TestAnalyzeVehicleCautionNumber(t *testing.T) {
	svc := NewRecommendationService(NewScheduleService(nil, 4), 7)

	verdict := svc.AnalyzeVehicle(7, models.NewRoomKey(models.TourA, 1), map[models.RoomKey]string{}, false)
	require.True(t, verdict.Conflict)
	assert.Equal(t, models.ConfirmVehicleCaution, verdict.Code)

	// The caution number fires even when editing is off but assignments exist.
	verdict = svc.AnalyzeVehicle(7, "", map[models.RoomKey]string{"A-1": "7"}, false)
	assert.True(t, verdict.Conflict)
}

func TestAnalyzeVehicleEditingIsExempt(t *testing.T) {
	svc := NewRecommendationService(NewScheduleService(nil, 4), 7)

	verdict := svc.AnalyzeVehicle(7, models.NewRoomKey(models.TourA, 1), map[models.RoomKey]string{}, true)
	assert.False(t, verdict.Conflict)
}

func TestAnalyzeVehicleOverflowIsExempt(t *testing.T) {
	svc := NewRecommendationService(NewScheduleService(nil, 4), 7)
	assignments := map[models.RoomKey]string{
		models.NewRoomKey(models.TourA, 1): "3",
	}

	verdict := svc.AnalyzeVehicle(9, models.NewRoomKey(models.TourA, 1), assignments, false)
	assert.False(t, verdict.Conflict)
}

func TestAnalyzeVehicleOverwrite(t *testing.T) {
	svc := NewRecommendationService(NewScheduleService(nil, 4), 7)
	room := models.NewRoomKey(models.TourA, 1)
	assignments := map[models.RoomKey]string{room: "3"}

	verdict := svc.AnalyzeVehicle(5, room, assignments, false)
	require.True(t, verdict.Conflict)
	assert.Equal(t, models.ConfirmVehicleOverwrite, verdict.Code)

	// Re-selecting the same number is not a conflict.
	verdict = svc.AnalyzeVehicle(3, room, assignments, false)
	assert.False(t, verdict.Conflict)
}

func TestAnalyzeVehicleMoved(t *testing.T) {
	svc := NewRecommendationService(NewScheduleService(nil, 4), 7)
	assignments := map[models.RoomKey]string{
		models.NewRoomKey(models.TourB, 2): "5",
	}

	verdict := svc.AnalyzeVehicle(5, models.NewRoomKey(models.TourA, 1), assignments, false)
	require.True(t, verdict.Conflict)
	assert.Equal(t, models.ConfirmVehicleMoved, verdict.Code)
}

func TestAnalyzeVehicleDefaultCaution(t *testing.T) {
	svc := NewRecommendationService(NewScheduleService(nil, 4), 0)
	assert.Equal(t, DefaultCautionVehicle, svc.CautionVehicle())
}
