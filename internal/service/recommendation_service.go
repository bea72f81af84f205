package service

import (
	"fmt"
	"strconv"

	"github.com/tot-logger/visit-log-api/internal/models"
)

// DefaultCautionVehicle is flagged on every selection regardless of history.
const DefaultCautionVehicle = 7

// VehicleAnalysis is the verdict for a pending vehicle selection.
type VehicleAnalysis struct {
	Conflict bool   `json:"conflict"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"message,omitempty"`
}

// RecommendationService derives default choices and caution flags from the
// daily state and the schedule resolver. All methods are pure.
type RecommendationService struct {
	schedule       *ScheduleService
	cautionVehicle int
}

// NewRecommendationService constructs the engine.
func NewRecommendationService(schedule *ScheduleService, cautionVehicle int) *RecommendationService {
	if cautionVehicle <= 0 {
		cautionVehicle = DefaultCautionVehicle
	}
	return &RecommendationService{schedule: schedule, cautionVehicle: cautionVehicle}
}

// AnalyzeProfile picks the default profile for a tour/date and the set of
// choices that contradict recorded or expected state.
func (s *RecommendationService) AnalyzeProfile(date string, tour models.Tour, state models.DailyState) models.ProfileAnalysis {
	// An established same-day profile for the tour overrides everything;
	// picking anything else is a contradiction.
	if established := state.ShaftHistory[tour]; established != "" && established != models.ProfileUnknown {
		return models.ProfileAnalysis{
			DefaultProfile:  established,
			CautionProfiles: profilesExcept(established),
		}
	}

	switch s.schedule.ProgramType(date) {
	case models.ProgramLevel13:
		return models.ProfileAnalysis{
			DefaultProfile:  models.ProfileLevel13,
			CautionProfiles: profilesExcept(models.ProfileLevel13),
		}
	case models.ProgramShadow:
		return models.ProfileAnalysis{
			DefaultProfile:  models.ProfileShadow,
			CautionProfiles: profilesExcept(models.ProfileShadow),
		}
	case models.ProgramUnlimited:
		// Any variant may run; every choice is plausible.
		return models.ProfileAnalysis{
			DefaultProfile:  models.ProfileUnknown,
			CautionProfiles: []models.Profile{},
		}
	default:
		return models.ProfileAnalysis{
			DefaultProfile:  models.ProfileStandard,
			CautionProfiles: profilesExcept(models.ProfileStandard),
		}
	}
}

// AnalyzeVehicle flags a pending vehicle number against the day's
// assignments. Edits are authoritative and never flagged. The overflow
// sentinel (9 or higher) is exempt from assignment checks.
func (s *RecommendationService) AnalyzeVehicle(num int, room models.RoomKey, assignments map[models.RoomKey]string, editing bool) VehicleAnalysis {
	if editing || num <= 0 {
		return VehicleAnalysis{}
	}

	if num == s.cautionVehicle {
		return VehicleAnalysis{
			Conflict: true,
			Code:     models.ConfirmVehicleCaution,
			Message:  fmt.Sprintf("vehicle No.%d is said to have vanished; record this number anyway?", num),
		}
	}

	if num >= models.OverflowVehicle {
		return VehicleAnalysis{}
	}

	if assigned, ok := assignments[room]; ok && room != "" && assigned != strconv.Itoa(num) {
		return VehicleAnalysis{
			Conflict: true,
			Code:     models.ConfirmVehicleOverwrite,
			Message:  fmt.Sprintf("this room is already recorded with No.%s; overwrite with No.%d?", assigned, num),
		}
	}

	if elsewhere := usedElsewhere(num, room, assignments); elsewhere != "" {
		return VehicleAnalysis{
			Conflict: true,
			Code:     models.ConfirmVehicleMoved,
			Message:  fmt.Sprintf("vehicle No.%d is already recorded in room %s today; record it as moved?", num, elsewhere),
		}
	}

	return VehicleAnalysis{}
}

// CautionVehicle exposes the configured always-flagged number.
func (s *RecommendationService) CautionVehicle() int {
	return s.cautionVehicle
}

func usedElsewhere(num int, room models.RoomKey, assignments map[models.RoomKey]string) models.RoomKey {
	want := strconv.Itoa(num)
	for key, assigned := range assignments {
		if key != room && assigned == want {
			return key
		}
	}
	return ""
}

func profilesExcept(keep models.Profile) []models.Profile {
	cautions := make([]models.Profile, 0, 3)
	for _, p := range models.Profiles() {
		if p != keep {
			cautions = append(cautions, p)
		}
	}
	return cautions
}
