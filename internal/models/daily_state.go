package models

// DailyState is the derived aggregation over one day's log entries. It is
// never stored; it is recomputed from the full collection on every use.
type DailyState struct {
	// Assignments maps room keys to the last vehicle seen in that room.
	Assignments map[RoomKey]string `json:"assignments"`
	// Suspended carries exactly one flag per tour.
	Suspended map[Tour]bool `json:"suspended"`
	// ShaftHistory holds the most recent non-unknown profile per tour.
	// An empty profile means no established value yet.
	ShaftHistory map[Tour]Profile `json:"shaft_history"`
}

// ProfileAnalysis is the recommendation for a tour/date selection.
type ProfileAnalysis struct {
	DefaultProfile  Profile   `json:"default_profile"`
	CautionProfiles []Profile `json:"caution_profiles"`
}

// HasCaution reports whether the given profile requires confirmation.
func (a ProfileAnalysis) HasCaution(p Profile) bool {
	for _, c := range a.CautionProfiles {
		if c == p {
			return true
		}
	}
	return false
}
