package models

// SessionPhase is the explicit state of the input draft.
type SessionPhase string

const (
	PhaseEmpty    SessionPhase = "EMPTY"
	PhaseDrafting SessionPhase = "DRAFTING"
	PhaseEditing  SessionPhase = "EDITING"
)

// InputSession is the single mutable draft a user is building. It lives in
// Redis keyed by user id; every transition loads, mutates and stores it whole.
type InputSession struct {
	Phase          SessionPhase `json:"phase"`
	Date           string       `json:"date"`
	Time           string       `json:"time"`
	Count          int          `json:"count"`
	Floor          Floor        `json:"floor"`
	Tour           Tour         `json:"tour"`
	Vehicle        string       `json:"vehicle"`
	Profile        Profile      `json:"profile"`
	SuspendedTours []Tour       `json:"suspended_tours"`
	Memo           string       `json:"memo"`
	IsSpecial      bool         `json:"is_special"`
	// EditingID is set while modifying an existing entry; empty when creating.
	EditingID string `json:"editing_id"`
}

// Room returns the composite key for the session's room, or "" when the
// session does not fully specify one.
func (s *InputSession) Room() RoomKey {
	if !s.Tour.Valid() || !s.Floor.Valid() {
		return ""
	}
	return NewRoomKey(s.Tour, s.Floor)
}

// Editing reports whether the session modifies an existing entry.
func (s *InputSession) Editing() bool {
	return s.EditingID != ""
}

// HasSuspended reports whether the tour is on the pending suspension list.
func (s *InputSession) HasSuspended(tour Tour) bool {
	for _, t := range s.SuspendedTours {
		if t == tour {
			return true
		}
	}
	return false
}

// RemoveSuspended drops the tour from the pending suspension list.
func (s *InputSession) RemoveSuspended(tour Tour) {
	kept := s.SuspendedTours[:0]
	for _, t := range s.SuspendedTours {
		if t != tour {
			kept = append(kept, t)
		}
	}
	s.SuspendedTours = kept
}

// Confirmation codes returned by session transitions.
const (
	ConfirmDateReset           = "DATE_RESET"
	ConfirmDiscardDraft        = "DISCARD_DRAFT"
	ConfirmReactivateTour      = "REACTIVATE_TOUR"
	ConfirmProfileContradicted = "PROFILE_CONTRADICTION"
	ConfirmVehicleCaution      = "VEHICLE_CAUTION"
	ConfirmVehicleOverwrite    = "VEHICLE_OVERWRITE"
	ConfirmVehicleMoved        = "VEHICLE_MOVED"
	ConfirmSuspendTour         = "SUSPEND_TOUR"
	ConfirmSuspendActiveTour   = "SUSPEND_ACTIVE_TOUR"
	ConfirmSpecialOutOfPeriod  = "SPECIAL_OUT_OF_PERIOD"
	ConfirmVehicleEmpty        = "VEHICLE_EMPTY"
	ConfirmSpecialOffProfile   = "SPECIAL_OFF_PROFILE"
	ConfirmEarlySeason         = "EARLY_SEASON"
	ConfirmDeleteEntry         = "DELETE_ENTRY"
	ConfirmDeletePublished     = "DELETE_PUBLISHED_ENTRY"
	ConfirmPublish             = "PUBLISH_REPORT"
	ConfirmUnpublish           = "UNPUBLISH_REPORT"
)

// Confirmation is a pending question the caller must resolve before a
// transition proceeds. It is data, not an error: declining is a silent abort.
type Confirmation struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewConfirmation builds a confirmation request.
func NewConfirmation(code, message string) *Confirmation {
	return &Confirmation{Code: code, Message: message}
}
