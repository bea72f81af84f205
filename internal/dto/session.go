package dto

// StartNewRequest resets the draft for the next entry.
type StartNewRequest struct {
	ClearSuspended bool `json:"clear_suspended"`
}

// ChangeDateRequest moves the draft to another date.
type ChangeDateRequest struct {
	Date    string `json:"date" validate:"required,len=10"`
	Confirm bool   `json:"confirm"`
}

// StartEditRequest loads an existing entry into the draft.
type StartEditRequest struct {
	EntryID string `json:"entry_id" validate:"required"`
	Confirm bool   `json:"confirm"`
}

// SelectFloorRequest toggles the floor selection.
type SelectFloorRequest struct {
	Floor int `json:"floor" validate:"required,oneof=1 2"`
}

// SelectTourRequest toggles the tour selection.
type SelectTourRequest struct {
	Tour    string `json:"tour" validate:"required,oneof=A B C"`
	Confirm bool   `json:"confirm"`
}

// SelectProfileRequest sets the drop profile.
type SelectProfileRequest struct {
	Profile string `json:"profile" validate:"required"`
	Confirm bool   `json:"confirm"`
}

// SelectVehicleRequest toggles the vehicle selection. FreeText carries the
// actual number when the overflow choice (9 or higher) is picked.
type SelectVehicleRequest struct {
	Number   int    `json:"number" validate:"required,min=1,max=9"`
	FreeText string `json:"free_text"`
	Confirm  bool   `json:"confirm"`
}

// ToggleSuspendRequest flips a tour's pending suspension flag.
type ToggleSuspendRequest struct {
	Tour    string `json:"tour" validate:"required,oneof=A B C"`
	Confirm bool   `json:"confirm"`
}

// AdjustCountRequest shifts the sequence number by a delta.
type AdjustCountRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// MemoRequest replaces the free-text memo.
type MemoRequest struct {
	Memo string `json:"memo" validate:"max=500"`
}

// TimeRequest sets or clears the optional clock time.
type TimeRequest struct {
	Time string `json:"time" validate:"omitempty,len=5"`
}

// SpecialRequest flips the special-period flag.
type SpecialRequest struct {
	Special bool `json:"special"`
	Confirm bool `json:"confirm"`
}

// SubmitRequest persists the draft. Acks lists confirmation codes the user
// has already approved.
type SubmitRequest struct {
	Acks []string `json:"acks"`
}
