package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Tour identifies one of the three parallel ride tracks.
type Tour string

const (
	TourA Tour = "A"
	TourB Tour = "B"
	TourC Tour = "C"
)

// Tours lists every tour in display order.
func Tours() []Tour {
	return []Tour{TourA, TourB, TourC}
}

// Valid returns true when the tour is a supported value.
func (t Tour) Valid() bool {
	switch t {
	case TourA, TourB, TourC:
		return true
	default:
		return false
	}
}

// Floor identifies the vertical level hosting a room. Zero means unset.
type Floor int

const (
	FloorLower Floor = 1
	FloorUpper Floor = 2
)

// Valid returns true when the floor is a supported value.
func (f Floor) Valid() bool {
	return f == FloorLower || f == FloorUpper
}

// Profile is the active ride program recorded for a tour.
type Profile string

const (
	ProfileStandard Profile = "TOWER 1"
	ProfileLevel13  Profile = "TOWER 2"
	ProfileShadow   Profile = "TOWER 3"
	ProfileUnknown  Profile = "UNKNOWN"
)

// Profiles lists every selectable profile.
func Profiles() []Profile {
	return []Profile{ProfileStandard, ProfileLevel13, ProfileShadow, ProfileUnknown}
}

// Valid returns true when the profile is a supported value.
func (p Profile) Valid() bool {
	switch p {
	case ProfileStandard, ProfileLevel13, ProfileShadow, ProfileUnknown:
		return true
	default:
		return false
	}
}

// Label returns a human readable profile name.
func (p Profile) Label() string {
	switch p {
	case ProfileStandard:
		return "Standard"
	case ProfileLevel13:
		return "Level 13"
	case ProfileShadow:
		return "Shadow"
	case ProfileUnknown:
		return "Unknown"
	default:
		return string(p)
	}
}

// Vehicle numbering. Numbers 1-8 are selectable directly; OverflowVehicle is
// the "9 or higher" choice that requires the real number as free text. An
// empty vehicle string means unknown/unspecified.
const (
	MaxDirectVehicle = 8
	OverflowVehicle  = 9
)

// RoomKey identifies a single physical room, e.g. "A-1".
type RoomKey string

// NewRoomKey builds the composite tour-floor key.
func NewRoomKey(tour Tour, floor Floor) RoomKey {
	return RoomKey(fmt.Sprintf("%s-%d", tour, floor))
}

// Split decomposes the key back into its tour and floor. Malformed keys
// return zero values.
func (k RoomKey) Split() (Tour, Floor) {
	parts := strings.SplitN(string(k), "-", 2)
	if len(parts) != 2 {
		return "", 0
	}
	floor, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0
	}
	return Tour(parts[0]), Floor(floor)
}

// LogEntry is one observation of a vehicle/room/profile state.
type LogEntry struct {
	ID               string         `db:"id" json:"id"`
	Date             string         `db:"date" json:"date"`
	Time             string         `db:"time" json:"time"`
	Count            int            `db:"count" json:"count"`
	Floor            Floor          `db:"floor" json:"floor"`
	Tour             Tour           `db:"tour" json:"tour"`
	Vehicle          string         `db:"vehicle" json:"vehicle"`
	Profile          Profile        `db:"profile" json:"profile"`
	Suspended        pq.StringArray `db:"suspended" json:"suspended"`
	Memo             string         `db:"memo" json:"memo"`
	IsSpecial        bool           `db:"is_special" json:"is_special"`
	AuthorID         string         `db:"author_id" json:"author_id"`
	AuthorName       string         `db:"author_name" json:"author_name"`
	AuthorAvatarURL  string         `db:"author_avatar_url" json:"author_avatar_url"`
	AuthorScreenName string         `db:"author_screen_name" json:"author_screen_name"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// Room returns the composite key for the entry's room, or "" when the entry
// does not fully specify one.
func (e LogEntry) Room() RoomKey {
	if !e.Tour.Valid() || !e.Floor.Valid() {
		return ""
	}
	return NewRoomKey(e.Tour, e.Floor)
}

// Author is the identity reference attached to entries and reports.
type Author struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AvatarURL  string `json:"avatar_url"`
	ScreenName string `json:"screen_name"`
}
