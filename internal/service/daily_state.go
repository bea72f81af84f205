package service

import (
	"sort"

	"github.com/tot-logger/visit-log-api/internal/models"
)

// AggregateDailyState folds the given entries into the derived state for one
// day. Entries not matching the date are ignored, as is the entry whose id
// equals excludeID (so an in-progress edit does not see itself as history).
// The fold honors slice order: later entries override earlier ones per key.
func AggregateDailyState(date string, entries []models.LogEntry, excludeID string) models.DailyState {
	state := models.DailyState{
		Assignments:  map[models.RoomKey]string{},
		Suspended:    map[models.Tour]bool{},
		ShaftHistory: map[models.Tour]models.Profile{},
	}
	suspendedSet := map[models.Tour]struct{}{}

	for _, entry := range entries {
		if entry.Date != date {
			continue
		}
		if excludeID != "" && entry.ID == excludeID {
			continue
		}

		if room := entry.Room(); room != "" && entry.Vehicle != "" {
			state.Assignments[room] = entry.Vehicle
		}

		for _, raw := range entry.Suspended {
			if tour := models.Tour(raw); tour.Valid() {
				suspendedSet[tour] = struct{}{}
			}
		}
		// A recorded ride on a tour clears any earlier suspension flag.
		if entry.Tour.Valid() {
			delete(suspendedSet, entry.Tour)
		}

		if entry.Tour.Valid() && entry.Profile.Valid() && entry.Profile != models.ProfileUnknown {
			state.ShaftHistory[entry.Tour] = entry.Profile
		}
	}

	for _, tour := range models.Tours() {
		_, suspended := suspendedSet[tour]
		state.Suspended[tour] = suspended
		if _, ok := state.ShaftHistory[tour]; !ok {
			state.ShaftHistory[tour] = ""
		}
	}

	return state
}

// NextCount returns the sequence number for a new entry on the date:
// max existing count plus one, or 1 for an empty day.
func NextCount(date string, entries []models.LogEntry) int {
	max := 0
	for _, entry := range entries {
		if entry.Date != date {
			continue
		}
		if entry.Count > max {
			max = entry.Count
		}
	}
	return max + 1
}

// SubmissionOrder returns a copy sorted oldest-first by creation time so the
// aggregation fold sees entries in the order they were persisted.
func SubmissionOrder(entries []models.LogEntry) []models.LogEntry {
	sorted := make([]models.LogEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// DisplayOrder returns a copy sorted for history rendering: date descending,
// then creation time descending. The backing store's native ordering is never
// relied upon; this resort runs on every delivery.
func DisplayOrder(entries []models.LogEntry) []models.LogEntry {
	sorted := make([]models.LogEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date > sorted[j].Date
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}
