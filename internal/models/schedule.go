package models

// ProgramType classifies what the attraction is expected to run on a date.
type ProgramType string

const (
	ProgramNormal    ProgramType = "NORMAL"
	ProgramUnlimited ProgramType = "UNLIMITED"
	ProgramLevel13   ProgramType = "L13"
	ProgramShadow    ProgramType = "SHADOW"
)

// SpecialSchedule is a configured date range running a named program.
// Dates are inclusive YYYY-MM-DD strings so range checks are plain string
// comparisons.
type SpecialSchedule struct {
	ID          string      `db:"id" json:"id"`
	Year        int         `db:"year" json:"year"`
	StartDate   string      `db:"start_date" json:"start_date"`
	EndDate     string      `db:"end_date" json:"end_date"`
	ProgramType ProgramType `db:"program_type" json:"program_type"`
}
