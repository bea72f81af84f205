package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// ReportSummary maps tour -> floor ("1"/"2") -> last vehicle.
type ReportSummary map[Tour]map[string]string

// Value implements driver.Valuer for jsonb storage.
func (s ReportSummary) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for jsonb storage.
func (s *ReportSummary) Scan(src interface{}) error {
	return scanJSON(src, s)
}

// ReportLog is the trimmed copy of a log entry embedded in a published report.
type ReportLog struct {
	ID        string  `json:"id"`
	Time      string  `json:"time"`
	Count     int     `json:"count"`
	Tour      Tour    `json:"tour"`
	Floor     Floor   `json:"floor"`
	Vehicle   string  `json:"vehicle"`
	Profile   Profile `json:"profile"`
	IsSpecial bool    `json:"is_special"`
}

// ReportLogs is a jsonb-backed slice of trimmed entries.
type ReportLogs []ReportLog

// Value implements driver.Valuer for jsonb storage.
func (l ReportLogs) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner for jsonb storage.
func (l *ReportLogs) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// PublishedReport is one user's published snapshot of a day. The id is the
// deterministic "{date}_{authorID}" so republishing replaces wholesale.
type PublishedReport struct {
	ID               string         `db:"id" json:"id"`
	Date             string         `db:"date" json:"date"`
	AuthorID         string         `db:"author_id" json:"author_id"`
	AuthorName       string         `db:"author_name" json:"author_name"`
	AuthorAvatarURL  string         `db:"author_avatar_url" json:"author_avatar_url"`
	AuthorScreenName string         `db:"author_screen_name" json:"author_screen_name"`
	Summary          ReportSummary  `db:"summary" json:"summary"`
	Suspended        pq.StringArray `db:"suspended" json:"suspended"`
	Logs             ReportLogs     `db:"logs" json:"logs"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// ReportID builds the deterministic document id for a date+author pair.
func ReportID(date, authorID string) string {
	return fmt.Sprintf("%s_%s", date, authorID)
}

func scanJSON(src, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}
