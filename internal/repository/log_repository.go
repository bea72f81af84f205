package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tot-logger/visit-log-api/internal/models"
)

const logColumns = `id, date, time, count, floor, tour, vehicle, profile, suspended, memo, is_special,
author_id, author_name, author_avatar_url, author_screen_name, created_at, updated_at`

// LogRepository handles persistence for visit log entries.
type LogRepository struct {
	db *sqlx.DB
}

// NewLogRepository constructs the repository.
func NewLogRepository(db *sqlx.DB) *LogRepository {
	return &LogRepository{db: db}
}

// ListByAuthor returns every entry owned by the author. The store's native
// ordering is not relied upon; callers re-sort on ingestion.
func (r *LogRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.LogEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM log_entries WHERE author_id = $1`, logColumns)
	entries := []models.LogEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, authorID); err != nil {
		return nil, fmt.Errorf("list log entries: %w", err)
	}
	return entries, nil
}

// FindByID returns a single entry.
func (r *LogRepository) FindByID(ctx context.Context, id string) (*models.LogEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM log_entries WHERE id = $1`, logColumns)
	var entry models.LogEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create inserts a new entry, assigning id and timestamps.
func (r *LogRepository) Create(ctx context.Context, entry *models.LogEntry) (*models.LogEntry, error) {
	now := time.Now().UTC()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CreatedAt = now
	entry.UpdatedAt = now
	if entry.Suspended == nil {
		entry.Suspended = []string{}
	}
	query := fmt.Sprintf(`INSERT INTO log_entries (%s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
RETURNING %s`, logColumns, logColumns)
	var stored models.LogEntry
	err := r.db.GetContext(ctx, &stored, query,
		entry.ID, entry.Date, entry.Time, entry.Count, entry.Floor, entry.Tour,
		entry.Vehicle, entry.Profile, entry.Suspended, entry.Memo, entry.IsSpecial,
		entry.AuthorID, entry.AuthorName, entry.AuthorAvatarURL, entry.AuthorScreenName,
		entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create log entry: %w", err)
	}
	return &stored, nil
}

// Update rewrites an existing entry's mutable fields. createdAt is preserved.
func (r *LogRepository) Update(ctx context.Context, entry *models.LogEntry) (*models.LogEntry, error) {
	entry.UpdatedAt = time.Now().UTC()
	if entry.Suspended == nil {
		entry.Suspended = []string{}
	}
	query := fmt.Sprintf(`UPDATE log_entries SET
date = $2, time = $3, count = $4, floor = $5, tour = $6, vehicle = $7, profile = $8,
suspended = $9, memo = $10, is_special = $11, updated_at = $12
WHERE id = $1
RETURNING %s`, logColumns)
	var stored models.LogEntry
	err := r.db.GetContext(ctx, &stored, query,
		entry.ID, entry.Date, entry.Time, entry.Count, entry.Floor, entry.Tour,
		entry.Vehicle, entry.Profile, entry.Suspended, entry.Memo, entry.IsSpecial,
		entry.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update log entry: %w", err)
	}
	return &stored, nil
}

// Delete removes an entry. sql.ErrNoRows is returned when it no longer exists.
func (r *LogRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM log_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete log entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete log entry: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
