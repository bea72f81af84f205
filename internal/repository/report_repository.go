package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tot-logger/visit-log-api/internal/models"
)

const reportColumns = `id, date, author_id, author_name, author_avatar_url, author_screen_name,
summary, suspended, logs, updated_at`

// ReportRepository handles persistence for published daily reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Upsert replaces the report for its date+author wholesale.
func (r *ReportRepository) Upsert(ctx context.Context, report *models.PublishedReport) (*models.PublishedReport, error) {
	report.UpdatedAt = time.Now().UTC()
	if report.Suspended == nil {
		report.Suspended = []string{}
	}
	query := fmt.Sprintf(`INSERT INTO shared_reports (%s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id)
DO UPDATE SET summary = EXCLUDED.summary, suspended = EXCLUDED.suspended,
logs = EXCLUDED.logs, author_name = EXCLUDED.author_name,
author_avatar_url = EXCLUDED.author_avatar_url, author_screen_name = EXCLUDED.author_screen_name,
updated_at = EXCLUDED.updated_at
RETURNING %s`, reportColumns, reportColumns)
	var stored models.PublishedReport
	err := r.db.GetContext(ctx, &stored, query,
		report.ID, report.Date, report.AuthorID, report.AuthorName,
		report.AuthorAvatarURL, report.AuthorScreenName,
		report.Summary, report.Suspended, report.Logs, report.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert shared report: %w", err)
	}
	return &stored, nil
}

// Delete removes the report if present. Missing reports are not an error; the
// unpublish path is idempotent.
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shared_reports WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete shared report: %w", err)
	}
	return nil
}

// FindByID returns one report.
func (r *ReportRepository) FindByID(ctx context.Context, id string) (*models.PublishedReport, error) {
	query := fmt.Sprintf(`SELECT %s FROM shared_reports WHERE id = $1`, reportColumns)
	var report models.PublishedReport
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		return nil, err
	}
	return &report, nil
}

// List returns every published report, newest date first.
func (r *ReportRepository) List(ctx context.Context, limit int) ([]models.PublishedReport, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM shared_reports ORDER BY date DESC, updated_at DESC LIMIT %d`, reportColumns, limit)
	reports := []models.PublishedReport{}
	if err := r.db.SelectContext(ctx, &reports, query); err != nil {
		return nil, fmt.Errorf("list shared reports: %w", err)
	}
	return reports, nil
}

// ListDatesByAuthor returns the dates the author currently has published.
func (r *ReportRepository) ListDatesByAuthor(ctx context.Context, authorID string) ([]string, error) {
	dates := []string{}
	err := r.db.SelectContext(ctx, &dates,
		`SELECT date FROM shared_reports WHERE author_id = $1 ORDER BY date DESC`, authorID)
	if err != nil {
		return nil, fmt.Errorf("list published dates: %w", err)
	}
	return dates, nil
}

// Exists reports whether the author has a report published for the date.
func (r *ReportRepository) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM shared_reports WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check shared report: %w", err)
	}
	return true, nil
}
