package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tot-logger/visit-log-api/internal/models"
)

// ScheduleRepository loads the configured special program ranges.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListAll returns every configured range. The set is small and read once per
// process lifetime.
func (r *ScheduleRepository) ListAll(ctx context.Context) ([]models.SpecialSchedule, error) {
	schedules := []models.SpecialSchedule{}
	err := r.db.SelectContext(ctx, &schedules,
		`SELECT id, year, start_date, end_date, program_type FROM special_programs ORDER BY start_date`)
	if err != nil {
		return nil, fmt.Errorf("list special programs: %w", err)
	}
	return schedules, nil
}
