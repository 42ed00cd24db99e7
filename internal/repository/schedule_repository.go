package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sekolahku/backoffice-api/internal/models"
)

// ScheduleRepository handles persistence of schedules.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListByDate returns every schedule starting on the given calendar date,
// ordered by start time so the rollup processes sessions chronologically.
func (r *ScheduleRepository) ListByDate(ctx context.Context, date time.Time) ([]models.Schedule, error) {
	const query = `SELECT id, academic_year_id, classroom_id, staff_id, starts_at, ends_at, description, created_at, updated_at
FROM schedules
WHERE starts_at::date = $1::date
ORDER BY starts_at`
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, date); err != nil {
		return nil, fmt.Errorf("list schedules for date: %w", err)
	}
	return schedules, nil
}
