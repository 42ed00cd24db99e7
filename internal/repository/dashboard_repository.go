package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/sekolahku/backoffice-api/internal/models"
)

// DashboardRepository aggregates back-office counters for the dashboard.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs the repository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// StudentCounts holds per-status student totals.
type StudentCounts struct {
	Active    int `db:"active"`
	Graduated int `db:"graduated"`
}

// CountStudents returns active/graduated student totals.
func (r *DashboardRepository) CountStudents(ctx context.Context) (*StudentCounts, error) {
	const query = `SELECT
	COUNT(*) FILTER (WHERE status = $1) AS active,
	COUNT(*) FILTER (WHERE status = $2) AS graduated
FROM students`
	var counts StudentCounts
	if err := r.db.GetContext(ctx, &counts, query, models.StudentStatusActive, models.StudentStatusGraduated); err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	return &counts, nil
}

// PendingFeeSummary holds outstanding billing totals.
type PendingFeeSummary struct {
	Count int             `db:"count"`
	Total decimal.Decimal `db:"total"`
}

// PendingFees returns the number and amount of fees still pending.
func (r *DashboardRepository) PendingFees(ctx context.Context) (*PendingFeeSummary, error) {
	const query = `SELECT COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total FROM fees WHERE status = $1`
	var summary PendingFeeSummary
	if err := r.db.GetContext(ctx, &summary, query, models.FeeStatusPending); err != nil {
		return nil, fmt.Errorf("summarise pending fees: %w", err)
	}
	return &summary, nil
}

// CountSchedulesOnDate returns how many sessions run on the date.
func (r *DashboardRepository) CountSchedulesOnDate(ctx context.Context, date time.Time) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM schedules WHERE starts_at::date = $1::date`, date); err != nil {
		return 0, fmt.Errorf("count schedules: %w", err)
	}
	return count, nil
}
