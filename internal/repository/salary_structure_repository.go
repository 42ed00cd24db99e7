package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sekolahku/backoffice-api/internal/models"
)

// SalaryStructureRepository handles persistence of salary structures.
type SalaryStructureRepository struct {
	db *sqlx.DB
}

// NewSalaryStructureRepository constructs the repository.
func NewSalaryStructureRepository(db *sqlx.DB) *SalaryStructureRepository {
	return &SalaryStructureRepository{db: db}
}

// ListApplicable returns the active salary structures whose
// [effective_date, expires_on) interval overlaps the payroll period,
// ordered by effective_date descending so the caller can pick the most
// recently effective structure per staff member. Structures with a NULL
// academic year apply to every year; when academicYearID is set,
// year-scoped structures for other years are excluded. An empty staffIDs
// slice means no staff restriction.
func (r *SalaryStructureRepository) ListApplicable(ctx context.Context, periodStart, periodEnd time.Time, academicYearID *string, staffIDs []string) ([]models.SalaryStructure, error) {
	query := `SELECT id, staff_id, academic_year_id, base_salary, allowances, deductions, effective_date, expires_on, is_active, created_at, updated_at
FROM salary_structures
WHERE is_active = TRUE
  AND effective_date <= $1
  AND (expires_on IS NULL OR expires_on > $2)`
	args := []interface{}{periodEnd, periodStart}

	if academicYearID != nil && *academicYearID != "" {
		query += fmt.Sprintf(" AND (academic_year_id = $%d OR academic_year_id IS NULL)", len(args)+1)
		args = append(args, *academicYearID)
	}
	if len(staffIDs) > 0 {
		query += fmt.Sprintf(" AND staff_id = ANY($%d)", len(args)+1)
		args = append(args, pq.Array(staffIDs))
	}
	query += " ORDER BY effective_date DESC, created_at DESC"

	var structures []models.SalaryStructure
	if err := r.db.SelectContext(ctx, &structures, query, args...); err != nil {
		return nil, fmt.Errorf("list applicable salary structures: %w", err)
	}
	return structures, nil
}
