package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sekolahku/backoffice-api/internal/models"
)

// FeeTemplateRepository handles persistence of fee templates.
type FeeTemplateRepository struct {
	db *sqlx.DB
}

// NewFeeTemplateRepository constructs the repository.
func NewFeeTemplateRepository(db *sqlx.DB) *FeeTemplateRepository {
	return &FeeTemplateRepository{db: db}
}

// FindActiveForGrade returns the active template for a grade level,
// preferring one scoped to the academic year over a global (NULL year)
// template. A nil result with no error means no template matches.
func (r *FeeTemplateRepository) FindActiveForGrade(ctx context.Context, grade models.GradeLevel, academicYearID string) (*models.FeeTemplate, error) {
	const query = `SELECT id, grade_level, academic_year_id, title, amount, currency, due_in_days, is_active, created_at, updated_at
FROM fee_templates
WHERE grade_level = $1 AND is_active = TRUE AND (academic_year_id = $2 OR academic_year_id IS NULL)
ORDER BY academic_year_id NULLS LAST
LIMIT 1`
	var template models.FeeTemplate
	if err := r.db.GetContext(ctx, &template, query, grade, academicYearID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find fee template: %w", err)
	}
	return &template, nil
}
