package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/sekolahku/backoffice-api/internal/models"
)

// AcademicYearRepository handles persistence of academic years.
type AcademicYearRepository struct {
	db *sqlx.DB
}

// NewAcademicYearRepository constructs the repository.
func NewAcademicYearRepository(db *sqlx.DB) *AcademicYearRepository {
	return &AcademicYearRepository{db: db}
}

// FindByID returns an academic year by its ID.
func (r *AcademicYearRepository) FindByID(ctx context.Context, id string) (*models.AcademicYear, error) {
	const query = `SELECT id, code, name, starts_on, ends_on, is_current, created_at, updated_at FROM academic_years WHERE id = $1`
	var year models.AcademicYear
	if err := r.db.GetContext(ctx, &year, query, id); err != nil {
		return nil, err
	}
	return &year, nil
}

// FindCurrent returns the academic year flagged as current.
func (r *AcademicYearRepository) FindCurrent(ctx context.Context) (*models.AcademicYear, error) {
	const query = `SELECT id, code, name, starts_on, ends_on, is_current, created_at, updated_at FROM academic_years WHERE is_current = TRUE ORDER BY starts_on DESC LIMIT 1`
	var year models.AcademicYear
	if err := r.db.GetContext(ctx, &year, query); err != nil {
		return nil, err
	}
	return &year, nil
}
