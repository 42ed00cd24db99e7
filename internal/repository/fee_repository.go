package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sekolahku/backoffice-api/internal/models"
)

// FeeRepository handles persistence of student fees. Promotion fees carry
// no unique constraint; uniqueness per (student, year, grade) is enforced
// by querying the metadata tag before inserting, inside one transaction.
type FeeRepository struct {
	db *sqlx.DB
}

// NewFeeRepository constructs the repository.
func NewFeeRepository(db *sqlx.DB) *FeeRepository {
	return &FeeRepository{db: db}
}

const feeColumns = `id, student_id, academic_year_id, type, amount, currency, due_date, status, reference, metadata, created_at, updated_at`

const findPromotionFeeQuery = `SELECT ` + feeColumns + `
FROM fees
WHERE student_id = $1 AND academic_year_id = $2 AND metadata->>'grade_level' = $3 AND (metadata->>'promotion')::boolean IS TRUE
ORDER BY created_at
LIMIT 1`

// FindForPromotion returns the existing promotion fee for the student,
// year and grade, or nil when none was generated yet.
func (r *FeeRepository) FindForPromotion(ctx context.Context, studentID, academicYearID string, grade models.GradeLevel) (*models.Fee, error) {
	var fee models.Fee
	if err := r.db.GetContext(ctx, &fee, findPromotionFeeQuery, studentID, academicYearID, grade); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find promotion fee: %w", err)
	}
	return &fee, nil
}

// CreateForPromotion inserts the fee unless a matching promotion fee
// already exists. The existence check and the insert share one transaction
// so concurrent generators cannot double-bill. It returns the stored fee
// and whether this call created it.
func (r *FeeRepository) CreateForPromotion(ctx context.Context, fee *models.Fee) (*models.Fee, bool, error) {
	grade := fee.Metadata.GradeLevel
	if grade == nil {
		return nil, false, fmt.Errorf("promotion fee requires a grade level tag")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin fee transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var existing models.Fee
	err = tx.GetContext(ctx, &existing, findPromotionFeeQuery, fee.StudentID, fee.AcademicYearID, *grade)
	if err == nil {
		if commitErr := tx.Commit(); commitErr != nil {
			return nil, false, fmt.Errorf("commit fee lookup: %w", commitErr)
		}
		return &existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("check promotion fee: %w", err)
	}
	err = nil

	now := time.Now().UTC()
	if fee.CreatedAt.IsZero() {
		fee.CreatedAt = now
	}
	fee.UpdatedAt = now
	const insertQuery = `INSERT INTO fees (id, student_id, academic_year_id, type, amount, currency, due_date, status, reference, metadata, created_at, updated_at)
VALUES (:id, :student_id, :academic_year_id, :type, :amount, :currency, :due_date, :status, :reference, :metadata, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insertQuery, fee); err != nil {
		return nil, false, fmt.Errorf("create promotion fee: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit promotion fee: %w", err)
	}
	return fee, true, nil
}

// ListByStudent returns all fees billed to a student, newest first.
func (r *FeeRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Fee, error) {
	const query = `SELECT ` + feeColumns + ` FROM fees WHERE student_id = $1 ORDER BY created_at DESC`
	var fees []models.Fee
	if err := r.db.SelectContext(ctx, &fees, query, studentID); err != nil {
		return nil, fmt.Errorf("list student fees: %w", err)
	}
	return fees, nil
}
