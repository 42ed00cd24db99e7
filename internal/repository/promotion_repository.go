package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sekolahku/backoffice-api/internal/models"
)

// PromotionRepository applies the mutations of a grade promotion. Each
// apply method runs in a single transaction holding a row lock on the
// student, so concurrent promotions of the same student serialize and
// partial state (old assignment closed, new one missing) is never visible.
type PromotionRepository struct {
	db *sqlx.DB
}

// NewPromotionRepository constructs the repository.
func NewPromotionRepository(db *sqlx.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

// PromotionParams carries the resolved promotion decision.
type PromotionParams struct {
	StudentID      string
	AcademicYearID string
	ClassroomID    string
	GradeLevel     models.GradeLevel
	EffectiveOn    time.Time
}

// GraduationParams carries the resolved graduation decision.
type GraduationParams struct {
	StudentID      string
	AcademicYearID string
	EffectiveOn    time.Time
}

// ApplyPromotion closes the student's open assignment, opens the new one
// and updates the student's denormalized pointers atomically.
func (r *PromotionRepository) ApplyPromotion(ctx context.Context, params PromotionParams) (*models.Student, *models.ClassroomAssignment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin promotion transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = lockStudent(ctx, tx, params.StudentID); err != nil {
		return nil, nil, err
	}
	if err = closeOpenAssignments(ctx, tx, params.StudentID, params.EffectiveOn); err != nil {
		return nil, nil, err
	}

	assignment := models.ClassroomAssignment{
		ID:             uuid.NewString(),
		StudentID:      params.StudentID,
		ClassroomID:    params.ClassroomID,
		AcademicYearID: params.AcademicYearID,
		GradeLevel:     params.GradeLevel,
		AssignedOn:     params.EffectiveOn,
		CreatedAt:      time.Now().UTC(),
	}
	const insertQuery = `INSERT INTO classroom_assignments (id, student_id, classroom_id, academic_year_id, grade_level, assigned_on, removed_on, created_at)
VALUES ($1, $2, $3, $4, $5, $6, NULL, $7)`
	if _, err = tx.ExecContext(ctx, insertQuery,
		assignment.ID, assignment.StudentID, assignment.ClassroomID, assignment.AcademicYearID,
		assignment.GradeLevel, assignment.AssignedOn, assignment.CreatedAt,
	); err != nil {
		return nil, nil, fmt.Errorf("create assignment: %w", err)
	}

	const updateQuery = `UPDATE students SET academic_year_id = $2, classroom_id = $3, status = $4, updated_at = NOW()
WHERE id = $1
RETURNING ` + studentColumns
	var student models.Student
	if err = tx.GetContext(ctx, &student, updateQuery,
		params.StudentID, params.AcademicYearID, params.ClassroomID, models.StudentStatusActive,
	); err != nil {
		return nil, nil, fmt.Errorf("update promoted student: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit promotion: %w", err)
	}
	return &student, &assignment, nil
}

// ApplyGraduation closes the student's open assignment and marks them
// graduated in the target year with no classroom, atomically.
func (r *PromotionRepository) ApplyGraduation(ctx context.Context, params GraduationParams) (*models.Student, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin graduation transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = lockStudent(ctx, tx, params.StudentID); err != nil {
		return nil, err
	}
	if err = closeOpenAssignments(ctx, tx, params.StudentID, params.EffectiveOn); err != nil {
		return nil, err
	}

	const updateQuery = `UPDATE students SET academic_year_id = $2, classroom_id = NULL, status = $3, updated_at = NOW()
WHERE id = $1
RETURNING ` + studentColumns
	var student models.Student
	if err = tx.GetContext(ctx, &student, updateQuery,
		params.StudentID, params.AcademicYearID, models.StudentStatusGraduated,
	); err != nil {
		return nil, fmt.Errorf("update graduated student: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit graduation: %w", err)
	}
	return &student, nil
}

func lockStudent(ctx context.Context, tx *sqlx.Tx, studentID string) error {
	var id string
	if err := tx.GetContext(ctx, &id, `SELECT id FROM students WHERE id = $1 FOR UPDATE`, studentID); err != nil {
		return fmt.Errorf("lock student: %w", err)
	}
	return nil
}

func closeOpenAssignments(ctx context.Context, tx *sqlx.Tx, studentID string, removedOn time.Time) error {
	const query = `UPDATE classroom_assignments SET removed_on = $2 WHERE student_id = $1 AND removed_on IS NULL`
	if _, err := tx.ExecContext(ctx, query, studentID, removedOn); err != nil {
		return fmt.Errorf("close open assignments: %w", err)
	}
	return nil
}
