package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sekolahku/backoffice-api/internal/models"
)

// ClassroomRepository handles persistence of classrooms and classroom
// assignment history.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository constructs the repository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

const classroomColumns = `id, academic_year_id, grade_level, name, capacity, created_at, updated_at`

// FindByID returns a classroom by its ID.
func (r *ClassroomRepository) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	query := fmt.Sprintf(`SELECT %s FROM classrooms WHERE id = $1`, classroomColumns)
	var classroom models.Classroom
	if err := r.db.GetContext(ctx, &classroom, query, id); err != nil {
		return nil, err
	}
	return &classroom, nil
}

// FindFirstByYearAndGrade returns the first classroom (by name) holding the
// grade level within the academic year. A nil result with no error means no
// classroom is available.
func (r *ClassroomRepository) FindFirstByYearAndGrade(ctx context.Context, academicYearID string, grade models.GradeLevel) (*models.Classroom, error) {
	query := fmt.Sprintf(`SELECT %s FROM classrooms WHERE academic_year_id = $1 AND grade_level = $2 ORDER BY name LIMIT 1`, classroomColumns)
	var classroom models.Classroom
	if err := r.db.GetContext(ctx, &classroom, query, academicYearID, grade); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find classroom for grade: %w", err)
	}
	return &classroom, nil
}

const assignmentColumns = `id, student_id, classroom_id, academic_year_id, grade_level, assigned_on, removed_on, created_at`

// FindOpenAssignment returns the student's open classroom assignment, the
// most recently assigned row with removed_on still NULL. A nil result with
// no error means the student has no open assignment.
func (r *ClassroomRepository) FindOpenAssignment(ctx context.Context, studentID string) (*models.ClassroomAssignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM classroom_assignments WHERE student_id = $1 AND removed_on IS NULL ORDER BY assigned_on DESC LIMIT 1`, assignmentColumns)
	var assignment models.ClassroomAssignment
	if err := r.db.GetContext(ctx, &assignment, query, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find open assignment: %w", err)
	}
	return &assignment, nil
}

// ListAssignmentsByStudent returns the full assignment history for a
// student, newest first.
func (r *ClassroomRepository) ListAssignmentsByStudent(ctx context.Context, studentID string) ([]models.ClassroomAssignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM classroom_assignments WHERE student_id = $1 ORDER BY assigned_on DESC`, assignmentColumns)
	var assignments []models.ClassroomAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, studentID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}
