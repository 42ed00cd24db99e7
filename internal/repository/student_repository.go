package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/sekolahku/backoffice-api/internal/models"
)

// StudentRepository handles persistence of student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, number, full_name, academic_year_id, classroom_id, status, created_at, updated_at`

// FindByID returns a student by their ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// ListActiveByClassroom returns the active students enrolled in a classroom.
func (r *StudentRepository) ListActiveByClassroom(ctx context.Context, classroomID string) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE classroom_id = $1 AND status = $2 ORDER BY full_name`, studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, classroomID, models.StudentStatusActive); err != nil {
		return nil, fmt.Errorf("list classroom students: %w", err)
	}
	return students, nil
}

// List returns students filtered by the provided criteria.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	where := []string{"1=1"}
	var args []interface{}

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(full_name ILIKE $%d OR number ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.AcademicYearID != "" {
		where = append(where, fmt.Sprintf("academic_year_id = $%d", len(args)+1))
		args = append(args, filter.AcademicYearID)
	}
	if filter.ClassroomID != "" {
		where = append(where, fmt.Sprintf("classroom_id = $%d", len(args)+1))
		args = append(args, filter.ClassroomID)
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	whereClause := strings.Join(where, " AND ")

	allowedSorts := map[string]string{
		"full_name":  "full_name",
		"number":     "number",
		"created_at": "created_at",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "full_name"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM students WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		studentColumns, whereClause, orderBy, order, size, offset)

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM students WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}
