package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/sekolahku/backoffice-api/internal/models"
	appErrors "github.com/sekolahku/backoffice-api/pkg/errors"
)

type studentListReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
}

type assignmentHistoryReader interface {
	ListAssignmentsByStudent(ctx context.Context, studentID string) ([]models.ClassroomAssignment, error)
}

// StudentService serves student lookups and enrollment history.
type StudentService struct {
	students    studentListReader
	assignments assignmentHistoryReader
	logger      *zap.Logger
}

// NewStudentService constructs StudentService.
func NewStudentService(students studentListReader, assignments assignmentHistoryReader, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{students: students, assignments: assignments, logger: logger}
}

// FindByID returns one student.
func (s *StudentService) FindByID(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// List returns students matching the filter with pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// ListAssignments returns the student's full enrollment history, the open
// interval included.
func (s *StudentService) ListAssignments(ctx context.Context, studentID string) ([]models.ClassroomAssignment, error) {
	if _, err := s.FindByID(ctx, studentID); err != nil {
		return nil, err
	}
	assignments, err := s.assignments.ListAssignmentsByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}
