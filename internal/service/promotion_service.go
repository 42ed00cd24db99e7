package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sekolahku/backoffice-api/internal/dto"
	"github.com/sekolahku/backoffice-api/internal/models"
	"github.com/sekolahku/backoffice-api/internal/repository"
	appErrors "github.com/sekolahku/backoffice-api/pkg/errors"
)

type promotionStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type academicYearReader interface {
	FindByID(ctx context.Context, id string) (*models.AcademicYear, error)
}

type promotionClassroomReader interface {
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
	FindFirstByYearAndGrade(ctx context.Context, academicYearID string, grade models.GradeLevel) (*models.Classroom, error)
	FindOpenAssignment(ctx context.Context, studentID string) (*models.ClassroomAssignment, error)
}

type promotionStore interface {
	ApplyPromotion(ctx context.Context, params repository.PromotionParams) (*models.Student, *models.ClassroomAssignment, error)
	ApplyGraduation(ctx context.Context, params repository.GraduationParams) (*models.Student, error)
}

// PromotionService moves a student into the next grade of a target
// academic year, or graduates them when the current grade is terminal.
// The decision is computed from the open classroom assignment; the
// resolved mutation is applied atomically by the promotion store.
type PromotionService struct {
	students   promotionStudentReader
	years      academicYearReader
	classrooms promotionClassroomReader
	store      promotionStore
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// NewPromotionService constructs PromotionService.
func NewPromotionService(students promotionStudentReader, years academicYearReader, classrooms promotionClassroomReader, store promotionStore, metrics *MetricsService, logger *zap.Logger) *PromotionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PromotionService{
		students:   students,
		years:      years,
		classrooms: classrooms,
		store:      store,
		metrics:    metrics,
		validator:  validator.New(),
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *PromotionService) WithClock(now func() time.Time) *PromotionService {
	if now != nil {
		s.now = now
	}
	return s
}

// Promote executes the promotion workflow for one student.
func (s *PromotionService) Promote(ctx context.Context, studentID string, req dto.PromoteStudentRequest) (*dto.PromotionResult, error) {
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid promotion payload")
	}

	var override *models.GradeLevel
	if req.GradeLevelOverride != nil {
		level, err := models.ParseGradeLevel(*req.GradeLevelOverride)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade level override")
		}
		override = &level
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	targetYear, err := s.years.FindByID(ctx, req.TargetAcademicYearID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "target academic year not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic year")
	}

	var targetClassroom *models.Classroom
	if req.TargetClassroomID != nil {
		targetClassroom, err = s.classrooms.FindByID(ctx, *req.TargetClassroomID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "target classroom not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
		}
	}

	openAssignment, err := s.classrooms.FindOpenAssignment(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load current assignment")
	}
	var currentGrade *models.GradeLevel
	if openAssignment != nil {
		grade := openAssignment.GradeLevel
		currentGrade = &grade
	}

	if currentGrade == nil && override == nil && (targetClassroom == nil || targetClassroom.GradeLevel == nil) {
		return nil, appErrors.ErrAmbiguousGrade
	}

	gradeToAssign, graduates := resolveGrade(currentGrade, override, targetClassroom)
	today := truncateToDay(s.now())

	if graduates {
		graduated, err := s.store.ApplyGraduation(ctx, repository.GraduationParams{
			StudentID:      student.ID,
			AcademicYearID: targetYear.ID,
			EffectiveOn:    today,
		})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to graduate student")
		}
		s.metrics.IncPromotion("graduated")
		s.logger.Info("student graduated",
			zap.String("student_id", student.ID),
			zap.String("academic_year_id", targetYear.ID),
		)
		return &dto.PromotionResult{Student: graduated, Graduated: true}, nil
	}

	if targetClassroom != nil {
		if targetClassroom.AcademicYearID != targetYear.ID {
			return nil, appErrors.ErrClassroomYearMismatch
		}
		if targetClassroom.GradeLevel != nil && *targetClassroom.GradeLevel != gradeToAssign {
			return nil, appErrors.ErrClassroomGradeMismatch
		}
	}

	destination := targetClassroom
	if destination == nil {
		destination, err = s.classrooms.FindFirstByYearAndGrade(ctx, targetYear.ID, gradeToAssign)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve classroom")
		}
	}
	if destination == nil {
		return nil, appErrors.ErrNoClassroomAvailable
	}

	promoted, assignment, err := s.store.ApplyPromotion(ctx, repository.PromotionParams{
		StudentID:      student.ID,
		AcademicYearID: targetYear.ID,
		ClassroomID:    destination.ID,
		GradeLevel:     gradeToAssign,
		EffectiveOn:    today,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply promotion")
	}

	s.metrics.IncPromotion("promoted")
	s.logger.Info("student promoted",
		zap.String("student_id", promoted.ID),
		zap.String("grade_level", string(gradeToAssign)),
		zap.String("classroom_id", destination.ID),
	)
	return &dto.PromotionResult{
		Student:    promoted,
		Assignment: assignment,
		GradeLevel: &gradeToAssign,
		Graduated:  false,
	}, nil
}

// resolveGrade applies the precedence override > explicit classroom grade
// > successor of the current grade. The second return value is true when
// the student graduates instead of receiving a grade.
func resolveGrade(current, override *models.GradeLevel, targetClassroom *models.Classroom) (models.GradeLevel, bool) {
	if override != nil {
		return *override, false
	}
	if targetClassroom != nil && targetClassroom.GradeLevel != nil {
		return *targetClassroom.GradeLevel, false
	}
	next, ok := current.Next()
	if !ok {
		return "", true
	}
	return next, false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
