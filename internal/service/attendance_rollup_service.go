package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sekolahku/backoffice-api/internal/dto"
	"github.com/sekolahku/backoffice-api/internal/models"
	appErrors "github.com/sekolahku/backoffice-api/pkg/errors"
)

type scheduleReader interface {
	ListByDate(ctx context.Context, date time.Time) ([]models.Schedule, error)
}

type classroomRosterReader interface {
	ListActiveByClassroom(ctx context.Context, classroomID string) ([]models.Student, error)
}

type attendanceStore interface {
	ApplyRollup(ctx context.Context, students []models.StudentAttendance, staff []models.StaffAttendance) error
	CountByDate(ctx context.Context, date time.Time) (int, int, error)
}

// rollupRecordedBy stamps rollup-written rows so they can be told apart
// from manually recorded attendance.
const rollupRecordedBy = "attendance-rollup"

// AttendanceRollupService materializes daily attendance rows from the
// day's schedules. Every active student of a scheduled classroom and every
// scheduled staff member is marked present for the session window. The run
// is idempotent: re-running a date converges to the same rows.
type AttendanceRollupService struct {
	schedules  scheduleReader
	roster     classroomRosterReader
	attendance attendanceStore
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewAttendanceRollupService constructs AttendanceRollupService.
func NewAttendanceRollupService(schedules scheduleReader, roster classroomRosterReader, attendance attendanceStore, metrics *MetricsService, logger *zap.Logger) *AttendanceRollupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceRollupService{
		schedules:  schedules,
		roster:     roster,
		attendance: attendance,
		metrics:    metrics,
		logger:     logger,
	}
}

// RollupDate parses the request date and runs the rollup for it.
func (s *AttendanceRollupService) RollupDate(ctx context.Context, req dto.RollupRequest) (*dto.RollupResult, error) {
	if req.Date == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date is required")
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be formatted as YYYY-MM-DD")
	}
	return s.Run(ctx, date)
}

// Run executes the rollup for one calendar date.
func (s *AttendanceRollupService) Run(ctx context.Context, date time.Time) (*dto.RollupResult, error) {
	date = truncateToDay(date)
	schedules, err := s.schedules.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedules")
	}

	studentRows, staffRows, err := s.buildRows(ctx, date, schedules)
	if err != nil {
		return nil, err
	}

	if len(studentRows) > 0 || len(staffRows) > 0 {
		if err := s.attendance.ApplyRollup(ctx, studentRows, staffRows); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply attendance rollup")
		}
	}

	studentCount, staffCount, err := s.attendance.CountByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count attendance")
	}

	s.metrics.AddRollupRows("student", len(studentRows))
	s.metrics.AddRollupRows("staff", len(staffRows))
	s.logger.Info("attendance rollup applied",
		zap.String("date", date.Format("2006-01-02")),
		zap.Int("schedules", len(schedules)),
		zap.Int("student_rows", len(studentRows)),
		zap.Int("staff_rows", len(staffRows)),
	)
	return &dto.RollupResult{
		Date:         date.Format("2006-01-02"),
		StudentCount: studentCount,
		StaffCount:   staffCount,
	}, nil
}

// buildRows expands the day's schedules into attendance rows. Schedules
// arrive ordered by start time and rows are applied in order, so for
// students the latest session of the day determines the stored window,
// while staff windows merge across sessions in the store.
func (s *AttendanceRollupService) buildRows(ctx context.Context, date time.Time, schedules []models.Schedule) ([]models.StudentAttendance, []models.StaffAttendance, error) {
	recordedBy := rollupRecordedBy
	var studentRows []models.StudentAttendance
	var staffRows []models.StaffAttendance

	for _, schedule := range schedules {
		startsAt := schedule.StartsAt
		endsAt := schedule.EndsAt
		var notes *string
		if schedule.Description != "" {
			description := schedule.Description
			notes = &description
		}

		if schedule.ClassroomID != nil {
			roster, err := s.roster.ListActiveByClassroom(ctx, *schedule.ClassroomID)
			if err != nil {
				return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom roster")
			}
			for _, student := range roster {
				studentRows = append(studentRows, models.StudentAttendance{
					StudentID:      student.ID,
					RecordedOn:     date,
					AcademicYearID: schedule.AcademicYearID,
					ClassroomID:    *schedule.ClassroomID,
					Status:         models.AttendanceStatusPresent,
					CheckedInAt:    &startsAt,
					CheckedOutAt:   &endsAt,
					Notes:          notes,
					RecordedBy:     &recordedBy,
				})
			}
		}

		if schedule.StaffID != nil {
			staffRows = append(staffRows, models.StaffAttendance{
				StaffID:      *schedule.StaffID,
				RecordedOn:   date,
				Status:       models.AttendanceStatusPresent,
				CheckedInAt:  &startsAt,
				CheckedOutAt: &endsAt,
				Notes:        notes,
				RecordedBy:   &recordedBy,
			})
		}
	}
	return studentRows, staffRows, nil
}
