package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sekolahku/backoffice-api/internal/dto"
	"github.com/sekolahku/backoffice-api/internal/models"
	"github.com/sekolahku/backoffice-api/internal/repository"
	appErrors "github.com/sekolahku/backoffice-api/pkg/errors"
)

type dashboardReader interface {
	CountStudents(ctx context.Context) (*repository.StudentCounts, error)
	PendingFees(ctx context.Context) (*repository.PendingFeeSummary, error)
	CountSchedulesOnDate(ctx context.Context, date time.Time) (int, error)
}

type currentYearReader interface {
	FindCurrent(ctx context.Context) (*models.AcademicYear, error)
}

type summaryCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type attendanceCounter interface {
	CountByDate(ctx context.Context, date time.Time) (int, int, error)
}

const dashboardCacheKey = "dashboard:summary"

// DashboardService assembles the back-office landing summary, cached for
// a short TTL since every number is an aggregate over the full dataset.
type DashboardService struct {
	reader     dashboardReader
	years      currentYearReader
	attendance attendanceCounter
	cache      summaryCache
	ttl        time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewDashboardService constructs DashboardService. Cache may be nil.
func NewDashboardService(reader dashboardReader, years currentYearReader, attendance attendanceCounter, cache summaryCache, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		reader:     reader,
		years:      years,
		attendance: attendance,
		cache:      cache,
		ttl:        ttl,
		logger:     logger,
		now:        time.Now,
	}
}

// Summary returns the dashboard numbers, served from cache when fresh.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, error) {
	if s.cache != nil {
		var cached dto.DashboardSummary
		if err := s.cache.Get(ctx, dashboardCacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	now := s.now().UTC()
	today := truncateToDay(now)

	students, err := s.reader.CountStudents(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	fees, err := s.reader.PendingFees(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to summarise fees")
	}
	schedules, err := s.reader.CountSchedulesOnDate(ctx, today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count schedules")
	}
	studentsPresent, staffPresent, err := s.attendance.CountByDate(ctx, today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count attendance")
	}

	yearCode := ""
	if year, err := s.years.FindCurrent(ctx); err == nil {
		yearCode = year.Code
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve current academic year")
	}

	summary := &dto.DashboardSummary{
		AcademicYearCode:  yearCode,
		ActiveStudents:    students.Active,
		GraduatedStudents: students.Graduated,
		PendingFeeCount:   fees.Count,
		PendingFeeTotal:   fees.Total,
		SchedulesToday:    schedules,
		StudentsPresent:   studentsPresent,
		StaffPresent:      staffPresent,
		GeneratedAt:       now.Format(time.RFC3339),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, summary, s.ttl); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return summary, nil
}
