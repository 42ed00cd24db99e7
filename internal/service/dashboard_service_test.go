package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/backoffice-api/internal/dto"
	"github.com/sekolahku/backoffice-api/internal/models"
	"github.com/sekolahku/backoffice-api/internal/repository"
	appErrors "github.com/sekolahku/backoffice-api/pkg/errors"
)

type dashboardReaderStub struct {
	calls int
}

func (s *dashboardReaderStub) CountStudents(ctx context.Context) (*repository.StudentCounts, error) {
	s.calls++
	return &repository.StudentCounts{Active: 120, Graduated: 35}, nil
}

func (s *dashboardReaderStub) PendingFees(ctx context.Context) (*repository.PendingFeeSummary, error) {
	return &repository.PendingFeeSummary{Count: 8, Total: decimal.NewFromInt(12000000)}, nil
}

func (s *dashboardReaderStub) CountSchedulesOnDate(ctx context.Context, date time.Time) (int, error) {
	return 14, nil
}

type currentYearStub struct {
	year *models.AcademicYear
}

func (s *currentYearStub) FindCurrent(ctx context.Context) (*models.AcademicYear, error) {
	if s.year == nil {
		return nil, sql.ErrNoRows
	}
	return s.year, nil
}

type summaryCacheStub struct {
	values map[string]dto.DashboardSummary
}

func (s *summaryCacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	value, ok := s.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*dest.(*dto.DashboardSummary) = value
	return nil
}

func (s *summaryCacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.values == nil {
		s.values = make(map[string]dto.DashboardSummary)
	}
	s.values[key] = *value.(*dto.DashboardSummary)
	return nil
}

func TestDashboardSummaryAggregates(t *testing.T) {
	reader := &dashboardReaderStub{}
	years := &currentYearStub{year: &models.AcademicYear{ID: "year-2026", Code: "2026/2027", IsCurrent: true}}
	attendance := newAttendanceStoreStub()
	svc := NewDashboardService(reader, years, attendance, nil, time.Minute, nil)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2026/2027", summary.AcademicYearCode)
	require.Equal(t, 120, summary.ActiveStudents)
	require.Equal(t, 35, summary.GraduatedStudents)
	require.Equal(t, 8, summary.PendingFeeCount)
	require.True(t, summary.PendingFeeTotal.Equal(decimal.NewFromInt(12000000)))
	require.Equal(t, 14, summary.SchedulesToday)
}

func TestDashboardSummaryWithoutCurrentYear(t *testing.T) {
	reader := &dashboardReaderStub{}
	svc := NewDashboardService(reader, &currentYearStub{}, newAttendanceStoreStub(), nil, time.Minute, nil)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Empty(t, summary.AcademicYearCode)
	require.Equal(t, 120, summary.ActiveStudents)
}

func TestDashboardSummaryServedFromCache(t *testing.T) {
	reader := &dashboardReaderStub{}
	years := &currentYearStub{year: &models.AcademicYear{ID: "year-2026", Code: "2026/2027", IsCurrent: true}}
	cache := &summaryCacheStub{}
	svc := NewDashboardService(reader, years, newAttendanceStoreStub(), cache, time.Minute, nil)

	first, err := svc.Summary(context.Background())
	require.NoError(t, err)
	second, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, reader.calls)
}
