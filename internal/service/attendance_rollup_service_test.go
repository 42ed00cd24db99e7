package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sekolahku/backoffice-api/internal/dto"
	"github.com/sekolahku/backoffice-api/internal/models"
	appErrors "github.com/sekolahku/backoffice-api/pkg/errors"
)

type scheduleReaderStub struct {
	schedules []models.Schedule
}

func (s *scheduleReaderStub) ListByDate(ctx context.Context, date time.Time) ([]models.Schedule, error) {
	var out []models.Schedule
	for _, schedule := range s.schedules {
		if schedule.StartsAt.Format("2006-01-02") == date.Format("2006-01-02") {
			out = append(out, schedule)
		}
	}
	return out, nil
}

type rosterReaderStub struct {
	rosters map[string][]models.Student
}

func (s *rosterReaderStub) ListActiveByClassroom(ctx context.Context, classroomID string) ([]models.Student, error) {
	return s.rosters[classroomID], nil
}

// attendanceStoreStub applies the same per-subject merge semantics as the
// database upserts: student windows are fully overwritten, staff windows
// keep the earliest check-in and latest check-out.
type attendanceStoreStub struct {
	students map[string]models.StudentAttendance
	staff    map[string]models.StaffAttendance
	applied  int
}

func newAttendanceStoreStub() *attendanceStoreStub {
	return &attendanceStoreStub{
		students: make(map[string]models.StudentAttendance),
		staff:    make(map[string]models.StaffAttendance),
	}
}

func (s *attendanceStoreStub) ApplyRollup(ctx context.Context, students []models.StudentAttendance, staff []models.StaffAttendance) error {
	s.applied++
	for _, row := range students {
		key := row.StudentID + "|" + row.RecordedOn.Format("2006-01-02")
		s.students[key] = row
	}
	for _, row := range staff {
		key := row.StaffID + "|" + row.RecordedOn.Format("2006-01-02")
		existing, ok := s.staff[key]
		if !ok {
			s.staff[key] = row
			continue
		}
		if row.CheckedInAt != nil && (existing.CheckedInAt == nil || row.CheckedInAt.Before(*existing.CheckedInAt)) {
			existing.CheckedInAt = row.CheckedInAt
		}
		if row.CheckedOutAt != nil && (existing.CheckedOutAt == nil || row.CheckedOutAt.After(*existing.CheckedOutAt)) {
			existing.CheckedOutAt = row.CheckedOutAt
		}
		existing.Status = row.Status
		existing.Notes = row.Notes
		s.staff[key] = existing
	}
	return nil
}

func (s *attendanceStoreStub) CountByDate(ctx context.Context, date time.Time) (int, int, error) {
	day := date.Format("2006-01-02")
	studentCount, staffCount := 0, 0
	for key := range s.students {
		if key[len(key)-len(day):] == day {
			studentCount++
		}
	}
	for key := range s.staff {
		if key[len(key)-len(day):] == day {
			staffCount++
		}
	}
	return studentCount, staffCount, nil
}

func session(id, classroomID, staffID, description string, start, end time.Time) models.Schedule {
	schedule := models.Schedule{
		ID:             id,
		AcademicYearID: "year-2026",
		StartsAt:       start,
		EndsAt:         end,
		Description:    description,
	}
	if classroomID != "" {
		schedule.ClassroomID = &classroomID
	}
	if staffID != "" {
		schedule.StaffID = &staffID
	}
	return schedule
}

func rollupFixture() (*scheduleReaderStub, *rosterReaderStub, *attendanceStoreStub) {
	day := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	schedules := &scheduleReaderStub{schedules: []models.Schedule{
		session("sched-1", "class-1", "staff-1", "Mathematics", day.Add(8*time.Hour), day.Add(10*time.Hour)),
		session("sched-2", "class-1", "staff-1", "Science", day.Add(10*time.Hour), day.Add(12*time.Hour)),
	}}
	rosters := &rosterReaderStub{rosters: map[string][]models.Student{
		"class-1": {
			{ID: "student-1", Status: models.StudentStatusActive},
			{ID: "student-2", Status: models.StudentStatusActive},
		},
	}}
	return schedules, rosters, newAttendanceStoreStub()
}

func TestRollupMarksRosterPresent(t *testing.T) {
	schedules, rosters, store := rollupFixture()
	svc := NewAttendanceRollupService(schedules, rosters, store, nil, nil)

	result, err := svc.RollupDate(context.Background(), dto.RollupRequest{Date: "2026-08-17"})
	require.NoError(t, err)
	require.Equal(t, "2026-08-17", result.Date)
	require.Equal(t, 2, result.StudentCount)
	require.Equal(t, 1, result.StaffCount)

	row := store.students["student-1|2026-08-17"]
	require.Equal(t, models.AttendanceStatusPresent, row.Status)
	require.Equal(t, "class-1", row.ClassroomID)
	require.NotNil(t, row.RecordedBy)
	require.Equal(t, rollupRecordedBy, *row.RecordedBy)
}

func TestRollupStudentWindowLastSessionWins(t *testing.T) {
	schedules, rosters, store := rollupFixture()
	svc := NewAttendanceRollupService(schedules, rosters, store, nil, nil)

	_, err := svc.RollupDate(context.Background(), dto.RollupRequest{Date: "2026-08-17"})
	require.NoError(t, err)

	day := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	row := store.students["student-1|2026-08-17"]
	require.Equal(t, day.Add(10*time.Hour), *row.CheckedInAt)
	require.Equal(t, day.Add(12*time.Hour), *row.CheckedOutAt)
}

func TestRollupStaffWindowMergesAcrossSessions(t *testing.T) {
	schedules, rosters, store := rollupFixture()
	svc := NewAttendanceRollupService(schedules, rosters, store, nil, nil)

	_, err := svc.RollupDate(context.Background(), dto.RollupRequest{Date: "2026-08-17"})
	require.NoError(t, err)

	day := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	row := store.staff["staff-1|2026-08-17"]
	require.Equal(t, day.Add(8*time.Hour), *row.CheckedInAt)
	require.Equal(t, day.Add(12*time.Hour), *row.CheckedOutAt)
}

func TestRollupCarriesScheduleDescriptionAsNotes(t *testing.T) {
	schedules, rosters, store := rollupFixture()
	svc := NewAttendanceRollupService(schedules, rosters, store, nil, nil)

	_, err := svc.RollupDate(context.Background(), dto.RollupRequest{Date: "2026-08-17"})
	require.NoError(t, err)

	// The student window is overwritten by the last session, notes included.
	studentRow := store.students["student-1|2026-08-17"]
	require.NotNil(t, studentRow.Notes)
	require.Equal(t, "Science", *studentRow.Notes)

	// Staff windows merge, but notes follow the last session processed.
	staffRow := store.staff["staff-1|2026-08-17"]
	require.NotNil(t, staffRow.Notes)
	require.Equal(t, "Science", *staffRow.Notes)
}

func TestRollupBlankDescriptionLeavesNotesNull(t *testing.T) {
	day := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	schedules := &scheduleReaderStub{schedules: []models.Schedule{
		session("sched-1", "class-1", "staff-1", "", day.Add(8*time.Hour), day.Add(10*time.Hour)),
	}}
	_, rosters, store := rollupFixture()
	svc := NewAttendanceRollupService(schedules, rosters, store, nil, nil)

	_, err := svc.RollupDate(context.Background(), dto.RollupRequest{Date: "2026-08-17"})
	require.NoError(t, err)
	require.Nil(t, store.students["student-1|2026-08-17"].Notes)
	require.Nil(t, store.staff["staff-1|2026-08-17"].Notes)
}

func TestRollupIdempotent(t *testing.T) {
	schedules, rosters, store := rollupFixture()
	svc := NewAttendanceRollupService(schedules, rosters, store, nil, nil)

	first, err := svc.RollupDate(context.Background(), dto.RollupRequest{Date: "2026-08-17"})
	require.NoError(t, err)
	second, err := svc.RollupDate(context.Background(), dto.RollupRequest{Date: "2026-08-17"})
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 2, store.applied)
	require.Len(t, store.students, 2)
	require.Len(t, store.staff, 1)
}

func TestRollupEmptyDay(t *testing.T) {
	schedules, rosters, store := rollupFixture()
	svc := NewAttendanceRollupService(schedules, rosters, store, nil, nil)

	result, err := svc.RollupDate(context.Background(), dto.RollupRequest{Date: "2026-12-25"})
	require.NoError(t, err)
	require.Zero(t, result.StudentCount)
	require.Zero(t, result.StaffCount)
	require.Zero(t, store.applied)
}

func TestRollupRejectsBadDate(t *testing.T) {
	schedules, rosters, store := rollupFixture()
	svc := NewAttendanceRollupService(schedules, rosters, store, nil, nil)

	_, err := svc.RollupDate(context.Background(), dto.RollupRequest{Date: "17-08-2026"})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	_, err = svc.RollupDate(context.Background(), dto.RollupRequest{})
	appErr = appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
