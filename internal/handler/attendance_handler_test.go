package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sekolahku/backoffice-api/internal/models"
	"github.com/sekolahku/backoffice-api/internal/service"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
}

type fakeScheduleReader struct {
	schedules []models.Schedule
}

func (f *fakeScheduleReader) ListByDate(context.Context, time.Time) ([]models.Schedule, error) {
	return f.schedules, nil
}

type fakeRosterReader struct{}

func (f *fakeRosterReader) ListActiveByClassroom(context.Context, string) ([]models.Student, error) {
	return []models.Student{{ID: "student-1", Status: models.StudentStatusActive}}, nil
}

type fakeAttendanceStore struct {
	studentRows int
	staffRows   int
}

func (f *fakeAttendanceStore) ApplyRollup(_ context.Context, students []models.StudentAttendance, staff []models.StaffAttendance) error {
	f.studentRows += len(students)
	f.staffRows += len(staff)
	return nil
}

func (f *fakeAttendanceStore) CountByDate(context.Context, time.Time) (int, int, error) {
	return f.studentRows, f.staffRows, nil
}

func newRollupHandler(store *fakeAttendanceStore) *AttendanceHandler {
	classroomID := "class-1"
	staffID := "staff-1"
	schedules := &fakeScheduleReader{schedules: []models.Schedule{{
		ID:             "sched-1",
		AcademicYearID: "year-2026",
		ClassroomID:    &classroomID,
		StaffID:        &staffID,
		StartsAt:       time.Date(2026, 8, 17, 8, 0, 0, 0, time.UTC),
		EndsAt:         time.Date(2026, 8, 17, 10, 0, 0, 0, time.UTC),
	}}}
	svc := service.NewAttendanceRollupService(schedules, &fakeRosterReader{}, store, nil, nil)
	return NewAttendanceHandler(svc)
}

func TestAttendanceHandlerRollup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &fakeAttendanceStore{}
	handler := newRollupHandler(store)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance/rollup", strings.NewReader(`{"date":"2026-08-17"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Rollup(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, "2026-08-17", envelope.Data["date"])
	assert.Equal(t, float64(1), envelope.Data["student_count"])
	assert.Equal(t, float64(1), envelope.Data["staff_count"])
}

func TestAttendanceHandlerRollupBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newRollupHandler(&fakeAttendanceStore{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance/rollup", strings.NewReader(`{"date":"17/08/2026"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Rollup(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error["code"])
}

func TestAttendanceHandlerRollupMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newRollupHandler(&fakeAttendanceStore{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance/rollup", strings.NewReader(`{`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Rollup(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
