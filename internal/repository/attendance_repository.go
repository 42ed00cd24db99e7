package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sekolahku/backoffice-api/internal/models"
)

// AttendanceRepository handles persistence of daily attendance rows.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Student rows fully replace the check-in/out window on conflict, so the
// last schedule processed for a date wins. Staff rows merge instead:
// earliest check-in, latest check-out. The asymmetry is intentional and
// mirrors how the roll-up has always behaved.
const upsertStudentQuery = `INSERT INTO student_attendances (id, student_id, recorded_on, academic_year_id, classroom_id, status, checked_in_at, checked_out_at, notes, recorded_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
ON CONFLICT (student_id, recorded_on)
DO UPDATE SET academic_year_id = EXCLUDED.academic_year_id,
	classroom_id = EXCLUDED.classroom_id,
	status = EXCLUDED.status,
	checked_in_at = EXCLUDED.checked_in_at,
	checked_out_at = EXCLUDED.checked_out_at,
	notes = EXCLUDED.notes,
	recorded_by = EXCLUDED.recorded_by,
	updated_at = EXCLUDED.updated_at`

const upsertStaffQuery = `INSERT INTO staff_attendances (id, staff_id, recorded_on, status, checked_in_at, checked_out_at, notes, recorded_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
ON CONFLICT (staff_id, recorded_on)
DO UPDATE SET status = EXCLUDED.status,
	checked_in_at = LEAST(staff_attendances.checked_in_at, EXCLUDED.checked_in_at),
	checked_out_at = GREATEST(staff_attendances.checked_out_at, EXCLUDED.checked_out_at),
	notes = EXCLUDED.notes,
	recorded_by = EXCLUDED.recorded_by,
	updated_at = EXCLUDED.updated_at`

// ApplyRollup upserts the computed attendance rows in one transaction.
// Rows are applied in slice order; callers order student rows by schedule
// start time so late sessions overwrite earlier ones.
func (r *AttendanceRepository) ApplyRollup(ctx context.Context, students []models.StudentAttendance, staff []models.StaffAttendance) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rollup transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for i := range students {
		row := &students[i]
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		if _, err = tx.ExecContext(ctx, upsertStudentQuery,
			row.ID, row.StudentID, row.RecordedOn, row.AcademicYearID, row.ClassroomID,
			row.Status, row.CheckedInAt, row.CheckedOutAt, row.Notes, row.RecordedBy, now,
		); err != nil {
			return fmt.Errorf("upsert student attendance: %w", err)
		}
	}

	for i := range staff {
		row := &staff[i]
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		if _, err = tx.ExecContext(ctx, upsertStaffQuery,
			row.ID, row.StaffID, row.RecordedOn, row.Status,
			row.CheckedInAt, row.CheckedOutAt, row.Notes, row.RecordedBy, now,
		); err != nil {
			return fmt.Errorf("upsert staff attendance: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit rollup: %w", err)
	}
	return nil
}

// CountByDate returns how many student and staff attendance rows exist for
// a calendar date.
func (r *AttendanceRepository) CountByDate(ctx context.Context, date time.Time) (studentCount, staffCount int, err error) {
	if err = r.db.GetContext(ctx, &studentCount, `SELECT COUNT(*) FROM student_attendances WHERE recorded_on = $1::date`, date); err != nil {
		return 0, 0, fmt.Errorf("count student attendance: %w", err)
	}
	if err = r.db.GetContext(ctx, &staffCount, `SELECT COUNT(*) FROM staff_attendances WHERE recorded_on = $1::date`, date); err != nil {
		return 0, 0, fmt.Errorf("count staff attendance: %w", err)
	}
	return studentCount, staffCount, nil
}
