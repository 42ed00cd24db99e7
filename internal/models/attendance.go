package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "H"
	AttendanceStatusSick    AttendanceStatus = "S"
	AttendanceStatusExcused AttendanceStatus = "I"
	AttendanceStatusAbsent  AttendanceStatus = "A"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusSick, AttendanceStatusExcused, AttendanceStatusAbsent:
		return true
	default:
		return false
	}
}

// StudentAttendance is the single daily attendance row per student.
// Unique on (student_id, recorded_on); the rollup upsert fully replaces the
// check-in/out window, so the last processed schedule of the day wins.
type StudentAttendance struct {
	ID             string           `db:"id" json:"id"`
	StudentID      string           `db:"student_id" json:"student_id"`
	RecordedOn     time.Time        `db:"recorded_on" json:"recorded_on"`
	AcademicYearID string           `db:"academic_year_id" json:"academic_year_id"`
	ClassroomID    string           `db:"classroom_id" json:"classroom_id"`
	Status         AttendanceStatus `db:"status" json:"status"`
	CheckedInAt    *time.Time       `db:"checked_in_at" json:"checked_in_at,omitempty"`
	CheckedOutAt   *time.Time       `db:"checked_out_at" json:"checked_out_at,omitempty"`
	Notes          *string          `db:"notes" json:"notes,omitempty"`
	RecordedBy     *string          `db:"recorded_by" json:"recorded_by,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// StaffAttendance is the single daily attendance row per staff member.
// Unique on (staff_id, recorded_on). Unlike the student row, repeated
// upserts merge the window: earliest check-in and latest check-out across
// all of the day's schedules are kept.
type StaffAttendance struct {
	ID           string           `db:"id" json:"id"`
	StaffID      string           `db:"staff_id" json:"staff_id"`
	RecordedOn   time.Time        `db:"recorded_on" json:"recorded_on"`
	Status       AttendanceStatus `db:"status" json:"status"`
	CheckedInAt  *time.Time       `db:"checked_in_at" json:"checked_in_at,omitempty"`
	CheckedOutAt *time.Time       `db:"checked_out_at" json:"checked_out_at,omitempty"`
	Notes        *string          `db:"notes" json:"notes,omitempty"`
	RecordedBy   *string          `db:"recorded_by" json:"recorded_by,omitempty"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at" json:"updated_at"`
}
