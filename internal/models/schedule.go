package models

import "time"

// Schedule is one dated session: a class meeting when ClassroomID is set,
// a staff duty slot when StaffID is set, or both for a taught lesson.
type Schedule struct {
	ID             string    `db:"id" json:"id"`
	AcademicYearID string    `db:"academic_year_id" json:"academic_year_id"`
	ClassroomID    *string   `db:"classroom_id" json:"classroom_id,omitempty"`
	StaffID        *string   `db:"staff_id" json:"staff_id,omitempty"`
	StartsAt       time.Time `db:"starts_at" json:"starts_at"`
	EndsAt         time.Time `db:"ends_at" json:"ends_at"`
	Description    string    `db:"description" json:"description"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
