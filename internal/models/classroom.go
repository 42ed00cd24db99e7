package models

import "time"

// Classroom models one physical class group within an academic year.
// GradeLevel is nullable: mixed-level rooms carry no level and cannot be
// auto-resolved as promotion destinations.
type Classroom struct {
	ID             string      `db:"id" json:"id"`
	AcademicYearID string      `db:"academic_year_id" json:"academic_year_id"`
	GradeLevel     *GradeLevel `db:"grade_level" json:"grade_level,omitempty"`
	Name           string      `db:"name" json:"name"`
	Capacity       int         `db:"capacity" json:"capacity"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}

// ClassroomAssignment is one dated interval of a student's enrollment in a
// classroom. At most one assignment per student has RemovedOn = NULL; that
// row is the student's open assignment.
type ClassroomAssignment struct {
	ID             string     `db:"id" json:"id"`
	StudentID      string     `db:"student_id" json:"student_id"`
	ClassroomID    string     `db:"classroom_id" json:"classroom_id"`
	AcademicYearID string     `db:"academic_year_id" json:"academic_year_id"`
	GradeLevel     GradeLevel `db:"grade_level" json:"grade_level"`
	AssignedOn     time.Time  `db:"assigned_on" json:"assigned_on"`
	RemovedOn      *time.Time `db:"removed_on" json:"removed_on,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// Open reports whether the assignment interval is still running.
func (a ClassroomAssignment) Open() bool {
	return a.RemovedOn == nil
}
