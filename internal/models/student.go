package models

import "time"

// StudentStatus tracks the lifecycle state of a student record.
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "ACTIVE"
	StudentStatusGraduated StudentStatus = "GRADUATED"
	StudentStatusInactive  StudentStatus = "INACTIVE"
)

// Valid returns true when the status is a supported value.
func (s StudentStatus) Valid() bool {
	switch s {
	case StudentStatusActive, StudentStatusGraduated, StudentStatusInactive:
		return true
	default:
		return false
	}
}

// Student represents a learner registered in the institution.
// AcademicYearID and ClassroomID are denormalized pointers to the open
// classroom assignment and are kept in sync by the promotion workflow.
type Student struct {
	ID             string        `db:"id" json:"id"`
	Number         string        `db:"number" json:"number"`
	FullName       string        `db:"full_name" json:"full_name"`
	AcademicYearID string        `db:"academic_year_id" json:"academic_year_id"`
	ClassroomID    *string       `db:"classroom_id" json:"classroom_id,omitempty"`
	Status         StudentStatus `db:"status" json:"status"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search         string
	AcademicYearID string
	ClassroomID    string
	Status         StudentStatus
	Page           int
	PageSize       int
	SortBy         string
	SortOrder      string
}
