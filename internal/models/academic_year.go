package models

import "time"

// AcademicYear models one school year in the institution calendar.
type AcademicYear struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	StartsOn  time.Time `db:"starts_on" json:"starts_on"`
	EndsOn    time.Time `db:"ends_on" json:"ends_on"`
	IsCurrent bool      `db:"is_current" json:"is_current"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
