package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// FeeType classifies what a fee charges for.
type FeeType string

const (
	FeeTypeTuition      FeeType = "TUITION"
	FeeTypeRegistration FeeType = "REGISTRATION"
	FeeTypeActivity     FeeType = "ACTIVITY"
)

// FeeStatus tracks the billing lifecycle of a fee.
type FeeStatus string

const (
	FeeStatusPending  FeeStatus = "PENDING"
	FeeStatusPaid     FeeStatus = "PAID"
	FeeStatusVoided   FeeStatus = "VOIDED"
	FeeStatusOverdue  FeeStatus = "OVERDUE"
)

// FeeMetadata tags a fee with its generation provenance. Promotion fees are
// deduplicated by (student, academic year, grade level) through this tag, so
// the generator must query it before inserting.
type FeeMetadata struct {
	TemplateID  *string     `json:"template_id,omitempty"`
	GradeLevel  *GradeLevel `json:"grade_level,omitempty"`
	GeneratedBy *string     `json:"generated_by,omitempty"`
	Promotion   bool        `json:"promotion,omitempty"`
}

// Value implements driver.Valuer storing the metadata as jsonb.
func (m FeeMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner reading the metadata from jsonb.
func (m *FeeMetadata) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = FeeMetadata{}
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported fee metadata type %T", src)
	}
}

// Fee is one billable charge against a student.
type Fee struct {
	ID             string          `db:"id" json:"id"`
	StudentID      string          `db:"student_id" json:"student_id"`
	AcademicYearID string          `db:"academic_year_id" json:"academic_year_id"`
	Type           FeeType         `db:"type" json:"type"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	Currency       string          `db:"currency" json:"currency"`
	DueDate        time.Time       `db:"due_date" json:"due_date"`
	Status         FeeStatus       `db:"status" json:"status"`
	Reference      string          `db:"reference" json:"reference"`
	Metadata       FeeMetadata     `db:"metadata" json:"metadata"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// FeeTemplate is a reusable pricing definition for promotion fees. A NULL
// AcademicYearID marks a global template; year-scoped templates take
// precedence over global ones for the same grade level.
type FeeTemplate struct {
	ID             string          `db:"id" json:"id"`
	GradeLevel     GradeLevel      `db:"grade_level" json:"grade_level"`
	AcademicYearID *string         `db:"academic_year_id" json:"academic_year_id,omitempty"`
	Title          string          `db:"title" json:"title"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	Currency       string          `db:"currency" json:"currency"`
	DueInDays      int             `db:"due_in_days" json:"due_in_days"`
	IsActive       bool            `db:"is_active" json:"is_active"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}
