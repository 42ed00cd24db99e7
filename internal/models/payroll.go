package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// PayrollStatus tracks the processing lifecycle of a payroll run.
type PayrollStatus string

const (
	PayrollStatusDraft      PayrollStatus = "DRAFT"
	PayrollStatusProcessing PayrollStatus = "PROCESSING"
	PayrollStatusFinalized  PayrollStatus = "FINALIZED"
	PayrollStatusCancelled  PayrollStatus = "CANCELLED"
)

// Terminal reports whether the status blocks regeneration.
func (s PayrollStatus) Terminal() bool {
	return s == PayrollStatusFinalized
}

// PayComponent is one labelled allowance or deduction amount.
type PayComponent struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// PayComponents is a jsonb-backed list of pay components.
type PayComponents []PayComponent

// Total sums the component amounts.
func (c PayComponents) Total() decimal.Decimal {
	total := decimal.Zero
	for _, component := range c {
		total = total.Add(component.Amount)
	}
	return total
}

// Value implements driver.Valuer storing components as jsonb.
func (c PayComponents) Value() (driver.Value, error) {
	if c == nil {
		return json.Marshal([]PayComponent{})
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner reading components from jsonb.
func (c *PayComponents) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*c = nil
		return nil
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("unsupported pay components type %T", src)
	}
}

// SalaryStructure is a staff member's versioned compensation definition,
// valid over [EffectiveDate, ExpiresOn). A NULL AcademicYearID applies to
// every year; a NULL ExpiresOn means open-ended.
type SalaryStructure struct {
	ID             string          `db:"id" json:"id"`
	StaffID        string          `db:"staff_id" json:"staff_id"`
	AcademicYearID *string         `db:"academic_year_id" json:"academic_year_id,omitempty"`
	BaseSalary     decimal.Decimal `db:"base_salary" json:"base_salary"`
	Allowances     PayComponents   `db:"allowances" json:"allowances"`
	Deductions     PayComponents   `db:"deductions" json:"deductions"`
	EffectiveDate  time.Time       `db:"effective_date" json:"effective_date"`
	ExpiresOn      *time.Time      `db:"expires_on" json:"expires_on,omitempty"`
	IsActive       bool            `db:"is_active" json:"is_active"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// Payroll is the header of one payroll run. The totals are derived from the
// item set and recomputed on every generation.
type Payroll struct {
	ID              string          `db:"id" json:"id"`
	Reference       string          `db:"reference" json:"reference"`
	Title           string          `db:"title" json:"title"`
	Status          PayrollStatus   `db:"status" json:"status"`
	PeriodStart     time.Time       `db:"period_start" json:"period_start"`
	PeriodEnd       time.Time       `db:"period_end" json:"period_end"`
	AcademicYearID  *string         `db:"academic_year_id" json:"academic_year_id,omitempty"`
	StaffIDs        pq.StringArray  `db:"staff_ids" json:"staff_ids,omitempty"`
	Currency        string          `db:"currency" json:"currency"`
	TotalBaseSalary decimal.Decimal `db:"total_base_salary" json:"total_base_salary"`
	TotalAllowances decimal.Decimal `db:"total_allowances" json:"total_allowances"`
	TotalDeductions decimal.Decimal `db:"total_deductions" json:"total_deductions"`
	TotalNet        decimal.Decimal `db:"total_net" json:"total_net"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// PayrollItem is one staff member's computed pay line within a payroll run.
type PayrollItem struct {
	ID              string          `db:"id" json:"id"`
	PayrollID       string          `db:"payroll_id" json:"payroll_id"`
	StaffID         string          `db:"staff_id" json:"staff_id"`
	BaseSalary      decimal.Decimal `db:"base_salary" json:"base_salary"`
	AllowancesTotal decimal.Decimal `db:"allowances_total" json:"allowances_total"`
	DeductionsTotal decimal.Decimal `db:"deductions_total" json:"deductions_total"`
	NetAmount       decimal.Decimal `db:"net_amount" json:"net_amount"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// PayrollItemDetail joins staff metadata onto an item for listings/exports.
type PayrollItemDetail struct {
	PayrollItem
	StaffNumber string `db:"staff_number" json:"staff_number"`
	StaffName   string `db:"staff_name" json:"staff_name"`
}
