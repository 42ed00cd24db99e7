package dto

import "github.com/shopspring/decimal"

// DashboardSummary aggregates the back-office landing numbers.
type DashboardSummary struct {
	AcademicYearCode  string          `json:"academic_year_code,omitempty"`
	ActiveStudents    int             `json:"active_students"`
	GraduatedStudents int             `json:"graduated_students"`
	PendingFeeCount   int             `json:"pending_fee_count"`
	PendingFeeTotal   decimal.Decimal `json:"pending_fee_total"`
	SchedulesToday    int             `json:"schedules_today"`
	StudentsPresent   int             `json:"students_present_today"`
	StaffPresent      int             `json:"staff_present_today"`
	GeneratedAt       string          `json:"generated_at"`
}
