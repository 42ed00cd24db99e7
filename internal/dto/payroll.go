package dto

import (
	"github.com/shopspring/decimal"

	"github.com/sekolahku/backoffice-api/internal/models"
)

// PayrollTotals reports the recomputed header aggregates.
type PayrollTotals struct {
	BaseSalary decimal.Decimal `json:"total_base_salary"`
	Allowances decimal.Decimal `json:"total_allowances"`
	Deductions decimal.Decimal `json:"total_deductions"`
	Net        decimal.Decimal `json:"total_net"`
}

// PayrollGenerationResult is the outcome of one payroll generation run.
type PayrollGenerationResult struct {
	PayrollID string                     `json:"payroll_id"`
	Status    models.PayrollStatus       `json:"status"`
	Items     []models.PayrollItemDetail `json:"items"`
	Totals    PayrollTotals              `json:"totals"`
}
