package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/sekolahku/backoffice-api/internal/models"
)

// ErrPayrollFinalized signals that a payroll reached a terminal status and
// its items can no longer be regenerated.
var ErrPayrollFinalized = errors.New("payroll already finalized")

// PayrollRepository handles persistence of payroll headers and items.
type PayrollRepository struct {
	db *sqlx.DB
}

// NewPayrollRepository constructs the repository.
func NewPayrollRepository(db *sqlx.DB) *PayrollRepository {
	return &PayrollRepository{db: db}
}

const payrollColumns = `id, reference, title, status, period_start, period_end, academic_year_id, staff_ids, currency,
total_base_salary, total_allowances, total_deductions, total_net, created_at, updated_at`

// FindByID returns a payroll header by its ID.
func (r *PayrollRepository) FindByID(ctx context.Context, id string) (*models.Payroll, error) {
	query := fmt.Sprintf(`SELECT %s FROM payrolls WHERE id = $1`, payrollColumns)
	var payroll models.Payroll
	if err := r.db.GetContext(ctx, &payroll, query, id); err != nil {
		return nil, err
	}
	return &payroll, nil
}

// PayrollTotals aggregates the freshly generated item set.
type PayrollTotals struct {
	BaseSalary decimal.Decimal
	Allowances decimal.Decimal
	Deductions decimal.Decimal
	Net        decimal.Decimal
}

// ReplaceItems swaps the payroll's items for the freshly computed set and
// stores the recomputed header aggregates, moving the status to
// Processing. Everything runs in one transaction with a row lock on the
// payroll header; a payroll that turns out to be finalized under the lock
// is left untouched and ErrPayrollFinalized is returned.
func (r *PayrollRepository) ReplaceItems(ctx context.Context, payrollID string, items []models.PayrollItem, totals PayrollTotals) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin payroll transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var status models.PayrollStatus
	if err = tx.GetContext(ctx, &status, `SELECT status FROM payrolls WHERE id = $1 FOR UPDATE`, payrollID); err != nil {
		return fmt.Errorf("lock payroll: %w", err)
	}
	if status.Terminal() {
		err = ErrPayrollFinalized
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM payroll_items WHERE payroll_id = $1`, payrollID); err != nil {
		return fmt.Errorf("clear payroll items: %w", err)
	}

	now := time.Now().UTC()
	const insertQuery = `INSERT INTO payroll_items (id, payroll_id, staff_id, base_salary, allowances_total, deductions_total, net_amount, created_at)
VALUES (:id, :payroll_id, :staff_id, :base_salary, :allowances_total, :deductions_total, :net_amount, :created_at)`
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		items[i].PayrollID = payrollID
		items[i].CreatedAt = now
		if _, err = tx.NamedExecContext(ctx, insertQuery, items[i]); err != nil {
			return fmt.Errorf("insert payroll item: %w", err)
		}
	}

	const updateQuery = `UPDATE payrolls SET status = $2, total_base_salary = $3, total_allowances = $4, total_deductions = $5, total_net = $6, updated_at = NOW()
WHERE id = $1`
	if _, err = tx.ExecContext(ctx, updateQuery, payrollID, models.PayrollStatusProcessing,
		totals.BaseSalary, totals.Allowances, totals.Deductions, totals.Net,
	); err != nil {
		return fmt.Errorf("update payroll header: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit payroll generation: %w", err)
	}
	return nil
}

// ListItems returns the payroll's items joined with staff metadata.
func (r *PayrollRepository) ListItems(ctx context.Context, payrollID string) ([]models.PayrollItemDetail, error) {
	const query = `SELECT pi.id, pi.payroll_id, pi.staff_id, pi.base_salary, pi.allowances_total, pi.deductions_total, pi.net_amount, pi.created_at,
s.number AS staff_number, s.full_name AS staff_name
FROM payroll_items pi
JOIN staff s ON s.id = pi.staff_id
WHERE pi.payroll_id = $1
ORDER BY s.full_name`
	var items []models.PayrollItemDetail
	if err := r.db.SelectContext(ctx, &items, query, payrollID); err != nil {
		return nil, fmt.Errorf("list payroll items: %w", err)
	}
	return items, nil
}
