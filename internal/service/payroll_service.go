package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sekolahku/backoffice-api/internal/dto"
	"github.com/sekolahku/backoffice-api/internal/models"
	"github.com/sekolahku/backoffice-api/internal/repository"
	"github.com/sekolahku/backoffice-api/pkg/config"
	appErrors "github.com/sekolahku/backoffice-api/pkg/errors"
	"github.com/sekolahku/backoffice-api/pkg/export"
)

type payrollStore interface {
	FindByID(ctx context.Context, id string) (*models.Payroll, error)
	ReplaceItems(ctx context.Context, payrollID string, items []models.PayrollItem, totals repository.PayrollTotals) error
	ListItems(ctx context.Context, payrollID string) ([]models.PayrollItemDetail, error)
}

type staffReader interface {
	ListActive(ctx context.Context) ([]models.Staff, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Staff, error)
}

type salaryStructureReader interface {
	ListApplicable(ctx context.Context, periodStart, periodEnd time.Time, academicYearID *string, staffIDs []string) ([]models.SalaryStructure, error)
}

type exportArchiver interface {
	Save(filename string, data []byte) (string, error)
}

// PayrollService computes payroll items from salary structures. Each
// generation recomputes the full item set from scratch: one item per
// in-scope active staff member with an applicable structure, net amount
// base + allowances - deductions, header totals derived from the items.
// Finalized payrolls cannot be regenerated.
type PayrollService struct {
	cfg        config.PayrollConfig
	payrolls   payrollStore
	staff      staffReader
	structures salaryStructureReader
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	archive    exportArchiver
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewPayrollService constructs PayrollService. The archive is optional;
// when nil, exports are returned without being stored.
func NewPayrollService(cfg config.PayrollConfig, payrolls payrollStore, staff staffReader, structures salaryStructureReader, archive exportArchiver, metrics *MetricsService, logger *zap.Logger) *PayrollService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PayrollService{
		cfg:        cfg,
		payrolls:   payrolls,
		staff:      staff,
		structures: structures,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		archive:    archive,
		metrics:    metrics,
		logger:     logger,
	}
}

// Generate recomputes the payroll's item set and totals.
func (s *PayrollService) Generate(ctx context.Context, payrollID string) (*dto.PayrollGenerationResult, error) {
	payroll, err := s.loadPayroll(ctx, payrollID)
	if err != nil {
		return nil, err
	}
	if payroll.Status.Terminal() {
		s.metrics.IncPayrollRun("locked")
		return nil, appErrors.ErrPayrollLocked
	}

	staff, err := s.resolveStaff(ctx, payroll)
	if err != nil {
		return nil, err
	}

	structures, err := s.structures.ListApplicable(ctx, payroll.PeriodStart, payroll.PeriodEnd, payroll.AcademicYearID, payroll.StaffIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load salary structures")
	}
	// The reader orders by effective_date descending, so the first
	// structure seen per staff member is the one that applies.
	applicable := make(map[string]models.SalaryStructure, len(structures))
	for _, structure := range structures {
		if _, seen := applicable[structure.StaffID]; !seen {
			applicable[structure.StaffID] = structure
		}
	}

	items := make([]models.PayrollItem, 0, len(staff))
	var totals repository.PayrollTotals
	for _, member := range staff {
		structure, ok := applicable[member.ID]
		if !ok {
			s.logger.Warn("staff member skipped: no applicable salary structure",
				zap.String("payroll_id", payroll.ID),
				zap.String("staff_id", member.ID),
			)
			continue
		}
		item := buildPayrollItem(payroll.ID, member.ID, structure)
		items = append(items, item)
		totals.BaseSalary = totals.BaseSalary.Add(item.BaseSalary)
		totals.Allowances = totals.Allowances.Add(item.AllowancesTotal)
		totals.Deductions = totals.Deductions.Add(item.DeductionsTotal)
		totals.Net = totals.Net.Add(item.NetAmount)
	}

	if err := s.payrolls.ReplaceItems(ctx, payroll.ID, items, totals); err != nil {
		if errors.Is(err, repository.ErrPayrollFinalized) {
			s.metrics.IncPayrollRun("locked")
			return nil, appErrors.ErrPayrollLocked
		}
		s.metrics.IncPayrollRun("failed")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store payroll items")
	}

	details, err := s.payrolls.ListItems(ctx, payroll.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payroll items")
	}

	s.metrics.IncPayrollRun("generated")
	s.logger.Info("payroll generated",
		zap.String("payroll_id", payroll.ID),
		zap.Int("item_count", len(items)),
		zap.String("total_net", totals.Net.String()),
	)
	return &dto.PayrollGenerationResult{
		PayrollID: payroll.ID,
		Status:    models.PayrollStatusProcessing,
		Items:     details,
		Totals: dto.PayrollTotals{
			BaseSalary: totals.BaseSalary,
			Allowances: totals.Allowances,
			Deductions: totals.Deductions,
			Net:        totals.Net,
		},
	}, nil
}

// ListItems returns the payroll's current items.
func (s *PayrollService) ListItems(ctx context.Context, payrollID string) ([]models.PayrollItemDetail, error) {
	if _, err := s.loadPayroll(ctx, payrollID); err != nil {
		return nil, err
	}
	details, err := s.payrolls.ListItems(ctx, payrollID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payroll items")
	}
	return details, nil
}

// ExportFormat names a supported export rendering.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered payroll export.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Export renders the payroll's item sheet in the requested format and
// archives a copy when an archive is configured.
func (s *PayrollService) Export(ctx context.Context, payrollID string, format ExportFormat) (*ExportFile, error) {
	payroll, err := s.loadPayroll(ctx, payrollID)
	if err != nil {
		return nil, err
	}
	details, err := s.payrolls.ListItems(ctx, payrollID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payroll items")
	}

	dataset := payrollDataset(details, s.currency(payroll))
	var (
		data        []byte
		contentType string
	)
	switch format {
	case ExportFormatCSV:
		data, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case ExportFormatPDF:
		data, err = s.pdf.Render(dataset, payroll.Title)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("payrolls/%s.%s", strings.ToLower(payroll.Reference), format)
	if s.archive != nil {
		if _, err := s.archive.Save(filename, data); err != nil {
			s.logger.Warn("failed to archive payroll export", zap.String("payroll_id", payroll.ID), zap.Error(err))
		}
	}
	return &ExportFile{
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func (s *PayrollService) loadPayroll(ctx context.Context, payrollID string) (*models.Payroll, error) {
	if payrollID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "payroll id is required")
	}
	payroll, err := s.payrolls.FindByID(ctx, payrollID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payroll not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payroll")
	}
	return payroll, nil
}

// resolveStaff returns the payroll's staff scope. A header with explicit
// staff IDs restricts the run to those members; inactive staff are
// excluded either way.
func (s *PayrollService) resolveStaff(ctx context.Context, payroll *models.Payroll) ([]models.Staff, error) {
	if len(payroll.StaffIDs) > 0 {
		members, err := s.staff.ListByIDs(ctx, payroll.StaffIDs)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff")
		}
		active := members[:0]
		for _, member := range members {
			if member.Active {
				active = append(active, member)
			}
		}
		return active, nil
	}
	members, err := s.staff.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff")
	}
	return members, nil
}

func buildPayrollItem(payrollID, staffID string, structure models.SalaryStructure) models.PayrollItem {
	allowances := structure.Allowances.Total()
	deductions := structure.Deductions.Total()
	return models.PayrollItem{
		PayrollID:       payrollID,
		StaffID:         staffID,
		BaseSalary:      structure.BaseSalary,
		AllowancesTotal: allowances,
		DeductionsTotal: deductions,
		NetAmount:       structure.BaseSalary.Add(allowances).Sub(deductions),
	}
}

// currency resolves the export currency, falling back to the configured
// default for payroll headers created without one.
func (s *PayrollService) currency(payroll *models.Payroll) string {
	if payroll.Currency != "" {
		return payroll.Currency
	}
	return s.cfg.DefaultCurrency
}

func payrollDataset(details []models.PayrollItemDetail, currency string) export.Dataset {
	headers := []string{"Staff Number", "Name", "Base Salary", "Allowances", "Deductions", "Net"}
	rows := make([]map[string]string, 0, len(details))
	for _, detail := range details {
		rows = append(rows, map[string]string{
			"Staff Number": detail.StaffNumber,
			"Name":         detail.StaffName,
			"Base Salary":  formatMoney(detail.BaseSalary, currency),
			"Allowances":   formatMoney(detail.AllowancesTotal, currency),
			"Deductions":   formatMoney(detail.DeductionsTotal, currency),
			"Net":          formatMoney(detail.NetAmount, currency),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func formatMoney(amount decimal.Decimal, currency string) string {
	return fmt.Sprintf("%s %s", currency, amount.StringFixed(2))
}
