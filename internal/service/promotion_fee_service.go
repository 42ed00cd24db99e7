package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sekolahku/backoffice-api/internal/dto"
	"github.com/sekolahku/backoffice-api/internal/models"
	"github.com/sekolahku/backoffice-api/pkg/config"
	appErrors "github.com/sekolahku/backoffice-api/pkg/errors"
)

type feeTemplateReader interface {
	FindActiveForGrade(ctx context.Context, grade models.GradeLevel, academicYearID string) (*models.FeeTemplate, error)
}

type feeStore interface {
	FindForPromotion(ctx context.Context, studentID, academicYearID string, grade models.GradeLevel) (*models.Fee, error)
	CreateForPromotion(ctx context.Context, fee *models.Fee) (*models.Fee, bool, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Fee, error)
}

// PromotionFeeService generates the tuition fee owed after a grade
// promotion. Generation is idempotent per (student, academic year, grade
// level): repeated calls return the first fee unchanged, even when
// pricing configuration moved in between. Pricing comes from the active
// fee template for the grade, falling back to the statically configured
// per-grade amounts.
type PromotionFeeService struct {
	cfg       config.FinanceConfig
	students  promotionStudentReader
	years     academicYearReader
	templates feeTemplateReader
	fees      feeStore
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewPromotionFeeService constructs PromotionFeeService.
func NewPromotionFeeService(cfg config.FinanceConfig, students promotionStudentReader, years academicYearReader, templates feeTemplateReader, fees feeStore, metrics *MetricsService, logger *zap.Logger) *PromotionFeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PromotionFeeService{
		cfg:       cfg,
		students:  students,
		years:     years,
		templates: templates,
		fees:      fees,
		metrics:   metrics,
		validator: validator.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *PromotionFeeService) WithClock(now func() time.Time) *PromotionFeeService {
	if now != nil {
		s.now = now
	}
	return s
}

// Generate validates the request and produces (or returns) the promotion
// fee for the student. The second return value is true when this call
// created the fee.
func (s *PromotionFeeService) Generate(ctx context.Context, req dto.GeneratePromotionFeesRequest, actorID string) (*models.Fee, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee generation payload")
	}
	grade, err := models.ParseGradeLevel(req.GradeLevel)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade level")
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if _, err := s.years.FindByID(ctx, req.AcademicYearID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "academic year not found")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic year")
	}

	return s.GenerateForPromotion(ctx, req.StudentID, req.AcademicYearID, grade, actorID)
}

// GenerateForPromotion produces the promotion fee for an already validated
// student, year and grade. Existing fees are returned as stored, without
// re-pricing.
func (s *PromotionFeeService) GenerateForPromotion(ctx context.Context, studentID, academicYearID string, grade models.GradeLevel, actorID string) (*models.Fee, bool, error) {
	if !s.cfg.PromotionFeesEnabled {
		return nil, false, nil
	}

	existing, err := s.fees.FindForPromotion(ctx, studentID, academicYearID, grade)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing fee")
	}
	if existing != nil {
		s.metrics.IncFeeGenerated("existing")
		return existing, false, nil
	}

	amount, currency, dueInDays, templateID, err := s.resolvePricing(ctx, grade, academicYearID)
	if err != nil {
		return nil, false, err
	}

	now := s.now().UTC()
	fee := &models.Fee{
		ID:             uuid.NewString(),
		StudentID:      studentID,
		AcademicYearID: academicYearID,
		Type:           models.FeeType(s.cfg.FeeType),
		Amount:         amount,
		Currency:       currency,
		DueDate:        now.AddDate(0, 0, dueInDays),
		Status:         models.FeeStatus(s.cfg.FeeStatus),
		Reference:      promotionFeeReference(grade),
		Metadata: models.FeeMetadata{
			TemplateID:  templateID,
			GradeLevel:  &grade,
			GeneratedBy: optionalString(actorID),
			Promotion:   true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	stored, created, err := s.fees.CreateForPromotion(ctx, fee)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create promotion fee")
	}
	if created {
		s.metrics.IncFeeGenerated("created")
		s.logger.Info("promotion fee created",
			zap.String("student_id", studentID),
			zap.String("grade_level", string(grade)),
			zap.String("amount", stored.Amount.String()),
		)
	} else {
		s.metrics.IncFeeGenerated("existing")
	}
	return stored, created, nil
}

// ListByStudent returns every fee billed to the student.
func (s *PromotionFeeService) ListByStudent(ctx context.Context, studentID string) ([]models.Fee, error) {
	fees, err := s.fees.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fees")
	}
	return fees, nil
}

// resolvePricing prefers the active template for the grade over the
// configured static amount.
func (s *PromotionFeeService) resolvePricing(ctx context.Context, grade models.GradeLevel, academicYearID string) (decimal.Decimal, string, int, *string, error) {
	template, err := s.templates.FindActiveForGrade(ctx, grade, academicYearID)
	if err != nil {
		return decimal.Decimal{}, "", 0, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee template")
	}
	if template != nil {
		return template.Amount, template.Currency, template.DueInDays, &template.ID, nil
	}
	amount, ok := s.cfg.GradeAmounts[string(grade)]
	if !ok {
		return decimal.Decimal{}, "", 0, nil, appErrors.ErrNoPricingConfigured
	}
	return amount, s.cfg.Currency, s.cfg.DueInDays, nil, nil
}

// promotionFeeReference builds a human-scannable billing reference with a
// random token so no two fees ever share one.
func promotionFeeReference(grade models.GradeLevel) string {
	token := strings.ToUpper(strings.SplitN(uuid.NewString(), "-", 2)[0])
	return fmt.Sprintf("PROMO-%s-%s", grade, token)
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
