package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/backoffice-api/internal/dto"
	"github.com/sekolahku/backoffice-api/internal/models"
	"github.com/sekolahku/backoffice-api/pkg/config"
	appErrors "github.com/sekolahku/backoffice-api/pkg/errors"
)

type templateReaderStub struct {
	templates []models.FeeTemplate
}

func (s *templateReaderStub) FindActiveForGrade(ctx context.Context, grade models.GradeLevel, academicYearID string) (*models.FeeTemplate, error) {
	var global *models.FeeTemplate
	for i := range s.templates {
		template := s.templates[i]
		if template.GradeLevel != grade || !template.IsActive {
			continue
		}
		if template.AcademicYearID != nil && *template.AcademicYearID == academicYearID {
			return &template, nil
		}
		if template.AcademicYearID == nil && global == nil {
			global = &template
		}
	}
	return global, nil
}

type feeStoreStub struct {
	fees []models.Fee
}

func (s *feeStoreStub) find(studentID, academicYearID string, grade models.GradeLevel) *models.Fee {
	for i := range s.fees {
		fee := s.fees[i]
		if fee.StudentID == studentID && fee.AcademicYearID == academicYearID &&
			fee.Metadata.Promotion && fee.Metadata.GradeLevel != nil && *fee.Metadata.GradeLevel == grade {
			return &fee
		}
	}
	return nil
}

func (s *feeStoreStub) FindForPromotion(ctx context.Context, studentID, academicYearID string, grade models.GradeLevel) (*models.Fee, error) {
	return s.find(studentID, academicYearID, grade), nil
}

func (s *feeStoreStub) CreateForPromotion(ctx context.Context, fee *models.Fee) (*models.Fee, bool, error) {
	if existing := s.find(fee.StudentID, fee.AcademicYearID, *fee.Metadata.GradeLevel); existing != nil {
		return existing, false, nil
	}
	s.fees = append(s.fees, *fee)
	return fee, true, nil
}

func (s *feeStoreStub) ListByStudent(ctx context.Context, studentID string) ([]models.Fee, error) {
	var out []models.Fee
	for _, fee := range s.fees {
		if fee.StudentID == studentID {
			out = append(out, fee)
		}
	}
	return out, nil
}

func financeConfig() config.FinanceConfig {
	return config.FinanceConfig{
		PromotionFeesEnabled: true,
		FeeType:              "TUITION",
		FeeStatus:            "PENDING",
		Currency:             "IDR",
		DueInDays:            30,
		GradeAmounts: map[string]decimal.Decimal{
			"SD_2": decimal.NewFromInt(1500000),
		},
	}
}

func feeFixture(cfg config.FinanceConfig, templates *templateReaderStub, fees *feeStoreStub) *PromotionFeeService {
	students := newStudentReaderStub(&models.Student{ID: "student-1", Status: models.StudentStatusActive})
	years := newYearReaderStub(&models.AcademicYear{ID: "year-2026"})
	svc := NewPromotionFeeService(cfg, students, years, templates, fees, nil, nil)
	return svc.WithClock(func() time.Time {
		return time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	})
}

func TestPromotionFeeServiceTemplateWinsOverConfig(t *testing.T) {
	yearID := "year-2026"
	templates := &templateReaderStub{templates: []models.FeeTemplate{{
		ID:             "tpl-1",
		GradeLevel:     models.GradeSd2,
		AcademicYearID: &yearID,
		Amount:         decimal.NewFromInt(2000000),
		Currency:       "IDR",
		DueInDays:      14,
		IsActive:       true,
	}}}
	fees := &feeStoreStub{}
	svc := feeFixture(financeConfig(), templates, fees)

	fee, created, err := svc.Generate(context.Background(), dto.GeneratePromotionFeesRequest{
		StudentID:      "student-1",
		GradeLevel:     "SD_2",
		AcademicYearID: "year-2026",
	}, "admin-1")
	require.NoError(t, err)
	require.True(t, created)
	require.True(t, fee.Amount.Equal(decimal.NewFromInt(2000000)))
	require.Equal(t, time.Date(2026, 7, 15, 8, 0, 0, 0, time.UTC), fee.DueDate)
	require.NotNil(t, fee.Metadata.TemplateID)
	require.Equal(t, "tpl-1", *fee.Metadata.TemplateID)
	require.True(t, fee.Metadata.Promotion)
	require.NotNil(t, fee.Metadata.GeneratedBy)
	require.Equal(t, "admin-1", *fee.Metadata.GeneratedBy)
}

func TestPromotionFeeServiceConfigFallback(t *testing.T) {
	fees := &feeStoreStub{}
	svc := feeFixture(financeConfig(), &templateReaderStub{}, fees)

	fee, created, err := svc.Generate(context.Background(), dto.GeneratePromotionFeesRequest{
		StudentID:      "student-1",
		GradeLevel:     "SD_2",
		AcademicYearID: "year-2026",
	}, "")
	require.NoError(t, err)
	require.True(t, created)
	require.True(t, fee.Amount.Equal(decimal.NewFromInt(1500000)))
	require.Equal(t, "IDR", fee.Currency)
	require.Nil(t, fee.Metadata.TemplateID)
	require.Nil(t, fee.Metadata.GeneratedBy)
}

func TestPromotionFeeServiceIdempotent(t *testing.T) {
	fees := &feeStoreStub{}
	svc := feeFixture(financeConfig(), &templateReaderStub{}, fees)

	req := dto.GeneratePromotionFeesRequest{
		StudentID:      "student-1",
		GradeLevel:     "SD_2",
		AcademicYearID: "year-2026",
	}
	first, created, err := svc.Generate(context.Background(), req, "admin-1")
	require.NoError(t, err)
	require.True(t, created)

	// Pricing moved in between; the stored fee is returned as-is.
	cfg := financeConfig()
	cfg.GradeAmounts["SD_2"] = decimal.NewFromInt(9999999)
	svc = feeFixture(cfg, &templateReaderStub{}, fees)

	second, created, err := svc.Generate(context.Background(), req, "admin-2")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, second.ID)
	require.True(t, second.Amount.Equal(first.Amount))
	require.Len(t, fees.fees, 1)
}

func TestPromotionFeeServiceReferencesAreUnique(t *testing.T) {
	students := newStudentReaderStub(
		&models.Student{ID: "student-1", Status: models.StudentStatusActive},
		&models.Student{ID: "student-2", Status: models.StudentStatusActive},
	)
	years := newYearReaderStub(&models.AcademicYear{ID: "year-2026"})
	fees := &feeStoreStub{}
	svc := NewPromotionFeeService(financeConfig(), students, years, &templateReaderStub{}, fees, nil, nil)

	first, _, err := svc.Generate(context.Background(), dto.GeneratePromotionFeesRequest{
		StudentID:      "student-1",
		GradeLevel:     "SD_2",
		AcademicYearID: "year-2026",
	}, "")
	require.NoError(t, err)
	second, _, err := svc.Generate(context.Background(), dto.GeneratePromotionFeesRequest{
		StudentID:      "student-2",
		GradeLevel:     "SD_2",
		AcademicYearID: "year-2026",
	}, "")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(first.Reference, "PROMO-SD_2-"))
	require.True(t, strings.HasPrefix(second.Reference, "PROMO-SD_2-"))
	require.NotEqual(t, first.Reference, second.Reference)
}

func TestPromotionFeeServiceNoPricing(t *testing.T) {
	cfg := financeConfig()
	cfg.GradeAmounts = nil
	svc := feeFixture(cfg, &templateReaderStub{}, &feeStoreStub{})

	_, _, err := svc.Generate(context.Background(), dto.GeneratePromotionFeesRequest{
		StudentID:      "student-1",
		GradeLevel:     "SD_2",
		AcademicYearID: "year-2026",
	}, "")
	require.ErrorIs(t, err, appErrors.ErrNoPricingConfigured)
}

func TestPromotionFeeServiceDisabled(t *testing.T) {
	cfg := financeConfig()
	cfg.PromotionFeesEnabled = false
	fees := &feeStoreStub{}
	svc := feeFixture(cfg, &templateReaderStub{}, fees)

	fee, created, err := svc.Generate(context.Background(), dto.GeneratePromotionFeesRequest{
		StudentID:      "student-1",
		GradeLevel:     "SD_2",
		AcademicYearID: "year-2026",
	}, "")
	require.NoError(t, err)
	require.False(t, created)
	require.Nil(t, fee)
	require.Empty(t, fees.fees)
}

func TestPromotionFeeServiceRejectsUnknownGrade(t *testing.T) {
	svc := feeFixture(financeConfig(), &templateReaderStub{}, &feeStoreStub{})

	_, _, err := svc.Generate(context.Background(), dto.GeneratePromotionFeesRequest{
		StudentID:      "student-1",
		GradeLevel:     "SD_9",
		AcademicYearID: "year-2026",
	}, "")
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
