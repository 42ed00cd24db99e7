package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/backoffice-api/internal/models"
)

func newFeeRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func feeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "student_id", "academic_year_id", "type", "amount", "currency", "due_date", "status", "reference", "metadata", "created_at", "updated_at"})
}

func TestFeeRepositoryFindForPromotionMissing(t *testing.T) {
	db, mock, cleanup := newFeeRepoMock(t)
	defer cleanup()
	repo := NewFeeRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM fees").
		WithArgs("stu-1", "year-1", models.GradeSd2).
		WillReturnRows(feeRows())

	fee, err := repo.FindForPromotion(context.Background(), "stu-1", "year-1", models.GradeSd2)
	require.NoError(t, err)
	require.Nil(t, fee)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeRepositoryCreateForPromotionReturnsExisting(t *testing.T) {
	db, mock, cleanup := newFeeRepoMock(t)
	defer cleanup()
	repo := NewFeeRepository(db)

	grade := models.GradeSd2
	existing := feeRows().AddRow(
		"fee-1", "stu-1", "year-1", models.FeeTypeTuition, "1500000", "IDR",
		time.Now(), models.FeeStatusPending, "FEE-2025-001", []byte(`{"grade_level":"SD_2","promotion":true}`),
		time.Now(), time.Now(),
	)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM fees").
		WithArgs("stu-1", "year-1", grade).
		WillReturnRows(existing)
	mock.ExpectCommit()

	fee := &models.Fee{
		ID:             "fee-new",
		StudentID:      "stu-1",
		AcademicYearID: "year-1",
		Type:           models.FeeTypeTuition,
		Amount:         decimal.NewFromInt(1500000),
		Currency:       "IDR",
		DueDate:        time.Now(),
		Status:         models.FeeStatusPending,
		Reference:      "FEE-2025-002",
		Metadata:       models.FeeMetadata{GradeLevel: &grade, Promotion: true},
	}
	stored, created, err := repo.CreateForPromotion(context.Background(), fee)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, "fee-1", stored.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeRepositoryCreateForPromotionInserts(t *testing.T) {
	db, mock, cleanup := newFeeRepoMock(t)
	defer cleanup()
	repo := NewFeeRepository(db)

	grade := models.GradeSd2

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM fees").
		WithArgs("stu-1", "year-1", grade).
		WillReturnRows(feeRows())
	mock.ExpectExec("INSERT INTO fees").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	fee := &models.Fee{
		ID:             "fee-new",
		StudentID:      "stu-1",
		AcademicYearID: "year-1",
		Type:           models.FeeTypeTuition,
		Amount:         decimal.NewFromInt(1500000),
		Currency:       "IDR",
		DueDate:        time.Now(),
		Status:         models.FeeStatusPending,
		Reference:      "FEE-2025-002",
		Metadata:       models.FeeMetadata{GradeLevel: &grade, Promotion: true},
	}
	stored, created, err := repo.CreateForPromotion(context.Background(), fee)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, "fee-new", stored.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeRepositoryCreateForPromotionRequiresGradeTag(t *testing.T) {
	db, _, cleanup := newFeeRepoMock(t)
	defer cleanup()
	repo := NewFeeRepository(db)

	_, _, err := repo.CreateForPromotion(context.Background(), &models.Fee{ID: "fee-1"})
	require.Error(t, err)
}
