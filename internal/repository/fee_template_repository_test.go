package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/backoffice-api/internal/models"
)

func newFeeTemplateRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestFeeTemplateRepositoryFindActiveForGrade(t *testing.T) {
	db, mock, cleanup := newFeeTemplateRepoMock(t)
	defer cleanup()
	repo := NewFeeTemplateRepository(db)

	rows := sqlmock.NewRows([]string{"id", "grade_level", "academic_year_id", "title", "amount", "currency", "due_in_days", "is_active", "created_at", "updated_at"}).
		AddRow("tpl-1", models.GradeSd2, "year-1", "SD 2 tuition", "1500000", "IDR", 30, true, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM fee_templates").
		WithArgs(models.GradeSd2, "year-1").
		WillReturnRows(rows)

	template, err := repo.FindActiveForGrade(context.Background(), models.GradeSd2, "year-1")
	require.NoError(t, err)
	require.NotNil(t, template)
	require.Equal(t, "tpl-1", template.ID)
	require.Equal(t, 30, template.DueInDays)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeTemplateRepositoryFindActiveForGradeMissing(t *testing.T) {
	db, mock, cleanup := newFeeTemplateRepoMock(t)
	defer cleanup()
	repo := NewFeeTemplateRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM fee_templates").
		WithArgs(models.GradeSd6, "year-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	template, err := repo.FindActiveForGrade(context.Background(), models.GradeSd6, "year-1")
	require.NoError(t, err)
	require.Nil(t, template)
	require.NoError(t, mock.ExpectationsWereMet())
}
