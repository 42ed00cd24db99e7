package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/backoffice-api/internal/models"
)

func newPromotionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPromotionRepositoryApplyPromotion(t *testing.T) {
	db, mock, cleanup := newPromotionRepoMock(t)
	defer cleanup()
	repo := NewPromotionRepository(db)

	today := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE id = $1 FOR UPDATE")).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("stu-1"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE classroom_assignments SET removed_on = $2 WHERE student_id = $1 AND removed_on IS NULL")).
		WithArgs("stu-1", today).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO classroom_assignments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("UPDATE students SET academic_year_id").
		WithArgs("stu-1", "year-2", "class-2", models.StudentStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "full_name", "academic_year_id", "classroom_id", "status", "created_at", "updated_at"}).
			AddRow("stu-1", "S001", "Siti", "year-2", "class-2", models.StudentStatusActive, time.Now(), time.Now()))
	mock.ExpectCommit()

	student, assignment, err := repo.ApplyPromotion(context.Background(), PromotionParams{
		StudentID:      "stu-1",
		AcademicYearID: "year-2",
		ClassroomID:    "class-2",
		GradeLevel:     models.GradeSd2,
		EffectiveOn:    today,
	})
	require.NoError(t, err)
	require.Equal(t, models.StudentStatusActive, student.Status)
	require.Equal(t, "class-2", assignment.ClassroomID)
	require.Equal(t, models.GradeSd2, assignment.GradeLevel)
	require.True(t, assignment.Open())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPromotionRepositoryApplyGraduation(t *testing.T) {
	db, mock, cleanup := newPromotionRepoMock(t)
	defer cleanup()
	repo := NewPromotionRepository(db)

	today := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE id = $1 FOR UPDATE")).
		WithArgs("stu-9").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("stu-9"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE classroom_assignments SET removed_on = $2 WHERE student_id = $1 AND removed_on IS NULL")).
		WithArgs("stu-9", today).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("UPDATE students SET academic_year_id").
		WithArgs("stu-9", "year-2", models.StudentStatusGraduated).
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "full_name", "academic_year_id", "classroom_id", "status", "created_at", "updated_at"}).
			AddRow("stu-9", "S009", "Budi", "year-2", nil, models.StudentStatusGraduated, time.Now(), time.Now()))
	mock.ExpectCommit()

	student, err := repo.ApplyGraduation(context.Background(), GraduationParams{
		StudentID:      "stu-9",
		AcademicYearID: "year-2",
		EffectiveOn:    today,
	})
	require.NoError(t, err)
	require.Equal(t, models.StudentStatusGraduated, student.Status)
	require.Nil(t, student.ClassroomID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPromotionRepositoryRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newPromotionRepoMock(t)
	defer cleanup()
	repo := NewPromotionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE id = $1 FOR UPDATE")).
		WithArgs("stu-1").
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	_, _, err := repo.ApplyPromotion(context.Background(), PromotionParams{
		StudentID:      "stu-1",
		AcademicYearID: "year-2",
		ClassroomID:    "class-2",
		GradeLevel:     models.GradeSd2,
		EffectiveOn:    time.Now(),
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
