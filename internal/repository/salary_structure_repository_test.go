package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newSalaryStructureRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func salaryStructureRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "staff_id", "academic_year_id", "base_salary", "allowances", "deductions", "effective_date", "expires_on", "is_active", "created_at", "updated_at"})
}

func TestSalaryStructureRepositoryListApplicable(t *testing.T) {
	db, mock, cleanup := newSalaryStructureRepoMock(t)
	defer cleanup()
	repo := NewSalaryStructureRepository(db)

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)

	rows := salaryStructureRows().AddRow(
		"sal-1", "staff-1", nil, "5000000",
		[]byte(`[{"label":"transport","amount":"200000"}]`),
		[]byte(`[{"label":"bpjs","amount":"100000"}]`),
		start.AddDate(-1, 0, 0), nil, true, time.Now(), time.Now(),
	)
	mock.ExpectQuery("SELECT (.+) FROM salary_structures").
		WithArgs(end, start).
		WillReturnRows(rows)

	structures, err := repo.ListApplicable(context.Background(), start, end, nil, nil)
	require.NoError(t, err)
	require.Len(t, structures, 1)
	require.Equal(t, "staff-1", structures[0].StaffID)
	require.Len(t, structures[0].Allowances, 1)
	require.Equal(t, "transport", structures[0].Allowances[0].Label)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSalaryStructureRepositoryListApplicableFilters(t *testing.T) {
	db, mock, cleanup := newSalaryStructureRepoMock(t)
	defer cleanup()
	repo := NewSalaryStructureRepository(db)

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)
	yearID := "year-1"

	mock.ExpectQuery("SELECT (.+) FROM salary_structures").
		WillReturnRows(salaryStructureRows())

	structures, err := repo.ListApplicable(context.Background(), start, end, &yearID, []string{"staff-1", "staff-2"})
	require.NoError(t, err)
	require.Empty(t, structures)
	require.NoError(t, mock.ExpectationsWereMet())
}
