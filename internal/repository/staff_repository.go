package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sekolahku/backoffice-api/internal/models"
)

// StaffRepository handles persistence of staff records.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs the repository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

const staffColumns = `id, number, full_name, position, active, created_at, updated_at`

// ListActive returns every active staff member ordered by name.
func (r *StaffRepository) ListActive(ctx context.Context) ([]models.Staff, error) {
	query := fmt.Sprintf(`SELECT %s FROM staff WHERE active = TRUE ORDER BY full_name`, staffColumns)
	var staff []models.Staff
	if err := r.db.SelectContext(ctx, &staff, query); err != nil {
		return nil, fmt.Errorf("list active staff: %w", err)
	}
	return staff, nil
}

// ListByIDs returns the staff members matching the given IDs.
func (r *StaffRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Staff, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM staff WHERE id = ANY($1) ORDER BY full_name`, staffColumns)
	var staff []models.Staff
	if err := r.db.SelectContext(ctx, &staff, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list staff by ids: %w", err)
	}
	return staff, nil
}
