package repository

import (
	"context"
	"fmt"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type StaffRepository interface {
	Create(ctx context.Context, staff *entity.Staff) error
	Update(ctx context.Context, staff *entity.Staff) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error)
	FindActiveByBranch(ctx context.Context, branchID uuid.UUID) ([]*entity.Staff, error)

	// FindQualified returns the active staff at the branch who can perform the
	// service, ordered by id for deterministic availability output.
	FindQualified(ctx context.Context, branchID, serviceID uuid.UUID) ([]*entity.Staff, error)
	FindServiceIDs(ctx context.Context, staffID uuid.UUID) ([]uuid.UUID, error)
	SetServices(ctx context.Context, staffID uuid.UUID, serviceIDs []uuid.UUID) error
}

type staffRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewStaffRepository(db database.PgxIface, log *zap.Logger) StaffRepository {
	return &staffRepository{
		db:  db,
		log: log.With(zap.String("repository", "staff")),
	}
}

const staffColumns = `id, branch_id, name, title, is_active, created_at, updated_at`

func scanStaff(row pgx.Row) (*entity.Staff, error) {
	var staff entity.Staff
	err := row.Scan(
		&staff.ID,
		&staff.BranchID,
		&staff.Name,
		&staff.Title,
		&staff.IsActive,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) Create(ctx context.Context, staff *entity.Staff) error {
	query := `
		INSERT INTO staff (id, branch_id, name, title, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		staff.ID,
		staff.BranchID,
		staff.Name,
		staff.Title,
		staff.IsActive,
		staff.CreatedAt,
		staff.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create staff",
			zap.Error(err),
			zap.String("name", staff.Name),
		)
		return fmt.Errorf("create staff %s: %w", staff.Name, err)
	}

	return nil
}

func (r *staffRepository) Update(ctx context.Context, staff *entity.Staff) error {
	query := `
		UPDATE staff
		SET branch_id = $2, name = $3, title = $4, is_active = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		staff.ID,
		staff.BranchID,
		staff.Name,
		staff.Title,
		staff.IsActive,
		staff.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update staff",
			zap.Error(err),
			zap.String("staff_id", staff.ID.String()),
		)
		return fmt.Errorf("update staff %s: %w", staff.ID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("staff %s not found", staff.ID.String())
	}

	return nil
}

func (r *staffRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error) {
	staff, err := scanStaff(r.db.QueryRow(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find staff by ID",
			zap.Error(err),
			zap.String("staff_id", id.String()),
		)
		return nil, fmt.Errorf("find staff by ID %s: %w", id.String(), err)
	}
	return staff, nil
}

func (r *staffRepository) FindActiveByBranch(ctx context.Context, branchID uuid.UUID) ([]*entity.Staff, error) {
	query := `
		SELECT ` + staffColumns + `
		FROM staff
		WHERE branch_id = $1 AND is_active = true
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, branchID)
	if err != nil {
		r.log.Error("Failed to find staff by branch",
			zap.Error(err),
			zap.String("branch_id", branchID.String()),
		)
		return nil, fmt.Errorf("find staff for branch %s: %w", branchID.String(), err)
	}
	defer rows.Close()

	var staffList []*entity.Staff
	for rows.Next() {
		staff, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("scan staff row: %w", err)
		}
		staffList = append(staffList, staff)
	}

	return staffList, rows.Err()
}

func (r *staffRepository) FindQualified(ctx context.Context, branchID, serviceID uuid.UUID) ([]*entity.Staff, error) {
	query := `
		SELECT s.id, s.branch_id, s.name, s.title, s.is_active, s.created_at, s.updated_at
		FROM staff s
		JOIN staff_services ss ON ss.staff_id = s.id
		WHERE s.branch_id = $1 AND ss.service_id = $2 AND s.is_active = true
		ORDER BY s.id
	`

	rows, err := r.db.Query(ctx, query, branchID, serviceID)
	if err != nil {
		r.log.Error("Failed to find qualified staff",
			zap.Error(err),
			zap.String("branch_id", branchID.String()),
			zap.String("service_id", serviceID.String()),
		)
		return nil, fmt.Errorf("find qualified staff: %w", err)
	}
	defer rows.Close()

	var staffList []*entity.Staff
	for rows.Next() {
		staff, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("scan staff row: %w", err)
		}
		staffList = append(staffList, staff)
	}

	return staffList, rows.Err()
}

func (r *staffRepository) FindServiceIDs(ctx context.Context, staffID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT service_id FROM staff_services WHERE staff_id = $1 ORDER BY service_id`, staffID)
	if err != nil {
		r.log.Error("Failed to find staff services",
			zap.Error(err),
			zap.String("staff_id", staffID.String()),
		)
		return nil, fmt.Errorf("find services for staff %s: %w", staffID.String(), err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan service id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *staffRepository) SetServices(ctx context.Context, staffID uuid.UUID, serviceIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin set services tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM staff_services WHERE staff_id = $1`, staffID); err != nil {
		return fmt.Errorf("clear services for staff %s: %w", staffID.String(), err)
	}

	for _, serviceID := range serviceIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO staff_services (staff_id, service_id) VALUES ($1, $2)`,
			staffID, serviceID,
		)
		if err != nil {
			return fmt.Errorf("assign service %s to staff %s: %w", serviceID.String(), staffID.String(), err)
		}
	}

	return tx.Commit(ctx)
}
