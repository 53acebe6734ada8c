package repository

import (
	"context"
	"fmt"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BranchRepository interface {
	Create(ctx context.Context, branch *entity.Branch) error
	Update(ctx context.Context, branch *entity.Branch) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error)
	FindAllActive(ctx context.Context) ([]*entity.Branch, error)

	// FindHours returns the branch's opening intervals; weekdays without a row
	// are closed.
	FindHours(ctx context.Context, branchID uuid.UUID) ([]*entity.BranchHour, error)
	ReplaceHours(ctx context.Context, branchID uuid.UUID, hours []*entity.BranchHour) error
}

type branchRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBranchRepository(db database.PgxIface, log *zap.Logger) BranchRepository {
	return &branchRepository{
		db:  db,
		log: log.With(zap.String("repository", "branch")),
	}
}

func (r *branchRepository) Create(ctx context.Context, branch *entity.Branch) error {
	query := `
		INSERT INTO branches (id, name, address, phone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		branch.ID,
		branch.Name,
		branch.Address,
		branch.Phone,
		branch.IsActive,
		branch.CreatedAt,
		branch.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create branch",
			zap.Error(err),
			zap.String("name", branch.Name),
		)
		return fmt.Errorf("create branch %s: %w", branch.Name, err)
	}

	return nil
}

func (r *branchRepository) Update(ctx context.Context, branch *entity.Branch) error {
	query := `
		UPDATE branches
		SET name = $2, address = $3, phone = $4, is_active = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		branch.ID,
		branch.Name,
		branch.Address,
		branch.Phone,
		branch.IsActive,
		branch.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update branch",
			zap.Error(err),
			zap.String("branch_id", branch.ID.String()),
		)
		return fmt.Errorf("update branch %s: %w", branch.ID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("branch %s not found", branch.ID.String())
	}

	return nil
}

func (r *branchRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	query := `
		SELECT id, name, address, phone, is_active, created_at, updated_at
		FROM branches
		WHERE id = $1
	`

	var branch entity.Branch
	err := r.db.QueryRow(ctx, query, id).Scan(
		&branch.ID,
		&branch.Name,
		&branch.Address,
		&branch.Phone,
		&branch.IsActive,
		&branch.CreatedAt,
		&branch.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find branch by ID",
			zap.Error(err),
			zap.String("branch_id", id.String()),
		)
		return nil, fmt.Errorf("find branch by ID %s: %w", id.String(), err)
	}

	return &branch, nil
}

func (r *branchRepository) FindAllActive(ctx context.Context) ([]*entity.Branch, error) {
	query := `
		SELECT id, name, address, phone, is_active, created_at, updated_at
		FROM branches
		WHERE is_active = true
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find active branches", zap.Error(err))
		return nil, fmt.Errorf("find active branches: %w", err)
	}
	defer rows.Close()

	var branches []*entity.Branch
	for rows.Next() {
		var branch entity.Branch
		err := rows.Scan(
			&branch.ID,
			&branch.Name,
			&branch.Address,
			&branch.Phone,
			&branch.IsActive,
			&branch.CreatedAt,
			&branch.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan branch row: %w", err)
		}
		branches = append(branches, &branch)
	}

	return branches, rows.Err()
}

func (r *branchRepository) FindHours(ctx context.Context, branchID uuid.UUID) ([]*entity.BranchHour, error) {
	query := `
		SELECT id, branch_id, weekday, open_time, close_time
		FROM branch_hours
		WHERE branch_id = $1
		ORDER BY weekday
	`

	rows, err := r.db.Query(ctx, query, branchID)
	if err != nil {
		r.log.Error("Failed to find branch hours",
			zap.Error(err),
			zap.String("branch_id", branchID.String()),
		)
		return nil, fmt.Errorf("find hours for branch %s: %w", branchID.String(), err)
	}
	defer rows.Close()

	var hours []*entity.BranchHour
	for rows.Next() {
		var h entity.BranchHour
		var weekday int
		if err := rows.Scan(&h.ID, &h.BranchID, &weekday, &h.OpenTime, &h.CloseTime); err != nil {
			return nil, fmt.Errorf("scan branch hour row: %w", err)
		}
		h.Weekday = time.Weekday(weekday)
		hours = append(hours, &h)
	}

	return hours, rows.Err()
}

func (r *branchRepository) ReplaceHours(ctx context.Context, branchID uuid.UUID, hours []*entity.BranchHour) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace hours tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM branch_hours WHERE branch_id = $1`, branchID); err != nil {
		return fmt.Errorf("clear hours for branch %s: %w", branchID.String(), err)
	}

	for _, h := range hours {
		_, err := tx.Exec(ctx,
			`INSERT INTO branch_hours (id, branch_id, weekday, open_time, close_time)
			 VALUES ($1, $2, $3, $4, $5)`,
			h.ID, branchID, int(h.Weekday), h.OpenTime, h.CloseTime,
		)
		if err != nil {
			r.log.Error("Failed to insert branch hour",
				zap.Error(err),
				zap.String("branch_id", branchID.String()),
				zap.Int("weekday", int(h.Weekday)),
			)
			return fmt.Errorf("insert hour for branch %s: %w", branchID.String(), err)
		}
	}

	return tx.Commit(ctx)
}
