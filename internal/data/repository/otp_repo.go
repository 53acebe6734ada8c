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

type OTPRepository interface {
	Create(ctx context.Context, otp *entity.OTP) error
	FindValid(ctx context.Context, contact, code string, purpose entity.OTPPurpose) (*entity.OTP, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
}

type otpRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOTPRepository(db database.PgxIface, log *zap.Logger) OTPRepository {
	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp")),
	}
}

func (r *otpRepository) Create(ctx context.Context, otp *entity.OTP) error {
	query := `
		INSERT INTO otps (id, contact, code, purpose, expires_at, is_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		otp.ID,
		otp.Contact,
		otp.Code,
		otp.Purpose,
		otp.ExpiresAt,
		otp.IsUsed,
		otp.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create OTP",
			zap.Error(err),
			zap.String("contact", otp.Contact),
		)
		return fmt.Errorf("create OTP for %s: %w", otp.Contact, err)
	}

	return nil
}

func (r *otpRepository) FindValid(ctx context.Context, contact, code string, purpose entity.OTPPurpose) (*entity.OTP, error) {
	query := `
		SELECT id, contact, code, purpose, expires_at, is_used, created_at
		FROM otps
		WHERE contact = $1 AND code = $2 AND purpose = $3 AND is_used = false AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	var otp entity.OTP
	err := r.db.QueryRow(ctx, query, contact, code, purpose).Scan(
		&otp.ID,
		&otp.Contact,
		&otp.Code,
		&otp.Purpose,
		&otp.ExpiresAt,
		&otp.IsUsed,
		&otp.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find valid OTP",
			zap.Error(err),
			zap.String("contact", contact),
		)
		return nil, fmt.Errorf("find valid OTP for %s: %w", contact, err)
	}

	return &otp, nil
}

func (r *otpRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `UPDATE otps SET is_used = true WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to mark OTP used",
			zap.Error(err),
			zap.String("otp_id", id.String()),
		)
		return fmt.Errorf("mark OTP %s used: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("OTP %s not found", id.String())
	}
	return nil
}
