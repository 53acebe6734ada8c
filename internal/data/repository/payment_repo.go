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

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	FindByTxnRef(ctx context.Context, txnRef string) (*entity.Payment, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, bankCode *string, paidAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `id, booking_id, provider, amount, status, txn_ref, bank_code, paid_at, created_at, updated_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var payment entity.Payment
	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.Provider,
		&payment.Amount,
		&payment.Status,
		&payment.TxnRef,
		&payment.BankCode,
		&payment.PaidAt,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, provider, amount, status, txn_ref, bank_code, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.Provider,
		payment.Amount,
		payment.Status,
		payment.TxnRef,
		payment.BankCode,
		payment.PaidAt,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("txn_ref", payment.TxnRef),
		)
		return fmt.Errorf("create payment %s: %w", payment.TxnRef, err)
	}

	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	payment, err := scanPayment(r.db.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by ID",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return nil, fmt.Errorf("find payment by ID %s: %w", id.String(), err)
	}
	return payment, nil
}

func (r *paymentRepository) FindByTxnRef(ctx context.Context, txnRef string) (*entity.Payment, error) {
	payment, err := scanPayment(r.db.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE txn_ref = $1`, txnRef))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by txn ref",
			zap.Error(err),
			zap.String("txn_ref", txnRef),
		)
		return nil, fmt.Errorf("find payment by txn ref %s: %w", txnRef, err)
	}
	return payment, nil
}

func (r *paymentRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	payment, err := scanPayment(r.db.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE booking_id = $1 ORDER BY created_at DESC LIMIT 1`, bookingID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find payment for booking %s: %w", bookingID.String(), err)
	}
	return payment, nil
}

func (r *paymentRepository) MarkCompleted(ctx context.Context, id uuid.UUID, bankCode *string, paidAt time.Time) error {
	result, err := r.db.Exec(ctx,
		`UPDATE payments SET status = 'completed', bank_code = $2, paid_at = $3, updated_at = NOW()
		 WHERE id = $1 AND status = 'pending'`,
		id, bankCode, paidAt)
	if err != nil {
		r.log.Error("Failed to mark payment completed",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return fmt.Errorf("mark payment %s completed: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return ErrStatusChanged
	}
	return nil
}

func (r *paymentRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		`UPDATE payments SET status = 'failed', updated_at = NOW() WHERE id = $1 AND status = 'pending'`,
		id)
	if err != nil {
		r.log.Error("Failed to mark payment failed",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return fmt.Errorf("mark payment %s failed: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return ErrStatusChanged
	}
	return nil
}
