package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"
	"clinic-booking/pkg/utils"
	"clinic-booking/pkg/vnpay"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService interface {
	// InitiatePayment creates a pending payment for the booking and returns the
	// signed gateway URL the customer is redirected to.
	InitiatePayment(ctx context.Context, req request.InitiatePaymentRequest) (*response.InitiatePaymentResponse, error)

	// HandleCallback processes the gateway's return/IPN parameters: verifies
	// the signature, settles the payment, and confirms the booking on success.
	HandleCallback(ctx context.Context, params map[string]string) (*response.PaymentResponse, error)

	GetPayment(ctx context.Context, id uuid.UUID) (*response.PaymentResponse, error)
}

type paymentService struct {
	repo *repository.Repository
	cfg  *utils.Config
	log  *zap.Logger
	now  func() time.Time
}

func NewPaymentService(repo *repository.Repository, cfg *utils.Config, log *zap.Logger) PaymentService {
	return &paymentService{
		repo: repo,
		cfg:  cfg,
		log:  log.With(zap.String("service", "payment")),
		now:  time.Now,
	}
}

func (s *paymentService) InitiatePayment(ctx context.Context, req request.InitiatePaymentRequest) (*response.InitiatePaymentResponse, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if entity.IsTerminalStatus(booking.Status) {
		return nil, ErrAlreadyTerminal
	}

	existing, err := s.repo.Payment.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == entity.PaymentStatusCompleted {
		return nil, ErrPaymentNotPending
	}

	now := s.now()
	payment := &entity.Payment{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID: bookingID,
		Provider:  "vnpay",
		Amount:    booking.Price,
		Status:    entity.PaymentStatusPending,
		TxnRef:    fmt.Sprintf("%s-%d", booking.Code, now.Unix()),
	}
	if req.BankCode != "" {
		payment.BankCode = &req.BankCode
	}
	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		return nil, err
	}

	payURL, err := vnpay.BuildPaymentURL(s.cfg.VNPay.PayURL, s.cfg.VNPay.HashSecret, vnpay.PaymentRequest{
		TmnCode:   s.cfg.VNPay.TmnCode,
		Amount:    payment.Amount,
		TxnRef:    payment.TxnRef,
		OrderInfo: fmt.Sprintf("Booking %s", booking.Code),
		ReturnURL: s.cfg.VNPay.ReturnURL,
		ClientIP:  req.ClientIP,
		BankCode:  req.BankCode,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Payment initiated",
		zap.String("booking_id", bookingID.String()),
		zap.String("txn_ref", payment.TxnRef),
		zap.Float64("amount", payment.Amount),
	)
	return &response.InitiatePaymentResponse{
		Payment:    response.PaymentToResponse(payment),
		PaymentURL: payURL,
	}, nil
}

func (s *paymentService) HandleCallback(ctx context.Context, params map[string]string) (*response.PaymentResponse, error) {
	if !vnpay.VerifySignature(params, s.cfg.VNPay.HashSecret) {
		return nil, ErrInvalidSignature
	}

	payment, err := s.repo.Payment.FindByTxnRef(ctx, params["vnp_TxnRef"])
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.Status != entity.PaymentStatusPending {
		return nil, ErrPaymentNotPending
	}
	// The gateway echoes the amount in minor units (x100).
	if params["vnp_Amount"] != fmt.Sprintf("%.0f", payment.Amount*100) {
		return nil, ErrAmountMismatch
	}

	if !vnpay.IsSuccessResponse(params) {
		if err := s.repo.Payment.MarkFailed(ctx, payment.ID); err != nil {
			return nil, err
		}
		payment.Status = entity.PaymentStatusFailed
		s.log.Warn("Payment failed at gateway",
			zap.String("txn_ref", payment.TxnRef),
			zap.String("response_code", params["vnp_ResponseCode"]),
		)
		resp := response.PaymentToResponse(payment)
		return &resp, nil
	}

	paidAt := s.now()
	var bankCode *string
	if code := params["vnp_BankCode"]; code != "" {
		bankCode = &code
	}
	if err := s.repo.Payment.MarkCompleted(ctx, payment.ID, bankCode, paidAt); err != nil {
		return nil, err
	}
	payment.Status = entity.PaymentStatusCompleted
	payment.BankCode = bankCode
	payment.PaidAt = &paidAt

	// Payment settles the booking. A booking that moved on from pending in the
	// meantime keeps its status.
	err = s.repo.Booking.UpdateStatusWithHistory(ctx, payment.BookingID,
		entity.BookingStatusPending, entity.BookingStatusConfirmed, "payment completed")
	if err != nil && !errors.Is(err, repository.ErrStatusChanged) {
		return nil, err
	}

	s.log.Info("Payment completed",
		zap.String("txn_ref", payment.TxnRef),
		zap.String("booking_id", payment.BookingID.String()),
	)
	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

func (s *paymentService) GetPayment(ctx context.Context, id uuid.UUID) (*response.PaymentResponse, error) {
	payment, err := s.repo.Payment.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	resp := response.PaymentToResponse(payment)
	return &resp, nil
}
