package usecase

import (
	"context"
	"net/url"
	"testing"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/dto/request"
	"clinic-booking/pkg/utils"
	"clinic-booking/pkg/vnpay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func (e *testEnv) paymentService() *paymentService {
	e.cfg.VNPay = utils.VNPayConfig{
		TmnCode:    "CLINIC01",
		HashSecret: "unit-test-secret",
		PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "https://clinic.example/payments/return",
	}
	svc := NewPaymentService(e.repo, e.cfg, zap.NewNop()).(*paymentService)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestInitiatePayment(t *testing.T) {
	e := newTestEnv(t)
	booking := e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusPending)
	svc := e.paymentService()

	resp, err := svc.InitiatePayment(context.Background(), request.InitiatePaymentRequest{
		BookingID: booking.ID.String(),
		ClientIP:  "203.0.113.7",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PaymentStatusPending, resp.Payment.Status)
	assert.Equal(t, booking.Price, resp.Payment.Amount)
	assert.Equal(t, "vnpay", resp.Payment.Provider)

	// The redirect URL must carry a signature this service can verify back.
	parsed, err := url.Parse(resp.PaymentURL)
	require.NoError(t, err)
	params := make(map[string]string)
	for k, v := range parsed.Query() {
		params[k] = v[0]
	}
	assert.True(t, vnpay.VerifySignature(params, e.cfg.VNPay.HashSecret))
	assert.Equal(t, resp.Payment.TxnRef, params["vnp_TxnRef"])
}

func TestInitiatePayment_TerminalBooking(t *testing.T) {
	e := newTestEnv(t)
	booking := e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusCancelled)
	svc := e.paymentService()

	_, err := svc.InitiatePayment(context.Background(), request.InitiatePaymentRequest{
		BookingID: booking.ID.String(),
	})
	assert.ErrorIs(t, err, ErrAlreadyTerminal)
}

// callbackParams mimics a VNPay return redirect for the seeded service price
// (350000, echoed back in minor units).
func callbackParams(txnRef, secret, responseCode string) map[string]string {
	params := map[string]string{
		"vnp_TxnRef":            txnRef,
		"vnp_Amount":            "35000000",
		"vnp_ResponseCode":      responseCode,
		"vnp_TransactionStatus": responseCode,
		"vnp_BankCode":          "NCB",
	}
	params["vnp_SecureHash"] = vnpay.Sign(params, secret)
	return params
}

func TestHandleCallback_SuccessConfirmsBooking(t *testing.T) {
	e := newTestEnv(t)
	booking := e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusPending)
	svc := e.paymentService()
	ctx := context.Background()

	initiated, err := svc.InitiatePayment(ctx, request.InitiatePaymentRequest{
		BookingID: booking.ID.String(),
	})
	require.NoError(t, err)

	settled, err := svc.HandleCallback(ctx, callbackParams(initiated.Payment.TxnRef, e.cfg.VNPay.HashSecret, "00"))
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusCompleted, settled.Status)
	require.NotNil(t, settled.PaidAt)

	stored, err := e.bookings.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, stored.Status)
}

func TestHandleCallback_FailureMarksPaymentFailed(t *testing.T) {
	e := newTestEnv(t)
	booking := e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusPending)
	svc := e.paymentService()
	ctx := context.Background()

	initiated, err := svc.InitiatePayment(ctx, request.InitiatePaymentRequest{
		BookingID: booking.ID.String(),
	})
	require.NoError(t, err)

	settled, err := svc.HandleCallback(ctx, callbackParams(initiated.Payment.TxnRef, e.cfg.VNPay.HashSecret, "24"))
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusFailed, settled.Status)

	// The booking stays pending when payment fails.
	stored, err := e.bookings.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusPending, stored.Status)
}

func TestHandleCallback_BadSignature(t *testing.T) {
	e := newTestEnv(t)
	booking := e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusPending)
	svc := e.paymentService()
	ctx := context.Background()

	initiated, err := svc.InitiatePayment(ctx, request.InitiatePaymentRequest{
		BookingID: booking.ID.String(),
	})
	require.NoError(t, err)

	params := callbackParams(initiated.Payment.TxnRef, e.cfg.VNPay.HashSecret, "00")
	params["vnp_Amount"] = "1"

	_, err = svc.HandleCallback(ctx, params)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestHandleCallback_AmountMismatch(t *testing.T) {
	e := newTestEnv(t)
	booking := e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusPending)
	svc := e.paymentService()
	ctx := context.Background()

	initiated, err := svc.InitiatePayment(ctx, request.InitiatePaymentRequest{
		BookingID: booking.ID.String(),
	})
	require.NoError(t, err)

	// Correctly signed callback carrying the wrong amount.
	params := map[string]string{
		"vnp_TxnRef":            initiated.Payment.TxnRef,
		"vnp_Amount":            "100",
		"vnp_ResponseCode":      "00",
		"vnp_TransactionStatus": "00",
	}
	params["vnp_SecureHash"] = vnpay.Sign(params, e.cfg.VNPay.HashSecret)

	_, err = svc.HandleCallback(ctx, params)
	assert.ErrorIs(t, err, ErrAmountMismatch)
}

func TestHandleCallback_ReplayRejected(t *testing.T) {
	e := newTestEnv(t)
	booking := e.seedBooking(t, testStaffAID, "10:00", entity.BookingStatusPending)
	svc := e.paymentService()
	ctx := context.Background()

	initiated, err := svc.InitiatePayment(ctx, request.InitiatePaymentRequest{
		BookingID: booking.ID.String(),
	})
	require.NoError(t, err)

	params := callbackParams(initiated.Payment.TxnRef, e.cfg.VNPay.HashSecret, "00")
	_, err = svc.HandleCallback(ctx, params)
	require.NoError(t, err)

	// A second delivery of the same callback finds the payment settled.
	_, err = svc.HandleCallback(ctx, params)
	assert.ErrorIs(t, err, ErrPaymentNotPending)
}
