package adaptor

import (
	"encoding/json"
	"net"
	"net/http"

	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// InitiatePayment handles POST /api/payments (public, booking code is enough)
func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	var req request.InitiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	// The gateway wants the customer's IP in the signed request.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	req.ClientIP = host

	payment, err := h.service.InitiatePayment(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "initiate payment")
		return
	}
	utils.ResponseCreated(w, "success", payment)
}

// GetPayment handles GET /api/payments/{id}
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid payment id", nil)
		return
	}

	payment, err := h.service.GetPayment(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get payment")
		return
	}
	utils.ResponseSuccess(w, "success", payment)
}

// Callback handles GET /api/payments/callback, the gateway's return URL. All
// parameters arrive in the query string, signature included.
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	params := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	payment, err := h.service.HandleCallback(r.Context(), params)
	if err != nil {
		handleServiceError(w, h.log, err, "payment callback")
		return
	}
	utils.ResponseSuccess(w, "success", payment)
}
