package adaptor

import (
	"errors"
	"net/http"

	"clinic-booking/internal/scheduling"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps service sentinels to HTTP responses. Anything not
// matched is a 500 and gets logged at error level; expected failures only warn.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrBookingNotFound),
		errors.Is(err, usecase.ErrBranchNotFound),
		errors.Is(err, usecase.ErrServiceNotFound),
		errors.Is(err, usecase.ErrStaffNotFound),
		errors.Is(err, usecase.ErrPaymentNotFound),
		errors.Is(err, usecase.ErrPostNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrSlotUnavailable):
		log.Warn(operation+" failed - slot unavailable", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, usecase.ErrBranchClosed),
		errors.Is(err, usecase.ErrStaffNotEligible),
		errors.Is(err, usecase.ErrInvalidTransition),
		errors.Is(err, scheduling.ErrInvalidGranularity),
		errors.Is(err, scheduling.ErrInvalidDuration),
		errors.Is(err, scheduling.ErrInvalidHours):
		log.Warn(operation+" failed - invalid request", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrNotModifiable),
		errors.Is(err, usecase.ErrAlreadyTerminal),
		errors.Is(err, usecase.ErrPaymentNotPending),
		errors.Is(err, usecase.ErrAmountMismatch),
		errors.Is(err, usecase.ErrReviewNotAllowed),
		errors.Is(err, usecase.ErrReviewAlreadyExists),
		errors.Is(err, usecase.ErrEmailTaken),
		errors.Is(err, usecase.ErrSlugTaken):
		log.Warn(operation+" failed - conflicting state", zap.Error(err))
		utils.ResponseUnprocessable(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrInvalidOTP),
		errors.Is(err, usecase.ErrInvalidSignature),
		errors.Is(err, usecase.ErrSessionExpired):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, err.Error())

	default:
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
