package handlers

import (
	"errors"
	"net/http"

	"pilateshub/services/account"
	"pilateshub/services/booking"
	"pilateshub/services/calendar"
	"pilateshub/services/payment"
	"pilateshub/services/schedule"
	"pilateshub/services/storage"
	"pilateshub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps service errors onto HTTP statuses. Anything unrecognised is
// logged and reported as a 500 carrying msg.
func respondError(c *gin.Context, logger *zap.Logger, err error, msg string) {
	// Export failures come from stored data, not from this request.
	if errors.Is(err, calendar.ErrCalendarExport) {
		logger.Error(msg, zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, utils.ErrorResponse{Error: err.Error(), Code: calendar.ErrCalendarExport.Code})
		return
	}
	if utils.ValidationFailed(c, err) {
		return
	}

	var status int
	switch {
	case errors.Is(err, schedule.ErrScheduleNotFound),
		errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, payment.ErrBookingNotFound),
		errors.Is(err, payment.ErrPaymentNotFound),
		errors.Is(err, account.ErrAccountNotFound):
		status = http.StatusNotFound
	case errors.Is(err, booking.ErrInstructorNotFound),
		errors.Is(err, storage.ErrUnknownBucket),
		errors.Is(err, payment.ErrInvalidWebhook):
		status = http.StatusBadRequest
	case errors.Is(err, account.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, account.ErrNotInstructor):
		status = http.StatusForbidden
	case errors.Is(err, account.ErrEmailTaken),
		errors.Is(err, payment.ErrAlreadyBilled),
		errors.Is(err, payment.ErrBookingNotBillable),
		errors.Is(err, payment.ErrPayoutAccountNeeded),
		errors.Is(err, payment.ErrChargeClosed):
		status = http.StatusConflict
	default:
		logger.Error(msg, zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msg})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
