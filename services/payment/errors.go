package payment

import (
	"errors"

	"pilateshub/models"
)

var (
	ErrInvalidAmount  = &models.ValidationError{Code: models.CodeInvalidAmount, Message: "invalid amount"}
	ErrInvalidFeeRate = &models.ValidationError{Code: models.CodeInvalidFeeRate, Message: "invalid fee rate"}

	ErrBookingNotFound     = errors.New("booking not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrBookingNotBillable  = errors.New("booking is not ready for billing")
	ErrPayoutAccountNeeded = errors.New("instructor has not connected a payout account")
	ErrAlreadyBilled       = errors.New("booking already has a payment")
	ErrInvalidWebhook      = errors.New("invalid webhook payload or signature")
	ErrChargeClosed        = errors.New("gateway charge can no longer be paid")
)
