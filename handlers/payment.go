package handlers

import (
	"io"
	"net/http"

	"pilateshub/middleware"
	"pilateshub/models"
	"pilateshub/services/account"
	"pilateshub/services/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxWebhookBody = 65536

type PaymentHandler struct {
	Service  payment.PaymentService
	Accounts account.AccountService
	Logger   *zap.Logger
}

func NewPaymentHandler(svc payment.PaymentService, accounts account.AccountService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Service: svc, Accounts: accounts, Logger: logger}
}

// CreatePaymentHandler handles POST /api/payments/bookings/:id.
func (h *PaymentHandler) CreatePaymentHandler(c *gin.Context) {
	resp, err := h.Service.CreateForBooking(c.Request.Context(), middleware.CurrentAccountID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err, "Failed to create payment")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListPaymentsHandler handles GET /api/payments for either role.
func (h *PaymentHandler) ListPaymentsHandler(c *gin.Context) {
	var (
		list []models.Payment
		err  error
	)
	id := middleware.CurrentAccountID(c)
	if middleware.CurrentRole(c) == models.RoleInstructor {
		list, err = h.Service.ListByInstructor(c.Request.Context(), id)
	} else {
		list, err = h.Service.ListByStudio(c.Request.Context(), id)
	}
	if err != nil {
		respondError(c, h.Logger, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, list)
}

// EarningsHandler handles GET /api/payments/earnings.
func (h *PaymentHandler) EarningsHandler(c *gin.Context) {
	sum, err := h.Service.Earnings(c.Request.Context(), middleware.CurrentAccountID(c))
	if err != nil {
		respondError(c, h.Logger, err, "Failed to compute earnings")
		return
	}
	c.JSON(http.StatusOK, sum)
}

// OnboardHandler handles POST /api/payments/onboard.
func (h *PaymentHandler) OnboardHandler(c *gin.Context) {
	url, err := h.Accounts.StartPayoutOnboarding(c.Request.Context(), middleware.CurrentAccountID(c))
	if err != nil {
		respondError(c, h.Logger, err, "Failed to start payout onboarding")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// WebhookHandler handles POST /api/payments/webhook. The payload is passed through
// untouched so the signature can be checked.
func (h *PaymentHandler) WebhookHandler(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload too large"})
		return
	}
	if err := h.Service.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		respondError(c, h.Logger, err, "Failed to process webhook")
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
