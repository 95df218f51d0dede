package handlers

import (
	"net/http"

	"pilateshub/middleware"
	"pilateshub/models"
	"pilateshub/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// CreateBookingHandler handles POST /api/bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var in models.BookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c, err)
		return
	}
	b, err := h.Service.Create(c.Request.Context(), middleware.CurrentAccountID(c), in)
	if err != nil {
		respondError(c, h.Logger, err, "Failed to create booking")
		return
	}
	c.JSON(http.StatusCreated, b)
}

// TransitionHandler handles PATCH /api/bookings/:id/status.
func (h *BookingHandler) TransitionHandler(c *gin.Context) {
	var in struct {
		Status models.BookingStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c, err)
		return
	}
	b, err := h.Service.Transition(c.Request.Context(), middleware.CurrentAccountID(c), c.Param("id"), in.Status)
	if err != nil {
		respondError(c, h.Logger, err, "Failed to update booking")
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListBookingsHandler handles GET /api/bookings for either role.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	var (
		list []models.Booking
		err  error
	)
	id := middleware.CurrentAccountID(c)
	if middleware.CurrentRole(c) == models.RoleInstructor {
		list, err = h.Service.ListByInstructor(c.Request.Context(), id)
	} else {
		list, err = h.Service.ListByStudio(c.Request.Context(), id)
	}
	if err != nil {
		respondError(c, h.Logger, err, "Failed to list bookings")
		return
	}
	c.JSON(http.StatusOK, list)
}
