package handlers

import (
	"net/http"
	"time"

	"pilateshub/middleware"
	"pilateshub/models"
	"pilateshub/services/schedule"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ScheduleHandler struct {
	Service schedule.ScheduleService
	Logger  *zap.Logger
}

func NewScheduleHandler(svc schedule.ScheduleService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{Service: svc, Logger: logger}
}

// ListStudioSchedulesHandler handles GET /api/schedules/studio.
func (h *ScheduleHandler) ListStudioSchedulesHandler(c *gin.Context) {
	list, err := h.Service.ListByStudio(c.Request.Context(), middleware.CurrentAccountID(c))
	if err != nil {
		respondError(c, h.Logger, err, "Failed to list schedules")
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpcomingHandler handles GET /api/schedules/upcoming. An optional ?ref=RFC3339
// sets the reference instant.
func (h *ScheduleHandler) UpcomingHandler(c *gin.Context) {
	var ref time.Time
	if raw := c.Query("ref"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badInput(c, err)
			return
		}
		ref = parsed
	}
	list, err := h.Service.Upcoming(c.Request.Context(), middleware.CurrentAccountID(c), ref)
	if err != nil {
		respondError(c, h.Logger, err, "Failed to project schedules")
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateScheduleHandler handles POST /api/schedules.
func (h *ScheduleHandler) CreateScheduleHandler(c *gin.Context) {
	var in models.ScheduleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c, err)
		return
	}
	sched, err := h.Service.Create(c.Request.Context(), middleware.CurrentAccountID(c), in)
	if err != nil {
		respondError(c, h.Logger, err, "Failed to create schedule")
		return
	}
	c.JSON(http.StatusCreated, sched)
}

// UpdateScheduleHandler handles PUT /api/schedules/:id.
func (h *ScheduleHandler) UpdateScheduleHandler(c *gin.Context) {
	var in models.ScheduleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c, err)
		return
	}
	sched, err := h.Service.Update(c.Request.Context(), middleware.CurrentAccountID(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.Logger, err, "Failed to update schedule")
		return
	}
	c.JSON(http.StatusOK, sched)
}

// SetActiveHandler handles PATCH /api/schedules/:id/active.
func (h *ScheduleHandler) SetActiveHandler(c *gin.Context) {
	var in struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c, err)
		return
	}
	id := c.Param("id")
	if err := h.Service.SetActive(c.Request.Context(), middleware.CurrentAccountID(c), id, *in.IsActive); err != nil {
		respondError(c, h.Logger, err, "Failed to update schedule")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "isActive": *in.IsActive})
}

// DeleteScheduleHandler handles DELETE /api/schedules/:id.
func (h *ScheduleHandler) DeleteScheduleHandler(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), middleware.CurrentAccountID(c), c.Param("id")); err != nil {
		respondError(c, h.Logger, err, "Failed to delete schedule")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schedule deleted"})
}

// ListInstructorSchedulesHandler handles GET /api/schedules/instructor.
func (h *ScheduleHandler) ListInstructorSchedulesHandler(c *gin.Context) {
	list, err := h.Service.ListByInstructor(c.Request.Context(), middleware.CurrentAccountID(c))
	if err != nil {
		respondError(c, h.Logger, err, "Failed to list schedules")
		return
	}
	c.JSON(http.StatusOK, list)
}
