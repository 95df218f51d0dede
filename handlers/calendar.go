package handlers

import (
	"fmt"
	"net/http"

	"pilateshub/middleware"
	"pilateshub/services/calendar"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CalendarHandler struct {
	Service calendar.CalendarService
	Logger  *zap.Logger
}

func NewCalendarHandler(svc calendar.CalendarService, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{Service: svc, Logger: logger}
}

// StudioFeedHandler handles GET /api/calendar/studio.ics.
func (h *CalendarHandler) StudioFeedHandler(c *gin.Context) {
	doc, err := h.Service.StudioFeed(c.Request.Context(), middleware.CurrentAccountID(c))
	if err != nil {
		respondError(c, h.Logger, err, "Failed to export calendar")
		return
	}
	writeCalendar(c, "studio.ics", doc)
}

// InstructorFeedHandler handles GET /api/calendar/instructor.ics.
func (h *CalendarHandler) InstructorFeedHandler(c *gin.Context) {
	doc, err := h.Service.InstructorFeed(c.Request.Context(), middleware.CurrentAccountID(c))
	if err != nil {
		respondError(c, h.Logger, err, "Failed to export calendar")
		return
	}
	writeCalendar(c, "instructor.ics", doc)
}

func writeCalendar(c *gin.Context, filename, doc string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, calendar.ContentType, []byte(doc))
}
