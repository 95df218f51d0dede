package routes

import (
	"net/http"
	"time"

	"pilateshub/handlers"
	"pilateshub/middleware"
	"pilateshub/models"
	"pilateshub/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers account registration and login.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.RegisterHandler)
		api.POST("/login", hb.Auth.LoginHandler)
	}
}

// RegisterScheduleRoutes registers recurring class management.
func RegisterScheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/schedules")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.GET("/instructor", middleware.InstructorOnly(), hb.Schedule.ListInstructorSchedulesHandler)

		studio := api.Group("")
		studio.Use(middleware.StudioOnly())
		studio.GET("/studio", hb.Schedule.ListStudioSchedulesHandler)
		studio.GET("/upcoming", hb.Schedule.UpcomingHandler)
		studio.POST("", hb.Schedule.CreateScheduleHandler)
		studio.PUT("/:id", hb.Schedule.UpdateScheduleHandler)
		studio.PATCH("/:id/active", hb.Schedule.SetActiveHandler)
		studio.DELETE("/:id", hb.Schedule.DeleteScheduleHandler)
	}
}

// RegisterBookingRoutes registers instructor bookings.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.GET("", hb.Booking.ListBookingsHandler)
		api.POST("", middleware.StudioOnly(), hb.Booking.CreateBookingHandler)
		api.PATCH("/:id/status", middleware.StudioOnly(), hb.Booking.TransitionHandler)
	}
}

// RegisterPaymentRoutes registers billing, earnings and the gateway webhook.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		// Authenticated by signature, not by token.
		api.POST("/webhook", hb.Payment.WebhookHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.GET("", hb.Payment.ListPaymentsHandler)
		protected.POST("/bookings/:id", middleware.StudioOnly(), hb.Payment.CreatePaymentHandler)
		protected.GET("/earnings", middleware.InstructorOnly(), hb.Payment.EarningsHandler)
		protected.POST("/onboard", middleware.InstructorOnly(), hb.Payment.OnboardHandler)
	}
}

// RegisterCalendarRoutes registers the iCal feeds.
func RegisterCalendarRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/calendar")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.GET("/studio.ics", middleware.StudioOnly(), hb.Calendar.StudioFeedHandler)
		api.GET("/instructor.ics", middleware.InstructorOnly(), hb.Calendar.InstructorFeedHandler)
	}
}

// RegisterUploadRoutes registers blob uploads.
func RegisterUploadRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/uploads")
	api.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleStudio, models.RoleInstructor))
	{
		api.POST("/:bucket", hb.Storage.UploadFileHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint backed by the health monitor.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		health := utils.GetHealthStatus()
		status := http.StatusOK
		if !health.CheckedAt.IsZero() && !health.Healthy() {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "message": "Hi, I'm PilatesHub", "services": health})
	})
}

// RegisterMetricsRoute exposes Prometheus metrics.
func RegisterMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(utils.MetricsHandler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, allowedOrigins []string) {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: !allowsAnyOrigin(allowedOrigins),
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterMetricsRoute(r)
	RegisterAuthRoutes(r, hb)
	RegisterScheduleRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterCalendarRoutes(r, hb)
	RegisterUploadRoutes(r, hb)
}

// Browsers refuse credentialed responses to a wildcard origin.
func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
