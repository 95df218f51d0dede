package handlers

// HandlerBundle groups all endpoint handlers for route registration.
type HandlerBundle struct {
	Auth     *AuthHandler
	Schedule *ScheduleHandler
	Booking  *BookingHandler
	Payment  *PaymentHandler
	Calendar *CalendarHandler
	Storage  *StorageHandler
}
