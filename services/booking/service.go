package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	accountRepo "pilateshub/database/repository/account"
	bookingRepo "pilateshub/database/repository/booking"
	scheduleRepo "pilateshub/database/repository/schedule"
	"pilateshub/models"
	"pilateshub/services/schedule"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type BookingService interface {
	Create(ctx context.Context, studioID string, in models.BookingInput) (*models.Booking, error)
	Get(ctx context.Context, studioID, id string) (*models.Booking, error)
	ListByStudio(ctx context.Context, studioID string) ([]models.Booking, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]models.Booking, error)
	Transition(ctx context.Context, studioID, id string, to models.BookingStatus) (*models.Booking, error)
}

// CompletionScheduler arranges for a booking to be marked completed once its class ends.
type CompletionScheduler interface {
	ScheduleCompletion(ctx context.Context, b models.Booking, at time.Time) error
}

type DefaultBookingService struct {
	Bookings    bookingRepo.BookingRepository
	Schedules   scheduleRepo.ScheduleRepository
	Accounts    accountRepo.AccountRepository
	Completions CompletionScheduler
	Logger      *zap.Logger
	Now         func() time.Time
}

func NewDefaultBookingService(
	bookings bookingRepo.BookingRepository,
	schedules scheduleRepo.ScheduleRepository,
	accounts accountRepo.AccountRepository,
	logger *zap.Logger,
) *DefaultBookingService {
	return &DefaultBookingService{
		Bookings:  bookings,
		Schedules: schedules,
		Accounts:  accounts,
		Logger:    logger,
		Now:       time.Now,
	}
}

// Create books an instructor for one class. When the input names a schedule, the
// class name, times, timezone and hourly rate come from that schedule and the date
// must fall on its weekday. Fields given explicitly in the input win.
func (s *DefaultBookingService) Create(ctx context.Context, studioID string, in models.BookingInput) (*models.Booking, error) {
	now := s.Now()
	b := models.Booking{
		ID:           uuid.New().String(),
		StudioID:     studioID,
		InstructorID: in.InstructorID,
		ScheduleID:   in.ScheduleID,
		ClassName:    strings.TrimSpace(in.ClassName),
		Date:         in.Date,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		Timezone:     in.Timezone,
		Status:       models.BookingScheduled,
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var rate *int64
	if in.ScheduleID != "" {
		sched, err := s.Schedules.GetByID(ctx, studioID, in.ScheduleID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, schedule.ErrScheduleNotFound
			}
			return nil, fmt.Errorf("failed to load schedule: %w", err)
		}
		applySchedule(&b, *sched)
		rate = sched.RatePerHour
		if err := checkWeekday(b, sched.DayOfWeek); err != nil {
			return nil, err
		}
	}

	if b.Timezone == "" {
		b.Timezone = models.DefaultTimezone
	}
	minutes, err := validateBooking(b)
	if err != nil {
		return nil, err
	}

	switch {
	case in.AmountTotal != nil:
		if *in.AmountTotal < 0 {
			return nil, models.NewValidationError(models.CodeInvalidAmount, "amount %d must not be negative", *in.AmountTotal)
		}
		b.AmountTotal = *in.AmountTotal
	case rate != nil:
		b.AmountTotal = AmountForMinutes(*rate, minutes)
	default:
		return nil, models.NewValidationError(models.CodeInvalidAmount, "booking needs an amount or a schedule with an hourly rate")
	}

	instructor, err := s.Accounts.GetByID(ctx, b.InstructorID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to load instructor: %w", err)
	}
	if instructor == nil || instructor.Role != models.RoleInstructor {
		return nil, ErrInstructorNotFound
	}

	if err := s.Bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	s.Logger.Info("booking created",
		zap.String("bookingID", b.ID),
		zap.String("studioID", studioID),
		zap.String("instructorID", b.InstructorID),
		zap.String("date", b.Date),
		zap.Int64("amountTotal", b.AmountTotal))
	s.scheduleCompletion(ctx, b)
	return &b, nil
}

func (s *DefaultBookingService) scheduleCompletion(ctx context.Context, b models.Booking) {
	if s.Completions == nil {
		return
	}
	end, err := ClassEnd(b)
	if err != nil {
		s.Logger.Warn("cannot work out class end", zap.String("bookingID", b.ID), zap.Error(err))
		return
	}
	if err := s.Completions.ScheduleCompletion(ctx, b, end); err != nil {
		s.Logger.Warn("failed to schedule booking completion", zap.String("bookingID", b.ID), zap.Error(err))
	}
}

func (s *DefaultBookingService) Get(ctx context.Context, studioID, id string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if b.StudioID != studioID {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func (s *DefaultBookingService) ListByStudio(ctx context.Context, studioID string) ([]models.Booking, error) {
	return s.Bookings.ListByStudio(ctx, studioID)
}

func (s *DefaultBookingService) ListByInstructor(ctx context.Context, instructorID string) ([]models.Booking, error) {
	return s.Bookings.ListByInstructor(ctx, instructorID)
}

// Transition moves a booking to completed or cancelled. Billing and payment states
// are owned by the payment service and cannot be set here.
func (s *DefaultBookingService) Transition(ctx context.Context, studioID, id string, to models.BookingStatus) (*models.Booking, error) {
	b, err := s.Get(ctx, studioID, id)
	if err != nil {
		return nil, err
	}
	if to != models.BookingCompleted && to != models.BookingCancelled {
		return nil, invalidTransition(b.Status, to)
	}
	if !b.Status.CanTransition(to) {
		return nil, invalidTransition(b.Status, to)
	}
	if err := s.Bookings.UpdateStatus(ctx, b.ID, b.Status, to); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Someone else moved it first.
			return nil, invalidTransition(b.Status, to)
		}
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	s.Logger.Info("booking status changed",
		zap.String("bookingID", b.ID),
		zap.String("from", string(b.Status)),
		zap.String("to", string(to)))
	b.Status = to
	b.UpdatedAt = s.Now()
	return b, nil
}

// AmountForMinutes prices a class from an hourly rate in cents, rounding half-up to the cent.
func AmountForMinutes(ratePerHour int64, minutes int) int64 {
	return decimal.NewFromInt(ratePerHour).
		Mul(decimal.NewFromInt(int64(minutes))).
		Div(decimal.NewFromInt(60)).
		Round(0).
		IntPart()
}

// ClassEnd returns the instant a booked class finishes in the booking's timezone.
func ClassEnd(b models.Booking) (time.Time, error) {
	loc, err := schedule.LoadLocation(b.Timezone)
	if err != nil {
		return time.Time{}, err
	}
	d, err := time.ParseInLocation(dateLayout, b.Date, loc)
	if err != nil {
		return time.Time{}, models.NewValidationError(models.CodeInvalidSchedule, "date %q is not YYYY-MM-DD", b.Date)
	}
	end, err := schedule.ParseClock(b.EndTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), end/60, end%60, 0, 0, loc), nil
}

func applySchedule(b *models.Booking, sched models.RecurringSchedule) {
	if b.ClassName == "" {
		b.ClassName = sched.ClassName
	}
	if b.StartTime == "" {
		b.StartTime = sched.StartTime
	}
	if b.EndTime == "" {
		b.EndTime = sched.EndTime
	}
	if b.Timezone == "" {
		b.Timezone = sched.Timezone
	}
}

func checkWeekday(b models.Booking, day models.Weekday) error {
	d, err := time.Parse(dateLayout, b.Date)
	if err != nil {
		return models.NewValidationError(models.CodeInvalidSchedule, "date %q is not YYYY-MM-DD", b.Date)
	}
	if models.Weekday(d.Weekday().String()) != day {
		return models.NewValidationError(models.CodeInvalidWeekday, "%s is a %s, the class runs on %s", b.Date, d.Weekday(), day)
	}
	return nil
}

// validateBooking checks the fields needed to place the class on a calendar and
// returns its length in minutes.
func validateBooking(b models.Booking) (int, error) {
	if b.InstructorID == "" {
		return 0, models.NewValidationError(models.CodeInvalidSchedule, "instructor is required")
	}
	if b.ClassName == "" {
		return 0, models.NewValidationError(models.CodeInvalidSchedule, "class name is required")
	}
	if _, err := time.Parse(dateLayout, b.Date); err != nil {
		return 0, models.NewValidationError(models.CodeInvalidSchedule, "date %q is not YYYY-MM-DD", b.Date)
	}
	if _, err := schedule.LoadLocation(b.Timezone); err != nil {
		return 0, err
	}
	start, err := schedule.ParseClock(b.StartTime)
	if err != nil {
		return 0, err
	}
	end, err := schedule.ParseClock(b.EndTime)
	if err != nil {
		return 0, err
	}
	if end <= start {
		return 0, models.NewValidationError(models.CodeInvalidTimeRange, "class must end after it starts (%s - %s)", b.StartTime, b.EndTime)
	}
	return end - start, nil
}
