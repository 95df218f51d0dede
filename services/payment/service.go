package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	accountRepo "pilateshub/database/repository/account"
	bookingRepo "pilateshub/database/repository/booking"
	paymentRepo "pilateshub/database/repository/payment"
	"pilateshub/models"
	"pilateshub/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type PaymentService interface {
	CreateForBooking(ctx context.Context, studioID, bookingID string) (*models.PaymentIntentResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	ListByStudio(ctx context.Context, studioID string) ([]models.Payment, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]models.Payment, error)
	Earnings(ctx context.Context, instructorID string) (*models.EarningsSummary, error)
}

type DefaultPaymentService struct {
	Payments paymentRepo.PaymentRepository
	Bookings bookingRepo.BookingRepository
	Accounts accountRepo.AccountRepository
	Gateway  Gateway
	FeeRate  decimal.Decimal
	Currency string
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewDefaultPaymentService(
	payments paymentRepo.PaymentRepository,
	bookings bookingRepo.BookingRepository,
	accounts accountRepo.AccountRepository,
	gateway Gateway,
	feeRate decimal.Decimal,
	currency string,
	logger *zap.Logger,
) *DefaultPaymentService {
	return &DefaultPaymentService{
		Payments: payments,
		Bookings: bookings,
		Accounts: accounts,
		Gateway:  gateway,
		FeeRate:  feeRate,
		Currency: currency,
		Logger:   logger,
		Now:      time.Now,
	}
}

// CreateForBooking bills a completed booking: it splits the booking amount, opens a
// destination charge to the instructor's connected account and records the payment
// as pending until the gateway confirms it. Calling it again for a booking whose
// payment is still open or has failed resumes that charge instead of opening another.
func (s *DefaultPaymentService) CreateForBooking(ctx context.Context, studioID, bookingID string) (*models.PaymentIntentResponse, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking.StudioID != studioID {
		return nil, ErrBookingNotFound
	}
	switch booking.Status {
	case models.BookingCompleted, models.BookingBilled:
	case models.BookingPaid:
		return nil, ErrAlreadyBilled
	default:
		return nil, ErrBookingNotBillable
	}

	existing, err := s.Payments.GetByBookingID(ctx, booking.ID)
	switch {
	case err == nil:
		return s.resume(ctx, booking, existing)
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, fmt.Errorf("failed to load payment: %w", err)
	case booking.Status == models.BookingBilled:
		return nil, ErrAlreadyBilled
	}

	instructor, err := s.Accounts.GetByID(ctx, booking.InstructorID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to load instructor: %w", err)
	}
	if instructor == nil || instructor.StripeAccountID == "" {
		return nil, ErrPayoutAccountNeeded
	}

	split, err := ComputeSplit(booking.AmountTotal, s.FeeRate)
	if err != nil {
		return nil, err
	}
	if split.AmountTotal == 0 {
		return nil, models.NewValidationError(models.CodeInvalidAmount, "booking %s has nothing to bill", booking.ID)
	}

	charge, err := s.Gateway.CreateDestinationCharge(ctx, ChargeRequest{
		GrossAmount:          split.AmountTotal,
		DestinationAccountID: instructor.StripeAccountID,
		TransferAmount:       split.InstructorAmount,
		ApplicationFeeAmount: split.PlatformFee,
		Currency:             s.Currency,
		Description:          fmt.Sprintf("%s on %s", booking.ClassName, booking.Date),
		Metadata: map[string]string{
			"bookingId":    booking.ID,
			"studioId":     booking.StudioID,
			"instructorId": booking.InstructorID,
		},
		IdempotencyKey: "payment-" + booking.ID,
	})
	if err != nil {
		s.Logger.Error("destination charge failed", zap.String("bookingID", booking.ID), zap.Error(err))
		return nil, err
	}

	now := s.Now()
	p := models.Payment{
		ID:               uuid.New().String(),
		BookingID:        booking.ID,
		StudioID:         booking.StudioID,
		InstructorID:     booking.InstructorID,
		AmountTotal:      split.AmountTotal,
		PlatformFee:      split.PlatformFee,
		InstructorAmount: split.InstructorAmount,
		FeeRate:          split.FeeRate.String(),
		Currency:         s.Currency,
		Status:           models.PaymentPending,
		GatewayPaymentID: charge.GatewayID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Payments.Create(ctx, p); err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentExists) {
			return nil, ErrAlreadyBilled
		}
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.markBilled(ctx, booking.ID)

	utils.RecordPaymentBilled(p.Currency, p.PlatformFee, p.InstructorAmount)
	s.Logger.Info("booking billed",
		zap.String("bookingID", booking.ID),
		zap.String("paymentID", p.ID),
		zap.Int64("amountTotal", p.AmountTotal),
		zap.Int64("platformFee", p.PlatformFee))
	return &models.PaymentIntentResponse{Payment: p, ClientSecret: charge.ClientSecret}, nil
}

// resume hands back the open charge behind an existing payment. A failed payment is
// reopened so the payer can confirm the same charge again.
func (s *DefaultPaymentService) resume(ctx context.Context, booking *models.Booking, p *models.Payment) (*models.PaymentIntentResponse, error) {
	if p.Status == models.PaymentSucceeded {
		return nil, ErrAlreadyBilled
	}

	charge, err := s.Gateway.ResumeCharge(ctx, p.GatewayPaymentID)
	if err != nil {
		s.Logger.Error("resume charge failed", zap.String("paymentID", p.ID), zap.Error(err))
		return nil, err
	}

	if p.Status == models.PaymentFailed {
		if err := s.Payments.Reopen(ctx, p.ID); err != nil {
			if !errors.Is(err, mongo.ErrNoDocuments) {
				return nil, fmt.Errorf("failed to reopen payment: %w", err)
			}
			// A webhook or another retry moved it first.
			if p, err = s.Payments.GetByID(ctx, p.ID); err != nil {
				return nil, fmt.Errorf("failed to reload payment: %w", err)
			}
			if p.Status == models.PaymentSucceeded {
				return nil, ErrAlreadyBilled
			}
		}
		p.Status = models.PaymentPending
		p.FailureReason = ""
	}
	if booking.Status == models.BookingCompleted {
		s.markBilled(ctx, booking.ID)
	}

	s.Logger.Info("payment resumed",
		zap.String("bookingID", booking.ID),
		zap.String("paymentID", p.ID))
	return &models.PaymentIntentResponse{Payment: *p, ClientSecret: charge.ClientSecret}, nil
}

func (s *DefaultPaymentService) markBilled(ctx context.Context, bookingID string) {
	if err := s.Bookings.UpdateStatus(ctx, bookingID, models.BookingCompleted, models.BookingBilled); err != nil {
		s.Logger.Warn("payment recorded but booking not moved to billed",
			zap.String("bookingID", bookingID), zap.Error(err))
	}
}

// HandleWebhook applies a verified gateway event. Events for unknown payments and
// event types that carry no payment outcome are acknowledged and ignored.
func (s *DefaultPaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	ev, err := s.Gateway.ParseWebhook(payload, signature)
	if err != nil {
		utils.RecordWebhookEvent("unknown", "rejected")
		return err
	}

	var status models.PaymentStatus
	switch ev.Type {
	case EventPaymentSucceeded:
		status = models.PaymentSucceeded
	case EventPaymentFailed:
		status = models.PaymentFailed
	default:
		s.Logger.Debug("ignoring gateway event", zap.String("type", ev.Type), zap.String("eventID", ev.ID))
		utils.RecordWebhookEvent(ev.Type, "ignored")
		return nil
	}

	p, err := s.Payments.GetByGatewayID(ctx, ev.GatewayID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.Logger.Warn("gateway event for unknown payment", zap.String("gatewayID", ev.GatewayID))
			utils.RecordWebhookEvent(ev.Type, "unknown_payment")
			return nil
		}
		return fmt.Errorf("failed to load payment: %w", err)
	}
	if p.Status == models.PaymentSucceeded || p.Status == status {
		utils.RecordWebhookEvent(ev.Type, "duplicate")
		return nil
	}

	if err := s.Payments.UpdateStatus(ctx, p.ID, status, ev.FailureReason); err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if status == models.PaymentSucceeded {
		err := s.Bookings.UpdateStatus(ctx, p.BookingID, models.BookingBilled, models.BookingPaid)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("failed to mark booking paid: %w", err)
		}
	}

	utils.RecordWebhookEvent(ev.Type, "applied")
	s.Logger.Info("payment status updated",
		zap.String("paymentID", p.ID),
		zap.String("status", string(status)),
		zap.String("reason", ev.FailureReason))
	return nil
}

func (s *DefaultPaymentService) ListByStudio(ctx context.Context, studioID string) ([]models.Payment, error) {
	return s.Payments.ListByStudio(ctx, studioID)
}

func (s *DefaultPaymentService) ListByInstructor(ctx context.Context, instructorID string) ([]models.Payment, error) {
	return s.Payments.ListByInstructor(ctx, instructorID)
}

// Earnings totals an instructor's payouts. Failed payments are not counted.
func (s *DefaultPaymentService) Earnings(ctx context.Context, instructorID string) (*models.EarningsSummary, error) {
	payments, err := s.Payments.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	sum := &models.EarningsSummary{InstructorID: instructorID, Currency: s.Currency}
	for _, p := range payments {
		switch p.Status {
		case models.PaymentSucceeded:
			sum.TotalEarned += p.InstructorAmount
			sum.PlatformFees += p.PlatformFee
			sum.SettledCount++
		case models.PaymentPending:
			sum.PendingAmount += p.InstructorAmount
			sum.PendingCount++
		}
	}
	return sum, nil
}
