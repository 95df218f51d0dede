package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	paymentRepo "pilateshub/database/repository/payment"
	"pilateshub/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type memPayments struct {
	byID map[string]models.Payment
}

func (m *memPayments) Create(_ context.Context, p models.Payment) error {
	for _, existing := range m.byID {
		if existing.BookingID == p.BookingID {
			return paymentRepo.ErrPaymentExists
		}
	}
	m.byID[p.ID] = p
	return nil
}

func (m *memPayments) GetByID(_ context.Context, id string) (*models.Payment, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &p, nil
}

func (m *memPayments) GetByGatewayID(_ context.Context, gatewayID string) (*models.Payment, error) {
	for _, p := range m.byID {
		if p.GatewayPaymentID == gatewayID {
			return &p, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memPayments) GetByBookingID(_ context.Context, bookingID string) (*models.Payment, error) {
	for _, p := range m.byID {
		if p.BookingID == bookingID {
			return &p, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memPayments) ListByStudio(_ context.Context, studioID string) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range m.byID {
		if p.StudioID == studioID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPayments) ListByInstructor(_ context.Context, instructorID string) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range m.byID {
		if p.InstructorID == instructorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPayments) UpdateStatus(_ context.Context, id string, status models.PaymentStatus, reason string) error {
	p, ok := m.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	p.Status = status
	p.FailureReason = reason
	m.byID[id] = p
	return nil
}

func (m *memPayments) Reopen(_ context.Context, id string) error {
	p, ok := m.byID[id]
	if !ok || p.Status != models.PaymentFailed {
		return mongo.ErrNoDocuments
	}
	p.Status = models.PaymentPending
	p.FailureReason = ""
	m.byID[id] = p
	return nil
}

func (m *memPayments) EnsureIndexes() error { return nil }

type memBookings struct {
	byID map[string]models.Booking
}

func (m *memBookings) Create(_ context.Context, b models.Booking) error {
	m.byID[b.ID] = b
	return nil
}

func (m *memBookings) GetByID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := m.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &b, nil
}

func (m *memBookings) ListByStudio(context.Context, string) ([]models.Booking, error) {
	return nil, nil
}

func (m *memBookings) ListByInstructor(context.Context, string) ([]models.Booking, error) {
	return nil, nil
}

func (m *memBookings) UpdateStatus(_ context.Context, id string, from, to models.BookingStatus) error {
	b, ok := m.byID[id]
	if !ok || b.Status != from {
		return mongo.ErrNoDocuments
	}
	b.Status = to
	m.byID[id] = b
	return nil
}

func (m *memBookings) EnsureIndexes() error { return nil }

type memAccounts struct {
	byID map[string]models.Account
}

func (m *memAccounts) Create(_ context.Context, a models.Account) error {
	m.byID[a.ID] = a
	return nil
}

func (m *memAccounts) GetByID(_ context.Context, id string) (*models.Account, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &a, nil
}

func (m *memAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	for _, a := range m.byID {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memAccounts) SetStripeAccount(_ context.Context, id, stripeAccountID string) error {
	a, ok := m.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	a.StripeAccountID = stripeAccountID
	m.byID[id] = a
	return nil
}

func (m *memAccounts) AddCertification(context.Context, string, string) error { return nil }
func (m *memAccounts) EnsureIndexes() error { return nil }

type fakeGateway struct {
	charges   []ChargeRequest
	resumed   []string
	event     *GatewayEvent
	err       error
	resumeErr error
}

func (g *fakeGateway) CreateDestinationCharge(_ context.Context, req ChargeRequest) (*ChargeResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.charges = append(g.charges, req)
	return &ChargeResult{GatewayID: "pi_" + req.Metadata["bookingId"], ClientSecret: "secret_" + req.Metadata["bookingId"]}, nil
}

func (g *fakeGateway) ResumeCharge(_ context.Context, gatewayID string) (*ChargeResult, error) {
	if g.resumeErr != nil {
		return nil, g.resumeErr
	}
	g.resumed = append(g.resumed, gatewayID)
	return &ChargeResult{GatewayID: gatewayID, ClientSecret: "resumed_" + gatewayID}, nil
}

func (g *fakeGateway) ParseWebhook(payload []byte, signature string) (*GatewayEvent, error) {
	if signature != "valid" {
		return nil, ErrInvalidWebhook
	}
	return g.event, nil
}

type fixture struct {
	svc      *DefaultPaymentService
	payments *memPayments
	bookings *memBookings
	gateway  *fakeGateway
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		payments: &memPayments{byID: map[string]models.Payment{}},
		bookings: &memBookings{byID: map[string]models.Booking{
			"b-1": {ID: "b-1", StudioID: "studio-1", InstructorID: "inst-1", ClassName: "Reformer", Date: "2025-01-13", AmountTotal: 10000, Status: models.BookingCompleted},
			"b-2": {ID: "b-2", StudioID: "studio-1", InstructorID: "inst-1", AmountTotal: 10000, Status: models.BookingScheduled},
			"b-3": {ID: "b-3", StudioID: "studio-1", InstructorID: "inst-2", AmountTotal: 10000, Status: models.BookingCompleted},
		}},
		gateway: &fakeGateway{},
	}
	accounts := &memAccounts{byID: map[string]models.Account{
		"inst-1": {ID: "inst-1", Role: models.RoleInstructor, StripeAccountID: "acct_1"},
		"inst-2": {ID: "inst-2", Role: models.RoleInstructor},
	}}
	f.svc = NewDefaultPaymentService(f.payments, f.bookings, accounts, f.gateway, decimal.RequireFromString("0.05"), "aud", zap.NewNop())
	f.svc.Now = func() time.Time { return time.Date(2025, time.January, 14, 0, 0, 0, 0, time.UTC) }
	return f
}

func TestCreateForBooking(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.CreateForBooking(context.Background(), "studio-1", "b-1")
	require.NoError(t, err)
	assert.Equal(t, "secret_b-1", resp.ClientSecret)
	assert.Equal(t, int64(10000), resp.Payment.AmountTotal)
	assert.Equal(t, int64(500), resp.Payment.PlatformFee)
	assert.Equal(t, int64(9500), resp.Payment.InstructorAmount)
	assert.Equal(t, "0.05", resp.Payment.FeeRate)
	assert.Equal(t, models.PaymentPending, resp.Payment.Status)
	assert.Equal(t, "pi_b-1", resp.Payment.GatewayPaymentID)

	require.Len(t, f.gateway.charges, 1)
	charge := f.gateway.charges[0]
	assert.Equal(t, "acct_1", charge.DestinationAccountID)
	assert.Equal(t, int64(500), charge.ApplicationFeeAmount)
	assert.Equal(t, int64(9500), charge.TransferAmount)
	assert.Equal(t, "payment-b-1", charge.IdempotencyKey)
	assert.Equal(t, "aud", charge.Currency)

	assert.Equal(t, models.BookingBilled, f.bookings.byID["b-1"].Status)
}

func TestCreateForBooking_Rejections(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	_, err := f.svc.CreateForBooking(ctx, "studio-2", "b-1")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = f.svc.CreateForBooking(ctx, "studio-1", "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = f.svc.CreateForBooking(ctx, "studio-1", "b-2")
	assert.ErrorIs(t, err, ErrBookingNotBillable)

	_, err = f.svc.CreateForBooking(ctx, "studio-1", "b-3")
	assert.ErrorIs(t, err, ErrPayoutAccountNeeded)

	first, err := f.svc.CreateForBooking(ctx, "studio-1", "b-1")
	require.NoError(t, err)

	// A second call while the charge is open hands back the same payment.
	again, err := f.svc.CreateForBooking(ctx, "studio-1", "b-1")
	require.NoError(t, err)
	assert.Equal(t, first.Payment.ID, again.Payment.ID)
	assert.Equal(t, "resumed_pi_b-1", again.ClientSecret)
	assert.Len(t, f.gateway.charges, 1)

	p := f.payments.byID[first.Payment.ID]
	p.Status = models.PaymentSucceeded
	f.payments.byID[p.ID] = p
	_, err = f.svc.CreateForBooking(ctx, "studio-1", "b-1")
	assert.ErrorIs(t, err, ErrAlreadyBilled)
	assert.Len(t, f.gateway.charges, 1)
}

func TestCreateForBooking_GatewayFailureLeavesBookingCompleted(t *testing.T) {
	f := newFixture(t)
	f.gateway.err = errors.New("card network down")

	_, err := f.svc.CreateForBooking(context.Background(), "studio-1", "b-1")
	require.Error(t, err)
	assert.Empty(t, f.payments.byID)
	assert.Equal(t, models.BookingCompleted, f.bookings.byID["b-1"].Status)
}

func TestHandleWebhook_Succeeded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp, err := f.svc.CreateForBooking(ctx, "studio-1", "b-1")
	require.NoError(t, err)

	f.gateway.event = &GatewayEvent{ID: "evt_1", Type: EventPaymentSucceeded, GatewayID: "pi_b-1"}
	require.NoError(t, f.svc.HandleWebhook(ctx, []byte("{}"), "valid"))
	assert.Equal(t, models.PaymentSucceeded, f.payments.byID[resp.Payment.ID].Status)
	assert.Equal(t, models.BookingPaid, f.bookings.byID["b-1"].Status)

	// Redelivery is a no-op.
	require.NoError(t, f.svc.HandleWebhook(ctx, []byte("{}"), "valid"))
	assert.Equal(t, models.BookingPaid, f.bookings.byID["b-1"].Status)
}

func TestHandleWebhook_Failed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp, err := f.svc.CreateForBooking(ctx, "studio-1", "b-1")
	require.NoError(t, err)

	f.gateway.event = &GatewayEvent{Type: EventPaymentFailed, GatewayID: "pi_b-1", FailureReason: "card declined"}
	require.NoError(t, f.svc.HandleWebhook(ctx, []byte("{}"), "valid"))
	p := f.payments.byID[resp.Payment.ID]
	assert.Equal(t, models.PaymentFailed, p.Status)
	assert.Equal(t, "card declined", p.FailureReason)
	assert.Equal(t, models.BookingBilled, f.bookings.byID["b-1"].Status)
}

func TestCreateForBooking_RetryAfterFailedPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.svc.CreateForBooking(ctx, "studio-1", "b-1")
	require.NoError(t, err)

	f.gateway.event = &GatewayEvent{Type: EventPaymentFailed, GatewayID: "pi_b-1", FailureReason: "card declined"}
	require.NoError(t, f.svc.HandleWebhook(ctx, []byte("{}"), "valid"))

	retry, err := f.svc.CreateForBooking(ctx, "studio-1", "b-1")
	require.NoError(t, err)
	assert.Equal(t, first.Payment.ID, retry.Payment.ID)
	assert.Equal(t, models.PaymentPending, retry.Payment.Status)
	assert.Empty(t, retry.Payment.FailureReason)
	assert.Equal(t, "resumed_pi_b-1", retry.ClientSecret)
	assert.Equal(t, []string{"pi_b-1"}, f.gateway.resumed)
	assert.Len(t, f.gateway.charges, 1)

	stored := f.payments.byID[first.Payment.ID]
	assert.Equal(t, models.PaymentPending, stored.Status)
	assert.Empty(t, stored.FailureReason)
	assert.Equal(t, models.BookingBilled, f.bookings.byID["b-1"].Status)

	f.gateway.event = &GatewayEvent{Type: EventPaymentSucceeded, GatewayID: "pi_b-1"}
	require.NoError(t, f.svc.HandleWebhook(ctx, []byte("{}"), "valid"))
	assert.Equal(t, models.PaymentSucceeded, f.payments.byID[first.Payment.ID].Status)
	assert.Equal(t, models.BookingPaid, f.bookings.byID["b-1"].Status)

	_, err = f.svc.CreateForBooking(ctx, "studio-1", "b-1")
	assert.ErrorIs(t, err, ErrAlreadyBilled)
}

func TestCreateForBooking_RetryOnClosedCharge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.svc.CreateForBooking(ctx, "studio-1", "b-1")
	require.NoError(t, err)
	require.NoError(t, f.payments.UpdateStatus(ctx, first.Payment.ID, models.PaymentFailed, "expired"))

	f.gateway.resumeErr = ErrChargeClosed
	_, err = f.svc.CreateForBooking(ctx, "studio-1", "b-1")
	assert.ErrorIs(t, err, ErrChargeClosed)
	assert.Equal(t, models.PaymentFailed, f.payments.byID[first.Payment.ID].Status)
}

func TestCreateForBooking_ResumesWhenBillingStepWasMissed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.svc.CreateForBooking(ctx, "studio-1", "b-1")
	require.NoError(t, err)

	b := f.bookings.byID["b-1"]
	b.Status = models.BookingCompleted
	f.bookings.byID["b-1"] = b

	again, err := f.svc.CreateForBooking(ctx, "studio-1", "b-1")
	require.NoError(t, err)
	assert.Equal(t, first.Payment.ID, again.Payment.ID)
	assert.Len(t, f.gateway.charges, 1)
	assert.Equal(t, models.BookingBilled, f.bookings.byID["b-1"].Status)
}

func TestHandleWebhook_IgnoresUnknown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.gateway.event = &GatewayEvent{Type: "customer.created"}
	assert.NoError(t, f.svc.HandleWebhook(ctx, nil, "valid"))

	f.gateway.event = &GatewayEvent{Type: EventPaymentSucceeded, GatewayID: "pi_unknown"}
	assert.NoError(t, f.svc.HandleWebhook(ctx, nil, "valid"))

	assert.ErrorIs(t, f.svc.HandleWebhook(ctx, nil, "forged"), ErrInvalidWebhook)
}

func TestEarnings(t *testing.T) {
	f := newFixture(t)
	f.payments.byID = map[string]models.Payment{
		"p-1": {ID: "p-1", BookingID: "x1", InstructorID: "inst-1", PlatformFee: 500, InstructorAmount: 9500, Status: models.PaymentSucceeded},
		"p-2": {ID: "p-2", BookingID: "x2", InstructorID: "inst-1", PlatformFee: 33, InstructorAmount: 300, Status: models.PaymentSucceeded},
		"p-3": {ID: "p-3", BookingID: "x3", InstructorID: "inst-1", PlatformFee: 50, InstructorAmount: 950, Status: models.PaymentPending},
		"p-4": {ID: "p-4", BookingID: "x4", InstructorID: "inst-1", PlatformFee: 50, InstructorAmount: 950, Status: models.PaymentFailed},
		"p-5": {ID: "p-5", BookingID: "x5", InstructorID: "inst-2", PlatformFee: 50, InstructorAmount: 950, Status: models.PaymentSucceeded},
	}

	sum, err := f.svc.Earnings(context.Background(), "inst-1")
	require.NoError(t, err)
	assert.Equal(t, int64(9800), sum.TotalEarned)
	assert.Equal(t, int64(533), sum.PlatformFees)
	assert.Equal(t, int64(950), sum.PendingAmount)
	assert.Equal(t, 2, sum.SettledCount)
	assert.Equal(t, 1, sum.PendingCount)
	assert.Equal(t, "aud", sum.Currency)
}
