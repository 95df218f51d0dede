package payment

import "context"

// ChargeRequest describes a destination charge: the payer is charged GrossAmount,
// TransferAmount goes to the instructor's connected account and the platform keeps
// ApplicationFeeAmount.
type ChargeRequest struct {
	GrossAmount          int64
	DestinationAccountID string
	TransferAmount       int64
	ApplicationFeeAmount int64
	Currency             string
	Description          string
	Metadata             map[string]string
	IdempotencyKey       string
}

type ChargeResult struct {
	GatewayID    string
	ClientSecret string
}

const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// GatewayEvent is a verified webhook notification reduced to what bookkeeping needs.
type GatewayEvent struct {
	ID            string
	Type          string
	GatewayID     string
	FailureReason string
}

type Gateway interface {
	CreateDestinationCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	// ResumeCharge returns a fresh client secret for an open charge so the payer can retry it.
	ResumeCharge(ctx context.Context, gatewayID string) (*ChargeResult, error)
	ParseWebhook(payload []byte, signature string) (*GatewayEvent, error)
}

// PayoutOnboarder creates connected accounts and the hosted onboarding links for them.
type PayoutOnboarder interface {
	CreateConnectedAccount(ctx context.Context, email, country string) (string, error)
	OnboardingLink(ctx context.Context, accountID string) (string, error)
}
