package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/account"
	"github.com/stripe/stripe-go/v76/accountlink"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// StripeGateway implements Gateway and PayoutOnboarder with Stripe Connect.
// stripe.Key must be set before use.
type StripeGateway struct {
	WebhookSecret string
	ReturnURL     string
	RefreshURL    string
	Logger        *zap.Logger
}

func NewStripeGateway(webhookSecret, returnURL, refreshURL string, logger *zap.Logger) *StripeGateway {
	return &StripeGateway{
		WebhookSecret: webhookSecret,
		ReturnURL:     returnURL,
		RefreshURL:    refreshURL,
		Logger:        logger,
	}
}

// CreateDestinationCharge creates a PaymentIntent that transfers to the connected
// account. Stripe derives the transfer as amount minus application_fee_amount, so
// TransferAmount is only checked for consistency.
func (g *StripeGateway) CreateDestinationCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if req.GrossAmount-req.ApplicationFeeAmount != req.TransferAmount {
		return nil, fmt.Errorf("transfer %d does not equal gross %d minus fee %d",
			req.TransferAmount, req.GrossAmount, req.ApplicationFeeAmount)
	}

	params := &stripe.PaymentIntentParams{
		Amount:               stripe.Int64(req.GrossAmount),
		Currency:             stripe.String(req.Currency),
		ApplicationFeeAmount: stripe.Int64(req.ApplicationFeeAmount),
		TransferData: &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(req.DestinationAccountID),
		},
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}
	g.Logger.Info("payment intent created",
		zap.String("paymentIntent", pi.ID),
		zap.Int64("amount", req.GrossAmount),
		zap.Int64("applicationFee", req.ApplicationFeeAmount))
	return &ChargeResult{GatewayID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// ResumeCharge reloads a payment intent. After payment_failed Stripe returns the intent
// to requires_payment_method, so the same client secret can be confirmed again.
func (g *StripeGateway) ResumeCharge(ctx context.Context, gatewayID string) (*ChargeResult, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(gatewayID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: get payment intent: %w", err)
	}
	if pi.Status == stripe.PaymentIntentStatusCanceled {
		return nil, fmt.Errorf("%w: payment intent %s", ErrChargeClosed, pi.ID)
	}
	return &ChargeResult{GatewayID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// ParseWebhook verifies the Stripe-Signature header and extracts payment intent events.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*GatewayEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}

	out := &GatewayEvent{ID: event.ID, Type: string(event.Type)}
	switch out.Type {
	case EventPaymentSucceeded, EventPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("%w: decode payment intent: %v", ErrInvalidWebhook, err)
		}
		out.GatewayID = pi.ID
		if pi.LastPaymentError != nil {
			out.FailureReason = pi.LastPaymentError.Msg
		}
	}
	return out, nil
}

// CreateConnectedAccount opens an Express account able to receive transfers.
func (g *StripeGateway) CreateConnectedAccount(ctx context.Context, email, country string) (string, error) {
	params := &stripe.AccountParams{
		Type:    stripe.String(string(stripe.AccountTypeExpress)),
		Country: stripe.String(country),
		Email:   stripe.String(email),
		Capabilities: &stripe.AccountCapabilitiesParams{
			Transfers: &stripe.AccountCapabilitiesTransfersParams{Requested: stripe.Bool(true)},
		},
	}
	params.Context = ctx
	acct, err := account.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create connected account: %w", err)
	}
	return acct.ID, nil
}

func (g *StripeGateway) OnboardingLink(ctx context.Context, accountID string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(g.RefreshURL),
		ReturnURL:  stripe.String(g.ReturnURL),
		Type:       stripe.String("account_onboarding"),
	}
	params.Context = ctx
	link, err := accountlink.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create account link: %w", err)
	}
	return link.URL, nil
}
