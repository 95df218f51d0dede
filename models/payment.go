package models

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment mirrors a computed split plus the identifiers the gateway assigned.
// Amounts are in minor currency units and never change after creation.
type Payment struct {
	ID               string        `bson:"id" json:"id"`
	BookingID        string        `bson:"bookingId" json:"bookingId"`
	StudioID         string        `bson:"studioId" json:"studioId"`
	InstructorID     string        `bson:"instructorId" json:"instructorId"`
	AmountTotal      int64         `bson:"amountTotal" json:"amountTotal"`
	PlatformFee      int64         `bson:"platformFee" json:"platformFee"`
	InstructorAmount int64         `bson:"instructorAmount" json:"instructorAmount"`
	FeeRate          string        `bson:"feeRate" json:"feeRate"`
	Currency         string        `bson:"currency" json:"currency"`
	Status           PaymentStatus `bson:"status" json:"status"`
	GatewayPaymentID string        `bson:"gatewayPaymentId" json:"gatewayPaymentId"`
	FailureReason    string        `bson:"failureReason,omitempty" json:"failureReason,omitempty"`
	CreatedAt        time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// PaymentIntentResponse is returned to the studio so the client can confirm the charge.
type PaymentIntentResponse struct {
	Payment      Payment `json:"payment"`
	ClientSecret string  `json:"clientSecret"`
}

// EarningsSummary totals an instructor's settled payouts.
type EarningsSummary struct {
	InstructorID  string `json:"instructorId"`
	Currency      string `json:"currency"`
	TotalEarned   int64  `json:"totalEarned"`
	PendingAmount int64  `json:"pendingAmount"`
	PlatformFees  int64  `json:"platformFees"`
	SettledCount  int    `json:"settledCount"`
	PendingCount  int    `json:"pendingCount"`
}
