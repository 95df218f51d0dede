// File: database/repository/payment/interface.go
package paymentRepo

import (
	"context"
	"errors"

	"pilateshub/database"
	"pilateshub/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrPaymentExists is returned by Create when the booking already has a payment.
var ErrPaymentExists = errors.New("payment already exists for booking")

type PaymentRepository interface {
	Create(ctx context.Context, p models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	GetByGatewayID(ctx context.Context, gatewayID string) (*models.Payment, error)
	GetByBookingID(ctx context.Context, bookingID string) (*models.Payment, error)
	ListByStudio(ctx context.Context, studioID string) ([]models.Payment, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]models.Payment, error)
	UpdateStatus(ctx context.Context, id string, status models.PaymentStatus, reason string) error
	Reopen(ctx context.Context, id string) error
	EnsureIndexes() error
}

type mongoPaymentRepo struct {
	coll *mongo.Collection
}

func NewMongoPaymentRepo() PaymentRepository {
	return &mongoPaymentRepo{
		coll: database.DB().Collection("payments"),
	}
}
