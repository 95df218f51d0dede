// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"

	"pilateshub/database"
	"pilateshub/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingRepository interface {
	Create(ctx context.Context, b models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByStudio(ctx context.Context, studioID string) ([]models.Booking, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]models.Booking, error)
	// UpdateStatus moves a booking from one status to another. It fails with
	// mongo.ErrNoDocuments when the booking is no longer in the expected status.
	UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus) error
	EnsureIndexes() error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

func NewMongoBookingRepo() BookingRepository {
	return &mongoBookingRepo{
		coll: database.DB().Collection("bookings"),
	}
}
