// FILE: database/repository/payment/indexes.go
package paymentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the payment indexes. The unique bookingId index is what
// serializes two concurrent payment creations for the same booking.
func (r *mongoPaymentRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "bookingId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_booking"),
		},
		{
			Keys:    bson.D{{Key: "gatewayPaymentId", Value: 1}},
			Options: options.Index().SetName("gateway_idx"),
		},
		{
			Keys:    bson.D{{Key: "instructorId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("instructor_status_idx"),
		},
		{
			Keys:    bson.D{{Key: "studioId", Value: 1}},
			Options: options.Index().SetName("studio_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create payment indexes: %w", err)
	}
	return nil
}
