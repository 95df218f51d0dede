// File: database/repository/payment/crud.go
package paymentRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pilateshub/models"
)

func (r *mongoPaymentRepo) Create(ctx context.Context, p models.Payment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrPaymentExists
		}
		return err
	}
	return nil
}

func (r *mongoPaymentRepo) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *mongoPaymentRepo) GetByGatewayID(ctx context.Context, gatewayID string) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{"gatewayPaymentId": gatewayID})
}

func (r *mongoPaymentRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{"bookingId": bookingID})
}

func (r *mongoPaymentRepo) ListByStudio(ctx context.Context, studioID string) ([]models.Payment, error) {
	return r.find(ctx, bson.M{"studioId": studioID})
}

func (r *mongoPaymentRepo) ListByInstructor(ctx context.Context, instructorID string) ([]models.Payment, error) {
	return r.find(ctx, bson.M{"instructorId": instructorID})
}

// UpdateStatus only touches status fields; the amounts stay as first written.
func (r *mongoPaymentRepo) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": status, "updatedAt": time.Now()}
	if reason != "" {
		set["failureReason"] = reason
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Reopen moves a failed payment back to pending and clears the failure reason.
// It returns mongo.ErrNoDocuments when the payment is missing or no longer failed.
func (r *mongoPaymentRepo) Reopen(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.PaymentFailed}
	update := bson.M{
		"$set":   bson.M{"status": models.PaymentPending, "updatedAt": time.Now()},
		"$unset": bson.M{"failureReason": ""},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoPaymentRepo) findOne(ctx context.Context, filter bson.M) (*models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Payment
	if err := r.coll.FindOne(ctx, filter).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *mongoPaymentRepo) find(ctx context.Context, filter bson.M) ([]models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Payment
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
