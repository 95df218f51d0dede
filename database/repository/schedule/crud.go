// File: database/repository/schedule/crud.go
package scheduleRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pilateshub/models"
)

func (r *mongoScheduleRepo) Create(ctx context.Context, s models.RecurringSchedule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, s)
	return err
}

func (r *mongoScheduleRepo) GetByID(ctx context.Context, studioID, id string) (*models.RecurringSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s models.RecurringSchedule
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "studioId": studioID}).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Replace overwrites the whole document. The studio filter enforces ownership.
func (r *mongoScheduleRepo) Replace(ctx context.Context, s models.RecurringSchedule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": s.ID, "studioId": s.StudioID}, s)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoScheduleRepo) SetActive(ctx context.Context, studioID, id string, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "studioId": studioID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoScheduleRepo) Delete(ctx context.Context, studioID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id, "studioId": studioID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoScheduleRepo) ListByStudio(ctx context.Context, studioID string) ([]models.RecurringSchedule, error) {
	return r.find(ctx, bson.M{"studioId": studioID})
}

func (r *mongoScheduleRepo) ListByInstructor(ctx context.Context, instructorID string) ([]models.RecurringSchedule, error) {
	return r.find(ctx, bson.M{"instructorId": instructorID})
}

func (r *mongoScheduleRepo) find(ctx context.Context, filter bson.M) ([]models.RecurringSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.RecurringSchedule
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
