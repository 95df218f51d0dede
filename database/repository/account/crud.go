// File: database/repository/account/crud.go
package accountRepo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"pilateshub/models"
)

func (r *mongoAccountRepo) Create(ctx context.Context, a models.Account) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	a.Email = strings.ToLower(a.Email)
	if _, err := r.coll.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *mongoAccountRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *mongoAccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *mongoAccountRepo) SetStripeAccount(ctx context.Context, id, stripeAccountID string) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"stripeAccountId": stripeAccountID, "updatedAt": time.Now()}})
}

func (r *mongoAccountRepo) AddCertification(ctx context.Context, id, url string) error {
	return r.update(ctx, id, bson.M{
		"$addToSet": bson.M{"certifications": url},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
}

func (r *mongoAccountRepo) update(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoAccountRepo) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a models.Account
	if err := r.coll.FindOne(ctx, filter).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}
