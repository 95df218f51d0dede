// File: database/repository/account/interface.go
package accountRepo

import (
	"context"
	"errors"

	"pilateshub/database"
	"pilateshub/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var ErrEmailTaken = errors.New("email already registered")

type AccountRepository interface {
	Create(ctx context.Context, a models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	SetStripeAccount(ctx context.Context, id, stripeAccountID string) error
	AddCertification(ctx context.Context, id, url string) error
	EnsureIndexes() error
}

type mongoAccountRepo struct {
	coll *mongo.Collection
}

func NewMongoAccountRepo() AccountRepository {
	return &mongoAccountRepo{
		coll: database.DB().Collection("accounts"),
	}
}
