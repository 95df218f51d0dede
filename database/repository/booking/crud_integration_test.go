//go:build integration

package bookingRepo

import (
	"context"
	"testing"
	"time"

	"pilateshub/config"
	"pilateshub/database"
	"pilateshub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func setupMongo(t *testing.T, ctx context.Context) func() {
	t.Helper()

	ctr, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	database.MongoClient = client
	config.AppConfig.DatabaseName = "pilateshub_test"
	return func() {
		_ = client.Disconnect(ctx)
		_ = ctr.Terminate(ctx)
	}
}

func TestBookingRepo_ConditionalStatusUpdate(t *testing.T) {
	ctx := context.Background()
	defer setupMongo(t, ctx)()

	repo := NewMongoBookingRepo()
	require.NoError(t, repo.EnsureIndexes())
	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, models.Booking{
		ID:           "b-1",
		StudioID:     "studio-1",
		InstructorID: "inst-1",
		ClassName:    "Mat",
		Date:         "2025-01-13",
		StartTime:    "09:00",
		EndTime:      "10:00",
		Timezone:     "Australia/Sydney",
		Status:       models.BookingScheduled,
		AmountTotal:  9000,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))

	require.NoError(t, repo.UpdateStatus(ctx, "b-1", models.BookingScheduled, models.BookingCompleted))
	// A second writer still expecting "scheduled" loses.
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "b-1", models.BookingScheduled, models.BookingCancelled), mongo.ErrNoDocuments)

	got, err := repo.GetByID(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, got.Status)

	byInstructor, err := repo.ListByInstructor(ctx, "inst-1")
	require.NoError(t, err)
	assert.Len(t, byInstructor, 1)
}
