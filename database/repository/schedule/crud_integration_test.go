//go:build integration

package scheduleRepo

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

func weeklyClass(id, studioID string, created time.Time) models.RecurringSchedule {
	instructor := "inst-1"
	return models.RecurringSchedule{
		ID:           id,
		StudioID:     studioID,
		ClassName:    "Reformer " + id,
		DayOfWeek:    models.Monday,
		StartTime:    "09:00",
		EndTime:      "10:00",
		InstructorID: &instructor,
		IsActive:     true,
		Timezone:     "Australia/Sydney",
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func TestScheduleRepo_OwnershipFilters(t *testing.T) {
	ctx := context.Background()
	defer setupMongo(t, ctx)()

	repo := NewMongoScheduleRepo()
	require.NoError(t, repo.EnsureIndexes())

	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, repo.Create(ctx, weeklyClass("s-1", "studio-1", now)))
	require.NoError(t, repo.Create(ctx, weeklyClass("s-2", "studio-2", now.Add(time.Second))))

	// Another studio cannot see or touch s-1.
	_, err := repo.GetByID(ctx, "studio-2", "s-1")
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	assert.ErrorIs(t, repo.SetActive(ctx, "studio-2", "s-1", false), mongo.ErrNoDocuments)
	assert.ErrorIs(t, repo.Delete(ctx, "studio-2", "s-1"), mongo.ErrNoDocuments)

	hijack := weeklyClass("s-1", "studio-2", now)
	hijack.ClassName = "Hijacked"
	assert.ErrorIs(t, repo.Replace(ctx, hijack), mongo.ErrNoDocuments)

	got, err := repo.GetByID(ctx, "studio-1", "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Reformer s-1", got.ClassName)
	assert.True(t, got.IsActive)

	// The owner can.
	require.NoError(t, repo.SetActive(ctx, "studio-1", "s-1", false))
	got, err = repo.GetByID(ctx, "studio-1", "s-1")
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	renamed := *got
	renamed.ClassName = "Mat"
	require.NoError(t, repo.Replace(ctx, renamed))
	got, err = repo.GetByID(ctx, "studio-1", "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Mat", got.ClassName)

	require.NoError(t, repo.Delete(ctx, "studio-1", "s-1"))
	_, err = repo.GetByID(ctx, "studio-1", "s-1")
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)

	_, err = repo.GetByID(ctx, "studio-2", "s-2")
	assert.NoError(t, err)
}

func TestScheduleRepo_Lists(t *testing.T) {
	ctx := context.Background()
	defer setupMongo(t, ctx)()

	repo := NewMongoScheduleRepo()
	require.NoError(t, repo.EnsureIndexes())

	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, repo.Create(ctx, weeklyClass("s-2", "studio-1", now.Add(time.Minute))))
	require.NoError(t, repo.Create(ctx, weeklyClass("s-1", "studio-1", now)))
	other := weeklyClass("s-3", "studio-2", now)
	other.InstructorID = nil
	require.NoError(t, repo.Create(ctx, other))

	list, err := repo.ListByStudio(ctx, "studio-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "s-1", list[0].ID)
	assert.Equal(t, "s-2", list[1].ID)

	list, err = repo.ListByInstructor(ctx, "inst-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = repo.ListByStudio(ctx, "studio-3")
	require.NoError(t, err)
	assert.Empty(t, list)
}
