// File: database/repository/schedule/interface.go
package scheduleRepo

import (
	"context"

	"pilateshub/database"
	"pilateshub/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type ScheduleRepository interface {
	Create(ctx context.Context, s models.RecurringSchedule) error
	GetByID(ctx context.Context, studioID, id string) (*models.RecurringSchedule, error)
	Replace(ctx context.Context, s models.RecurringSchedule) error
	SetActive(ctx context.Context, studioID, id string, active bool) error
	Delete(ctx context.Context, studioID, id string) error
	ListByStudio(ctx context.Context, studioID string) ([]models.RecurringSchedule, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]models.RecurringSchedule, error)
	EnsureIndexes() error
}

type mongoScheduleRepo struct {
	coll *mongo.Collection
}

// NewMongoScheduleRepo constructs a MongoDB-backed ScheduleRepository.
func NewMongoScheduleRepo() ScheduleRepository {
	return &mongoScheduleRepo{
		coll: database.DB().Collection("schedules"),
	}
}
