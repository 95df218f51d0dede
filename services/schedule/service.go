package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	scheduleRepo "pilateshub/database/repository/schedule"
	"pilateshub/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// FeedInvalidator drops cached calendar output for a studio after its classes change.
type FeedInvalidator interface {
	InvalidateStudio(ctx context.Context, studioID string) error
}

type ScheduleService interface {
	Create(ctx context.Context, studioID string, in models.ScheduleInput) (*models.RecurringSchedule, error)
	Update(ctx context.Context, studioID, id string, in models.ScheduleInput) (*models.RecurringSchedule, error)
	SetActive(ctx context.Context, studioID, id string, active bool) error
	Delete(ctx context.Context, studioID, id string) error
	Get(ctx context.Context, studioID, id string) (*models.RecurringSchedule, error)
	ListByStudio(ctx context.Context, studioID string) ([]models.RecurringSchedule, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]models.RecurringSchedule, error)
	Upcoming(ctx context.Context, studioID string, ref time.Time) ([]models.ScheduleProjection, error)
}

// DefaultScheduleService is the production implementation.
type DefaultScheduleService struct {
	Repo            scheduleRepo.ScheduleRepository
	Feeds           FeedInvalidator
	Logger          *zap.Logger
	DefaultTimezone string
	Now             func() time.Time
}

func NewDefaultScheduleService(repo scheduleRepo.ScheduleRepository, feeds FeedInvalidator, logger *zap.Logger, defaultTZ string) *DefaultScheduleService {
	if defaultTZ == "" {
		defaultTZ = models.DefaultTimezone
	}
	return &DefaultScheduleService{
		Repo:            repo,
		Feeds:           feeds,
		Logger:          logger,
		DefaultTimezone: defaultTZ,
		Now:             time.Now,
	}
}

func (s *DefaultScheduleService) Create(ctx context.Context, studioID string, in models.ScheduleInput) (*models.RecurringSchedule, error) {
	now := s.Now()
	sched := models.RecurringSchedule{
		ID:        uuid.New().String(),
		StudioID:  studioID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	fromInput(&sched, in, s.DefaultTimezone)
	if err := Validate(sched); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, sched); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	s.invalidate(ctx, studioID)
	s.Logger.Info("schedule created",
		zap.String("studioID", studioID),
		zap.String("scheduleID", sched.ID),
		zap.String("day", string(sched.DayOfWeek)))
	return &sched, nil
}

func (s *DefaultScheduleService) Update(ctx context.Context, studioID, id string, in models.ScheduleInput) (*models.RecurringSchedule, error) {
	existing, err := s.Get(ctx, studioID, id)
	if err != nil {
		return nil, err
	}
	updated := models.RecurringSchedule{
		ID:        existing.ID,
		StudioID:  existing.StudioID,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: s.Now(),
	}
	fromInput(&updated, in, s.DefaultTimezone)
	if in.IsActive == nil {
		updated.IsActive = existing.IsActive
	}
	if err := Validate(updated); err != nil {
		return nil, err
	}
	if err := s.Repo.Replace(ctx, updated); err != nil {
		return nil, notFound(err, "failed to update schedule")
	}
	s.invalidate(ctx, studioID)
	return &updated, nil
}

func (s *DefaultScheduleService) SetActive(ctx context.Context, studioID, id string, active bool) error {
	if err := s.Repo.SetActive(ctx, studioID, id, active); err != nil {
		return notFound(err, "failed to toggle schedule")
	}
	s.invalidate(ctx, studioID)
	return nil
}

func (s *DefaultScheduleService) Delete(ctx context.Context, studioID, id string) error {
	if err := s.Repo.Delete(ctx, studioID, id); err != nil {
		return notFound(err, "failed to delete schedule")
	}
	s.invalidate(ctx, studioID)
	s.Logger.Info("schedule deleted", zap.String("studioID", studioID), zap.String("scheduleID", id))
	return nil
}

func (s *DefaultScheduleService) Get(ctx context.Context, studioID, id string) (*models.RecurringSchedule, error) {
	sched, err := s.Repo.GetByID(ctx, studioID, id)
	if err != nil {
		return nil, notFound(err, "failed to load schedule")
	}
	return sched, nil
}

func (s *DefaultScheduleService) ListByStudio(ctx context.Context, studioID string) ([]models.RecurringSchedule, error) {
	return s.Repo.ListByStudio(ctx, studioID)
}

func (s *DefaultScheduleService) ListByInstructor(ctx context.Context, instructorID string) ([]models.RecurringSchedule, error) {
	return s.Repo.ListByInstructor(ctx, instructorID)
}

// Upcoming projects every active class of a studio onto its next occurrence,
// earliest first. Inactive classes are left out.
func (s *DefaultScheduleService) Upcoming(ctx context.Context, studioID string, ref time.Time) ([]models.ScheduleProjection, error) {
	if ref.IsZero() {
		ref = s.Now()
	}
	all, err := s.Repo.ListByStudio(ctx, studioID)
	if err != nil {
		return nil, err
	}
	return Project(all, ref, s.Logger), nil
}

// Project builds dashboard projections for active schedules. Schedules that fail
// to project are logged and skipped so one bad record cannot hide the rest.
func Project(schedules []models.RecurringSchedule, ref time.Time, logger *zap.Logger) []models.ScheduleProjection {
	out := make([]models.ScheduleProjection, 0, len(schedules))
	for _, sched := range schedules {
		if !sched.IsActive {
			continue
		}
		next, err := NextOccurrence(sched, ref)
		if err != nil {
			logger.Warn("skipping schedule projection", zap.String("scheduleID", sched.ID), zap.Error(err))
			continue
		}
		hours, err := Duration(sched.StartTime, sched.EndTime)
		if err != nil {
			logger.Warn("skipping schedule projection", zap.String("scheduleID", sched.ID), zap.Error(err))
			continue
		}
		out = append(out, models.ScheduleProjection{
			Schedule:        sched,
			NextOccurrence:  next,
			RecurrenceLabel: RecurrenceLabel(sched),
			TimeRange:       FormatScheduleTime(sched.StartTime, sched.EndTime),
			DurationHours:   hours,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NextOccurrence.Before(out[j].NextOccurrence)
	})
	return out
}

func (s *DefaultScheduleService) invalidate(ctx context.Context, studioID string) {
	if s.Feeds == nil {
		return
	}
	if err := s.Feeds.InvalidateStudio(ctx, studioID); err != nil {
		s.Logger.Warn("failed to invalidate studio calendar feed", zap.String("studioID", studioID), zap.Error(err))
	}
}

func notFound(err error, msg string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrScheduleNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
