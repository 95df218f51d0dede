package calendar

import (
	"context"
	"fmt"
	"time"

	bookingRepo "pilateshub/database/repository/booking"
	scheduleRepo "pilateshub/database/repository/schedule"
	"pilateshub/models"

	"go.uber.org/zap"
)

type CalendarService interface {
	StudioFeed(ctx context.Context, studioID string) (string, error)
	InstructorFeed(ctx context.Context, instructorID string) (string, error)
	InvalidateStudio(ctx context.Context, studioID string) error
}

// DefaultCalendarService renders iCal feeds from stored schedules and bookings.
type DefaultCalendarService struct {
	Schedules scheduleRepo.ScheduleRepository
	Bookings  bookingRepo.BookingRepository
	Cache     FeedCache
	Logger    *zap.Logger
	Horizon   time.Duration
	TTL       time.Duration
	Location  string
	Now       func() time.Time
}

func NewDefaultCalendarService(
	schedules scheduleRepo.ScheduleRepository,
	bookings bookingRepo.BookingRepository,
	cache FeedCache,
	logger *zap.Logger,
	horizonWeeks int,
	ttl time.Duration,
	location string,
) *DefaultCalendarService {
	if horizonWeeks <= 0 {
		horizonWeeks = 8
	}
	return &DefaultCalendarService{
		Schedules: schedules,
		Bookings:  bookings,
		Cache:     cache,
		Logger:    logger,
		Horizon:   time.Duration(horizonWeeks) * 7 * 24 * time.Hour,
		TTL:       ttl,
		Location:  location,
		Now:       time.Now,
	}
}

// StudioFeed exports the studio's active classes over the configured horizon. The
// rendered document is cached until a schedule changes or the TTL passes.
func (s *DefaultCalendarService) StudioFeed(ctx context.Context, studioID string) (string, error) {
	key := ""
	if s.Cache != nil {
		version, err := feedVersion(ctx, s.Cache, studioID)
		if err != nil {
			s.Logger.Warn("calendar cache version read failed", zap.String("studioID", studioID), zap.Error(err))
		} else {
			key = studioFeedKey(studioID, version)
		}
	}
	if key != "" {
		if doc, ok, err := s.Cache.Get(ctx, key); err != nil {
			s.Logger.Warn("calendar cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return doc, nil
		}
	}

	schedules, err := s.Schedules.ListByStudio(ctx, studioID)
	if err != nil {
		return "", fmt.Errorf("failed to load schedules: %w", err)
	}
	now := s.Now()
	events, err := EventsFromSchedules(activeOnly(schedules), now, now.Add(s.Horizon), s.Location)
	if err != nil {
		return "", err
	}
	doc, err := GenerateICalContent(events)
	if err != nil {
		return "", err
	}

	if key != "" {
		if err := s.Cache.Set(ctx, key, doc, s.TTL); err != nil {
			s.Logger.Warn("calendar cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return doc, nil
}

// InstructorFeed exports the instructor's assigned classes and booked cover sessions.
func (s *DefaultCalendarService) InstructorFeed(ctx context.Context, instructorID string) (string, error) {
	schedules, err := s.Schedules.ListByInstructor(ctx, instructorID)
	if err != nil {
		return "", fmt.Errorf("failed to load schedules: %w", err)
	}
	bookings, err := s.Bookings.ListByInstructor(ctx, instructorID)
	if err != nil {
		return "", fmt.Errorf("failed to load bookings: %w", err)
	}

	now := s.Now()
	events, err := EventsFromSchedules(activeOnly(schedules), now, now.Add(s.Horizon), s.Location)
	if err != nil {
		return "", err
	}
	bookingEvents, err := EventsFromBookings(bookings, s.Location)
	if err != nil {
		return "", err
	}
	return GenerateICalContent(append(events, bookingEvents...))
}

// InvalidateStudio bumps the studio's feed version. Documents cached under older
// versions are never read again and expire with their TTL.
func (s *DefaultCalendarService) InvalidateStudio(ctx context.Context, studioID string) error {
	if s.Cache == nil {
		return nil
	}
	_, err := s.Cache.Incr(ctx, studioVersionKey(studioID))
	return err
}

func activeOnly(in []models.RecurringSchedule) []models.RecurringSchedule {
	out := make([]models.RecurringSchedule, 0, len(in))
	for _, s := range in {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out
}
