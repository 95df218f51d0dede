package calendar

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pilateshub/models"
)

type stubSchedules struct {
	byStudio     map[string][]models.RecurringSchedule
	byInstructor map[string][]models.RecurringSchedule
	calls        int
	afterList    func()
}

func (s *stubSchedules) Create(context.Context, models.RecurringSchedule) error { return nil }
func (s *stubSchedules) GetByID(context.Context, string, string) (*models.RecurringSchedule, error) {
	return nil, nil
}
func (s *stubSchedules) Replace(context.Context, models.RecurringSchedule) error { return nil }
func (s *stubSchedules) SetActive(context.Context, string, string, bool) error { return nil }
func (s *stubSchedules) Delete(context.Context, string, string) error { return nil }
func (s *stubSchedules) EnsureIndexes() error { return nil }
func (s *stubSchedules) ListByStudio(_ context.Context, id string) ([]models.RecurringSchedule, error) {
	s.calls++
	out := s.byStudio[id]
	if s.afterList != nil {
		s.afterList()
	}
	return out, nil
}
func (s *stubSchedules) ListByInstructor(_ context.Context, id string) ([]models.RecurringSchedule, error) {
	return s.byInstructor[id], nil
}

type stubBookings struct {
	byInstructor map[string][]models.Booking
}

func (s *stubBookings) Create(context.Context, models.Booking) error { return nil }
func (s *stubBookings) GetByID(context.Context, string) (*models.Booking, error) {
	return nil, nil
}
func (s *stubBookings) ListByStudio(context.Context, string) ([]models.Booking, error) {
	return nil, nil
}
func (s *stubBookings) ListByInstructor(_ context.Context, id string) ([]models.Booking, error) {
	return s.byInstructor[id], nil
}
func (s *stubBookings) UpdateStatus(context.Context, string, models.BookingStatus, models.BookingStatus) error {
	return nil
}
func (s *stubBookings) EnsureIndexes() error { return nil }

type memoryCache struct {
	data map[string]string
}

func (c *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *memoryCache) Incr(_ context.Context, key string) (int64, error) {
	n, _ := strconv.ParseInt(c.data[key], 10, 64)
	n++
	c.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func newTestCalendarService(schedules *stubSchedules, bookings *stubBookings, cache FeedCache) *DefaultCalendarService {
	svc := NewDefaultCalendarService(schedules, bookings, cache, zap.NewNop(), 2, time.Minute, "Bondi")
	svc.Now = func() time.Time { return time.Date(2025, time.January, 8, 3, 0, 0, 0, time.UTC) }
	return svc
}

func TestStudioFeed_CachesUntilInvalidated(t *testing.T) {
	active := models.RecurringSchedule{ID: "s-1", ClassName: "Mat", DayOfWeek: models.Monday, StartTime: "09:00", EndTime: "10:00", IsActive: true, Timezone: "Australia/Sydney"}
	paused := active
	paused.ID = "s-2"
	paused.ClassName = "Paused Chair"
	paused.IsActive = false

	schedules := &stubSchedules{byStudio: map[string][]models.RecurringSchedule{"studio-1": {active, paused}}}
	cache := &memoryCache{data: map[string]string{}}
	svc := newTestCalendarService(schedules, &stubBookings{}, cache)
	ctx := context.Background()

	doc, err := svc.StudioFeed(ctx, "studio-1")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(doc, "BEGIN:VEVENT"))
	assert.NotContains(t, doc, "Paused Chair")
	assert.Contains(t, doc, "LOCATION:Bondi")

	again, err := svc.StudioFeed(ctx, "studio-1")
	require.NoError(t, err)
	assert.Equal(t, doc, again)
	assert.Equal(t, 1, schedules.calls)

	require.NoError(t, svc.InvalidateStudio(ctx, "studio-1"))
	_, err = svc.StudioFeed(ctx, "studio-1")
	require.NoError(t, err)
	assert.Equal(t, 2, schedules.calls)
}

func TestStudioFeed_InvalidationDuringRenderIsNotServed(t *testing.T) {
	mat := models.RecurringSchedule{ID: "s-1", ClassName: "Mat", DayOfWeek: models.Monday, StartTime: "09:00", EndTime: "10:00", IsActive: true, Timezone: "UTC"}
	schedules := &stubSchedules{byStudio: map[string][]models.RecurringSchedule{"studio-1": {mat}}}
	cache := &memoryCache{data: map[string]string{}}
	svc := newTestCalendarService(schedules, &stubBookings{}, cache)
	ctx := context.Background()

	// A schedule edit lands after the read but before the render is cached.
	schedules.afterList = func() {
		schedules.afterList = nil
		renamed := mat
		renamed.ClassName = "Mat Flow"
		schedules.byStudio["studio-1"] = []models.RecurringSchedule{renamed}
		require.NoError(t, svc.InvalidateStudio(ctx, "studio-1"))
	}

	stale, err := svc.StudioFeed(ctx, "studio-1")
	require.NoError(t, err)
	assert.Contains(t, stale, "SUMMARY:Mat\r\n")

	fresh, err := svc.StudioFeed(ctx, "studio-1")
	require.NoError(t, err)
	assert.Contains(t, fresh, "SUMMARY:Mat Flow")
	assert.Equal(t, 2, schedules.calls)

	cached, err := svc.StudioFeed(ctx, "studio-1")
	require.NoError(t, err)
	assert.Equal(t, fresh, cached)
	assert.Equal(t, 2, schedules.calls)
}

func TestInstructorFeed_MergesSchedulesAndBookings(t *testing.T) {
	instructor := "inst-1"
	sched := models.RecurringSchedule{ID: "s-1", ClassName: "Reformer", DayOfWeek: models.Thursday, StartTime: "18:00", EndTime: "19:00", IsActive: true, InstructorID: &instructor}
	schedules := &stubSchedules{byInstructor: map[string][]models.RecurringSchedule{instructor: {sched}}}
	bookings := &stubBookings{byInstructor: map[string][]models.Booking{instructor: {
		{ID: "b-1", ClassName: "Cover: Mat", Date: "2025-01-10", StartTime: "07:00", EndTime: "08:00", Status: models.BookingScheduled},
	}}}
	svc := newTestCalendarService(schedules, bookings, nil)

	doc, err := svc.InstructorFeed(context.Background(), instructor)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(doc, "BEGIN:VEVENT"))
	assert.Contains(t, doc, "SUMMARY:Cover: Mat")
	assert.Contains(t, doc, "SUMMARY:Reformer")
}
