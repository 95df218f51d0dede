package schedule

import (
	"context"
	"testing"
	"time"

	"pilateshub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type memScheduleRepo struct {
	byID map[string]models.RecurringSchedule
}

func (m *memScheduleRepo) Create(_ context.Context, s models.RecurringSchedule) error {
	m.byID[s.ID] = s
	return nil
}

func (m *memScheduleRepo) GetByID(_ context.Context, studioID, id string) (*models.RecurringSchedule, error) {
	s, ok := m.byID[id]
	if !ok || s.StudioID != studioID {
		return nil, mongo.ErrNoDocuments
	}
	return &s, nil
}

func (m *memScheduleRepo) Replace(_ context.Context, s models.RecurringSchedule) error {
	if existing, ok := m.byID[s.ID]; !ok || existing.StudioID != s.StudioID {
		return mongo.ErrNoDocuments
	}
	m.byID[s.ID] = s
	return nil
}

func (m *memScheduleRepo) SetActive(_ context.Context, studioID, id string, active bool) error {
	s, ok := m.byID[id]
	if !ok || s.StudioID != studioID {
		return mongo.ErrNoDocuments
	}
	s.IsActive = active
	m.byID[id] = s
	return nil
}

func (m *memScheduleRepo) Delete(_ context.Context, studioID, id string) error {
	s, ok := m.byID[id]
	if !ok || s.StudioID != studioID {
		return mongo.ErrNoDocuments
	}
	delete(m.byID, id)
	return nil
}

func (m *memScheduleRepo) ListByStudio(_ context.Context, studioID string) ([]models.RecurringSchedule, error) {
	var out []models.RecurringSchedule
	for _, s := range m.byID {
		if s.StudioID == studioID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memScheduleRepo) ListByInstructor(_ context.Context, instructorID string) ([]models.RecurringSchedule, error) {
	var out []models.RecurringSchedule
	for _, s := range m.byID {
		if s.InstructorID != nil && *s.InstructorID == instructorID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memScheduleRepo) EnsureIndexes() error { return nil }

type recordingInvalidator struct {
	studios []string
}

func (r *recordingInvalidator) InvalidateStudio(_ context.Context, studioID string) error {
	r.studios = append(r.studios, studioID)
	return nil
}

func newTestScheduleService() (*DefaultScheduleService, *memScheduleRepo, *recordingInvalidator) {
	repo := &memScheduleRepo{byID: map[string]models.RecurringSchedule{}}
	feeds := &recordingInvalidator{}
	svc := NewDefaultScheduleService(repo, feeds, zap.NewNop(), "")
	svc.Now = func() time.Time { return time.Date(2025, time.January, 8, 3, 0, 0, 0, time.UTC) }
	return svc, repo, feeds
}

func input(day models.Weekday, start, end string) models.ScheduleInput {
	return models.ScheduleInput{
		ClassName:      "  Reformer Flow ",
		DayOfWeek:      day,
		StartTime:      start,
		EndTime:        end,
		EquipmentTypes: []models.EquipmentType{models.EquipmentReformer, models.EquipmentReformer, models.EquipmentProps},
	}
}

func TestCreate(t *testing.T) {
	svc, repo, feeds := newTestScheduleService()
	blank := " "
	in := input(models.Monday, "09:00", "10:00")
	in.InstructorNotes = &blank

	s, err := svc.Create(context.Background(), "studio-1", in)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "Reformer Flow", s.ClassName)
	assert.Equal(t, []models.EquipmentType{models.EquipmentReformer, models.EquipmentProps}, s.EquipmentTypes)
	assert.True(t, s.IsActive)
	assert.Equal(t, models.DefaultTimezone, s.Timezone)
	assert.Nil(t, s.InstructorNotes)
	assert.Contains(t, repo.byID, s.ID)
	assert.Equal(t, []string{"studio-1"}, feeds.studios)
}

func TestCreate_Invalid(t *testing.T) {
	svc, repo, feeds := newTestScheduleService()

	_, err := svc.Create(context.Background(), "studio-1", input("Funday", "09:00", "10:00"))
	assert.ErrorIs(t, err, ErrInvalidWeekday)

	_, err = svc.Create(context.Background(), "studio-1", input(models.Monday, "10:00", "09:00"))
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	assert.Empty(t, repo.byID)
	assert.Empty(t, feeds.studios)
}

func TestUpdate_ReplacesAndKeepsActiveFlag(t *testing.T) {
	svc, _, _ := newTestScheduleService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "studio-1", input(models.Monday, "09:00", "10:00"))
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(ctx, "studio-1", created.ID, false))

	notes := "Bring grip socks"
	in := input(models.Wednesday, "18:00", "18:45")
	in.InstructorNotes = &notes
	updated, err := svc.Update(ctx, "studio-1", created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, models.Wednesday, updated.DayOfWeek)
	assert.False(t, updated.IsActive)
	require.NotNil(t, updated.InstructorNotes)
	assert.Equal(t, notes, *updated.InstructorNotes)
}

func TestOwnershipIsEnforced(t *testing.T) {
	svc, _, _ := newTestScheduleService()
	ctx := context.Background()
	created, err := svc.Create(ctx, "studio-1", input(models.Monday, "09:00", "10:00"))
	require.NoError(t, err)

	_, err = svc.Get(ctx, "studio-2", created.ID)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
	_, err = svc.Update(ctx, "studio-2", created.ID, input(models.Monday, "09:00", "10:00"))
	assert.ErrorIs(t, err, ErrScheduleNotFound)
	assert.ErrorIs(t, svc.SetActive(ctx, "studio-2", created.ID, false), ErrScheduleNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "studio-2", created.ID), ErrScheduleNotFound)

	require.NoError(t, svc.Delete(ctx, "studio-1", created.ID))
	_, err = svc.Get(ctx, "studio-1", created.ID)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestUpcoming(t *testing.T) {
	svc, repo, _ := newTestScheduleService()
	ctx := context.Background()

	mon, err := svc.Create(ctx, "studio-1", input(models.Monday, "09:00", "10:00"))
	require.NoError(t, err)
	thu, err := svc.Create(ctx, "studio-1", input(models.Thursday, "18:00", "19:30"))
	require.NoError(t, err)
	paused, err := svc.Create(ctx, "studio-1", input(models.Friday, "07:00", "08:00"))
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(ctx, "studio-1", paused.ID, false))

	// A corrupt record must not hide the others.
	broken := *mon
	broken.ID = "broken"
	broken.DayOfWeek = "Caturday"
	repo.byID[broken.ID] = broken

	// Wednesday 8 January 2025, 14:00 in Sydney.
	loc, err := time.LoadLocation("Australia/Sydney")
	require.NoError(t, err)
	got, err := svc.Upcoming(ctx, "studio-1", time.Date(2025, time.January, 8, 14, 0, 0, 0, loc))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, thu.ID, got[0].Schedule.ID)
	assert.True(t, got[0].NextOccurrence.Equal(time.Date(2025, time.January, 9, 18, 0, 0, 0, loc)))
	assert.Equal(t, "Every Thursday at 18:00", got[0].RecurrenceLabel)
	assert.Equal(t, "18:00 - 19:30", got[0].TimeRange)
	assert.Equal(t, 1.5, got[0].DurationHours)

	assert.Equal(t, mon.ID, got[1].Schedule.ID)
	assert.True(t, got[1].NextOccurrence.Equal(time.Date(2025, time.January, 13, 9, 0, 0, 0, loc)))
}

func TestUpcoming_ZeroRefUsesNow(t *testing.T) {
	svc, _, _ := newTestScheduleService()
	ctx := context.Background()
	_, err := svc.Create(ctx, "studio-1", input(models.Monday, "09:00", "10:00"))
	require.NoError(t, err)

	got, err := svc.Upcoming(ctx, "studio-1", time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].NextOccurrence.Before(svc.Now()))
}
