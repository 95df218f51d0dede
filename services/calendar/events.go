package calendar

import (
	"fmt"
	"strings"
	"time"

	"pilateshub/models"
	"pilateshub/services/schedule"

	"github.com/google/uuid"
)

// uidNamespace seeds the name-based UUIDs used as event UIDs. It must never change,
// otherwise calendar clients see every exported event as new.
var uidNamespace = uuid.MustParse("6f1c8a52-3d4b-4f6e-9a7d-2b5e8c1f0a94")

const uidDomain = "pilateshub"

// EventUID derives a stable UID from the kind and id of the source record.
func EventUID(kind, id string) string {
	return uuid.NewSHA1(uidNamespace, []byte(kind+":"+id)).String() + "@" + uidDomain
}

// EventsFromSchedules expands each schedule into one event per weekly occurrence in
// [from, until). Occurrences are emitted individually rather than as an RRULE so the
// UTC start stays on the class's local wall clock across daylight saving changes.
func EventsFromSchedules(schedules []models.RecurringSchedule, from, until time.Time, location string) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	for _, s := range schedules {
		mins, err := classMinutes(s.StartTime, s.EndTime)
		if err != nil {
			return nil, exportError("schedule %s: %v", s.ID, err)
		}
		starts, err := schedule.Occurrences(s, from, until)
		if err != nil {
			return nil, exportError("schedule %s: %v", s.ID, err)
		}
		for _, start := range starts {
			events = append(events, models.CalendarEvent{
				UID:         EventUID("schedule", s.ID+":"+start.Format("20060102")),
				Title:       s.ClassName,
				Description: scheduleDescription(s),
				Location:    location,
				Start:       start,
				End:         start.Add(time.Duration(mins) * time.Minute),
			})
		}
	}
	return events, nil
}

// EventsFromBookings converts bookings to events. Cancelled bookings are skipped.
// A booking without a date or time range is rejected rather than exported half-empty.
func EventsFromBookings(bookings []models.Booking, location string) ([]models.CalendarEvent, error) {
	events := make([]models.CalendarEvent, 0, len(bookings))
	for _, b := range bookings {
		if b.Status == models.BookingCancelled {
			continue
		}
		start, end, err := BookingInterval(b)
		if err != nil {
			return nil, exportError("booking %s: %v", b.ID, err)
		}
		events = append(events, models.CalendarEvent{
			UID:         EventUID("booking", b.ID),
			Title:       b.ClassName,
			Description: b.Notes,
			Location:    location,
			Start:       start,
			End:         end,
		})
	}
	return events, nil
}

// BookingInterval resolves a booking's wall-clock date and times to absolute instants.
func BookingInterval(b models.Booking) (time.Time, time.Time, error) {
	if b.Date == "" || b.StartTime == "" || b.EndTime == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("missing date, start or end")
	}
	loc, err := schedule.LoadLocation(b.Timezone)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	day, err := time.ParseInLocation("2006-01-02", b.Date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q", b.Date)
	}
	startMin, err := schedule.ParseClock(b.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	mins, err := classMinutes(b.StartTime, b.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), startMin/60, startMin%60, 0, 0, loc)
	return start, start.Add(time.Duration(mins) * time.Minute), nil
}

func classMinutes(start, end string) (int, error) {
	hours, err := schedule.Duration(start, end)
	if err != nil {
		return 0, err
	}
	return int(hours*60 + 0.5), nil
}

func scheduleDescription(s models.RecurringSchedule) string {
	parts := []string{schedule.RecurrenceLabel(s)}
	if len(s.EquipmentTypes) > 0 {
		eq := make([]string, len(s.EquipmentTypes))
		for i, e := range s.EquipmentTypes {
			eq[i] = string(e)
		}
		parts = append(parts, "Equipment: "+strings.Join(eq, ", "))
	}
	if s.InstructorNotes != nil {
		parts = append(parts, *s.InstructorNotes)
	}
	return strings.Join(parts, "\n")
}
