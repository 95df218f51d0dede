package schedule

import (
	"fmt"
	"strconv"
	"time"

	"pilateshub/models"
)

// DayIndex maps a weekday name onto 0 (Monday) .. 6 (Sunday).
func DayIndex(day models.Weekday) (int, error) {
	for i, d := range models.Weekdays {
		if d == day {
			return i, nil
		}
	}
	return 0, models.NewValidationError(models.CodeInvalidWeekday, "unknown weekday %q", string(day))
}

// mondayIndex converts time.Weekday (Sunday = 0) to the Monday-first index.
func mondayIndex(wd time.Weekday) int {
	return (int(wd) - int(time.Monday) + 7) % 7
}

// ParseClock parses a zero-padded "HH:MM" wall-clock time into minutes after midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, models.NewValidationError(models.CodeInvalidTimeRange, "time %q is not HH:MM", s)
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return 0, models.NewValidationError(models.CodeInvalidTimeRange, "time %q has an invalid hour", s)
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil || m < 0 || m > 59 {
		return 0, models.NewValidationError(models.CodeInvalidTimeRange, "time %q has an invalid minute", s)
	}
	return h*60 + m, nil
}

// LoadLocation resolves a schedule timezone, falling back to the platform default when empty.
func LoadLocation(tz string) (*time.Location, error) {
	if tz == "" {
		tz = models.DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, models.NewValidationError(models.CodeInvalidSchedule, "unknown timezone %q", tz)
	}
	return loc, nil
}

// NextOccurrence returns the next start of the class at or after ref, computed on the
// wall clock of the schedule's timezone. A slot that starts later today is returned as
// today; one whose HH:MM is already behind ref rolls over to next week. A zero ref means now.
func NextOccurrence(s models.RecurringSchedule, ref time.Time) (time.Time, error) {
	target, err := DayIndex(s.DayOfWeek)
	if err != nil {
		return time.Time{}, err
	}
	startMin, err := ParseClock(s.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	loc, err := LoadLocation(s.Timezone)
	if err != nil {
		return time.Time{}, err
	}
	if ref.IsZero() {
		ref = time.Now()
	}

	local := ref.In(loc)
	daysUntil := (target - mondayIndex(local.Weekday()) + 7) % 7
	next := atClock(local.Year(), local.Month(), local.Day()+daysUntil, startMin, loc)
	if next.Before(ref) {
		next = atClock(local.Year(), local.Month(), local.Day()+daysUntil+7, startMin, loc)
	}
	return next, nil
}

// Occurrences lists every class start in [from, until).
func Occurrences(s models.RecurringSchedule, from, until time.Time) ([]time.Time, error) {
	first, err := NextOccurrence(s, from)
	if err != nil {
		return nil, err
	}
	startMin, _ := ParseClock(s.StartTime)
	loc, _ := LoadLocation(s.Timezone)

	var out []time.Time
	local := first.In(loc)
	for week := 0; ; week++ {
		t := atClock(local.Year(), local.Month(), local.Day()+7*week, startMin, loc)
		if !t.Before(until) {
			break
		}
		out = append(out, t)
	}
	return out, nil
}

// atClock builds the instant for a calendar day at minutes-after-midnight. time.Date
// normalizes day overflow, so callers can add days without worrying about month ends.
func atClock(year int, month time.Month, day, minutes int, loc *time.Location) time.Time {
	return time.Date(year, month, day, minutes/60, minutes%60, 0, 0, loc)
}

// FormatScheduleTime renders a time range as "09:00 - 10:30".
func FormatScheduleTime(start, end string) string {
	return fmt.Sprintf("%s - %s", start, end)
}

// RecurrenceLabel renders "Every Monday at 09:00".
func RecurrenceLabel(s models.RecurringSchedule) string {
	return fmt.Sprintf("Every %s at %s", s.DayOfWeek, s.StartTime)
}

// Duration returns the class length in hours.
func Duration(start, end string) (float64, error) {
	mins, err := durationMinutes(start, end)
	if err != nil {
		return 0, err
	}
	return float64(mins) / 60, nil
}

func durationMinutes(start, end string) (int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	if e < s {
		return 0, models.NewValidationError(models.CodeInvalidTimeRange, "end %s is before start %s", end, start)
	}
	return e - s, nil
}
