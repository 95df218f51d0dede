package schedule

import (
	"strings"

	"pilateshub/models"
)

// Validate checks every invariant a stored schedule must satisfy.
func Validate(s models.RecurringSchedule) error {
	if strings.TrimSpace(s.ClassName) == "" {
		return models.NewValidationError(models.CodeInvalidSchedule, "class name is required")
	}
	if _, err := DayIndex(s.DayOfWeek); err != nil {
		return err
	}
	mins, err := durationMinutes(s.StartTime, s.EndTime)
	if err != nil {
		return err
	}
	if mins == 0 {
		return models.NewValidationError(models.CodeInvalidTimeRange, "start %s must be before end %s", s.StartTime, s.EndTime)
	}
	if len(s.EquipmentTypes) == 0 {
		return models.NewValidationError(models.CodeInvalidSchedule, "at least one equipment type is required")
	}
	for _, eq := range s.EquipmentTypes {
		if !models.EquipmentVocabulary[eq] {
			return models.NewValidationError(models.CodeInvalidSchedule, "unknown equipment type %q", string(eq))
		}
	}
	if s.MaxCapacity != nil && *s.MaxCapacity <= 0 {
		return models.NewValidationError(models.CodeInvalidSchedule, "max capacity must be positive")
	}
	if s.RatePerHour != nil && *s.RatePerHour < 0 {
		return models.NewValidationError(models.CodeInvalidSchedule, "rate per hour must not be negative")
	}
	if _, err := LoadLocation(s.Timezone); err != nil {
		return err
	}
	return nil
}

// fromInput copies an input payload onto a schedule. Every field is replaced; the
// equipment list is de-duplicated since its order carries no meaning.
func fromInput(s *models.RecurringSchedule, in models.ScheduleInput, defaultTZ string) {
	s.ClassName = strings.TrimSpace(in.ClassName)
	s.DayOfWeek = in.DayOfWeek
	s.StartTime = in.StartTime
	s.EndTime = in.EndTime
	s.EquipmentTypes = dedupeEquipment(in.EquipmentTypes)
	s.InstructorID = emptyToNil(in.InstructorID)
	s.InstructorNotes = emptyToNil(in.InstructorNotes)
	s.MaxCapacity = in.MaxCapacity
	s.RatePerHour = in.RatePerHour
	s.IsActive = true
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	s.Timezone = in.Timezone
	if s.Timezone == "" {
		s.Timezone = defaultTZ
	}
}

func dedupeEquipment(in []models.EquipmentType) []models.EquipmentType {
	seen := make(map[models.EquipmentType]bool, len(in))
	out := make([]models.EquipmentType, 0, len(in))
	for _, eq := range in {
		if !seen[eq] {
			seen[eq] = true
			out = append(out, eq)
		}
	}
	return out
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
