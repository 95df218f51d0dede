package schedule

import (
	"errors"

	"pilateshub/models"
)

var (
	ErrInvalidWeekday   = &models.ValidationError{Code: models.CodeInvalidWeekday, Message: "unknown weekday"}
	ErrInvalidTimeRange = &models.ValidationError{Code: models.CodeInvalidTimeRange, Message: "invalid time range"}
	ErrInvalidSchedule  = &models.ValidationError{Code: models.CodeInvalidSchedule, Message: "invalid schedule"}

	ErrScheduleNotFound = errors.New("schedule not found")
)
