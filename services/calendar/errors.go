package calendar

import "pilateshub/models"

var ErrCalendarExport = &models.ValidationError{Code: models.CodeCalendarExport, Message: "malformed calendar event"}

func exportError(format string, args ...interface{}) error {
	return models.NewValidationError(models.CodeCalendarExport, format, args...)
}
