package models

import "fmt"

// Validation error codes shared by the schedule, calendar and payment packages.
const (
	CodeInvalidWeekday    = "invalidWeekday"
	CodeInvalidTimeRange  = "invalidTimeRange"
	CodeInvalidAmount     = "invalidAmount"
	CodeInvalidFeeRate    = "invalidFeeRate"
	CodeCalendarExport    = "calendarExportError"
	CodeInvalidSchedule   = "invalidSchedule"
	CodeInvalidTransition = "invalidTransition"
)

// ValidationError is a local input failure. Two ValidationErrors match under
// errors.Is when their codes are equal, so package sentinels can be compared
// against errors carrying extra detail.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Code == e.Code
}

func NewValidationError(code, format string, args ...interface{}) error {
	return &ValidationError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
