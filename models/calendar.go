package models

import "time"

// CalendarEvent is a single VEVENT before serialization. Start and End are absolute instants.
type CalendarEvent struct {
	UID         string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}
