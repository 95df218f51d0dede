package models

import "time"

// Weekday is the English weekday name stored on a schedule ("Monday".."Sunday").
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays in display order. Index positions are used by the schedule engine.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// EquipmentType tags what apparatus a class needs.
type EquipmentType string

const (
	EquipmentMat         EquipmentType = "Mat"
	EquipmentReformer    EquipmentType = "Reformer"
	EquipmentCadillac    EquipmentType = "Cadillac"
	EquipmentChair       EquipmentType = "Chair"
	EquipmentBarrel      EquipmentType = "Barrel"
	EquipmentTowers      EquipmentType = "Towers"
	EquipmentSpringboard EquipmentType = "Springboard"
	EquipmentProps       EquipmentType = "Props"
)

var EquipmentVocabulary = map[EquipmentType]bool{
	EquipmentMat:         true,
	EquipmentReformer:    true,
	EquipmentCadillac:    true,
	EquipmentChair:       true,
	EquipmentBarrel:      true,
	EquipmentTowers:      true,
	EquipmentSpringboard: true,
	EquipmentProps:       true,
}

// DefaultTimezone is used when a schedule is created without one.
const DefaultTimezone = "Australia/Sydney"

// RecurringSchedule is a weekly class a studio runs at a fixed day and time.
type RecurringSchedule struct {
	ID              string          `bson:"id" json:"id"`
	StudioID        string          `bson:"studioId" json:"studioId"`
	ClassName       string          `bson:"className" json:"className"`
	DayOfWeek       Weekday         `bson:"dayOfWeek" json:"dayOfWeek"`
	StartTime       string          `bson:"startTime" json:"startTime"` // HH:MM, 24h
	EndTime         string          `bson:"endTime" json:"endTime"`     // HH:MM, 24h
	EquipmentTypes  []EquipmentType `bson:"equipmentTypes" json:"equipmentTypes"`
	InstructorID    *string         `bson:"instructorId,omitempty" json:"instructorId,omitempty"`
	InstructorNotes *string         `bson:"instructorNotes,omitempty" json:"instructorNotes,omitempty"`
	MaxCapacity     *int            `bson:"maxCapacity,omitempty" json:"maxCapacity,omitempty"`
	RatePerHour     *int64          `bson:"ratePerHour,omitempty" json:"ratePerHour,omitempty"` // cents
	IsActive        bool            `bson:"isActive" json:"isActive"`
	Timezone        string          `bson:"timezone" json:"timezone"`
	CreatedAt       time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// ScheduleInput is the create/update payload. Updates replace every field.
type ScheduleInput struct {
	ClassName       string          `json:"className" binding:"required"`
	DayOfWeek       Weekday         `json:"dayOfWeek" binding:"required"`
	StartTime       string          `json:"startTime" binding:"required"`
	EndTime         string          `json:"endTime" binding:"required"`
	EquipmentTypes  []EquipmentType `json:"equipmentTypes" binding:"required,min=1"`
	InstructorID    *string         `json:"instructorId"`
	InstructorNotes *string         `json:"instructorNotes"`
	MaxCapacity     *int            `json:"maxCapacity"`
	RatePerHour     *int64          `json:"ratePerHour"`
	IsActive        *bool           `json:"isActive"`
	Timezone        string          `json:"timezone"`
}

// ScheduleProjection is what the studio dashboard shows for an active class.
type ScheduleProjection struct {
	Schedule        RecurringSchedule `json:"schedule"`
	NextOccurrence  time.Time         `json:"nextOccurrence"`
	RecurrenceLabel string            `json:"recurrenceLabel"`
	TimeRange       string            `json:"timeRange"`
	DurationHours   float64           `json:"durationHours"`
}
