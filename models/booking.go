package models

import "time"

type BookingStatus string

const (
	BookingScheduled BookingStatus = "scheduled"
	BookingCompleted BookingStatus = "completed"
	BookingBilled    BookingStatus = "billed"
	BookingPaid      BookingStatus = "paid"
	BookingCancelled BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingScheduled: {BookingCompleted, BookingCancelled},
	BookingCompleted: {BookingBilled, BookingCancelled},
	BookingBilled:    {BookingPaid},
}

// CanTransition reports whether a booking may move from s to next.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking is one instructor engagement for a single class occurrence.
type Booking struct {
	ID           string        `bson:"id" json:"id"`
	StudioID     string        `bson:"studioId" json:"studioId"`
	InstructorID string        `bson:"instructorId" json:"instructorId"`
	ScheduleID   string        `bson:"scheduleId,omitempty" json:"scheduleId,omitempty"`
	ClassName    string        `bson:"className" json:"className"`
	Date         string        `bson:"date" json:"date"`           // YYYY-MM-DD in Timezone
	StartTime    string        `bson:"startTime" json:"startTime"` // HH:MM
	EndTime      string        `bson:"endTime" json:"endTime"`     // HH:MM
	Timezone     string        `bson:"timezone" json:"timezone"`
	AmountTotal  int64         `bson:"amountTotal" json:"amountTotal"` // cents
	Status       BookingStatus `bson:"status" json:"status"`
	Notes        string        `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
}

type BookingInput struct {
	ScheduleID   string `json:"scheduleId"`
	InstructorID string `json:"instructorId" binding:"required"`
	ClassName    string `json:"className"`
	Date         string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime    string `json:"startTime" binding:"omitempty,clock"`
	EndTime      string `json:"endTime" binding:"omitempty,clock"`
	Timezone     string `json:"timezone"`
	AmountTotal  *int64 `json:"amountTotal" binding:"omitempty,min=0"`
	Notes        string `json:"notes"`
}
