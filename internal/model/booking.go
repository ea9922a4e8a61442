package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending     BookingStatus = "pending"     // waiting for teacher confirmation
	BookingStatusConfirmed   BookingStatus = "confirmed"   // accepted by the teacher
	BookingStatusCanceled    BookingStatus = "canceled"    // canceled by either side
	BookingStatusCompleted   BookingStatus = "completed"   // lesson took place
	BookingStatusRescheduled BookingStatus = "rescheduled" // moved to a different slot
)

type Booking struct {
	ID        int64         `json:"id"`
	PublicID  uuid.UUID     `json:"public_id"`
	StudentID int64         `json:"student_id"`
	TeacherID int64         `json:"teacher_id"`
	StartAt   time.Time     `json:"start_at"`
	EndAt     time.Time     `json:"end_at"`
	Status    BookingStatus `json:"status"`
	Note      string        `json:"note"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Convenience fields, populated on some reads, not stored on bookings.
	Student *User `json:"student,omitempty"`
	Teacher *User `json:"teacher,omitempty"`
}

// IsBlocking reports whether this booking occupies the teacher's time for
// slot generation. Only canceled bookings release their interval.
func (b *Booking) IsBlocking() bool {
	return b.Status != BookingStatusCanceled
}

// Overlaps tests the booking interval against [start, end) as open intervals.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartAt.Before(end) && start.Before(b.EndAt)
}
