package model

import (
	"fmt"
	"time"
)

// AvailabilityWindow is a recurring weekly time range during which a teacher
// accepts bookings. StartTime/EndTime are wall-clock times ("15:04:05") that
// repeat every week on Weekday; absolute timestamps only exist once a window
// is combined with a concrete date.
type AvailabilityWindow struct {
	ID          int64     `json:"id"`
	TeacherID   int64     `json:"teacher_id"`
	Weekday     int       `json:"weekday"` // 0 = Sunday, 6 = Saturday
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	SlotMinutes int       `json:"slot_minutes"` // default slicing granularity for this window
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const clockLayout = "15:04:05"

// ParseClock parses a wall-clock string in "15:04:05" form. "15:04" is
// accepted too since the management UI sends times without seconds.
func ParseClock(s string) (time.Time, error) {
	if t, err := time.Parse(clockLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock time %q: %w", s, err)
	}
	return t, nil
}

// ClockAt anchors a wall-clock string onto the calendar day of date, in
// date's location.
func ClockAt(date time.Time, clock string) (time.Time, error) {
	t, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, date.Location()), nil
}

// Validate checks the fields a teacher can set through the management API.
func (w *AvailabilityWindow) Validate() error {
	if w.Weekday < 0 || w.Weekday > 6 {
		return fmt.Errorf("weekday must be 0-6, got %d", w.Weekday)
	}
	if w.SlotMinutes <= 0 {
		return fmt.Errorf("slot_minutes must be positive, got %d", w.SlotMinutes)
	}
	start, err := ParseClock(w.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseClock(w.EndTime)
	if err != nil {
		return err
	}
	if !start.Before(end) {
		return fmt.Errorf("start_time %s must be before end_time %s", w.StartTime, w.EndTime)
	}
	return nil
}
