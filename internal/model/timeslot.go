package model

import (
	"fmt"
	"time"
)

// TimeSlot is a candidate bookable interval produced by slot generation.
// It is ephemeral: slots are recomputed on demand and never persisted.
type TimeSlot struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Label           string    `json:"label"`
	DurationMinutes int       `json:"duration_minutes"`
}

// NewTimeSlot builds a slot with its rendered label and duration.
func NewTimeSlot(start, end time.Time) TimeSlot {
	return TimeSlot{
		Start:           start,
		End:             end,
		Label:           FormatTimeRange(start, end),
		DurationMinutes: int(end.Sub(start) / time.Minute),
	}
}

// FormatTimeRange renders an interval as "15:04-16:04".
func FormatTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s-%s", start.Format("15:04"), end.Format("15:04"))
}
