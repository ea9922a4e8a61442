package model

import "time"

// UnavailabilityBlock is a one-off interval during which the teacher is not
// bookable regardless of recurring availability. There is no status: the
// row's existence alone blocks the interval.
type UnavailabilityBlock struct {
	ID        int64     `json:"id"`
	TeacherID int64     `json:"teacher_id"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// Overlaps tests the block against [start, end) as open intervals.
func (u *UnavailabilityBlock) Overlaps(start, end time.Time) bool {
	return u.StartAt.Before(end) && start.Before(u.EndAt)
}
