// Package slots generates bookable time slots for a single calendar day by
// reconciling a teacher's recurring availability windows against existing
// bookings and ad-hoc unavailability blocks.
//
// Generation is pure: no I/O, no clock reads. The caller supplies "now" once
// per invocation, so repeated calls with the same inputs return the same
// slots. All times are expected to be in the same location.
package slots

import (
	"sort"
	"time"

	"github.com/tutorlane/backend/internal/model"
)

// Params are the inputs for one day of slot generation.
type Params struct {
	// Date anchors the absolute timestamps. Its time-of-day component is
	// ignored for weekday resolution.
	Date time.Time

	// Windows is the teacher's recurring availability. Entries that are
	// inactive or fall on a different weekday than Date are skipped.
	Windows []model.AvailabilityWindow

	// Bookings are the teacher's existing reservations around Date.
	// Canceled bookings never block; every other status does.
	Bookings []model.Booking

	// Blocks are ad-hoc unavailability intervals. Existence alone blocks.
	Blocks []model.UnavailabilityBlock

	// DurationMinutes overrides each window's own SlotMinutes when positive.
	DurationMinutes int

	// Now suppresses slots that start in the past when Date is today.
	Now time.Time
}

// Generate returns the bookable slots for p.Date, sorted ascending by start.
//
// Each matching window is walked independently from its start in fixed
// increments of the slice size; a candidate that would poke past the window
// end stops the walk (no short trailing slot). Candidates overlapping a
// blocking booking or an unavailability block are skipped, as are candidates
// starting before Now on Now's own calendar day. Windows on the same weekday
// are not deduplicated against each other.
//
// No well-typed input is an error: empty availability or a fully booked day
// simply yields an empty result. A window whose wall-clock strings do not
// parse, or whose start is not before its end, contributes zero slots.
func Generate(p Params) []model.TimeSlot {
	weekday := int(p.Date.Weekday())
	sameDay := sameCalendarDay(p.Date, p.Now)

	var out []model.TimeSlot
	for _, w := range p.Windows {
		if !w.IsActive || w.Weekday != weekday {
			continue
		}

		windowStart, err := model.ClockAt(p.Date, w.StartTime)
		if err != nil {
			continue
		}
		windowEnd, err := model.ClockAt(p.Date, w.EndTime)
		if err != nil {
			continue
		}

		sliceMinutes := w.SlotMinutes
		if p.DurationMinutes > 0 {
			sliceMinutes = p.DurationMinutes
		}
		if sliceMinutes <= 0 {
			continue
		}
		slice := time.Duration(sliceMinutes) * time.Minute

		for cursor := windowStart; !cursor.Add(slice).After(windowEnd); cursor = cursor.Add(slice) {
			end := cursor.Add(slice)

			if sameDay && cursor.Before(p.Now) {
				continue
			}
			if conflicts(cursor, end, p.Bookings, p.Blocks) {
				continue
			}
			out = append(out, model.NewTimeSlot(cursor, end))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// conflicts reports whether [start, end) overlaps any blocking booking or
// any unavailability block. Intervals are open: touching endpoints do not
// conflict.
func conflicts(start, end time.Time, bookings []model.Booking, blocks []model.UnavailabilityBlock) bool {
	for i := range bookings {
		if bookings[i].IsBlocking() && bookings[i].Overlaps(start, end) {
			return true
		}
	}
	for i := range blocks {
		if blocks[i].Overlaps(start, end) {
			return true
		}
	}
	return false
}

func sameCalendarDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
