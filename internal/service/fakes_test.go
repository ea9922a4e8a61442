package service

import (
	"context"
	"time"

	"github.com/tutorlane/backend/internal/model"
)

// In-memory stand-ins for the pgx repositories. They keep everything in
// slices and mimic the repositories' "nil, nil when missing" contract.

type fakeAvailabilityRepo struct {
	windows []model.AvailabilityWindow
	nextID  int64
}

func (f *fakeAvailabilityRepo) Create(_ context.Context, w *model.AvailabilityWindow) error {
	f.nextID++
	w.ID = f.nextID
	f.windows = append(f.windows, *w)
	return nil
}

func (f *fakeAvailabilityRepo) GetByID(_ context.Context, id int64) (*model.AvailabilityWindow, error) {
	for i := range f.windows {
		if f.windows[i].ID == id {
			w := f.windows[i]
			return &w, nil
		}
	}
	return nil, nil
}

func (f *fakeAvailabilityRepo) GetByTeacherID(_ context.Context, teacherID int64) ([]model.AvailabilityWindow, error) {
	var out []model.AvailabilityWindow
	for _, w := range f.windows {
		if w.TeacherID == teacherID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) GetActiveForWeekday(_ context.Context, teacherID int64, weekday int) ([]model.AvailabilityWindow, error) {
	var out []model.AvailabilityWindow
	for _, w := range f.windows {
		if w.TeacherID == teacherID && w.Weekday == weekday && w.IsActive {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) Update(_ context.Context, w *model.AvailabilityWindow) error {
	for i := range f.windows {
		if f.windows[i].ID == w.ID {
			f.windows[i] = *w
			return nil
		}
	}
	return nil
}

func (f *fakeAvailabilityRepo) Delete(_ context.Context, id int64) (bool, error) {
	for i := range f.windows {
		if f.windows[i].ID == id {
			f.windows = append(f.windows[:i], f.windows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeBookingRepo struct {
	bookings []model.Booking
	nextID   int64
}

func (f *fakeBookingRepo) Create(_ context.Context, b *model.Booking) error {
	f.nextID++
	b.ID = f.nextID
	f.bookings = append(f.bookings, *b)
	return nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*model.Booking, error) {
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			b := f.bookings[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) GetByTeacherAndRange(_ context.Context, teacherID int64, from, to time.Time) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.bookings {
		if b.TeacherID == teacherID && b.StartAt.Before(to) && from.Before(b.EndAt) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) GetByStudentID(_ context.Context, studentID int64) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.bookings {
		if b.StudentID == studentID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status model.BookingStatus) error {
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			f.bookings[i].Status = status
			return nil
		}
	}
	return nil
}

func (f *fakeBookingRepo) Move(_ context.Context, id int64, start, end time.Time, status model.BookingStatus) error {
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			f.bookings[i].StartAt = start
			f.bookings[i].EndAt = end
			f.bookings[i].Status = status
			return nil
		}
	}
	return nil
}

func (f *fakeBookingRepo) CompleteElapsed(_ context.Context, before time.Time) (int64, error) {
	var count int64
	for i := range f.bookings {
		if f.bookings[i].Status == model.BookingStatusConfirmed && f.bookings[i].EndAt.Before(before) {
			f.bookings[i].Status = model.BookingStatusCompleted
			count++
		}
	}
	return count, nil
}

// GetBookedTimes mirrors the SQL function: non-canceled rows intersecting
// the range.
func (f *fakeBookingRepo) GetBookedTimes(_ context.Context, teacherID int64, from, to time.Time) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.bookings {
		if b.TeacherID == teacherID && b.IsBlocking() && b.StartAt.Before(to) && from.Before(b.EndAt) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeBlockRepo struct {
	blocks []model.UnavailabilityBlock
	nextID int64
}

func (f *fakeBlockRepo) Create(_ context.Context, u *model.UnavailabilityBlock) error {
	f.nextID++
	u.ID = f.nextID
	f.blocks = append(f.blocks, *u)
	return nil
}

func (f *fakeBlockRepo) GetByID(_ context.Context, id int64) (*model.UnavailabilityBlock, error) {
	for i := range f.blocks {
		if f.blocks[i].ID == id {
			u := f.blocks[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeBlockRepo) Delete(_ context.Context, id int64) (bool, error) {
	for i := range f.blocks {
		if f.blocks[i].ID == id {
			f.blocks = append(f.blocks[:i], f.blocks[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBlockRepo) GetUnavailableTimes(_ context.Context, teacherID int64, from, to time.Time) ([]model.UnavailabilityBlock, error) {
	var out []model.UnavailabilityBlock
	for _, u := range f.blocks {
		if u.TeacherID == teacherID && u.StartAt.Before(to) && from.Before(u.EndAt) {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users []model.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}
