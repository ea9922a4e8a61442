package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tutorlane/backend/internal/model"
	"github.com/tutorlane/backend/internal/realtime"
	"github.com/tutorlane/backend/internal/repository"
	"go.uber.org/zap"
)

type bookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	GetByTeacherAndRange(ctx context.Context, teacherID int64, from, to time.Time) ([]model.Booking, error)
	GetByStudentID(ctx context.Context, studentID int64) ([]model.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error
	Move(ctx context.Context, id int64, start, end time.Time, status model.BookingStatus) error
	CompleteElapsed(ctx context.Context, before time.Time) (int64, error)
}

type userStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// slotSource answers "is this interval currently bookable". Implemented by
// AvailabilityService.
type slotSource interface {
	AvailableSlots(ctx context.Context, teacherID int64, date time.Time, durationMinutes int) ([]model.TimeSlot, error)
}

// BookingService creates bookings against generated slots and drives their
// status transitions. Slot generation and booking persistence stay
// decoupled: the race between two students picking the same slot is settled
// by the bookings overlap constraint, not here.
type BookingService struct {
	bookingRepo bookingStore
	userRepo    userStore
	slotsSource slotSource
	events      realtime.Publisher
	logger      *zap.Logger

	now func() time.Time
}

func NewBookingService(
	bookingRepo bookingStore,
	userRepo userStore,
	slotsSource slotSource,
	events realtime.Publisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		slotsSource: slotsSource,
		events:      events,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateBooking reserves an interval for a student. The interval must be one
// of the teacher's currently generatable slots; the booking starts out
// pending and waits for the teacher's confirmation.
func (s *BookingService) CreateBooking(ctx context.Context, studentID, teacherID int64, start, end time.Time, note string) (*model.Booking, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start_at must be before end_at", ErrInvalidInput)
	}
	if start.Before(s.now()) {
		return nil, fmt.Errorf("%w: slot is in the past", ErrInvalidInput)
	}

	teacher, err := s.userRepo.GetByID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	if teacher == nil || !teacher.IsTeacher() {
		return nil, fmt.Errorf("%w: teacher %d", ErrNotFound, teacherID)
	}

	duration := int(end.Sub(start) / time.Minute)
	available, err := s.slotsSource.AvailableSlots(ctx, teacherID, start, duration)
	if err != nil {
		return nil, fmt.Errorf("check availability: %w", err)
	}
	if !containsSlot(available, start, end) {
		return nil, ErrSlotUnavailable
	}

	booking := &model.Booking{
		StudentID: studentID,
		TeacherID: teacherID,
		StartAt:   start,
		EndAt:     end,
		Status:    model.BookingStatusPending,
		Note:      note,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		if repository.IsOverlapConflict(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.logger.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("student_id", studentID),
		zap.Int64("teacher_id", teacherID),
		zap.Time("start_at", start))

	s.publish(ctx, "booking.created", booking)

	return booking, nil
}

// Confirm moves a pending booking to confirmed. Teacher (owner) or admin.
func (s *BookingService) Confirm(ctx context.Context, actor *model.User, bookingID int64) (*model.Booking, error) {
	return s.transition(ctx, actor, bookingID, model.BookingStatusConfirmed, "booking.confirmed",
		func(b *model.Booking) error {
			if actor.ID != b.TeacherID && !actor.IsAdmin() {
				return ErrForbidden
			}
			if b.Status != model.BookingStatusPending {
				return ErrInvalidTransition
			}
			return nil
		})
}

// Cancel releases a booking's interval. The student or teacher who owns it,
// or an admin, may cancel while it is pending or confirmed.
func (s *BookingService) Cancel(ctx context.Context, actor *model.User, bookingID int64) (*model.Booking, error) {
	return s.transition(ctx, actor, bookingID, model.BookingStatusCanceled, "booking.canceled",
		func(b *model.Booking) error {
			if actor.ID != b.StudentID && actor.ID != b.TeacherID && !actor.IsAdmin() {
				return ErrForbidden
			}
			if b.Status != model.BookingStatusPending && b.Status != model.BookingStatusConfirmed {
				return ErrInvalidTransition
			}
			return nil
		})
}

// Complete marks a confirmed booking as held. Teacher (owner) or admin.
func (s *BookingService) Complete(ctx context.Context, actor *model.User, bookingID int64) (*model.Booking, error) {
	return s.transition(ctx, actor, bookingID, model.BookingStatusCompleted, "booking.completed",
		func(b *model.Booking) error {
			if actor.ID != b.TeacherID && !actor.IsAdmin() {
				return ErrForbidden
			}
			if b.Status != model.BookingStatusConfirmed {
				return ErrInvalidTransition
			}
			return nil
		})
}

// Reschedule moves a pending or confirmed booking to a new interval that
// must itself be a generatable slot. The row keeps blocking its (new)
// interval under the rescheduled status. Teacher (owner) or admin.
func (s *BookingService) Reschedule(ctx context.Context, actor *model.User, bookingID int64, start, end time.Time) (*model.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if actor.ID != booking.TeacherID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if booking.Status != model.BookingStatusPending && booking.Status != model.BookingStatusConfirmed {
		return nil, ErrInvalidTransition
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start_at must be before end_at", ErrInvalidInput)
	}

	duration := int(end.Sub(start) / time.Minute)
	available, err := s.slotsSource.AvailableSlots(ctx, booking.TeacherID, start, duration)
	if err != nil {
		return nil, fmt.Errorf("check availability: %w", err)
	}
	if !containsSlot(available, start, end) {
		return nil, ErrSlotUnavailable
	}

	if err := s.bookingRepo.Move(ctx, bookingID, start, end, model.BookingStatusRescheduled); err != nil {
		if repository.IsOverlapConflict(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("move booking: %w", err)
	}

	booking.StartAt = start
	booking.EndAt = end
	booking.Status = model.BookingStatusRescheduled

	s.logger.Info("Booking rescheduled",
		zap.Int64("booking_id", bookingID),
		zap.Time("start_at", start),
		zap.Time("end_at", end))

	s.publish(ctx, "booking.rescheduled", booking)

	return booking, nil
}

// CompleteElapsedLessons marks confirmed bookings that already ended as
// completed. Invoked periodically by the background scheduler.
func (s *BookingService) CompleteElapsedLessons(ctx context.Context) error {
	count, err := s.bookingRepo.CompleteElapsed(ctx, s.now())
	if err != nil {
		return fmt.Errorf("complete elapsed lessons: %w", err)
	}
	if count > 0 {
		s.logger.Info("Completed elapsed lessons", zap.Int64("count", count))
	}
	return nil
}

// BookingsForStudent lists a student's own bookings.
func (s *BookingService) BookingsForStudent(ctx context.Context, studentID int64) ([]model.Booking, error) {
	return s.bookingRepo.GetByStudentID(ctx, studentID)
}

// BookingsForTeacher lists a teacher's bookings intersecting [from, to).
func (s *BookingService) BookingsForTeacher(ctx context.Context, teacherID int64, from, to time.Time) ([]model.Booking, error) {
	return s.bookingRepo.GetByTeacherAndRange(ctx, teacherID, from, to)
}

func (s *BookingService) getBooking(ctx context.Context, id int64) (*model.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, ErrNotFound
	}
	return booking, nil
}

func (s *BookingService) transition(
	ctx context.Context,
	actor *model.User,
	bookingID int64,
	to model.BookingStatus,
	event string,
	allow func(*model.Booking) error,
) (*model.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := allow(booking); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, to); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	booking.Status = to

	s.logger.Info("Booking status changed",
		zap.Int64("booking_id", bookingID),
		zap.Int64("actor_id", actor.ID),
		zap.String("status", string(to)))

	s.publish(ctx, event, booking)

	return booking, nil
}

// publish sends the event best-effort; a realtime outage never fails the
// booking operation itself.
func (s *BookingService) publish(ctx context.Context, eventType string, b *model.Booking) {
	ev := realtime.BookingEvent{
		Type:      eventType,
		BookingID: b.PublicID,
		TeacherID: b.TeacherID,
		StudentID: b.StudentID,
		StartAt:   b.StartAt,
		EndAt:     b.EndAt,
		Status:    string(b.Status),
	}
	if err := s.events.PublishBookingEvent(ctx, ev); err != nil {
		s.logger.Warn("Failed to publish booking event",
			zap.String("type", eventType),
			zap.Int64("booking_id", b.ID),
			zap.Error(err))
	}
}

func containsSlot(slots []model.TimeSlot, start, end time.Time) bool {
	for _, s := range slots {
		if s.Start.Equal(start) && s.End.Equal(end) {
			return true
		}
	}
	return false
}
