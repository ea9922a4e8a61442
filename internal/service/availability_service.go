package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tutorlane/backend/internal/model"
	"github.com/tutorlane/backend/internal/slots"
	"go.uber.org/zap"
)

// Stores consumed by AvailabilityService. The pgx repositories satisfy
// these; tests use in-memory fakes.
type availabilityStore interface {
	Create(ctx context.Context, w *model.AvailabilityWindow) error
	GetByID(ctx context.Context, id int64) (*model.AvailabilityWindow, error)
	GetByTeacherID(ctx context.Context, teacherID int64) ([]model.AvailabilityWindow, error)
	GetActiveForWeekday(ctx context.Context, teacherID int64, weekday int) ([]model.AvailabilityWindow, error)
	Update(ctx context.Context, w *model.AvailabilityWindow) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type bookedTimesStore interface {
	GetBookedTimes(ctx context.Context, teacherID int64, from, to time.Time) ([]model.Booking, error)
}

type unavailabilityStore interface {
	Create(ctx context.Context, u *model.UnavailabilityBlock) error
	GetByID(ctx context.Context, id int64) (*model.UnavailabilityBlock, error)
	Delete(ctx context.Context, id int64) (bool, error)
	GetUnavailableTimes(ctx context.Context, teacherID int64, from, to time.Time) ([]model.UnavailabilityBlock, error)
}

// AvailabilityService owns a teacher's recurring windows and ad-hoc blocks,
// and answers the dashboards' slot queries.
type AvailabilityService struct {
	availabilityRepo availabilityStore
	bookingRepo      bookedTimesStore
	blockRepo        unavailabilityStore
	logger           *zap.Logger

	// now is swapped out in tests; defaults to time.Now.
	now func() time.Time
}

func NewAvailabilityService(
	availabilityRepo availabilityStore,
	bookingRepo bookedTimesStore,
	blockRepo unavailabilityStore,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		availabilityRepo: availabilityRepo,
		bookingRepo:      bookingRepo,
		blockRepo:        blockRepo,
		logger:           logger,
		now:              time.Now,
	}
}

// AvailableSlots returns the bookable slots for a teacher on one calendar
// day. durationMinutes = 0 keeps each window's own granularity. The three
// inputs are fetched as snapshots and reconciled by the pure generator;
// "now" is read once per call.
func (s *AvailabilityService) AvailableSlots(ctx context.Context, teacherID int64, date time.Time, durationMinutes int) ([]model.TimeSlot, error) {
	if durationMinutes < 0 {
		return nil, fmt.Errorf("%w: duration must not be negative", ErrInvalidInput)
	}

	windows, err := s.availabilityRepo.GetActiveForWeekday(ctx, teacherID, int(date.Weekday()))
	if err != nil {
		return nil, fmt.Errorf("get availability windows: %w", err)
	}
	if len(windows) == 0 {
		// No availability that weekday: a valid empty day, not an error.
		return nil, nil
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	bookings, err := s.bookingRepo.GetBookedTimes(ctx, teacherID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("get booked times: %w", err)
	}

	blocks, err := s.blockRepo.GetUnavailableTimes(ctx, teacherID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("get unavailable times: %w", err)
	}

	generated := slots.Generate(slots.Params{
		Date:            date,
		Windows:         windows,
		Bookings:        bookings,
		Blocks:          blocks,
		DurationMinutes: durationMinutes,
		// Past suppression compares calendar days, so "now" must be
		// expressed in the query date's location.
		Now: s.now().In(date.Location()),
	})

	s.logger.Debug("Generated slots",
		zap.Int64("teacher_id", teacherID),
		zap.String("date", date.Format("2006-01-02")),
		zap.Int("windows", len(windows)),
		zap.Int("slots", len(generated)))

	return generated, nil
}

// CreateWindow adds a recurring window for the teacher.
func (s *AvailabilityService) CreateWindow(ctx context.Context, teacherID int64, w *model.AvailabilityWindow) error {
	w.TeacherID = teacherID
	if err := w.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	if err := s.availabilityRepo.Create(ctx, w); err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	s.logger.Info("Availability window created",
		zap.Int64("window_id", w.ID),
		zap.Int64("teacher_id", teacherID),
		zap.Int("weekday", w.Weekday))

	return nil
}

// ListWindows returns all of the teacher's windows for the management view.
func (s *AvailabilityService) ListWindows(ctx context.Context, teacherID int64) ([]model.AvailabilityWindow, error) {
	return s.availabilityRepo.GetByTeacherID(ctx, teacherID)
}

// UpdateWindow rewrites a window the teacher owns.
func (s *AvailabilityService) UpdateWindow(ctx context.Context, teacherID int64, w *model.AvailabilityWindow) error {
	existing, err := s.availabilityRepo.GetByID(ctx, w.ID)
	if err != nil {
		return fmt.Errorf("get window: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}
	if existing.TeacherID != teacherID {
		return ErrForbidden
	}

	w.TeacherID = teacherID
	if err := w.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	if err := s.availabilityRepo.Update(ctx, w); err != nil {
		return fmt.Errorf("update window: %w", err)
	}

	s.logger.Info("Availability window updated",
		zap.Int64("window_id", w.ID),
		zap.Int64("teacher_id", teacherID))

	return nil
}

// DeleteWindow removes a window the teacher owns.
func (s *AvailabilityService) DeleteWindow(ctx context.Context, teacherID, windowID int64) error {
	existing, err := s.availabilityRepo.GetByID(ctx, windowID)
	if err != nil {
		return fmt.Errorf("get window: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}
	if existing.TeacherID != teacherID {
		return ErrForbidden
	}

	if _, err := s.availabilityRepo.Delete(ctx, windowID); err != nil {
		return fmt.Errorf("delete window: %w", err)
	}

	s.logger.Info("Availability window deleted",
		zap.Int64("window_id", windowID),
		zap.Int64("teacher_id", teacherID))

	return nil
}

// CreateBlock adds an ad-hoc unavailability block.
func (s *AvailabilityService) CreateBlock(ctx context.Context, teacherID int64, u *model.UnavailabilityBlock) error {
	if !u.StartAt.Before(u.EndAt) {
		return fmt.Errorf("%w: start_at must be before end_at", ErrInvalidInput)
	}

	u.TeacherID = teacherID
	if err := s.blockRepo.Create(ctx, u); err != nil {
		return fmt.Errorf("create block: %w", err)
	}

	s.logger.Info("Unavailability block created",
		zap.Int64("block_id", u.ID),
		zap.Int64("teacher_id", teacherID),
		zap.Time("start_at", u.StartAt),
		zap.Time("end_at", u.EndAt))

	return nil
}

// DeleteBlock removes a block the teacher owns.
func (s *AvailabilityService) DeleteBlock(ctx context.Context, teacherID, blockID int64) error {
	existing, err := s.blockRepo.GetByID(ctx, blockID)
	if err != nil {
		return fmt.Errorf("get block: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}
	if existing.TeacherID != teacherID {
		return ErrForbidden
	}

	if _, err := s.blockRepo.Delete(ctx, blockID); err != nil {
		return fmt.Errorf("delete block: %w", err)
	}

	s.logger.Info("Unavailability block deleted",
		zap.Int64("block_id", blockID),
		zap.Int64("teacher_id", teacherID))

	return nil
}
