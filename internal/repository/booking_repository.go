package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tutorlane/backend/internal/model"
	"github.com/tutorlane/backend/internal/repository/base"
	"go.uber.org/zap"
)

// exclusionViolation is the SQLSTATE raised by the bookings overlap
// constraint when two callers race for the same interval.
const exclusionViolation = "23P01"

type BookingRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewBookingRepository(pool *pgxpool.Pool, logger *zap.Logger) *BookingRepository {
	return &BookingRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

const bookingColumns = `id, public_id, student_id, teacher_id, start_at, end_at, status, note, created_at, updated_at`

// Create inserts a booking. The bookings table carries an exclusion
// constraint over (teacher_id, interval) for non-canceled rows, so the
// insert is the point where a double-booking race is lost.
func (r *BookingRepository) Create(ctx context.Context, b *model.Booking) error {
	query := `
		INSERT INTO bookings (student_id, teacher_id, start_at, end_at, status, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, public_id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		b.StudentID,
		b.TeacherID,
		b.StartAt,
		b.EndAt,
		b.Status,
		b.Note,
	).Scan(&b.ID, &b.PublicID, &b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// IsOverlapConflict reports whether err is the overlap exclusion constraint
// firing, i.e. the requested interval was taken concurrently.
func IsOverlapConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == exclusionViolation
}

// GetByID returns a booking or nil when it does not exist.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
	`

	b, err := scanBooking(r.QueryRow(ctx, query, id))
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return b, nil
}

// GetByTeacherAndRange returns the teacher's bookings intersecting
// [from, to), newest statuses included; the caller filters canceled ones.
func (r *BookingRepository) GetByTeacherAndRange(ctx context.Context, teacherID int64, from, to time.Time) ([]model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE teacher_id = $1
		  AND start_at < $3
		  AND end_at > $2
		ORDER BY start_at
	`

	rows, err := r.Query(ctx, query, teacherID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get bookings by teacher and range: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// GetByStudentID returns a student's bookings, newest first.
func (r *BookingRepository) GetByStudentID(ctx context.Context, studentID int64) ([]model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE student_id = $1
		ORDER BY start_at DESC
	`

	rows, err := r.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("get bookings by student: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// UpdateStatus transitions a booking and bumps updated_at.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	affected, err := r.ExecAffected(ctx, `
		UPDATE bookings
		SET status = $2, updated_at = now()
		WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update booking status: booking %d not found", id)
	}
	return nil
}

// Move reschedules a booking: interval and status change in one statement
// so a failure can never leave the row moved but in its old status.
func (r *BookingRepository) Move(ctx context.Context, id int64, start, end time.Time, status model.BookingStatus) error {
	affected, err := r.ExecAffected(ctx, `
		UPDATE bookings
		SET start_at = $2, end_at = $3, status = $4, updated_at = now()
		WHERE id = $1
	`, id, start, end, status)
	if err != nil {
		return fmt.Errorf("move booking: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("move booking: booking %d not found", id)
	}
	return nil
}

// CompleteElapsed marks confirmed bookings whose end has passed as
// completed and returns how many rows changed. Run by the background sweep.
func (r *BookingRepository) CompleteElapsed(ctx context.Context, before time.Time) (int64, error) {
	affected, err := r.ExecAffected(ctx, `
		UPDATE bookings
		SET status = 'completed', updated_at = now()
		WHERE status = 'confirmed'
		  AND end_at < $1
	`, before)
	if err != nil {
		return 0, fmt.Errorf("complete elapsed bookings: %w", err)
	}
	return affected, nil
}

// GetBookedTimes fetches the blocking intervals feeding slot generation. It
// calls the get_teacher_booked_times SQL function first and falls back to a
// direct select when the function is unavailable, so a half-migrated or
// restricted database still serves slot queries.
func (r *BookingRepository) GetBookedTimes(ctx context.Context, teacherID int64, from, to time.Time) ([]model.Booking, error) {
	rows, err := r.Query(ctx, `
		SELECT id, student_id, teacher_id, start_at, end_at, status
		FROM get_teacher_booked_times($1, $2, $3)
	`, teacherID, from, to)
	if err == nil {
		defer rows.Close()
		bookings, scanErr := collectBookedTimes(rows)
		if scanErr == nil {
			return bookings, nil
		}
		err = scanErr
	}

	r.logger.Warn("get_teacher_booked_times unavailable, falling back to direct select",
		zap.Int64("teacher_id", teacherID),
		zap.Error(err))

	query := `
		SELECT id, student_id, teacher_id, start_at, end_at, status
		FROM bookings
		WHERE teacher_id = $1
		  AND status <> 'canceled'
		  AND start_at < $3
		  AND end_at > $2
		ORDER BY start_at
	`

	rows, err = r.Query(ctx, query, teacherID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get booked times fallback: %w", err)
	}
	defer rows.Close()

	return collectBookedTimes(rows)
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.PublicID,
		&b.StudentID,
		&b.TeacherID,
		&b.StartAt,
		&b.EndAt,
		&b.Status,
		&b.Note,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]model.Booking, error) {
	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func collectBookedTimes(rows pgx.Rows) ([]model.Booking, error) {
	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		err := rows.Scan(&b.ID, &b.StudentID, &b.TeacherID, &b.StartAt, &b.EndAt, &b.Status)
		if err != nil {
			return nil, fmt.Errorf("scan booked time: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
