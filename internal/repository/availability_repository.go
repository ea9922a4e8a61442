package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tutorlane/backend/internal/model"
	"github.com/tutorlane/backend/internal/repository/base"
)

// AvailabilityRepository manages teacher_availability rows: the recurring
// weekly windows the slot generator reads.
type AvailabilityRepository struct {
	*base.Repository
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{Repository: base.NewRepository(pool)}
}

const availabilityColumns = `id, teacher_id, weekday, start_time::text, end_time::text, slot_minutes, is_active, created_at, updated_at`

// Create inserts a new window and fills in the generated fields.
func (r *AvailabilityRepository) Create(ctx context.Context, w *model.AvailabilityWindow) error {
	query := `
		INSERT INTO teacher_availability (teacher_id, weekday, start_time, end_time, slot_minutes, is_active)
		VALUES ($1, $2, $3::time, $4::time, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		w.TeacherID,
		w.Weekday,
		w.StartTime,
		w.EndTime,
		w.SlotMinutes,
		w.IsActive,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create availability window: %w", err)
	}

	return nil
}

// GetByID returns a window or nil when it does not exist.
func (r *AvailabilityRepository) GetByID(ctx context.Context, id int64) (*model.AvailabilityWindow, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM teacher_availability
		WHERE id = $1
	`

	w, err := scanAvailability(r.QueryRow(ctx, query, id))
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get availability window by id: %w", err)
	}

	return w, nil
}

// GetByTeacherID returns all of a teacher's windows, active or not, ordered
// by weekday then start time for the management screens.
func (r *AvailabilityRepository) GetByTeacherID(ctx context.Context, teacherID int64) ([]model.AvailabilityWindow, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM teacher_availability
		WHERE teacher_id = $1
		ORDER BY weekday, start_time
	`

	rows, err := r.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get availability by teacher: %w", err)
	}
	defer rows.Close()

	return collectAvailability(rows)
}

// GetActiveForWeekday returns the active windows feeding slot generation for
// one day of the week.
func (r *AvailabilityRepository) GetActiveForWeekday(ctx context.Context, teacherID int64, weekday int) ([]model.AvailabilityWindow, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM teacher_availability
		WHERE teacher_id = $1
		  AND weekday = $2
		  AND is_active = true
		ORDER BY start_time
	`

	rows, err := r.Query(ctx, query, teacherID, weekday)
	if err != nil {
		return nil, fmt.Errorf("get active availability for weekday: %w", err)
	}
	defer rows.Close()

	return collectAvailability(rows)
}

// Update rewrites the editable fields of a window.
func (r *AvailabilityRepository) Update(ctx context.Context, w *model.AvailabilityWindow) error {
	query := `
		UPDATE teacher_availability
		SET weekday = $2, start_time = $3::time, end_time = $4::time,
		    slot_minutes = $5, is_active = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.QueryRow(
		ctx, query,
		w.ID,
		w.Weekday,
		w.StartTime,
		w.EndTime,
		w.SlotMinutes,
		w.IsActive,
	).Scan(&w.UpdatedAt)

	if err != nil {
		return fmt.Errorf("update availability window: %w", err)
	}

	return nil
}

// Delete removes a window. Returns true when a row was deleted.
func (r *AvailabilityRepository) Delete(ctx context.Context, id int64) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM teacher_availability WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete availability window: %w", err)
	}
	return affected > 0, nil
}

func scanAvailability(row pgx.Row) (*model.AvailabilityWindow, error) {
	var w model.AvailabilityWindow
	err := row.Scan(
		&w.ID,
		&w.TeacherID,
		&w.Weekday,
		&w.StartTime,
		&w.EndTime,
		&w.SlotMinutes,
		&w.IsActive,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func collectAvailability(rows pgx.Rows) ([]model.AvailabilityWindow, error) {
	var windows []model.AvailabilityWindow
	for rows.Next() {
		w, err := scanAvailability(rows)
		if err != nil {
			return nil, fmt.Errorf("scan availability window: %w", err)
		}
		windows = append(windows, *w)
	}
	return windows, rows.Err()
}
