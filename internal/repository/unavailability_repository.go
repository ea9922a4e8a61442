package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tutorlane/backend/internal/model"
	"github.com/tutorlane/backend/internal/repository/base"
	"go.uber.org/zap"
)

// UnavailabilityRepository manages the ad-hoc blocks a teacher places over
// their recurring availability.
type UnavailabilityRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewUnavailabilityRepository(pool *pgxpool.Pool, logger *zap.Logger) *UnavailabilityRepository {
	return &UnavailabilityRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Create inserts a block.
func (r *UnavailabilityRepository) Create(ctx context.Context, u *model.UnavailabilityBlock) error {
	query := `
		INSERT INTO teacher_unavailability (teacher_id, start_at, end_at, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, u.TeacherID, u.StartAt, u.EndAt, u.Reason).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("create unavailability block: %w", err)
	}

	return nil
}

// GetByID returns a block or nil when it does not exist.
func (r *UnavailabilityRepository) GetByID(ctx context.Context, id int64) (*model.UnavailabilityBlock, error) {
	query := `
		SELECT id, teacher_id, start_at, end_at, reason, created_at
		FROM teacher_unavailability
		WHERE id = $1
	`

	var u model.UnavailabilityBlock
	err := r.QueryRow(ctx, query, id).
		Scan(&u.ID, &u.TeacherID, &u.StartAt, &u.EndAt, &u.Reason, &u.CreatedAt)
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get unavailability block by id: %w", err)
	}

	return &u, nil
}

// Delete removes a block. Returns true when a row was deleted.
func (r *UnavailabilityRepository) Delete(ctx context.Context, id int64) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM teacher_unavailability WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete unavailability block: %w", err)
	}
	return affected > 0, nil
}

// GetUnavailableTimes fetches the blocks intersecting [from, to) for slot
// generation. Like booked times, it prefers the get_teacher_unavailable_times
// SQL function and falls back to a direct select when it is unavailable.
func (r *UnavailabilityRepository) GetUnavailableTimes(ctx context.Context, teacherID int64, from, to time.Time) ([]model.UnavailabilityBlock, error) {
	rows, err := r.Query(ctx, `
		SELECT id, teacher_id, start_at, end_at, reason
		FROM get_teacher_unavailable_times($1, $2, $3)
	`, teacherID, from, to)
	if err == nil {
		defer rows.Close()
		blocks, scanErr := collectBlocks(rows)
		if scanErr == nil {
			return blocks, nil
		}
		err = scanErr
	}

	r.logger.Warn("get_teacher_unavailable_times unavailable, falling back to direct select",
		zap.Int64("teacher_id", teacherID),
		zap.Error(err))

	query := `
		SELECT id, teacher_id, start_at, end_at, reason
		FROM teacher_unavailability
		WHERE teacher_id = $1
		  AND start_at < $3
		  AND end_at > $2
		ORDER BY start_at
	`

	rows, err = r.Query(ctx, query, teacherID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get unavailable times fallback: %w", err)
	}
	defer rows.Close()

	return collectBlocks(rows)
}

func collectBlocks(rows pgx.Rows) ([]model.UnavailabilityBlock, error) {
	var blocks []model.UnavailabilityBlock
	for rows.Next() {
		var u model.UnavailabilityBlock
		err := rows.Scan(&u.ID, &u.TeacherID, &u.StartAt, &u.EndAt, &u.Reason)
		if err != nil {
			return nil, fmt.Errorf("scan unavailability block: %w", err)
		}
		blocks = append(blocks, u)
	}
	return blocks, rows.Err()
}
