// Package realtime fans booking lifecycle events out to the dashboards.
// Events are snapshots published after the database commit; nothing in slot
// generation consumes them.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BookingEvent is the payload published on a teacher's channel whenever a
// booking is created or changes status.
type BookingEvent struct {
	Type      string    `json:"type"` // booking.created, booking.confirmed, ...
	BookingID uuid.UUID `json:"booking_id"`
	TeacherID int64     `json:"teacher_id"`
	StudentID int64     `json:"student_id"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	Status    string    `json:"status"`
}

// Publisher is the outbound side of the realtime channel.
type Publisher interface {
	PublishBookingEvent(ctx context.Context, ev BookingEvent) error
}

// RedisPublisher publishes events over redis pub/sub, one channel per
// teacher, which the websocket gateway subscribes to.
type RedisPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisPublisher(client *redis.Client, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, logger: logger}
}

func teacherChannel(teacherID int64) string {
	return fmt.Sprintf("bookings:teacher:%d", teacherID)
}

func (p *RedisPublisher) PublishBookingEvent(ctx context.Context, ev BookingEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}

	if err := p.client.Publish(ctx, teacherChannel(ev.TeacherID), payload).Err(); err != nil {
		return fmt.Errorf("publish booking event: %w", err)
	}

	p.logger.Debug("Published booking event",
		zap.String("type", ev.Type),
		zap.Int64("teacher_id", ev.TeacherID))

	return nil
}

// NopPublisher drops events. Used when redis is not configured and in tests.
type NopPublisher struct{}

func (NopPublisher) PublishBookingEvent(context.Context, BookingEvent) error { return nil }
