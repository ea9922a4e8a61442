package app

import (
	"context"
	"time"

	"github.com/tutorlane/backend/internal/service"
	"go.uber.org/zap"
)

// Scheduler runs the periodic maintenance tasks.
type Scheduler struct {
	bookingService *service.BookingService
	logger         *zap.Logger
	stopChan       chan struct{}
}

func NewScheduler(bookingService *service.BookingService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		bookingService: bookingService,
		logger:         logger,
		stopChan:       make(chan struct{}),
	}
}

// Start launches the background tasks.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runLessonCompletionTask(ctx)
}

// Stop stops the background tasks.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runLessonCompletionTask periodically marks confirmed bookings whose end
// time has passed as completed, so dashboards and history stay accurate
// without teachers closing each lesson by hand.
func (s *Scheduler) runLessonCompletionTask(ctx context.Context) {
	// First run right at startup.
	s.completeLessons(ctx)

	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.completeLessons(ctx)
		case <-s.stopChan:
			s.logger.Info("Lesson completion task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Lesson completion task cancelled")
			return
		}
	}
}

func (s *Scheduler) completeLessons(ctx context.Context) {
	if err := s.bookingService.CompleteElapsedLessons(ctx); err != nil {
		s.logger.Error("Failed to complete elapsed lessons", zap.Error(err))
	}
}
