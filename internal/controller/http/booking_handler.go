package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tutorlane/backend/internal/model"
	"github.com/tutorlane/backend/internal/service"
	"go.uber.org/zap"
)

type BookingHandler struct {
	bookings *service.BookingService
	logger   *zap.Logger
}

func NewBookingHandler(bookings *service.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, logger: logger}
}

type createBookingRequest struct {
	TeacherID int64     `json:"teacher_id" binding:"required"`
	StartAt   time.Time `json:"start_at" binding:"required"`
	EndAt     time.Time `json:"end_at" binding:"required"`
	Note      string    `json:"note"`
}

// Create books a slot for the authenticated student.
func (h *BookingHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), user.ID, req.TeacherID, req.StartAt, req.EndAt, req.Note)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// List returns the caller's bookings: a student sees their own, a teacher
// sees the bookings on their calendar for an optional ?from/?to range.
func (h *BookingHandler) List(c *gin.Context) {
	user := CurrentUser(c)

	var (
		bookings []model.Booking
		err      error
	)
	if user.IsTeacher() {
		from, to, rangeErr := parseRange(c)
		if rangeErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": rangeErr.Error()})
			return
		}
		bookings, err = h.bookings.BookingsForTeacher(c.Request.Context(), user.ID, from, to)
	} else {
		bookings, err = h.bookings.BookingsForStudent(c.Request.Context(), user.ID)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// Confirm, Cancel and Complete are thin wrappers over the service's status
// transitions; authorization lives in the service.

func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, h.bookings.Confirm)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	h.transition(c, h.bookings.Cancel)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	h.transition(c, h.bookings.Complete)
}

type rescheduleRequest struct {
	StartAt time.Time `json:"start_at" binding:"required"`
	EndAt   time.Time `json:"end_at" binding:"required"`
}

// Reschedule moves a booking to a new bookable interval.
func (h *BookingHandler) Reschedule(c *gin.Context) {
	user := CurrentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookings.Reschedule(c.Request.Context(), user, id, req.StartAt, req.EndAt)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) transition(c *gin.Context, fn func(ctx context.Context, actor *model.User, id int64) (*model.Booking, error)) {
	user := CurrentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, err := fn(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// parseRange reads ?from/?to dates, defaulting to the coming four weeks.
func parseRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 28)

	var err error
	if raw := c.Query("from"); raw != "" {
		from, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if raw := c.Query("to"); raw != "" {
		to, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}
