package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tutorlane/backend/internal/model"
	"github.com/tutorlane/backend/internal/service"
	"go.uber.org/zap"
)

type AvailabilityHandler struct {
	availability *service.AvailabilityService
	logger       *zap.Logger
}

func NewAvailabilityHandler(availability *service.AvailabilityService, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability, logger: logger}
}

type windowRequest struct {
	Weekday     int    `json:"weekday"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	SlotMinutes int    `json:"slot_minutes"`
	IsActive    *bool  `json:"is_active"`
}

func (req *windowRequest) toModel() *model.AvailabilityWindow {
	w := &model.AvailabilityWindow{
		Weekday:     req.Weekday,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		SlotMinutes: req.SlotMinutes,
		IsActive:    true,
	}
	if req.IsActive != nil {
		w.IsActive = *req.IsActive
	}
	return w
}

// ListWindows returns the teacher's own recurring windows.
func (h *AvailabilityHandler) ListWindows(c *gin.Context) {
	user := CurrentUser(c)

	windows, err := h.availability.ListWindows(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"windows": windows})
}

// CreateWindow adds a recurring window for the authenticated teacher.
func (h *AvailabilityHandler) CreateWindow(c *gin.Context) {
	user := CurrentUser(c)

	var req windowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	w := req.toModel()
	if err := h.availability.CreateWindow(c.Request.Context(), user.ID, w); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, w)
}

// UpdateWindow rewrites one of the teacher's windows.
func (h *AvailabilityHandler) UpdateWindow(c *gin.Context) {
	user := CurrentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window id"})
		return
	}

	var req windowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	w := req.toModel()
	w.ID = id
	if err := h.availability.UpdateWindow(c.Request.Context(), user.ID, w); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, w)
}

// DeleteWindow removes one of the teacher's windows.
func (h *AvailabilityHandler) DeleteWindow(c *gin.Context) {
	user := CurrentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window id"})
		return
	}

	if err := h.availability.DeleteWindow(c.Request.Context(), user.ID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type blockRequest struct {
	StartAt time.Time `json:"start_at" binding:"required"`
	EndAt   time.Time `json:"end_at" binding:"required"`
	Reason  string    `json:"reason"`
}

// CreateBlock adds an ad-hoc unavailability block.
func (h *AvailabilityHandler) CreateBlock(c *gin.Context) {
	user := CurrentUser(c)

	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	block := &model.UnavailabilityBlock{
		StartAt: req.StartAt,
		EndAt:   req.EndAt,
		Reason:  req.Reason,
	}
	if err := h.availability.CreateBlock(c.Request.Context(), user.ID, block); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, block)
}

// DeleteBlock removes one of the teacher's blocks.
func (h *AvailabilityHandler) DeleteBlock(c *gin.Context) {
	user := CurrentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid block id"})
		return
	}

	if err := h.availability.DeleteBlock(c.Request.Context(), user.ID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSlots answers the dashboards' main read: the bookable slots of one
// teacher on one day, optionally re-sliced to a requested duration.
func (h *AvailabilityHandler) GetSlots(c *gin.Context) {
	teacherID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid teacher id"})
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	duration := 0
	if raw := c.Query("duration"); raw != "" {
		duration, err = strconv.Atoi(raw)
		if err != nil || duration <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "duration must be a positive number of minutes"})
			return
		}
	}

	slots, err := h.availability.AvailableSlots(c.Request.Context(), teacherID, date, duration)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if slots == nil {
		slots = []model.TimeSlot{}
	}

	c.JSON(http.StatusOK, gin.H{"date": date.Format("2006-01-02"), "slots": slots})
}
