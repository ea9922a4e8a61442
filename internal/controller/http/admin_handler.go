package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tutorlane/backend/internal/model"
	"go.uber.org/zap"
)

// adminUserStore is the slice of UserRepository the admin panel needs.
type adminUserStore interface {
	List(ctx context.Context, limit, offset int) ([]model.User, error)
	SetRole(ctx context.Context, id int64, role model.UserRole) error
}

type AdminHandler struct {
	users  adminUserStore
	logger *zap.Logger
}

func NewAdminHandler(users adminUserStore, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{users: users, logger: logger}
}

// ListUsers pages through all users for the admin dashboard.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, offset := 50, 0
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}

	users, err := h.users.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// SetRole changes a user's role (e.g. promoting a student to teacher).
func (h *AdminHandler) SetRole(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !model.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be student, teacher or admin"})
		return
	}

	if err := h.users.SetRole(c.Request.Context(), id, model.UserRole(req.Role)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
