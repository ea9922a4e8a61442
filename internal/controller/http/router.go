// Package httpapi exposes the dashboards' JSON API: slot queries, teacher
// availability management, bookings and the admin panel.
package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tutorlane/backend/internal/model"
)

type RouterConfig struct {
	Environment string
	JWTSecret   string
	CORSOrigins string // comma-separated; empty allows any origin (dev)
}

// NewRouter assembles the gin engine with middleware and all routes.
func NewRouter(
	cfg RouterConfig,
	users userDirectory,
	availability *AvailabilityHandler,
	bookings *BookingHandler,
	admin *AdminHandler,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.CORSOrigins == "" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(cfg.CORSOrigins, ",")
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(AuthMiddleware(cfg.JWTSecret, users))

	// Slot queries are readable by every authenticated role.
	api.GET("/teachers/:id/slots", availability.GetSlots)

	teacherOnly := api.Group("")
	teacherOnly.Use(RequireRole(model.RoleTeacher))
	{
		teacherOnly.GET("/availability", availability.ListWindows)
		teacherOnly.POST("/availability", availability.CreateWindow)
		teacherOnly.PUT("/availability/:id", availability.UpdateWindow)
		teacherOnly.DELETE("/availability/:id", availability.DeleteWindow)

		teacherOnly.POST("/unavailability", availability.CreateBlock)
		teacherOnly.DELETE("/unavailability/:id", availability.DeleteBlock)
	}

	api.GET("/bookings", bookings.List)
	api.POST("/bookings", RequireRole(model.RoleStudent), bookings.Create)
	api.POST("/bookings/:id/confirm", bookings.Confirm)
	api.POST("/bookings/:id/cancel", bookings.Cancel)
	api.POST("/bookings/:id/complete", bookings.Complete)
	api.POST("/bookings/:id/reschedule", bookings.Reschedule)

	adminOnly := api.Group("/admin")
	adminOnly.Use(RequireRole(model.RoleAdmin))
	{
		adminOnly.GET("/users", admin.ListUsers)
		adminOnly.PUT("/users/:id/role", admin.SetRole)
	}

	return r
}
