package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

type User struct {
	ID        int64     `json:"id"`
	PublicID  uuid.UUID `json:"public_id"` // identifier exposed over the API and carried in tokens
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      UserRole  `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsTeacher reports whether the user can own availability and receive bookings.
func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// IsAdmin reports whether the user can manage other users.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole checks a role string coming from the API or a token claim.
func ValidRole(role string) bool {
	switch UserRole(role) {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}
