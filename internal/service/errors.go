package service

import "errors"

var (
	// ErrNotFound means the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the acting user may not touch the entity.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput means a request failed upstream validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSlotUnavailable means the requested interval is not among the
	// teacher's currently bookable slots.
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrSlotTaken means another booking won the race for the interval.
	ErrSlotTaken = errors.New("slot already taken")

	// ErrInvalidTransition means the booking status does not allow the
	// requested transition.
	ErrInvalidTransition = errors.New("invalid status transition")
)
