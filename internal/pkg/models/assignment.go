package models

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentStatus represents the lifecycle of a single offer
type AssignmentStatus string

const (
	AssignmentStatusOffered      AssignmentStatus = "OFFERED"
	AssignmentStatusAccepted     AssignmentStatus = "ACCEPTED"
	AssignmentStatusRejected     AssignmentStatus = "REJECTED"
	AssignmentStatusAutoRejected AssignmentStatus = "AUTO_REJECTED"
)

// Assignment represents one time-boxed offer of a booking to one driver.
// Rows are append-only; an offer is transitioned, never deleted.
type Assignment struct {
	ID          uuid.UUID        `json:"assignment_id" db:"id"`
	BookingID   uuid.UUID        `json:"booking_id" db:"booking_id"`
	DriverID    uuid.UUID        `json:"driver_id" db:"driver_id"`
	Status      AssignmentStatus `json:"status" db:"status"`
	OfferedAt   time.Time        `json:"offered_at" db:"offered_at"`
	RespondedAt *time.Time       `json:"responded_at,omitempty" db:"responded_at"`
}

// IsActive reports whether this assignment blocks further offers for
// its booking.
func (a *Assignment) IsActive() bool {
	return a.Status == AssignmentStatusOffered || a.Status == AssignmentStatusAccepted
}
