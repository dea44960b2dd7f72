package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the current status of a booking
type BookingStatus string

const (
	BookingStatusPending        BookingStatus = "PENDING"
	BookingStatusDriverAssigned BookingStatus = "DRIVER_ASSIGNED"
	BookingStatusConfirmed      BookingStatus = "CONFIRMED"
	BookingStatusPickedUp       BookingStatus = "PICKED_UP"
	BookingStatusInTransit      BookingStatus = "IN_TRANSIT"
	BookingStatusDelivered      BookingStatus = "DELIVERED"
	BookingStatusCancelled      BookingStatus = "CANCELLED"
	BookingStatusExpired        BookingStatus = "EXPIRED"
)

// Booking represents a shipment request placed by a customer
type Booking struct {
	ID               uuid.UUID     `json:"booking_id" db:"id"`
	CustomerID       uuid.UUID     `json:"customer_id" db:"customer_id"`
	Status           BookingStatus `json:"status" db:"status"`
	PickupLocation   Location      `json:"pickup_location" db:"pickup_location"`
	DropoffLocation  Location      `json:"dropoff_location" db:"dropoff_location"`
	WeightTons       float64       `json:"weight_tons" db:"weight_tons"`
	AssignedDriverID *uuid.UUID    `json:"assigned_driver_id,omitempty" db:"assigned_driver_id"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
	CancelledAt      *time.Time    `json:"cancelled_at,omitempty" db:"cancelled_at"`
	ExpiredAt        *time.Time    `json:"expired_at,omitempty" db:"expired_at"`
}

// IsDispatchable reports whether the dispatch loop may still evaluate
// candidates for this booking.
func (b *Booking) IsDispatchable() bool {
	return b.Status == BookingStatusPending
}

// BookingDTO is used for database operations to flatten the nested Location structs
type BookingDTO struct {
	ID               uuid.UUID     `db:"id"`
	CustomerID       uuid.UUID     `db:"customer_id"`
	Status           BookingStatus `db:"status"`
	PickupLongitude  float64       `db:"pickup_longitude"`
	PickupLatitude   float64       `db:"pickup_latitude"`
	DropoffLongitude float64       `db:"dropoff_longitude"`
	DropoffLatitude  float64       `db:"dropoff_latitude"`
	WeightTons       float64       `db:"weight_tons"`
	AssignedDriverID *uuid.UUID    `db:"assigned_driver_id"`
	CreatedAt        time.Time     `db:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at"`
	CancelledAt      *time.Time    `db:"cancelled_at"`
	ExpiredAt        *time.Time    `db:"expired_at"`
}

// ToBooking converts a BookingDTO to a Booking
func (dto *BookingDTO) ToBooking() *Booking {
	return &Booking{
		ID:         dto.ID,
		CustomerID: dto.CustomerID,
		Status:     dto.Status,
		PickupLocation: Location{
			Latitude:  dto.PickupLatitude,
			Longitude: dto.PickupLongitude,
		},
		DropoffLocation: Location{
			Latitude:  dto.DropoffLatitude,
			Longitude: dto.DropoffLongitude,
		},
		WeightTons:       dto.WeightTons,
		AssignedDriverID: dto.AssignedDriverID,
		CreatedAt:        dto.CreatedAt,
		UpdatedAt:        dto.UpdatedAt,
		CancelledAt:      dto.CancelledAt,
		ExpiredAt:        dto.ExpiredAt,
	}
}
