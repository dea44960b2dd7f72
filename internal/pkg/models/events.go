package models

import "time"

// BookingEvent is published by the booking lifecycle service when a
// booking is created or cancelled.
type BookingEvent struct {
	BookingID string    `json:"booking_id"`
	Timestamp time.Time `json:"timestamp"`
}

// BeaconEvent is emitted while a driver app is online and sharing its
// position. An inactive beacon removes the driver from the geo index.
type BeaconEvent struct {
	DriverID  string    `json:"driver_id"`
	IsActive  bool      `json:"is_active"`
	Location  Location  `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}

// OfferNotification is delivered to the driver app when an offer is
// created or revoked.
type OfferNotification struct {
	AssignmentID string    `json:"assignment_id"`
	BookingID    string    `json:"booking_id"`
	DriverID     string    `json:"driver_id"`
	Pickup       Location  `json:"pickup"`
	Dropoff      Location  `json:"dropoff"`
	WeightTons   float64   `json:"weight_tons"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// BookingStatusEvent announces a dispatch-driven booking transition to
// the rest of the platform.
type BookingStatusEvent struct {
	BookingID string        `json:"booking_id"`
	DriverID  string        `json:"driver_id,omitempty"`
	Status    BookingStatus `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
}
