package models

import (
	"time"

	"github.com/google/uuid"
)

// DriverStatus represents the dispatch-visible state of a driver
type DriverStatus string

const (
	DriverStatusAvailable   DriverStatus = "AVAILABLE"
	DriverStatusRideOffered DriverStatus = "RIDE_OFFERED"
	DriverStatusOnRide      DriverStatus = "ON_RIDE"
	DriverStatusOffline     DriverStatus = "OFFLINE"
)

// Driver represents a driver with the vehicle capability data dispatch needs
type Driver struct {
	ID            uuid.UUID    `json:"driver_id" db:"id"`
	FullName      string       `json:"full_name" db:"full_name"`
	DriverStatus  DriverStatus `json:"driver_status" db:"driver_status"`
	IsActive      bool         `json:"is_active" db:"is_active"`
	IsVerified    bool         `json:"is_verified" db:"is_verified"`
	QualityScore  float64      `json:"quality_score" db:"quality_score"`
	MaxWeightTons float64      `json:"max_weight_tons" db:"max_weight_tons"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" db:"updated_at"`
}

// NearbyDriver represents a driver returned by the geo index with
// the distance from the pickup point
type NearbyDriver struct {
	ID         string   `json:"id"`
	Location   Location `json:"location"`
	DistanceKm float64  `json:"distance_km"`
}

// CandidateDriver joins the geo index result with the relational driver row
type CandidateDriver struct {
	Driver     *Driver  `json:"driver"`
	Location   Location `json:"location"`
	DistanceKm float64  `json:"distance_km"`
	Score      float64  `json:"score"`
}
