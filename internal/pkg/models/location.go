package models

import "time"

// Location represents a geographic coordinate
type Location struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// IsZero reports whether the location carries no coordinates. Bookings
// without pickup coordinates are corrupted upstream state and must be
// rejected loudly.
func (l Location) IsZero() bool {
	return l.Latitude == 0 && l.Longitude == 0
}
