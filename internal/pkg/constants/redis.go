package constants

// Redis key formats
const (
	// Geo index
	KeyDriverGeo      = "driver:geo"         // GeoHash set of all live driver locations
	KeyDriverLocation = "driver:location:%s" // Format: driver:location:{driver_id}
	KeyDriverLive     = "driver:live:%s"     // Expiring liveness marker, absence means stale

	// Dispatch state
	KeyDispatchAttempt = "dispatch:attempt:%s" // Format: dispatch:attempt:{booking_id}
	KeyDispatchLock    = "dispatch:lock:%s"    // Format: dispatch:lock:{booking_id}
)

// Redis hash fields
const (
	FieldLatitude  = "lat"
	FieldLongitude = "lng"
	FieldGeohash   = "geohash"
	FieldTimestamp = "ts"
)
