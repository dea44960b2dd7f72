package dispatch

import (
	"context"
	"time"

	"github.com/angkut-id/dispatch/internal/pkg/models"
)

// DispatchRepo defines the dispatch persistence operations
type DispatchRepo interface {
	// Booking and assignment state
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	GetActiveAssignment(ctx context.Context, bookingID string) (*models.Assignment, error)
	ListAttemptedDriverIDs(ctx context.Context, bookingID string) ([]string, error)
	GetEligibleDrivers(ctx context.Context, driverIDs []string, minCapacityTons float64) ([]models.Driver, error)

	// Transactional state transitions
	CreateOffer(ctx context.Context, bookingID, driverID string) (*models.Assignment, error)
	AcceptOffer(ctx context.Context, bookingID, driverID string) error
	RejectOffer(ctx context.Context, bookingID, driverID string) error
	RevertExpiredOffer(ctx context.Context, bookingID, driverID string) (bool, error)
	ExpireBooking(ctx context.Context, bookingID string) error
	CancelBookingOffer(ctx context.Context, bookingID string) (string, error)

	// Driver geo index and liveness
	FindNearbyDrivers(ctx context.Context, location models.Location, radiusKm float64) ([]models.NearbyDriver, error)
	UpsertDriverLocation(ctx context.Context, driverID string, location models.Location) error
	RemoveDriverLocation(ctx context.Context, driverID string) error

	// Attempt counters and dispatch locks
	GetAttempt(ctx context.Context, bookingID string) (int, error)
	SetAttempt(ctx context.Context, bookingID string, attempt int, ttl time.Duration) error
	ClearAttempt(ctx context.Context, bookingID string) error
	AcquireLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, bookingID string) error
}
