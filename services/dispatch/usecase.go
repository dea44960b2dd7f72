package dispatch

import (
	"context"

	"github.com/angkut-id/dispatch/internal/pkg/models"
)

// DispatchUC defines the dispatch usecase operations
type DispatchUC interface {
	// Event entry points
	OnBookingCreated(ctx context.Context, event models.BookingEvent) error
	OnBookingCancelled(ctx context.Context, event models.BookingEvent) error
	HandleDriverBeacon(ctx context.Context, event models.BeaconEvent) error

	// Driver responses to an outstanding offer
	OnDriverAccept(ctx context.Context, bookingID, driverID string) error
	OnDriverReject(ctx context.Context, bookingID, driverID string) error

	// HandleJob dispatches a scheduled job payload to the matching handler
	HandleJob(ctx context.Context, payload models.JobPayload) error
}
