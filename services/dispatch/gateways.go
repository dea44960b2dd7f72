package dispatch

import (
	"context"

	"github.com/angkut-id/dispatch/internal/pkg/models"
)

// DispatchGW defines the dispatch gateway operations
type DispatchGW interface {
	// Driver-facing notifications, fire and forget
	NotifyOfferCreated(ctx context.Context, notification models.OfferNotification) error
	NotifyOfferRevoked(ctx context.Context, bookingID, driverID string) error

	// Booking lifecycle events for downstream services
	PublishBookingAssigned(ctx context.Context, event models.BookingStatusEvent) error
	PublishBookingConfirmed(ctx context.Context, event models.BookingStatusEvent) error
	PublishBookingExpired(ctx context.Context, event models.BookingStatusEvent) error
}
