package gateway

import (
	"context"

	"github.com/angkut-id/dispatch/internal/pkg/constants"
	"github.com/angkut-id/dispatch/internal/pkg/models"
)

// PublishBookingAssigned announces that a booking was offered to a driver.
func (g *DispatchGW) PublishBookingAssigned(ctx context.Context, event models.BookingStatusEvent) error {
	return g.natsClient.Publish(constants.SubjectBookingAssigned, event)
}

// PublishBookingConfirmed announces that a driver accepted a booking.
func (g *DispatchGW) PublishBookingConfirmed(ctx context.Context, event models.BookingStatusEvent) error {
	return g.natsClient.Publish(constants.SubjectBookingConfirmed, event)
}

// PublishBookingExpired announces that dispatch gave up on a booking.
func (g *DispatchGW) PublishBookingExpired(ctx context.Context, event models.BookingStatusEvent) error {
	return g.natsClient.Publish(constants.SubjectBookingExpired, event)
}
