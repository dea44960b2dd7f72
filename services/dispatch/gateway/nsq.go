package gateway

import (
	"context"
	"time"

	"github.com/angkut-id/dispatch/internal/pkg/constants"
	"github.com/angkut-id/dispatch/internal/pkg/models"
)

// offerRevokedMessage tells the driver app to withdraw an offer screen.
type offerRevokedMessage struct {
	BookingID string    `json:"booking_id"`
	DriverID  string    `json:"driver_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NotifyOfferCreated pushes a new offer to the driver app. Delivery is
// fire and forget; the offer timeout covers a lost notification.
func (g *DispatchGW) NotifyOfferCreated(ctx context.Context, notification models.OfferNotification) error {
	return g.nsqProducer.PublishAsync(constants.TopicDriverOffer, notification, nil)
}

// NotifyOfferRevoked tells the driver app an offer is no longer valid.
func (g *DispatchGW) NotifyOfferRevoked(ctx context.Context, bookingID, driverID string) error {
	msg := offerRevokedMessage{
		BookingID: bookingID,
		DriverID:  driverID,
		Timestamp: time.Now(),
	}
	return g.nsqProducer.PublishAsync(constants.TopicDriverOfferRevoked, msg, nil)
}
