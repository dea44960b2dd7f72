package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/angkut-id/dispatch/internal/pkg/constants"
	"github.com/angkut-id/dispatch/internal/pkg/models"
	natspkg "github.com/angkut-id/dispatch/internal/pkg/nats"
	"github.com/angkut-id/dispatch/services/dispatch"
)

const queueGroup = "dispatch-service"

// DispatchHandler handles NATS subscriptions for the dispatch service
type DispatchHandler struct {
	dispatchUC dispatch.DispatchUC
	natsClient *natspkg.Client
	subs       []*nats.Subscription
}

// NewDispatchHandler creates a new dispatch NATS handler
func NewDispatchHandler(dispatchUC dispatch.DispatchUC, natsClient *natspkg.Client) *DispatchHandler {
	return &DispatchHandler{
		dispatchUC: dispatchUC,
		natsClient: natsClient,
		subs:       make([]*nats.Subscription, 0),
	}
}

// InitNATSConsumers subscribes to the booking lifecycle and driver
// beacon subjects. All subscriptions share one queue group so each
// event is handled by a single service instance.
func (h *DispatchHandler) InitNATSConsumers() error {
	subjects := map[string]natspkg.MessageHandler{
		constants.SubjectBookingCreated:   h.handleBookingCreated,
		constants.SubjectBookingCancelled: h.handleBookingCancelled,
		constants.SubjectDriverBeacon:     h.handleDriverBeacon,
	}

	for subject, handler := range subjects {
		sub, err := h.natsClient.QueueSubscribe(subject, queueGroup, handler)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		h.subs = append(h.subs, sub)
	}

	return nil
}

func (h *DispatchHandler) handleBookingCreated(msg []byte) error {
	var event models.BookingEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal booking created event: %w", err)
	}
	return h.dispatchUC.OnBookingCreated(context.Background(), event)
}

func (h *DispatchHandler) handleBookingCancelled(msg []byte) error {
	var event models.BookingEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal booking cancelled event: %w", err)
	}
	return h.dispatchUC.OnBookingCancelled(context.Background(), event)
}

func (h *DispatchHandler) handleDriverBeacon(msg []byte) error {
	var event models.BeaconEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal beacon event: %w", err)
	}
	return h.dispatchUC.HandleDriverBeacon(context.Background(), event)
}

// Close unsubscribes from all NATS subjects
func (h *DispatchHandler) Close() {
	for _, sub := range h.subs {
		sub.Unsubscribe()
	}
	h.subs = nil
}
