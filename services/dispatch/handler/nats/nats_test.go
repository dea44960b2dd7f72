package nats

import (
	"context"
	"sync"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angkut-id/dispatch/internal/pkg/constants"
	"github.com/angkut-id/dispatch/internal/pkg/models"
	natspkg "github.com/angkut-id/dispatch/internal/pkg/nats"
)

type fakeDispatchUC struct {
	mu        sync.Mutex
	created   []models.BookingEvent
	cancelled []models.BookingEvent
	beacons   []models.BeaconEvent
	done      chan struct{}
}

func newFakeUC() *fakeDispatchUC {
	return &fakeDispatchUC{done: make(chan struct{}, 8)}
}

func (f *fakeDispatchUC) OnBookingCreated(ctx context.Context, event models.BookingEvent) error {
	f.mu.Lock()
	f.created = append(f.created, event)
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func (f *fakeDispatchUC) OnBookingCancelled(ctx context.Context, event models.BookingEvent) error {
	f.mu.Lock()
	f.cancelled = append(f.cancelled, event)
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func (f *fakeDispatchUC) HandleDriverBeacon(ctx context.Context, event models.BeaconEvent) error {
	f.mu.Lock()
	f.beacons = append(f.beacons, event)
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func (f *fakeDispatchUC) OnDriverAccept(ctx context.Context, bookingID, driverID string) error {
	return nil
}

func (f *fakeDispatchUC) OnDriverReject(ctx context.Context, bookingID, driverID string) error {
	return nil
}

func (f *fakeDispatchUC) HandleJob(ctx context.Context, payload models.JobPayload) error {
	return nil
}

func runTestServer(t *testing.T) *natsserver.Server {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	s, err := natsserver.NewServer(opts)
	require.NoError(t, err)
	go s.Start()
	if !s.ReadyForConnections(5 * time.Second) {
		t.Fatal("nats server did not start")
	}
	return s
}

func waitForEvent(t *testing.T, done chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event to be handled")
	}
}

func TestInitNATSConsumers_RoutesEvents(t *testing.T) {
	server := runTestServer(t)
	defer server.Shutdown()

	client, err := natspkg.NewClient(server.ClientURL())
	require.NoError(t, err)
	defer client.Close()

	uc := newFakeUC()
	h := NewDispatchHandler(uc, client)
	require.NoError(t, h.InitNATSConsumers())
	defer h.Close()

	publisher, err := natsgo.Connect(server.ClientURL())
	require.NoError(t, err)
	defer publisher.Close()

	require.NoError(t, publisher.Publish(constants.SubjectBookingCreated,
		[]byte(`{"booking_id":"booking-1"}`)))
	waitForEvent(t, uc.done)

	require.NoError(t, publisher.Publish(constants.SubjectBookingCancelled,
		[]byte(`{"booking_id":"booking-2"}`)))
	waitForEvent(t, uc.done)

	require.NoError(t, publisher.Publish(constants.SubjectDriverBeacon,
		[]byte(`{"driver_id":"driver-1","is_active":true,"location":{"latitude":-6.1,"longitude":106.8}}`)))
	waitForEvent(t, uc.done)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	require.Len(t, uc.created, 1)
	assert.Equal(t, "booking-1", uc.created[0].BookingID)
	require.Len(t, uc.cancelled, 1)
	assert.Equal(t, "booking-2", uc.cancelled[0].BookingID)
	require.Len(t, uc.beacons, 1)
	assert.Equal(t, "driver-1", uc.beacons[0].DriverID)
	assert.True(t, uc.beacons[0].IsActive)
}

func TestHandleBookingCreated_MalformedPayload(t *testing.T) {
	h := &DispatchHandler{dispatchUC: newFakeUC()}

	err := h.handleBookingCreated([]byte("not json"))

	assert.Error(t, err)
}
