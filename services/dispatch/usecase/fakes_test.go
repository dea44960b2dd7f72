package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/angkut-id/dispatch/internal/pkg/models"
)

func mustUUID(s string) uuid.UUID {
	return uuid.MustParse(s)
}

// fakeRepo is an in-memory stand-in for the dispatch repository.
type fakeRepo struct {
	booking          *models.Booking
	bookingErr       error
	activeAssignment *models.Assignment
	attempted        []string
	nearby           []models.NearbyDriver
	eligible         []models.Driver

	eligibleRequestedIDs []string
	nearbyRequestedKm    []float64

	createdOffers  [][2]string
	createOfferErr error

	acceptedOffers [][2]string
	acceptErr      error
	rejectedOffers [][2]string
	rejectErr      error

	revertResult   bool
	revertedOffers [][2]string

	expiredBookings []string
	expireErr       error

	cancelFreedDriver string

	attempt        int
	clearedAttempt []string

	lockBusy      bool
	lockAcquired  []string
	lockReleased  []string

	upsertedDrivers []string
	removedDrivers  []string
}

func (r *fakeRepo) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	if r.bookingErr != nil {
		return nil, r.bookingErr
	}
	return r.booking, nil
}

func (r *fakeRepo) GetActiveAssignment(ctx context.Context, bookingID string) (*models.Assignment, error) {
	return r.activeAssignment, nil
}

func (r *fakeRepo) ListAttemptedDriverIDs(ctx context.Context, bookingID string) ([]string, error) {
	return r.attempted, nil
}

func (r *fakeRepo) GetEligibleDrivers(ctx context.Context, driverIDs []string, minCapacityTons float64) ([]models.Driver, error) {
	r.eligibleRequestedIDs = driverIDs
	return r.eligible, nil
}

func (r *fakeRepo) CreateOffer(ctx context.Context, bookingID, driverID string) (*models.Assignment, error) {
	if r.createOfferErr != nil {
		return nil, r.createOfferErr
	}
	r.createdOffers = append(r.createdOffers, [2]string{bookingID, driverID})
	return &models.Assignment{
		BookingID: mustUUID(bookingID),
		DriverID:  mustUUID(driverID),
		Status:    models.AssignmentStatusOffered,
		OfferedAt: time.Now(),
	}, nil
}

func (r *fakeRepo) AcceptOffer(ctx context.Context, bookingID, driverID string) error {
	if r.acceptErr != nil {
		return r.acceptErr
	}
	r.acceptedOffers = append(r.acceptedOffers, [2]string{bookingID, driverID})
	return nil
}

func (r *fakeRepo) RejectOffer(ctx context.Context, bookingID, driverID string) error {
	if r.rejectErr != nil {
		return r.rejectErr
	}
	r.rejectedOffers = append(r.rejectedOffers, [2]string{bookingID, driverID})
	return nil
}

func (r *fakeRepo) RevertExpiredOffer(ctx context.Context, bookingID, driverID string) (bool, error) {
	if r.revertResult {
		r.revertedOffers = append(r.revertedOffers, [2]string{bookingID, driverID})
	}
	return r.revertResult, nil
}

func (r *fakeRepo) ExpireBooking(ctx context.Context, bookingID string) error {
	if r.expireErr != nil {
		return r.expireErr
	}
	r.expiredBookings = append(r.expiredBookings, bookingID)
	return nil
}

func (r *fakeRepo) CancelBookingOffer(ctx context.Context, bookingID string) (string, error) {
	return r.cancelFreedDriver, nil
}

func (r *fakeRepo) FindNearbyDrivers(ctx context.Context, location models.Location, radiusKm float64) ([]models.NearbyDriver, error) {
	r.nearbyRequestedKm = append(r.nearbyRequestedKm, radiusKm)
	return r.nearby, nil
}

func (r *fakeRepo) UpsertDriverLocation(ctx context.Context, driverID string, location models.Location) error {
	r.upsertedDrivers = append(r.upsertedDrivers, driverID)
	return nil
}

func (r *fakeRepo) RemoveDriverLocation(ctx context.Context, driverID string) error {
	r.removedDrivers = append(r.removedDrivers, driverID)
	return nil
}

func (r *fakeRepo) GetAttempt(ctx context.Context, bookingID string) (int, error) {
	return r.attempt, nil
}

func (r *fakeRepo) SetAttempt(ctx context.Context, bookingID string, attempt int, ttl time.Duration) error {
	r.attempt = attempt
	return nil
}

func (r *fakeRepo) ClearAttempt(ctx context.Context, bookingID string) error {
	r.clearedAttempt = append(r.clearedAttempt, bookingID)
	return nil
}

func (r *fakeRepo) AcquireLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	if r.lockBusy {
		return false, nil
	}
	r.lockAcquired = append(r.lockAcquired, bookingID)
	return true, nil
}

func (r *fakeRepo) ReleaseLock(ctx context.Context, bookingID string) error {
	r.lockReleased = append(r.lockReleased, bookingID)
	return nil
}

// fakeGW records gateway calls.
type fakeGW struct {
	offerNotifications []models.OfferNotification
	revokedOffers      [][2]string
	assignedEvents     []models.BookingStatusEvent
	confirmedEvents    []models.BookingStatusEvent
	expiredEvents      []models.BookingStatusEvent
}

func (g *fakeGW) NotifyOfferCreated(ctx context.Context, notification models.OfferNotification) error {
	g.offerNotifications = append(g.offerNotifications, notification)
	return nil
}

func (g *fakeGW) NotifyOfferRevoked(ctx context.Context, bookingID, driverID string) error {
	g.revokedOffers = append(g.revokedOffers, [2]string{bookingID, driverID})
	return nil
}

func (g *fakeGW) PublishBookingAssigned(ctx context.Context, event models.BookingStatusEvent) error {
	g.assignedEvents = append(g.assignedEvents, event)
	return nil
}

func (g *fakeGW) PublishBookingConfirmed(ctx context.Context, event models.BookingStatusEvent) error {
	g.confirmedEvents = append(g.confirmedEvents, event)
	return nil
}

func (g *fakeGW) PublishBookingExpired(ctx context.Context, event models.BookingStatusEvent) error {
	g.expiredEvents = append(g.expiredEvents, event)
	return nil
}

type scheduledJob struct {
	key     string
	payload models.JobPayload
	delay   time.Duration
}

// fakeScheduler records scheduling calls without running anything.
type fakeScheduler struct {
	scheduled []scheduledJob
	cancelled []string

	pendingKeys    []string
	removedByMatch []string
}

func (s *fakeScheduler) Schedule(key string, payload models.JobPayload, delay time.Duration) {
	s.scheduled = append(s.scheduled, scheduledJob{key: key, payload: payload, delay: delay})
}

func (s *fakeScheduler) Cancel(key string) {
	s.cancelled = append(s.cancelled, key)
}

func (s *fakeScheduler) CancelMatching(match func(key string) bool) {
	for _, key := range s.pendingKeys {
		if match(key) {
			s.removedByMatch = append(s.removedByMatch, key)
		}
	}
}
