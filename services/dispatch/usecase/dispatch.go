package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/angkut-id/dispatch/internal/pkg/constants"
	"github.com/angkut-id/dispatch/internal/pkg/logger"
	"github.com/angkut-id/dispatch/internal/pkg/models"
	"github.com/angkut-id/dispatch/services/dispatch/repository"
)

// HandleJob routes a scheduler payload to its handler. Unknown payload
// types are a programming error and fail loudly.
func (u *DispatchUC) HandleJob(ctx context.Context, payload models.JobPayload) error {
	switch job := payload.(type) {
	case models.EvaluateJob:
		return u.evaluateAssignment(ctx, job.BookingID, job.Attempt)
	case models.TimeoutJob:
		return u.handleOfferTimeout(ctx, job.BookingID, job.DriverID)
	default:
		return fmt.Errorf("unknown job payload type %T", payload)
	}
}

// OnBookingCreated starts the dispatch loop for a new booking.
func (u *DispatchUC) OnBookingCreated(ctx context.Context, event models.BookingEvent) error {
	logger.Info("booking received for dispatch",
		logger.String("booking_id", event.BookingID))

	u.scheduler.Schedule(
		constants.EvaluateJobKey(event.BookingID, 1),
		models.EvaluateJob{BookingID: event.BookingID, Attempt: 1},
		0,
	)
	return nil
}

// OnBookingCancelled stops all dispatch work for a cancelled booking.
// The outstanding offer, if any, is closed and its driver freed. State
// is transitioned, never deleted, so the assignment history survives.
func (u *DispatchUC) OnBookingCancelled(ctx context.Context, event models.BookingEvent) error {
	u.scheduler.Cancel(constants.TimeoutJobKey(event.BookingID))
	u.scheduler.CancelMatching(func(key string) bool {
		return constants.IsEvaluateJobKey(key, event.BookingID)
	})

	driverID, err := u.repo.CancelBookingOffer(ctx, event.BookingID)
	if err != nil {
		return fmt.Errorf("failed to cancel booking offer: %w", err)
	}

	if driverID != "" {
		if err := u.gw.NotifyOfferRevoked(ctx, event.BookingID, driverID); err != nil {
			logger.Warn("failed to notify revoked offer",
				logger.String("booking_id", event.BookingID),
				logger.ErrorField(err))
		}
	}

	if err := u.repo.ClearAttempt(ctx, event.BookingID); err != nil {
		logger.Warn("failed to clear attempt counter",
			logger.String("booking_id", event.BookingID),
			logger.ErrorField(err))
	}

	logger.Info("dispatch stopped for cancelled booking",
		logger.String("booking_id", event.BookingID),
		logger.String("freed_driver_id", driverID))
	return nil
}

// HandleDriverBeacon keeps the geo index in sync with driver app
// beacons. An inactive beacon removes the driver immediately instead of
// waiting for the liveness TTL to lapse.
func (u *DispatchUC) HandleDriverBeacon(ctx context.Context, event models.BeaconEvent) error {
	if !event.IsActive {
		return u.repo.RemoveDriverLocation(ctx, event.DriverID)
	}

	if event.Location.IsZero() {
		return fmt.Errorf("active beacon without coordinates for driver %s", event.DriverID)
	}

	return u.repo.UpsertDriverLocation(ctx, event.DriverID, event.Location)
}

// OnDriverAccept confirms an outstanding offer. Pending timeout and
// evaluation jobs are swept once the transaction commits.
func (u *DispatchUC) OnDriverAccept(ctx context.Context, bookingID, driverID string) error {
	if err := u.repo.AcceptOffer(ctx, bookingID, driverID); err != nil {
		return err
	}

	u.scheduler.Cancel(constants.TimeoutJobKey(bookingID))
	u.scheduler.CancelMatching(func(key string) bool {
		return constants.IsEvaluateJobKey(key, bookingID)
	})

	if err := u.repo.ClearAttempt(ctx, bookingID); err != nil {
		logger.Warn("failed to clear attempt counter",
			logger.String("booking_id", bookingID),
			logger.ErrorField(err))
	}

	event := models.BookingStatusEvent{
		BookingID: bookingID,
		DriverID:  driverID,
		Status:    models.BookingStatusConfirmed,
		Timestamp: time.Now(),
	}
	if err := u.gw.PublishBookingConfirmed(ctx, event); err != nil {
		logger.Error("failed to publish booking confirmation",
			logger.String("booking_id", bookingID),
			logger.ErrorField(err))
	}

	logger.Info("offer accepted",
		logger.String("booking_id", bookingID),
		logger.String("driver_id", driverID))
	return nil
}

// OnDriverReject returns a declined booking to the dispatch loop at the
// same attempt number. The rejecting driver is excluded by their
// REJECTED assignment row, not by burning an attempt.
func (u *DispatchUC) OnDriverReject(ctx context.Context, bookingID, driverID string) error {
	if err := u.repo.RejectOffer(ctx, bookingID, driverID); err != nil {
		return err
	}

	u.scheduler.Cancel(constants.TimeoutJobKey(bookingID))

	attempt := u.currentAttempt(ctx, bookingID)
	u.scheduler.Schedule(
		constants.EvaluateJobKey(bookingID, attempt),
		models.EvaluateJob{BookingID: bookingID, Attempt: attempt},
		0,
	)

	logger.Info("offer rejected, re-entering dispatch",
		logger.String("booking_id", bookingID),
		logger.String("driver_id", driverID),
		logger.Int("attempt", attempt))
	return nil
}

// evaluateAssignment runs one candidate evaluation pass for a booking
// under the per-booking dispatch lock. The pass is idempotent: replayed
// or concurrent deliveries observe committed state and back off.
func (u *DispatchUC) evaluateAssignment(ctx context.Context, bookingID string, attempt int) error {
	locked, err := u.repo.AcquireLock(ctx, bookingID, u.cfg.Dispatch.LockTTL())
	if err != nil {
		return fmt.Errorf("failed to acquire dispatch lock: %w", err)
	}
	if !locked {
		// Another worker holds the booking and will produce an
		// equivalent outcome, or the lock expires and a later scheduled
		// job resumes the work. Drop this pass.
		logger.Debug("dispatch lock busy, dropping evaluation pass",
			logger.String("booking_id", bookingID),
			logger.Int("attempt", attempt))
		return nil
	}
	defer u.releaseLock(ctx, bookingID)

	booking, err := u.repo.GetBooking(ctx, bookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			logger.Warn("evaluation for unknown booking dropped",
				logger.String("booking_id", bookingID))
			return nil
		}
		return err
	}

	if !booking.IsDispatchable() {
		logger.Debug("booking no longer dispatchable",
			logger.String("booking_id", bookingID),
			logger.String("status", string(booking.Status)))
		return nil
	}

	active, err := u.repo.GetActiveAssignment(ctx, bookingID)
	if err != nil {
		return err
	}
	if active != nil {
		// An offer is already outstanding; the timeout job owns the
		// next transition.
		return nil
	}

	if attempt >= u.cfg.Dispatch.MaxAttempts || time.Since(booking.CreatedAt) > u.cfg.Dispatch.FinalizeWindow() {
		return u.expireBooking(ctx, booking, attempt)
	}

	if booking.PickupLocation.IsZero() {
		return fmt.Errorf("booking %s has no pickup coordinates", bookingID)
	}

	radiusKm := u.cfg.Dispatch.SearchRadiusKm(attempt)
	candidate, err := u.findBestCandidate(ctx, booking, radiusKm)
	if err != nil {
		return err
	}

	if candidate == nil {
		u.scheduleNextAttempt(bookingID, attempt, radiusKm)
		return nil
	}

	return u.createOffer(ctx, booking, candidate, attempt)
}

// scheduleNextAttempt re-enqueues evaluation after the backoff. The
// attempt counter is not touched here; it only moves forward on a
// successful pick.
func (u *DispatchUC) scheduleNextAttempt(bookingID string, attempt int, radiusKm float64) {
	next := attempt + 1
	u.scheduler.Schedule(
		constants.EvaluateJobKey(bookingID, next),
		models.EvaluateJob{BookingID: bookingID, Attempt: next},
		u.cfg.Dispatch.AttemptDelay(),
	)

	logger.Info("no candidate found, widening search",
		logger.String("booking_id", bookingID),
		logger.Int("attempt", attempt),
		logger.Float64("radius_km", radiusKm))
}

func (u *DispatchUC) createOffer(ctx context.Context, booking *models.Booking, candidate *models.CandidateDriver, attempt int) error {
	bookingID := booking.ID.String()
	driverID := candidate.Driver.ID.String()

	assignment, err := u.repo.CreateOffer(ctx, bookingID, driverID)
	if err != nil {
		if err == repository.ErrBookingNotPending || err == repository.ErrDriverNotAvailable {
			// Lost a race against a concurrent transition. Re-run this
			// attempt after the usual backoff and pick again.
			logger.Warn("offer creation lost state race, retrying attempt",
				logger.String("booking_id", bookingID),
				logger.String("driver_id", driverID),
				logger.ErrorField(err))
			u.scheduler.Schedule(
				constants.EvaluateJobKey(bookingID, attempt),
				models.EvaluateJob{BookingID: bookingID, Attempt: attempt},
				u.cfg.Dispatch.AttemptDelay(),
			)
			return nil
		}
		return err
	}

	// The counter lives outside the SQL transaction, so persist it
	// immediately after commit while the lock is still held.
	if err := u.repo.SetAttempt(ctx, bookingID, attempt, u.attemptCounterTTL()); err != nil {
		logger.Warn("failed to persist attempt counter",
			logger.String("booking_id", bookingID),
			logger.ErrorField(err))
	}

	offerTimeout := u.cfg.Dispatch.OfferTimeout()
	u.scheduler.Schedule(
		constants.TimeoutJobKey(bookingID),
		models.TimeoutJob{BookingID: bookingID, DriverID: driverID},
		offerTimeout,
	)

	notification := models.OfferNotification{
		AssignmentID: assignment.ID.String(),
		BookingID:    bookingID,
		DriverID:     driverID,
		Pickup:       booking.PickupLocation,
		Dropoff:      booking.DropoffLocation,
		WeightTons:   booking.WeightTons,
		ExpiresAt:    assignment.OfferedAt.Add(offerTimeout),
	}
	if err := u.gw.NotifyOfferCreated(ctx, notification); err != nil {
		logger.Warn("failed to notify driver of offer",
			logger.String("booking_id", bookingID),
			logger.String("driver_id", driverID),
			logger.ErrorField(err))
	}

	event := models.BookingStatusEvent{
		BookingID: bookingID,
		DriverID:  driverID,
		Status:    models.BookingStatusDriverAssigned,
		Timestamp: assignment.OfferedAt,
	}
	if err := u.gw.PublishBookingAssigned(ctx, event); err != nil {
		logger.Error("failed to publish booking assignment",
			logger.String("booking_id", bookingID),
			logger.ErrorField(err))
	}

	logger.Info("offer created",
		logger.String("booking_id", bookingID),
		logger.String("driver_id", driverID),
		logger.Int("attempt", attempt),
		logger.Float64("distance_km", candidate.DistanceKm),
		logger.Float64("score", candidate.Score))
	return nil
}

// handleOfferTimeout fires when a driver sat on an offer past the
// response budget. The offer is reverted and the booking re-enters the
// dispatch loop at the current attempt; the timed-out driver is excluded
// by their AUTO_REJECTED assignment row. A driver response that beat the
// timeout makes this a no-op.
func (u *DispatchUC) handleOfferTimeout(ctx context.Context, bookingID, driverID string) error {
	locked, err := u.repo.AcquireLock(ctx, bookingID, u.cfg.Dispatch.LockTTL())
	if err != nil {
		return fmt.Errorf("failed to acquire dispatch lock: %w", err)
	}
	if !locked {
		// The timeout job is booking-scoped and nothing else re-issues
		// it, so it is deferred past the lock TTL instead of dropped.
		u.scheduler.Schedule(
			constants.TimeoutJobKey(bookingID),
			models.TimeoutJob{BookingID: bookingID, DriverID: driverID},
			u.cfg.Dispatch.LockTTL(),
		)
		return nil
	}
	defer u.releaseLock(ctx, bookingID)

	reverted, err := u.repo.RevertExpiredOffer(ctx, bookingID, driverID)
	if err != nil {
		return err
	}
	if !reverted {
		return nil
	}

	if err := u.gw.NotifyOfferRevoked(ctx, bookingID, driverID); err != nil {
		logger.Warn("failed to notify revoked offer",
			logger.String("booking_id", bookingID),
			logger.String("driver_id", driverID),
			logger.ErrorField(err))
	}

	attempt := u.currentAttempt(ctx, bookingID)
	u.scheduler.Schedule(
		constants.EvaluateJobKey(bookingID, attempt),
		models.EvaluateJob{BookingID: bookingID, Attempt: attempt},
		0,
	)

	logger.Info("offer timed out, re-entering dispatch",
		logger.String("booking_id", bookingID),
		logger.String("driver_id", driverID),
		logger.Int("attempt", attempt))
	return nil
}

// currentAttempt reads the persisted attempt counter, floored at 1 so a
// lost counter restarts the radius ladder instead of producing an
// attempt-zero job.
func (u *DispatchUC) currentAttempt(ctx context.Context, bookingID string) int {
	attempt, err := u.repo.GetAttempt(ctx, bookingID)
	if err != nil {
		logger.Warn("failed to read attempt counter, restarting ladder",
			logger.String("booking_id", bookingID),
			logger.ErrorField(err))
	}
	if attempt < 1 {
		attempt = 1
	}
	return attempt
}

func (u *DispatchUC) expireBooking(ctx context.Context, booking *models.Booking, attempt int) error {
	bookingID := booking.ID.String()

	if err := u.repo.ExpireBooking(ctx, bookingID); err != nil {
		if err == repository.ErrBookingNotPending {
			return nil
		}
		return err
	}

	if err := u.repo.ClearAttempt(ctx, bookingID); err != nil {
		logger.Warn("failed to clear attempt counter",
			logger.String("booking_id", bookingID),
			logger.ErrorField(err))
	}

	event := models.BookingStatusEvent{
		BookingID: bookingID,
		Status:    models.BookingStatusExpired,
		Timestamp: time.Now(),
	}
	if err := u.gw.PublishBookingExpired(ctx, event); err != nil {
		logger.Error("failed to publish booking expiry",
			logger.String("booking_id", bookingID),
			logger.ErrorField(err))
	}

	logger.Info("booking expired without a driver",
		logger.String("booking_id", bookingID),
		logger.Int("attempt", attempt),
		logger.Duration("elapsed", time.Since(booking.CreatedAt)))
	return nil
}

func (u *DispatchUC) releaseLock(ctx context.Context, bookingID string) {
	if err := u.repo.ReleaseLock(ctx, bookingID); err != nil {
		logger.Warn("failed to release dispatch lock",
			logger.String("booking_id", bookingID),
			logger.ErrorField(err))
	}
}

// attemptCounterTTL keeps the counter around long enough for the whole
// dispatch window plus slack for in-flight jobs.
func (u *DispatchUC) attemptCounterTTL() time.Duration {
	return u.cfg.Dispatch.FinalizeWindow() + 10*time.Minute
}
