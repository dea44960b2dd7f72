package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/angkut-id/dispatch/internal/pkg/models"
)

// GetBooking retrieves a booking by ID
func (r *DispatchRepo) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	query := `
		SELECT
			id, customer_id, status,
			(pickup_location[0])::float8 as pickup_longitude,
			(pickup_location[1])::float8 as pickup_latitude,
			(dropoff_location[0])::float8 as dropoff_longitude,
			(dropoff_location[1])::float8 as dropoff_latitude,
			weight_tons, assigned_driver_id,
			created_at, updated_at, cancelled_at, expired_at
		FROM bookings
		WHERE id = $1
	`

	var dto models.BookingDTO
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(
		&dto.ID, &dto.CustomerID, &dto.Status,
		&dto.PickupLongitude, &dto.PickupLatitude,
		&dto.DropoffLongitude, &dto.DropoffLatitude,
		&dto.WeightTons, &dto.AssignedDriverID,
		&dto.CreatedAt, &dto.UpdatedAt, &dto.CancelledAt, &dto.ExpiredAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return dto.ToBooking(), nil
}

// GetActiveAssignment returns the OFFERED or ACCEPTED assignment for a
// booking, or nil when none is outstanding.
func (r *DispatchRepo) GetActiveAssignment(ctx context.Context, bookingID string) (*models.Assignment, error) {
	query := `
		SELECT id, booking_id, driver_id, status, offered_at, responded_at
		FROM assignments
		WHERE booking_id = $1 AND status IN ($2, $3)
		ORDER BY offered_at DESC
		LIMIT 1
	`

	var assignment models.Assignment
	err := r.db.QueryRowContext(ctx, query, bookingID,
		models.AssignmentStatusOffered, models.AssignmentStatusAccepted).Scan(
		&assignment.ID, &assignment.BookingID, &assignment.DriverID,
		&assignment.Status, &assignment.OfferedAt, &assignment.RespondedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active assignment: %w", err)
	}

	return &assignment, nil
}

// ListAttemptedDriverIDs returns every driver a booking has already been
// offered to, regardless of how the offer ended.
func (r *DispatchRepo) ListAttemptedDriverIDs(ctx context.Context, bookingID string) ([]string, error) {
	query := `SELECT driver_id FROM assignments WHERE booking_id = $1`

	var driverIDs []string
	if err := r.db.SelectContext(ctx, &driverIDs, query, bookingID); err != nil {
		return nil, fmt.Errorf("failed to list attempted drivers: %w", err)
	}

	return driverIDs, nil
}

// GetEligibleDrivers loads the drivers among driverIDs that are active,
// verified, currently available and whose vehicle can carry the load.
func (r *DispatchRepo) GetEligibleDrivers(ctx context.Context, driverIDs []string, minCapacityTons float64) ([]models.Driver, error) {
	if len(driverIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT
			d.id, d.full_name, d.driver_status, d.is_active, d.is_verified,
			d.quality_score, v.max_weight_tons, d.created_at, d.updated_at
		FROM drivers d
		JOIN vehicles v ON v.driver_id = d.id
		WHERE d.id = ANY($1)
			AND d.is_active = true
			AND d.is_verified = true
			AND d.driver_status = $2
			AND v.max_weight_tons >= $3
	`

	var drivers []models.Driver
	err := r.db.SelectContext(ctx, &drivers, query,
		pq.Array(driverIDs), models.DriverStatusAvailable, minCapacityTons)
	if err != nil {
		return nil, fmt.Errorf("failed to get eligible drivers: %w", err)
	}

	return drivers, nil
}

// CreateOffer records an offer in one transaction: an assignment row is
// inserted, the booking moves PENDING -> DRIVER_ASSIGNED and the driver
// moves AVAILABLE -> RIDE_OFFERED. Any state mismatch aborts the whole
// transaction.
func (r *DispatchRepo) CreateOffer(ctx context.Context, bookingID, driverID string) (*models.Assignment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	if err := execGuarded(ctx, tx,
		`UPDATE bookings SET status = $1, assigned_driver_id = $2, updated_at = $3 WHERE id = $4 AND status = $5`,
		ErrBookingNotPending,
		models.BookingStatusDriverAssigned, driverID, now, bookingID, models.BookingStatusPending,
	); err != nil {
		return nil, err
	}

	if err := execGuarded(ctx, tx,
		`UPDATE drivers SET driver_status = $1, updated_at = $2 WHERE id = $3 AND driver_status = $4`,
		ErrDriverNotAvailable,
		models.DriverStatusRideOffered, now, driverID, models.DriverStatusAvailable,
	); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		ID:        uuid.New(),
		BookingID: uuid.MustParse(bookingID),
		DriverID:  uuid.MustParse(driverID),
		Status:    models.AssignmentStatusOffered,
		OfferedAt: now,
	}

	insertQuery := `
		INSERT INTO assignments (id, booking_id, driver_id, status, offered_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.ExecContext(ctx, insertQuery,
		assignment.ID, assignment.BookingID, assignment.DriverID,
		assignment.Status, assignment.OfferedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to insert assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return assignment, nil
}

// AcceptOffer confirms an outstanding offer: the assignment moves
// OFFERED -> ACCEPTED, the booking DRIVER_ASSIGNED -> CONFIRMED and the
// driver RIDE_OFFERED -> ON_RIDE, all in one transaction.
func (r *DispatchRepo) AcceptOffer(ctx context.Context, bookingID, driverID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	if err := execGuarded(ctx, tx,
		`UPDATE assignments SET status = $1, responded_at = $2 WHERE booking_id = $3 AND driver_id = $4 AND status = $5`,
		ErrOfferNotFound,
		models.AssignmentStatusAccepted, now, bookingID, driverID, models.AssignmentStatusOffered,
	); err != nil {
		return err
	}

	if err := execGuarded(ctx, tx,
		`UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		ErrBookingNotFound,
		models.BookingStatusConfirmed, now, bookingID, models.BookingStatusDriverAssigned,
	); err != nil {
		return err
	}

	if err := execGuarded(ctx, tx,
		`UPDATE drivers SET driver_status = $1, updated_at = $2 WHERE id = $3 AND driver_status = $4`,
		ErrDriverNotAvailable,
		models.DriverStatusOnRide, now, driverID, models.DriverStatusRideOffered,
	); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RejectOffer records a driver decline: the assignment moves
// OFFERED -> REJECTED, the booking returns to PENDING and the driver
// returns to AVAILABLE.
func (r *DispatchRepo) RejectOffer(ctx context.Context, bookingID, driverID string) error {
	return r.closeOffer(ctx, bookingID, driverID, models.AssignmentStatusRejected)
}

// RevertExpiredOffer closes a timed-out offer as AUTO_REJECTED and
// returns the booking and driver to their dispatchable states. Returns
// false without error when the driver already responded, so the timeout
// is a no-op.
func (r *DispatchRepo) RevertExpiredOffer(ctx context.Context, bookingID, driverID string) (bool, error) {
	err := r.closeOffer(ctx, bookingID, driverID, models.AssignmentStatusAutoRejected)
	if err == ErrOfferNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *DispatchRepo) closeOffer(ctx context.Context, bookingID, driverID string, status models.AssignmentStatus) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	if err := execGuarded(ctx, tx,
		`UPDATE assignments SET status = $1, responded_at = $2 WHERE booking_id = $3 AND driver_id = $4 AND status = $5`,
		ErrOfferNotFound,
		status, now, bookingID, driverID, models.AssignmentStatusOffered,
	); err != nil {
		return err
	}

	if err := execGuarded(ctx, tx,
		`UPDATE bookings SET status = $1, assigned_driver_id = NULL, updated_at = $2 WHERE id = $3 AND status = $4`,
		ErrBookingNotFound,
		models.BookingStatusPending, now, bookingID, models.BookingStatusDriverAssigned,
	); err != nil {
		return err
	}

	if err := execGuarded(ctx, tx,
		`UPDATE drivers SET driver_status = $1, updated_at = $2 WHERE id = $3 AND driver_status = $4`,
		ErrDriverNotAvailable,
		models.DriverStatusAvailable, now, driverID, models.DriverStatusRideOffered,
	); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ExpireBooking terminates a booking that exhausted its dispatch budget.
// Only a PENDING booking can expire.
func (r *DispatchRepo) ExpireBooking(ctx context.Context, bookingID string) error {
	query := `UPDATE bookings SET status = $1, expired_at = $2, updated_at = $2 WHERE id = $3 AND status = $4`

	result, err := r.db.ExecContext(ctx, query,
		models.BookingStatusExpired, time.Now(), bookingID, models.BookingStatusPending)
	if err != nil {
		return fmt.Errorf("failed to expire booking: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotPending
	}

	return nil
}

// CancelBookingOffer closes the outstanding offer of a cancelled booking
// as AUTO_REJECTED and frees the driver. Returns the freed driver ID, or
// empty string when no offer was outstanding. The booking row itself is
// owned by the booking service and is not touched here.
func (r *DispatchRepo) CancelBookingOffer(ctx context.Context, bookingID string) (string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	var driverID string
	err = tx.QueryRowContext(ctx,
		`UPDATE assignments SET status = $1, responded_at = $2 WHERE booking_id = $3 AND status = $4 RETURNING driver_id`,
		models.AssignmentStatusAutoRejected, now, bookingID, models.AssignmentStatusOffered,
	).Scan(&driverID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to close offer: %w", err)
	}

	if err := execGuarded(ctx, tx,
		`UPDATE drivers SET driver_status = $1, updated_at = $2 WHERE id = $3 AND driver_status = $4`,
		ErrDriverNotAvailable,
		models.DriverStatusAvailable, now, driverID, models.DriverStatusRideOffered,
	); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return driverID, nil
}

// execGuarded runs an UPDATE that must affect exactly one row and maps
// a zero-row result to stateErr.
func execGuarded(ctx context.Context, tx *sqlx.Tx, query string, stateErr error, args ...interface{}) error {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to execute update: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return stateErr
	}

	return nil
}
