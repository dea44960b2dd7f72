package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/mmcloughlin/geohash"

	"github.com/angkut-id/dispatch/internal/pkg/constants"
	"github.com/angkut-id/dispatch/internal/pkg/models"
)

// FindNearbyDrivers queries the geo index for drivers within radiusKm of
// the given point, nearest first. Drivers whose liveness key has lapsed
// are filtered out, so a stale index entry never produces a candidate.
func (r *DispatchRepo) FindNearbyDrivers(ctx context.Context, location models.Location, radiusKm float64) ([]models.NearbyDriver, error) {
	results, err := r.redisClient.GeoRadius(
		ctx,
		constants.KeyDriverGeo,
		location.Longitude,
		location.Latitude,
		radiusKm,
		"km",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query geo index: %w", err)
	}

	nearby := make([]models.NearbyDriver, 0, len(results))
	for _, result := range results {
		liveKey := fmt.Sprintf(constants.KeyDriverLive, result.Name)
		live, err := r.redisClient.Exists(ctx, liveKey)
		if err != nil {
			return nil, fmt.Errorf("failed to check driver liveness: %w", err)
		}
		if !live {
			continue
		}

		nearby = append(nearby, models.NearbyDriver{
			ID: result.Name,
			Location: models.Location{
				Latitude:  result.Latitude,
				Longitude: result.Longitude,
			},
			DistanceKm: result.Dist,
		})
	}

	return nearby, nil
}

// UpsertDriverLocation refreshes a driver's position in the geo index
// and renews the liveness key.
func (r *DispatchRepo) UpsertDriverLocation(ctx context.Context, driverID string, location models.Location) error {
	if err := r.redisClient.GeoAdd(ctx, constants.KeyDriverGeo,
		location.Longitude, location.Latitude, driverID); err != nil {
		return fmt.Errorf("failed to update geo index: %w", err)
	}

	locationKey := fmt.Sprintf(constants.KeyDriverLocation, driverID)
	locationData := map[string]interface{}{
		constants.FieldLatitude:  location.Latitude,
		constants.FieldLongitude: location.Longitude,
		constants.FieldGeohash:   geohash.Encode(location.Latitude, location.Longitude),
		constants.FieldTimestamp: time.Now().Unix(),
	}
	if err := r.redisClient.HMSet(ctx, locationKey, locationData); err != nil {
		return fmt.Errorf("failed to store driver location: %w", err)
	}

	livenessTTL := r.cfg.Dispatch.LivenessTTL()
	liveKey := fmt.Sprintf(constants.KeyDriverLive, driverID)
	if err := r.redisClient.Set(ctx, liveKey, "1", livenessTTL); err != nil {
		return fmt.Errorf("failed to renew driver liveness: %w", err)
	}
	if err := r.redisClient.Expire(ctx, locationKey, livenessTTL); err != nil {
		return fmt.Errorf("failed to expire driver location: %w", err)
	}

	return nil
}

// RemoveDriverLocation takes a driver out of the geo index immediately.
func (r *DispatchRepo) RemoveDriverLocation(ctx context.Context, driverID string) error {
	if err := r.redisClient.ZRem(ctx, constants.KeyDriverGeo, driverID); err != nil {
		return fmt.Errorf("failed to remove from geo index: %w", err)
	}

	if err := r.redisClient.Delete(ctx, fmt.Sprintf(constants.KeyDriverLocation, driverID)); err != nil {
		return fmt.Errorf("failed to remove driver location: %w", err)
	}

	if err := r.redisClient.Delete(ctx, fmt.Sprintf(constants.KeyDriverLive, driverID)); err != nil {
		return fmt.Errorf("failed to remove driver liveness: %w", err)
	}

	return nil
}

// GetAttempt returns the persisted attempt counter for a booking, zero
// when no counter exists.
func (r *DispatchRepo) GetAttempt(ctx context.Context, bookingID string) (int, error) {
	value, err := r.redisClient.Get(ctx, fmt.Sprintf(constants.KeyDispatchAttempt, bookingID))
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get attempt counter: %w", err)
	}

	attempt, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("corrupt attempt counter %q: %w", value, err)
	}

	return attempt, nil
}

// SetAttempt persists the attempt counter so a restart resumes the
// radius ladder instead of starting over.
func (r *DispatchRepo) SetAttempt(ctx context.Context, bookingID string, attempt int, ttl time.Duration) error {
	key := fmt.Sprintf(constants.KeyDispatchAttempt, bookingID)
	if err := r.redisClient.Set(ctx, key, strconv.Itoa(attempt), ttl); err != nil {
		return fmt.Errorf("failed to set attempt counter: %w", err)
	}
	return nil
}

// ClearAttempt drops the attempt counter once a booking leaves dispatch.
func (r *DispatchRepo) ClearAttempt(ctx context.Context, bookingID string) error {
	return r.redisClient.Delete(ctx, fmt.Sprintf(constants.KeyDispatchAttempt, bookingID))
}

// AcquireLock takes the per-booking dispatch lock. Returns false when
// another worker holds it.
func (r *DispatchRepo) AcquireLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	ok, err := r.redisClient.SetNX(ctx, fmt.Sprintf(constants.KeyDispatchLock, bookingID), "1", ttl)
	if err != nil {
		return false, fmt.Errorf("failed to acquire dispatch lock: %w", err)
	}
	return ok, nil
}

// ReleaseLock releases the per-booking dispatch lock.
func (r *DispatchRepo) ReleaseLock(ctx context.Context, bookingID string) error {
	return r.redisClient.Delete(ctx, fmt.Sprintf(constants.KeyDispatchLock, bookingID))
}
