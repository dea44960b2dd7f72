package usecase

import (
	"context"

	"github.com/angkut-id/dispatch/internal/pkg/models"
)

// Candidate ranking weights. Distance dominates so pickups stay fast,
// quality breaks near-ties between comparable drivers.
const (
	distanceWeight = 0.7
	qualityWeight  = 0.3
	qualityScale   = 10.0
)

// combinedScore ranks a candidate. Lower is better: a nearby driver has
// a small distance term, a well-rated driver a large (subtracted)
// quality term.
func combinedScore(distanceKm, qualityScore float64) float64 {
	return distanceWeight*distanceKm - qualityWeight*(qualityScore/qualityScale)
}

// findBestCandidate picks the best eligible driver inside radiusKm of
// the booking's pickup point. Drivers the booking was already offered to
// are excluded, whatever the outcome of that offer. Returns nil when no
// candidate qualifies.
func (u *DispatchUC) findBestCandidate(ctx context.Context, booking *models.Booking, radiusKm float64) (*models.CandidateDriver, error) {
	nearby, err := u.repo.FindNearbyDrivers(ctx, booking.PickupLocation, radiusKm)
	if err != nil {
		return nil, err
	}
	if len(nearby) == 0 {
		return nil, nil
	}

	attempted, err := u.repo.ListAttemptedDriverIDs(ctx, booking.ID.String())
	if err != nil {
		return nil, err
	}
	excluded := make(map[string]bool, len(attempted))
	for _, id := range attempted {
		excluded[id] = true
	}

	candidateIDs := make([]string, 0, len(nearby))
	byID := make(map[string]models.NearbyDriver, len(nearby))
	for _, driver := range nearby {
		if excluded[driver.ID] {
			continue
		}
		candidateIDs = append(candidateIDs, driver.ID)
		byID[driver.ID] = driver
	}
	if len(candidateIDs) == 0 {
		return nil, nil
	}

	eligible, err := u.repo.GetEligibleDrivers(ctx, candidateIDs, booking.WeightTons)
	if err != nil {
		return nil, err
	}

	var best *models.CandidateDriver
	for i := range eligible {
		driver := &eligible[i]
		geo, ok := byID[driver.ID.String()]
		if !ok {
			continue
		}

		candidate := &models.CandidateDriver{
			Driver:     driver,
			Location:   geo.Location,
			DistanceKm: geo.DistanceKm,
			Score:      combinedScore(geo.DistanceKm, driver.QualityScore),
		}
		if best == nil || candidate.Score < best.Score {
			best = candidate
		}
	}

	return best, nil
}
