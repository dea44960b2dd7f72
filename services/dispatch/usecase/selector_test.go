package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angkut-id/dispatch/internal/pkg/models"
)

func TestCombinedScore(t *testing.T) {
	// A close driver beats a distant one regardless of rating.
	assert.Less(t, combinedScore(1.0, 5.0), combinedScore(8.0, 10.0))

	// At equal distance the better rated driver wins.
	assert.Less(t, combinedScore(2.0, 9.0), combinedScore(2.0, 4.0))

	assert.InDelta(t, 0.7*2.0-0.3*0.8, combinedScore(2.0, 8.0), 1e-9)
}

func TestFindBestCandidate_PrefersLowestScore(t *testing.T) {
	booking := pendingBooking()
	closeDriver := uuid.New()
	ratedDriver := uuid.New()

	repo := &fakeRepo{
		nearby: []models.NearbyDriver{
			{ID: closeDriver.String(), DistanceKm: 0.5},
			{ID: ratedDriver.String(), DistanceKm: 4.0},
		},
		eligible: []models.Driver{
			{ID: closeDriver, QualityScore: 3.0},
			{ID: ratedDriver, QualityScore: 10.0},
		},
	}
	uc := newTestUC(repo, &fakeGW{}, &fakeScheduler{})

	candidate, err := uc.findBestCandidate(context.Background(), booking, 5.0)

	assert.NoError(t, err)
	require.NotNil(t, candidate)
	// 0.7*0.5 - 0.3*0.3 = 0.26 beats 0.7*4.0 - 0.3*1.0 = 2.5
	assert.Equal(t, closeDriver, candidate.Driver.ID)
	assert.InDelta(t, 0.26, candidate.Score, 1e-9)
}

func TestFindBestCandidate_ExcludesAttemptedDrivers(t *testing.T) {
	booking := pendingBooking()
	rejectedBefore := uuid.New()
	fresh := uuid.New()

	repo := &fakeRepo{
		nearby: []models.NearbyDriver{
			{ID: rejectedBefore.String(), DistanceKm: 0.2},
			{ID: fresh.String(), DistanceKm: 3.0},
		},
		attempted: []string{rejectedBefore.String()},
		eligible: []models.Driver{
			{ID: fresh, QualityScore: 6.0},
		},
	}
	uc := newTestUC(repo, &fakeGW{}, &fakeScheduler{})

	candidate, err := uc.findBestCandidate(context.Background(), booking, 5.0)

	assert.NoError(t, err)
	require.NotNil(t, candidate)
	assert.Equal(t, fresh, candidate.Driver.ID)

	// The excluded driver never reaches the eligibility query.
	assert.Equal(t, []string{fresh.String()}, repo.eligibleRequestedIDs)
}

func TestFindBestCandidate_NoDriversInRadius(t *testing.T) {
	booking := pendingBooking()
	repo := &fakeRepo{}
	uc := newTestUC(repo, &fakeGW{}, &fakeScheduler{})

	candidate, err := uc.findBestCandidate(context.Background(), booking, 3.0)

	assert.NoError(t, err)
	assert.Nil(t, candidate)
	// Nothing to check eligibility for.
	assert.Nil(t, repo.eligibleRequestedIDs)
}

func TestFindBestCandidate_AllDriversAlreadyAttempted(t *testing.T) {
	booking := pendingBooking()
	driverID := uuid.New()

	repo := &fakeRepo{
		nearby: []models.NearbyDriver{
			{ID: driverID.String(), DistanceKm: 1.0},
		},
		attempted: []string{driverID.String()},
	}
	uc := newTestUC(repo, &fakeGW{}, &fakeScheduler{})

	candidate, err := uc.findBestCandidate(context.Background(), booking, 3.0)

	assert.NoError(t, err)
	assert.Nil(t, candidate)
}

func TestFindBestCandidate_IneligibleDriversDropped(t *testing.T) {
	booking := pendingBooking()
	driverID := uuid.New()

	// In the geo index but filtered out by the relational eligibility
	// query (offline, unverified or undersized vehicle).
	repo := &fakeRepo{
		nearby: []models.NearbyDriver{
			{ID: driverID.String(), DistanceKm: 1.0},
		},
		eligible: nil,
	}
	uc := newTestUC(repo, &fakeGW{}, &fakeScheduler{})

	candidate, err := uc.findBestCandidate(context.Background(), booking, 3.0)

	assert.NoError(t, err)
	assert.Nil(t, candidate)
}
