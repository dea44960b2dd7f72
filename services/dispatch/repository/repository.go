package repository

import (
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/angkut-id/dispatch/internal/pkg/database"
	"github.com/angkut-id/dispatch/internal/pkg/models"
)

// State transition failures callers branch on. Guarded updates return
// these when the row is no longer in the expected state.
var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrBookingNotPending  = errors.New("booking is not pending")
	ErrDriverNotAvailable = errors.New("driver is not available")
	ErrOfferNotFound      = errors.New("no outstanding offer")
)

// DispatchRepo implements the dispatch repository interface
type DispatchRepo struct {
	cfg         *models.Config
	db          *sqlx.DB
	redisClient *database.RedisClient
}

// NewDispatchRepository creates a new dispatch repository
func NewDispatchRepository(
	cfg *models.Config,
	db *sqlx.DB,
	redisClient *database.RedisClient,
) *DispatchRepo {
	return &DispatchRepo{
		cfg:         cfg,
		db:          db,
		redisClient: redisClient,
	}
}
