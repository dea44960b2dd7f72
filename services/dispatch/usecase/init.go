package usecase

import (
	"github.com/angkut-id/dispatch/internal/pkg/models"
	"github.com/angkut-id/dispatch/services/dispatch"
)

// DispatchUC implements the dispatch usecase interface
type DispatchUC struct {
	cfg       *models.Config
	repo      dispatch.DispatchRepo
	gw        dispatch.DispatchGW
	scheduler dispatch.JobScheduler
}

// NewDispatchUC creates a new dispatch usecase
func NewDispatchUC(
	cfg *models.Config,
	repo dispatch.DispatchRepo,
	gw dispatch.DispatchGW,
	scheduler dispatch.JobScheduler,
) *DispatchUC {
	return &DispatchUC{
		cfg:       cfg,
		repo:      repo,
		gw:        gw,
		scheduler: scheduler,
	}
}
