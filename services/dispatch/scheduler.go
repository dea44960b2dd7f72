package dispatch

import (
	"time"

	"github.com/angkut-id/dispatch/internal/pkg/models"
)

// JobScheduler defines the delayed job queue used by the dispatch
// usecase. At most one job is pending per key.
type JobScheduler interface {
	Schedule(key string, payload models.JobPayload, delay time.Duration)
	Cancel(key string)
	CancelMatching(match func(key string) bool)
}
