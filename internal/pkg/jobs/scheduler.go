package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/angkut-id/dispatch/internal/pkg/logger"
	"github.com/angkut-id/dispatch/internal/pkg/models"
)

// Handler processes a fired job. Handlers must be idempotent: delivery is
// at-least-once and a failed execution is re-delivered once.
type Handler func(ctx context.Context, payload models.JobPayload) error

// Scheduler is a keyed delayed job queue backed by a bounded worker
// pool. Scheduling a key that already has a pending job replaces it, so
// each key carries at most one pending work item.
type Scheduler struct {
	mu      sync.Mutex
	pending map[string]*time.Timer

	queue          chan item
	workers        int
	redeliverDelay time.Duration
	handler        Handler

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

type item struct {
	key         string
	payload     models.JobPayload
	redelivered bool
}

// NewScheduler creates a scheduler with the given worker pool size.
func NewScheduler(workers int, redeliverDelay time.Duration) *Scheduler {
	if workers <= 0 {
		workers = 1
	}
	return &Scheduler{
		pending:        make(map[string]*time.Timer),
		queue:          make(chan item, 256),
		workers:        workers,
		redeliverDelay: redeliverDelay,
	}
}

// Start launches the worker pool. Jobs scheduled before Start fire once
// workers are available.
func (s *Scheduler) Start(ctx context.Context, handler Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.handler = handler
	s.ctx, s.cancel = context.WithCancel(ctx)

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
}

func (s *Scheduler) worker() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case it := <-s.queue:
			s.run(it)
		}
	}
}

func (s *Scheduler) run(it item) {
	if err := s.handler(s.ctx, it.payload); err != nil {
		if it.redelivered {
			logger.Error("job failed after redelivery, dropping",
				logger.String("key", it.key),
				logger.ErrorField(err))
			return
		}
		logger.Warn("job failed, scheduling redelivery",
			logger.String("key", it.key),
			logger.ErrorField(err))
		redelivery := item{key: it.key, payload: it.payload, redelivered: true}
		time.AfterFunc(s.redeliverDelay, func() { s.enqueue(redelivery) })
	}
}

// Schedule enqueues a job to fire after delay. A pending job under the
// same key is replaced.
func (s *Scheduler) Schedule(key string, payload models.JobPayload, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.pending[key]; ok {
		t.Stop()
		delete(s.pending, key)
	}

	if delay <= 0 {
		go s.enqueue(item{key: key, payload: payload})
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		// A replacement or cancel may have won the race with this timer.
		if s.pending[key] != timer {
			s.mu.Unlock()
			return
		}
		delete(s.pending, key)
		s.mu.Unlock()
		s.enqueue(item{key: key, payload: payload})
	})
	s.pending[key] = timer
}

func (s *Scheduler) enqueue(it item) {
	if s.ctx != nil {
		select {
		case s.queue <- it:
		case <-s.ctx.Done():
		}
		return
	}
	s.queue <- it
}

// Cancel drops the pending job for key, if any.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.pending[key]; ok {
		t.Stop()
		delete(s.pending, key)
	}
}

// CancelMatching drops every pending job whose key satisfies the
// predicate.
func (s *Scheduler) CancelMatching(match func(key string) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, t := range s.pending {
		if match(key) {
			t.Stop()
			delete(s.pending, key)
		}
	}
}

// HasPending reports whether a job is still waiting to fire under key.
func (s *Scheduler) HasPending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[key]
	return ok
}

// Stop cancels all pending timers and waits for in-flight jobs.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for key, t := range s.pending {
		t.Stop()
		delete(s.pending, key)
	}
	started := s.started
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	if started {
		s.wg.Wait()
	}
}
