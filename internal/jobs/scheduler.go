package jobs

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"FinDeck/pkg/logger"
	"FinDeck/pkg/queue"
)

// Scheduler periodically enqueues refresh messages so the dashboard
// caches stay warm without waiting for a request-path miss.
type Scheduler struct {
	q        queue.QueueService
	interval time.Duration
	log      *logger.Logger

	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewScheduler(q queue.QueueService, interval time.Duration, log *logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Scheduler{
		q:        q,
		interval: interval,
		log:      log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the scheduling loop. An initial round fires immediately.
// Calling Start twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(s.doneCh)

		s.enqueueAll(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.enqueueAll(ctx)
			}
		}
	}()
	s.log.Info("refresh scheduler started", logger.Duration("interval", s.interval))
}

// Stop terminates the scheduling loop and waits for it to exit. Safe to
// call without a prior Start: there is no loop to wait for in that case.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	if s.started.Load() {
		<-s.doneCh
	}
}

func (s *Scheduler) enqueueAll(ctx context.Context) {
	for _, msgType := range []string{TypeRefreshRates, TypeRefreshSpreads, TypeRefreshNews} {
		if err := s.q.PublishMessage(ctx, msgType, nil); err != nil {
			s.log.Warn("enqueue refresh failed",
				logger.String("type", msgType),
				logger.Error(err))
		}
	}
}
