package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinDeck/pkg/logger"
)

type fakeQueue struct {
	mu    sync.Mutex
	types []string
}

func (q *fakeQueue) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.types = append(q.types, msgType)
	return nil
}

func (q *fakeQueue) published() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, len(q.types))
	copy(out, q.types)
	return out
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestSchedulerEnqueuesInitialRound(t *testing.T) {
	q := &fakeQueue{}
	s := NewScheduler(q, time.Hour, testLogger(t))

	s.Start(context.Background())
	defer s.Stop()

	require.Eventually(t, func() bool {
		return len(q.published()) >= 3
	}, time.Second, 10*time.Millisecond)

	assert.ElementsMatch(t,
		[]string{TypeRefreshRates, TypeRefreshSpreads, TypeRefreshNews},
		q.published()[:3])
}

func TestSchedulerStopWithoutStart(t *testing.T) {
	s := NewScheduler(&fakeQueue{}, time.Hour, testLogger(t))

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked without a prior Start")
	}
}

func TestSchedulerStopAfterStart(t *testing.T) {
	s := NewScheduler(&fakeQueue{}, time.Hour, testLogger(t))
	s.Start(context.Background())

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not terminate the loop")
	}
}
