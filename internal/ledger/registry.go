package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type session struct {
	ledger   *Ledger
	lastSeen time.Time
}

// Registry maps session IDs to their ledgers. Sessions are ephemeral: an
// unknown ID lazily creates a fresh ledger, and sessions idle past the TTL
// are evicted by a background sweep. Nothing survives a restart.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

func NewRegistry(ttl time.Duration, sweep time.Duration) *Registry {
	r := &Registry{
		sessions: make(map[string]*session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	if sweep > 0 {
		go r.janitor(sweep)
	}
	return r
}

// Get returns the ledger for id, creating one if needed. An empty id gets
// a fresh session under a generated ID. The resolved ID is returned so the
// handler can echo it back to the client.
func (r *Registry) Get(id string) (string, *Ledger) {
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		s = &session{ledger: New()}
		r.sessions[id] = s
	}
	s.lastSeen = now
	return id, s.ledger
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *Registry) janitor(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-r.stop:
			return
		case now := <-t.C:
			r.evict(now)
		}
	}
}

func (r *Registry) evict(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.ttl {
			delete(r.sessions, id)
		}
	}
}
