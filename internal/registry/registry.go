package registry

import (
	"sync"
	"time"

	"leaveledger/internal/models"
)

// Defaults sized for a single team's traffic: reactions on messages older
// than the TTL no longer resolve anything.
const (
	DefaultCapacity = 512
	DefaultTTL      = 14 * 24 * time.Hour
)

type entry struct {
	req      models.PendingRequest
	storedAt time.Time
}

// Registry maps posted-message timestamps to pending leave requests.
// It is mutex-guarded because net/http runs handlers on concurrent
// goroutines, and bounded by capacity and per-entry TTL so a stray reaction
// years later cannot re-trigger a ledger mutation.
//
// Entries are kept after resolution: adding the opposite reaction within the
// TTL corrects an earlier decision.
type Registry struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time

	entries map[string]entry
	order   []string // insertion order, oldest first
}

func New(capacity int, ttl time.Duration) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		entries:  make(map[string]entry),
	}
}

// SetClock replaces the registry clock. Test hook.
func (r *Registry) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Put stores a pending request under the given message id, evicting expired
// entries first and then the oldest entry if the registry is still full.
func (r *Registry) Put(id string, req models.PendingRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictExpiredLocked()

	if _, exists := r.entries[id]; exists {
		r.removeFromOrderLocked(id)
	} else if len(r.entries) >= r.capacity {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.entries, oldest)
	}

	r.entries[id] = entry{req: req, storedAt: r.now()}
	r.order = append(r.order, id)
}

// Get returns the pending request for the given message id. Expired entries
// miss as if they were never stored.
func (r *Registry) Get(id string) (models.PendingRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return models.PendingRequest{}, false
	}
	if r.now().Sub(e.storedAt) > r.ttl {
		delete(r.entries, id)
		r.removeFromOrderLocked(id)
		return models.PendingRequest{}, false
	}
	return e.req, true
}

// Len reports the number of live entries, counting any not yet evicted.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) evictExpiredLocked() {
	cutoff := r.now().Add(-r.ttl)
	for len(r.order) > 0 {
		id := r.order[0]
		if r.entries[id].storedAt.After(cutoff) {
			break
		}
		r.order = r.order[1:]
		delete(r.entries, id)
	}
}

func (r *Registry) removeFromOrderLocked(id string) {
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
