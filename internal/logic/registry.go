package logic

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DashboardFactory builds the dashboard for a session ID
type DashboardFactory func(sessionID string) *Dashboard

// Registry keeps the live dashboards keyed by session ID. Evicted dashboards
// are closed.
type Registry struct {
	mu      sync.Mutex
	cache   *lru.Cache[string, *Dashboard]
	factory DashboardFactory
}

func NewRegistry(size int, factory DashboardFactory) (*Registry, error) {
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.NewWithEvict[string, *Dashboard](size, func(_ string, d *Dashboard) {
		d.Close()
	})
	if err != nil {
		return nil, err
	}
	return &Registry{cache: cache, factory: factory}, nil
}

// Get returns the dashboard for sessionID, creating it on first use
func (r *Registry) Get(sessionID string) *Dashboard {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.cache.Get(sessionID); ok {
		return d
	}
	d := r.factory(sessionID)
	r.cache.Add(sessionID, d)
	return d
}

// Remove closes and forgets the dashboard for sessionID
func (r *Registry) Remove(sessionID string) {
	r.cache.Remove(sessionID)
}

// Len is the number of live dashboards
func (r *Registry) Len() int {
	return r.cache.Len()
}

// Close closes every dashboard
func (r *Registry) Close() {
	r.cache.Purge()
}
