package services

import (
	"sync"
	"time"

	"ride-admin/internal/board/core/domain/model"
)

// LocationCache keeps one authoritative last-known position per tracked
// entity id, driven purely by inbound location events. Writes arrive on the
// push channel's dispatch goroutine while map handlers read concurrently, so
// access is guarded. Last write wins unconditionally; event ordering is
// trusted as delivered by the transport.
type LocationCache struct {
	mu        sync.RWMutex
	locations map[string]model.Location
	now       func() time.Time
}

func NewLocationCache() *LocationCache {
	return &LocationCache{
		locations: make(map[string]model.Location),
		now:       time.Now,
	}
}

// Record overwrites any prior entry for entityID.
func (c *LocationCache) Record(entityID string, lat, lng float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.locations[entityID] = model.Location{
		Latitude:   lat,
		Longitude:  lng,
		ObservedAt: c.now(),
	}
}

// Get returns the last observed location for entityID, if any.
func (c *LocationCache) Get(entityID string) (model.Location, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	loc, ok := c.locations[entityID]
	return loc, ok
}

// Len reports the number of tracked entities.
func (c *LocationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.locations)
}

// Reset discards all entries. Called when the board session closes so a new
// session starts from an empty cache.
func (c *LocationCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.locations = make(map[string]model.Location)
}
