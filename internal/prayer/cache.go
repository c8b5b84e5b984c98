package prayer

import (
	"sync"
	"sync/atomic"
)

// RefreshRequest asks the provider for a location's schedule on a date.
// Only the response carrying the latest issued Generation may be applied.
type RefreshRequest struct {
	LocationKey string
	Date        Date
	Generation  uint64
}

// Snapshot is the cached schedule with the request that produced it.
type Snapshot struct {
	Schedule    *Schedule
	LocationKey string
	Generation  uint64
}

// ScheduleCache holds the most recently accepted schedule.
// Reads are lock-free; Issue and Set share a mutex so that the generation
// check and the swap happen as one step.
type ScheduleCache struct {
	current atomic.Pointer[Snapshot]
	latest  atomic.Uint64

	mu sync.Mutex
}

// NewScheduleCache creates an empty cache.
func NewScheduleCache() *ScheduleCache {
	return &ScheduleCache{}
}

// Get returns the current snapshot, or nil if nothing was ever accepted.
func (c *ScheduleCache) Get() *Snapshot {
	return c.current.Load()
}

// Latest returns the latest issued generation.
func (c *ScheduleCache) Latest() uint64 {
	return c.latest.Load()
}

// Issue creates a request with a freshly incremented generation, which
// supersedes every request issued before it.
func (c *ScheduleCache) Issue(locationKey string, date Date) RefreshRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	gen := c.latest.Add(1)
	return RefreshRequest{LocationKey: locationKey, Date: date, Generation: gen}
}

// Invalidate bumps the generation without issuing a request, discarding
// every response still in flight.
func (c *ScheduleCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.latest.Add(1)
}

// Set applies schedule if req is still the latest request. It returns false
// when the response was superseded and has been discarded.
func (c *ScheduleCache) Set(req RefreshRequest, schedule *Schedule) bool {
	if schedule == nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if req.Generation != c.latest.Load() {
		return false
	}
	c.current.Store(&Snapshot{
		Schedule:    schedule,
		LocationKey: req.LocationKey,
		Generation:  req.Generation,
	})
	return true
}
