package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ride-admin/internal/mylogger"
)

// FetchFunc loads fresh data for one query group from the REST API.
type FetchFunc func(ctx context.Context) (any, error)

// ErrUnknownGroup is returned when a group was never registered.
var ErrUnknownGroup = fmt.Errorf("unknown query group")

type queryGroup struct {
	fetch     FetchFunc
	data      any
	fetched   bool
	stale     bool
	fetchedAt time.Time
	lastErr   error
}

// QueryCache is the named cache partition layer: each group holds the last
// fetched payload and a stale flag. Invalidation marks a group stale; the
// next access refetches. A failed refetch keeps the previous data and
// records an inline error for the affected group only.
type QueryCache struct {
	mu     sync.Mutex
	groups map[string]*queryGroup
	mylog  mylogger.Logger
}

func NewQueryCache(mylog mylogger.Logger) *QueryCache {
	return &QueryCache{
		groups: make(map[string]*queryGroup),
		mylog:  mylog,
	}
}

// Register binds a group name to its fetcher. Registering an existing name
// replaces the fetcher and drops cached data.
func (q *QueryCache) Register(name string, fetch FetchFunc) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.groups[name] = &queryGroup{fetch: fetch, stale: true}
}

// Unregister removes a group entirely. Detail views register per-entity
// groups on mount and unregister on unmount.
func (q *QueryCache) Unregister(name string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.groups, name)
}

// Invalidate marks a group stale so the next access refetches. Unknown
// names are ignored: events may reference detail groups no view has open.
func (q *QueryCache) Invalidate(name string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if g, ok := q.groups[name]; ok {
		g.stale = true
	}
}

// Get returns the group's data, refetching first when stale. When a refetch
// fails but earlier data exists, the earlier data is returned and the error
// is recorded inline rather than propagated.
func (q *QueryCache) Get(ctx context.Context, name string) (any, error) {
	q.mu.Lock()
	g, ok := q.groups[name]
	if !ok {
		q.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrUnknownGroup, name)
	}
	needsFetch := g.stale || !g.fetched
	fetch := g.fetch
	q.mu.Unlock()

	if needsFetch {
		data, err := fetch(ctx)

		q.mu.Lock()
		defer q.mu.Unlock()
		if err != nil {
			g.lastErr = err
			q.mylog.Action("query_group_fetch_failed").Warn("keeping previous data", "group", name, "error", err.Error())
			if !g.fetched {
				return nil, err
			}
			return g.data, nil
		}
		g.data = data
		g.fetched = true
		g.stale = false
		g.fetchedAt = time.Now()
		g.lastErr = nil
		return g.data, nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	return g.data, nil
}

// Refresh forces a refetch regardless of staleness. Pollers use it.
func (q *QueryCache) Refresh(ctx context.Context, name string) error {
	q.Invalidate(name)
	_, err := q.Get(ctx, name)
	return err
}

// LastError reports the group's inline error from its most recent fetch
// attempt, nil when the last fetch succeeded.
func (q *QueryCache) LastError(name string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if g, ok := q.groups[name]; ok {
		return g.lastErr
	}
	return fmt.Errorf("%w: %s", ErrUnknownGroup, name)
}
