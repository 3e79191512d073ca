package services

import (
	"context"
	"sync"
	"time"

	"ride-admin/internal/mylogger"
)

// PollTarget names a query group and how often it is refreshed.
type PollTarget struct {
	Group    string
	Interval time.Duration
}

// Poller periodically refreshes query groups from the REST API. It is the
// freshness floor: even with the push channel down, views converge within
// one poll interval. Stop is synchronous so no ticker fires into a disposed
// cache after the session closes.
type Poller struct {
	queries *QueryCache
	targets []PollTarget
	mylog   mylogger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPoller(queries *QueryCache, targets []PollTarget, mylog mylogger.Logger) *Poller {
	return &Poller{
		queries: queries,
		targets: targets,
		mylog:   mylog,
	}
}

// Start launches one refresh loop per target. Each loop refreshes once
// immediately so views have data before the first tick.
func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	for _, target := range p.targets {
		p.wg.Add(1)
		go p.loop(ctx, target)
	}
}

// Stop cancels all loops and waits for them to exit.
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

func (p *Poller) loop(ctx context.Context, target PollTarget) {
	defer p.wg.Done()

	p.refresh(ctx, target.Group)

	ticker := time.NewTicker(target.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.refresh(ctx, target.Group)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) refresh(ctx context.Context, group string) {
	if err := p.queries.Refresh(ctx, group); err != nil {
		// Transient poll failures stay inline; the next tick retries.
		p.mylog.Action("poll_refresh_failed").Warn("poll failed, will retry", "group", group, "error", err.Error())
	}
}
