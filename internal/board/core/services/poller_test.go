package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestPollerRefreshesOnInterval(t *testing.T) {
	q := NewQueryCache(testLogger())
	var calls atomic.Int64
	q.Register("liveRides", func(ctx context.Context) (any, error) {
		calls.Add(1)
		return nil, nil
	})

	p := NewPoller(q, []PollTarget{{Group: "liveRides", Interval: 20 * time.Millisecond}}, testLogger())
	p.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	p.Stop()

	if calls.Load() < 3 {
		t.Fatalf("refreshed %d times, want at least 3 (initial + ticks)", calls.Load())
	}
}

func TestPollerStopIsSynchronous(t *testing.T) {
	q := NewQueryCache(testLogger())
	var calls atomic.Int64
	q.Register("drivers", func(ctx context.Context) (any, error) {
		calls.Add(1)
		return nil, nil
	})

	p := NewPoller(q, []PollTarget{{Group: "drivers", Interval: 10 * time.Millisecond}}, testLogger())
	p.Start(context.Background())
	time.Sleep(35 * time.Millisecond)
	p.Stop()

	after := calls.Load()
	time.Sleep(50 * time.Millisecond)

	if calls.Load() != after {
		t.Error("poll loop fired after Stop returned")
	}
}

func TestPollerSurvivesFailingFetch(t *testing.T) {
	q := NewQueryCache(testLogger())
	var calls atomic.Int64
	q.Register("flaky", func(ctx context.Context) (any, error) {
		calls.Add(1)
		return nil, context.DeadlineExceeded
	})

	p := NewPoller(q, []PollTarget{{Group: "flaky", Interval: 15 * time.Millisecond}}, testLogger())
	p.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	p.Stop()

	if calls.Load() < 2 {
		t.Error("poller stopped retrying after a failed fetch")
	}
}
