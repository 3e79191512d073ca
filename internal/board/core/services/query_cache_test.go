package services

import (
	"context"
	"errors"
	"testing"
)

func TestQueryCacheFetchesOncePerInvalidation(t *testing.T) {
	q := NewQueryCache(testLogger())
	calls := 0
	q.Register("stats", func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	})

	ctx := context.Background()

	// First access fetches; repeated access serves the cache.
	for i := 0; i < 3; i++ {
		if _, err := q.Get(ctx, "stats"); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Fatalf("fetched %d times, want 1", calls)
	}

	q.Invalidate("stats")

	got, err := q.Get(ctx, "stats")
	if err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("fetched %d times after invalidation, want 2", calls)
	}
	if got.(int) != 2 {
		t.Errorf("got %v, want refetched value 2", got)
	}
}

func TestQueryCacheKeepsDataOnFailedRefetch(t *testing.T) {
	q := NewQueryCache(testLogger())
	fail := false
	q.Register("drivers", func(ctx context.Context) (any, error) {
		if fail {
			return nil, errors.New("upstream down")
		}
		return "snapshot", nil
	})

	ctx := context.Background()
	if _, err := q.Get(ctx, "drivers"); err != nil {
		t.Fatal(err)
	}

	fail = true
	q.Invalidate("drivers")

	got, err := q.Get(ctx, "drivers")
	if err != nil {
		t.Fatalf("stale data should be served, got error %v", err)
	}
	if got != "snapshot" {
		t.Errorf("got %v, want previous snapshot", got)
	}
	if q.LastError("drivers") == nil {
		t.Error("inline error not recorded")
	}

	fail = false
	q.Invalidate("drivers")
	if _, err := q.Get(ctx, "drivers"); err != nil {
		t.Fatal(err)
	}
	if q.LastError("drivers") != nil {
		t.Error("inline error not cleared after recovery")
	}
}

func TestQueryCacheFirstFetchFailurePropagates(t *testing.T) {
	q := NewQueryCache(testLogger())
	q.Register("empty", func(ctx context.Context) (any, error) {
		return nil, errors.New("no data yet")
	})

	if _, err := q.Get(context.Background(), "empty"); err == nil {
		t.Error("expected error when no previous data exists")
	}
}

func TestQueryCacheUnknownGroup(t *testing.T) {
	q := NewQueryCache(testLogger())

	if _, err := q.Get(context.Background(), "nope"); !errors.Is(err, ErrUnknownGroup) {
		t.Errorf("err = %v, want ErrUnknownGroup", err)
	}

	// Invalidating a group no view has open is a no-op, not an error.
	q.Invalidate("driver:closed")
}

func TestQueryCacheUnregister(t *testing.T) {
	q := NewQueryCache(testLogger())
	q.Register("driver:D1", func(ctx context.Context) (any, error) { return "detail", nil })

	if _, err := q.Get(context.Background(), "driver:D1"); err != nil {
		t.Fatal(err)
	}

	q.Unregister("driver:D1")

	if _, err := q.Get(context.Background(), "driver:D1"); !errors.Is(err, ErrUnknownGroup) {
		t.Errorf("err = %v, want ErrUnknownGroup after unregister", err)
	}
}
