package services

import (
	"sync"

	"ride-admin/internal/board/core/domain/model"
)

// ConnStateTracker translates push-transport lifecycle callbacks into the
// three-value state shown in the UI. It takes no action on changes beyond
// notifying observers and gating the trust-live flag.
type ConnStateTracker struct {
	mu        sync.Mutex
	state     model.ConnState
	observers []func(model.ConnState)
}

func NewConnStateTracker() *ConnStateTracker {
	return &ConnStateTracker{state: model.ConnDisconnected}
}

// Transition records a lifecycle change. Repeated reports of the current
// state are ignored so observers see each transition exactly once, in order.
func (t *ConnStateTracker) Transition(state model.ConnState) {
	t.mu.Lock()
	if state == t.state {
		t.mu.Unlock()
		return
	}
	t.state = state
	observers := make([]func(model.ConnState), len(t.observers))
	copy(observers, t.observers)
	t.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}

// State returns the current connection state.
func (t *ConnStateTracker) State() model.ConnState {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

// TrustLive reports whether live updates are currently trustworthy. Views
// use it to decide whether to show a stale-data warning.
func (t *ConnStateTracker) TrustLive() bool {
	return t.State() == model.ConnConnected
}

// OnChange registers an observer for subsequent transitions.
func (t *ConnStateTracker) OnChange(fn func(model.ConnState)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.observers = append(t.observers, fn)
}
