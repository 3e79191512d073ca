package ports

import (
	"context"
	"encoding/json"

	"ride-admin/internal/board/core/domain/model"
)

// ISubscription is a handle to one event registration. Close releases it and
// is safe to call more than once.
type ISubscription interface {
	Close()
}

// IPushChannel is the server-to-client event stream. The transport owns its
// reconnection policy; consumers only observe the resulting state changes.
type IPushChannel interface {
	// Run drives the connect/read/reconnect loop until ctx is cancelled.
	Run(ctx context.Context)

	// Subscribe registers a handler for a named event. Handlers run serially
	// on the channel's dispatch goroutine.
	Subscribe(event string, fn func(data json.RawMessage)) ISubscription

	// OnStateChange registers a lifecycle observer. Must be called before Run.
	OnStateChange(fn func(state model.ConnState))

	// JoinRoom and LeaveRoom manage room membership imperatively. Joined
	// rooms are re-joined after a reconnect.
	JoinRoom(room string)
	LeaveRoom(room string)

	Close() error
}
