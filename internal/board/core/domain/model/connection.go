package model

// ConnState is the three-value push-channel state surfaced to the UI.
// Transitions are driven only by the transport's own lifecycle, never set
// directly by application logic.
type ConnState int

const (
	ConnDisconnected ConnState = iota
	ConnReconnecting
	ConnConnected
)

func (s ConnState) String() string {
	switch s {
	case ConnReconnecting:
		return "reconnecting"
	case ConnConnected:
		return "connected"
	default:
		return "disconnected"
	}
}
