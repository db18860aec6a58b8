package smtp

// State names the position of a login attempt in its lifecycle. The only
// backward step a Client ever takes is the deliberate replacement of the
// plaintext session during the TLS upgrade.
type State uint

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateNegotiated
	StateTLSUpgrading
	StateReconnected
	StateRenegotiated
	StateMethodSelected
	StateAuthenticating
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateNegotiated:
		return "negotiated"
	case StateTLSUpgrading:
		return "tls_upgrading"
	case StateReconnected:
		return "reconnected"
	case StateRenegotiated:
		return "renegotiated"
	case StateMethodSelected:
		return "method_selected"
	case StateAuthenticating:
		return "authenticating"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}

	return "unknown"
}
