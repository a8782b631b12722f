package identity

// Phase is a step in the lifecycle of a change request.
type Phase uint8

const (
	PhaseReceived Phase = iota
	PhaseAuthorizationPending
	PhaseValidating
	PhasePersisting
	PhaseCommitted
	PhaseDenied
	PhaseAuthError
	PhaseReadOnlyRejected
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseReceived:
		return "received"
	case PhaseAuthorizationPending:
		return "authorization-pending"
	case PhaseValidating:
		return "validating"
	case PhasePersisting:
		return "persisting"
	case PhaseCommitted:
		return "committed"
	case PhaseDenied:
		return "denied"
	case PhaseAuthError:
		return "auth-error"
	case PhaseReadOnlyRejected:
		return "read-only-rejected"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}
