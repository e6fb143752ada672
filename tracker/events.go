package tracker

// EventKind identifies a transport- or session-layer lifecycle event.
type EventKind uint8

const (
	EventConnect EventKind = iota + 1
	EventDisconnect
	EventSessionStart
	EventSessionStop
	EventPeerFault
)

func (k EventKind) String() string {
	switch k {
	case EventConnect:
		return "connect"
	case EventDisconnect:
		return "disconnect"
	case EventSessionStart:
		return "session-start"
	case EventSessionStop:
		return "session-stop"
	case EventPeerFault:
		return "peer-fault"
	}
	return "unknown"
}

// Event is one lifecycle event keyed by the transport-assigned peer
// identity. Name is only meaningful on connect.
type Event struct {
	Kind     EventKind `cbor:"1,keyasint"`
	Identity string    `cbor:"2,keyasint"`
	Name     string    `cbor:"3,keyasint,omitempty"`
}
