// Package peer defines the per-peer record tracked for every live radio
// connection, and the status snapshot types reported by the tracker.
package peer

import (
	"time"

	"uwbtrack/datamodel/ranging"
)

// MaxNameLength caps the display name carried on a connect event. Longer
// names are truncated, never rejected.
const MaxNameLength = 32

// State is the lifecycle state of a peer. Disconnected is never stored:
// absence from the registry is the disconnected state.
type State uint8

const (
	StateDisconnected State = iota
	StateConnected
	StateSessionActive
	StateRanging
	StateError
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateSessionActive:
		return "session-active"
	case StateRanging:
		return "ranging"
	case StateError:
		return "error"
	}
	return "invalid"
}

// SessionActive reports whether the state implies an established ranging
// session.
func (s State) SessionActive() bool {
	return s == StateSessionActive || s == StateRanging
}

// Record is one registry entry for a connected peer.
type Record struct {
	Identity     string    `cbor:"1,keyasint"`           // Transport-assigned address, correlation key
	Name         string    `cbor:"2,keyasint,omitempty"` // Display name from the connect event
	AssignedID   uint32    `cbor:"3,keyasint"`           // Small ID, unique among live peers
	State        State     `cbor:"4,keyasint"`
	LastActivity time.Time `cbor:"5,keyasint"` // Last inbound event attributable to this peer
	LastRanging  time.Time `cbor:"6,keyasint,omitempty"` // Last accepted measurement
	LastDistance float64   `cbor:"7,keyasint"`           // Meters; ranging.DistanceUnavailable until first accepted sample
}

// HasActiveSession reports whether a ranging session is currently
// established with this peer.
func (r *Record) HasActiveSession() bool {
	return r.State.SessionActive()
}

// IdleFor returns the elapsed time since the peer's last activity.
func (r *Record) IdleFor(now time.Time) time.Duration {
	return now.Sub(r.LastActivity)
}

// SnapshotEntry is the per-peer detail inside a status snapshot.
type SnapshotEntry struct {
	AssignedID    uint32          `cbor:"1,keyasint"`
	Identity      string          `cbor:"2,keyasint"`
	Name          string          `cbor:"3,keyasint,omitempty"`
	State         State           `cbor:"4,keyasint"`
	SessionActive bool            `cbor:"5,keyasint"`
	Idle          time.Duration   `cbor:"6,keyasint"`
	Distance      float64         `cbor:"7,keyasint"`
	Quality       ranging.Quality `cbor:"8,keyasint"`
}

// Snapshot is an immutable view of the tracker state at one instant. It is
// a pure copy: mutating it never affects the live registry.
type Snapshot struct {
	TakenAt         time.Time       `cbor:"1,keyasint"`
	Peers           int             `cbor:"2,keyasint"`
	ActiveSessions  int             `cbor:"3,keyasint"`
	TransportActive bool            `cbor:"4,keyasint"`
	Entries         []SnapshotEntry `cbor:"5,keyasint,omitempty"`
}

// TruncateName enforces MaxNameLength on display names.
func TruncateName(name string) string {
	if len(name) > MaxNameLength {
		return name[:MaxNameLength]
	}
	return name
}
