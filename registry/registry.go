// Package registry implements the fixed-capacity peer table. Entries are
// kept in a dense, insertion-stable sequence backed by a preallocated
// array: lookups are linear scans, removal shift-compacts, and no
// allocation happens on the event path.
//
// The registry is single-owner and does no locking; the tracker serializes
// all access to it.
package registry

import (
	"errors"
	"time"

	"uwbtrack/datamodel/peer"
	"uwbtrack/datamodel/ranging"
)

var (
	ErrCapacity = errors.New("registry at capacity")
	ErrNotFound = errors.New("peer not found")
)

// Assigned IDs start at 1 and count up; the counter rewinds to 1 only when
// the registry drains completely. IDs are therefore unique while any peer
// is connected, not across the process lifetime.
const initialAssignedID = 1

type Registry struct {
	records []peer.Record
	nextID  uint32
	now     func() time.Time
}

// New creates an empty registry with the given capacity.
func New(capacity int) *Registry {
	return NewWithClock(capacity, time.Now)
}

// NewWithClock is New with an injectable time source, for tests.
func NewWithClock(capacity int, now func() time.Time) *Registry {
	return &Registry{
		records: make([]peer.Record, 0, capacity),
		nextID:  initialAssignedID,
		now:     now,
	}
}

func (r *Registry) Capacity() int { return cap(r.records) }

// Lookup returns the index of the record for identity, or -1.
func (r *Registry) Lookup(identity string) int {
	for i := range r.records {
		if r.records[i].Identity == identity {
			return i
		}
	}
	return -1
}

// Get returns a copy of the record for identity.
func (r *Registry) Get(identity string) (peer.Record, bool) {
	i := r.Lookup(identity)
	if i < 0 {
		return peer.Record{}, false
	}
	return r.records[i], true
}

// At returns a copy of the record at index i. Valid for 0 <= i < Count().
func (r *Registry) At(i int) peer.Record {
	return r.records[i]
}

// Insert registers a new peer in Connected state. Fails with ErrCapacity
// when the table is full; existing entries are untouched in that case.
func (r *Registry) Insert(identity, name string) (peer.Record, error) {
	if len(r.records) == cap(r.records) {
		return peer.Record{}, ErrCapacity
	}
	rec := peer.Record{
		Identity:     identity,
		Name:         peer.TruncateName(name),
		AssignedID:   r.nextID,
		State:        peer.StateConnected,
		LastActivity: r.now(),
		LastDistance: ranging.DistanceUnavailable,
	}
	r.nextID++
	r.records = append(r.records, rec)
	return rec, nil
}

// Remove drops the record for identity, shifting later entries down one
// position so the sequence stays dense and insertion-ordered. Emptying the
// registry rewinds the assigned-ID counter.
func (r *Registry) Remove(identity string) (peer.Record, error) {
	i := r.Lookup(identity)
	if i < 0 {
		return peer.Record{}, ErrNotFound
	}
	removed := r.records[i]
	copy(r.records[i:], r.records[i+1:])
	r.records = r.records[:len(r.records)-1]
	if len(r.records) == 0 {
		r.nextID = initialAssignedID
	}
	return removed, nil
}

// Touch refreshes LastActivity. Absent identities are a no-op, not an
// error: events race with disconnection.
func (r *Registry) Touch(identity string) bool {
	i := r.Lookup(identity)
	if i < 0 {
		return false
	}
	r.records[i].LastActivity = r.now()
	return true
}

// MarkSession toggles the ranging session for identity. Activating moves
// Connected to SessionActive; deactivating drops SessionActive or Ranging
// back to Connected. Peers in Error state keep it. Absent identities are a
// no-op.
func (r *Registry) MarkSession(identity string, active bool) bool {
	i := r.Lookup(identity)
	if i < 0 {
		return false
	}
	rec := &r.records[i]
	if rec.State == peer.StateError {
		return true
	}
	if active {
		if rec.State == peer.StateConnected {
			rec.State = peer.StateSessionActive
		}
	} else if rec.State.SessionActive() {
		rec.State = peer.StateConnected
	}
	return true
}

// SetState forces the lifecycle state for identity. Absent identities are
// a no-op.
func (r *Registry) SetState(identity string, s peer.State) bool {
	i := r.Lookup(identity)
	if i < 0 {
		return false
	}
	r.records[i].State = s
	return true
}

// RecordRange stores an accepted distance for identity, refreshes both
// activity timestamps, and promotes an active session to Ranging.
func (r *Registry) RecordRange(identity string, distance float64) bool {
	i := r.Lookup(identity)
	if i < 0 {
		return false
	}
	rec := &r.records[i]
	now := r.now()
	rec.LastDistance = distance
	rec.LastRanging = now
	rec.LastActivity = now
	if rec.State == peer.StateSessionActive {
		rec.State = peer.StateRanging
	}
	return true
}

// Count returns the number of live entries.
func (r *Registry) Count() int { return len(r.records) }

// ActiveSessionCount returns the number of peers with an established
// ranging session.
func (r *Registry) ActiveSessionCount() int {
	n := 0
	for i := range r.records {
		if r.records[i].HasActiveSession() {
			n++
		}
	}
	return n
}

// Records returns a copy of the live entries in insertion order.
func (r *Registry) Records() []peer.Record {
	out := make([]peer.Record, len(r.records))
	copy(out, r.records)
	return out
}
