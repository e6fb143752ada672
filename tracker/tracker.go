// Package tracker orchestrates peer lifecycle bookkeeping: it applies
// transport and session events to the registry, sweeps out stale peers,
// filters ranging measurements, and produces status snapshots.
//
// All entry points serialize on one mutex, so events, sweeps and status
// reads are linearizable with respect to each other. Callbacks handed to
// the tracker (RangeSink) must not call back into it.
package tracker

import (
	"sync"
	"time"

	"uwbtrack/datamodel/peer"
	"uwbtrack/registry"

	log "github.com/sirupsen/logrus"
)

// Radio is the lower-layer radio stack contract. Start and Stop must be
// idempotent; the tracker only issues them on 0->1 and 1->0 peer count
// transitions.
type Radio interface {
	Start() error
	Stop() error
}

// RangeSink receives measurements that passed the ingest filter. It must
// be short and must not re-enter the tracker.
type RangeSink func(identity string, distance float64)

// Config carries the timing policy. Zero values fall back to the firmware
// defaults.
type Config struct {
	ConnectTimeout time.Duration // Idle time after which a peer is evicted
	SessionTimeout time.Duration // Ranging-idle time after which a session is demoted
}

const (
	DefaultConnectTimeout = 30 * time.Second
	DefaultSessionTimeout = 60 * time.Second
)

func (c *Config) withDefaults() Config {
	out := *c
	if out.ConnectTimeout <= 0 {
		out.ConnectTimeout = DefaultConnectTimeout
	}
	if out.SessionTimeout <= 0 {
		out.SessionTimeout = DefaultSessionTimeout
	}
	return out
}

type Tracker struct {
	mu              sync.Mutex
	reg             *registry.Registry
	radio           Radio
	cfg             Config
	sink            RangeSink
	transportActive bool
	now             func() time.Time
}

// New creates a tracker owning reg. radio may not be nil; sink may be.
func New(reg *registry.Registry, radio Radio, cfg Config, sink RangeSink) *Tracker {
	return &Tracker{
		reg:   reg,
		radio: radio,
		cfg:   cfg.withDefaults(),
		sink:  sink,
		now:   time.Now,
	}
}

// NewWithClock is New with an injectable time source, for tests.
func NewWithClock(reg *registry.Registry, radio Radio, cfg Config, sink RangeSink, now func() time.Time) *Tracker {
	t := New(reg, radio, cfg, sink)
	t.now = now
	return t
}

// Apply dispatches one lifecycle event. Every recognized failure is
// absorbed locally: bad input never panics and never corrupts the
// registry.
func (t *Tracker) Apply(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev.Kind {
	case EventConnect:
		t.handleConnect(ev)
	case EventDisconnect:
		t.removePeer(ev.Identity, "disconnect")
	case EventSessionStart:
		t.reg.MarkSession(ev.Identity, true)
		t.reg.Touch(ev.Identity)
	case EventSessionStop:
		t.reg.MarkSession(ev.Identity, false)
	case EventPeerFault:
		if t.reg.SetState(ev.Identity, peer.StateError) {
			t.reg.Touch(ev.Identity)
			log.Warnf("Peer %s reported a fault, holding in error state until disconnect", ev.Identity)
		}
	default:
		log.Warnf("Ignoring event with unknown kind %d for %s", ev.Kind, ev.Identity)
	}
}

func (t *Tracker) handleConnect(ev Event) {
	// A connect for a live identity is either a duplicate delivery or the
	// transport reusing an address before we cleaned up. Either way no new
	// slot: refresh the record and make the reuse operator-visible.
	if _, ok := t.reg.Get(ev.Identity); ok {
		log.Warnf("Connect for already-registered identity %s, treating as duplicate delivery", ev.Identity)
		t.reg.Touch(ev.Identity)
		return
	}

	rec, err := t.reg.Insert(ev.Identity, ev.Name)
	if err != nil {
		log.Warnf("Rejecting connect from %s: %v (%d peers registered)", ev.Identity, err, t.reg.Count())
		return
	}
	log.Infof("Peer %s connected as #%d (%q)", rec.Identity, rec.AssignedID, rec.Name)

	if t.reg.Count() == 1 {
		t.startTransport()
	}
}

// removePeer is the single removal path shared by disconnect events and
// timeout eviction. Caller holds the lock.
func (t *Tracker) removePeer(identity, reason string) {
	rec, err := t.reg.Remove(identity)
	if err != nil {
		// Disconnects race with timeout eviction; a straggler is expected.
		log.Warnf("Ignoring %s for unknown identity %s", reason, identity)
		return
	}
	log.Infof("Peer %s (#%d) removed: %s", rec.Identity, rec.AssignedID, reason)

	if t.reg.Count() == 0 {
		t.stopTransport()
	}
}

func (t *Tracker) startTransport() {
	if t.transportActive {
		return
	}
	if err := t.radio.Start(); err != nil {
		log.Errorf("Failed to start transport: %v", err)
		return
	}
	t.transportActive = true
	log.Infof("Transport started")
}

func (t *Tracker) stopTransport() {
	if !t.transportActive {
		return
	}
	if err := t.radio.Stop(); err != nil {
		log.Errorf("Failed to stop transport: %v", err)
	}
	t.transportActive = false
	log.Infof("Transport stopped")
}

// TransportActive reports whether the lower radio stack is running.
func (t *Tracker) TransportActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.transportActive
}
