package tracker

import (
	"uwbtrack/datamodel/peer"
	"uwbtrack/datamodel/ranging"

	log "github.com/sirupsen/logrus"
)

// Snapshot returns an immutable view of the tracker state: aggregate
// counts plus per-peer detail. It is a pure read and safe to call
// concurrently with event delivery and sweeps.
func (t *Tracker) Snapshot() *peer.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	records := t.reg.Records()
	snap := &peer.Snapshot{
		TakenAt:         now,
		Peers:           len(records),
		ActiveSessions:  t.reg.ActiveSessionCount(),
		TransportActive: t.transportActive,
		Entries:         make([]peer.SnapshotEntry, 0, len(records)),
	}
	for i := range records {
		rec := &records[i]
		snap.Entries = append(snap.Entries, peer.SnapshotEntry{
			AssignedID:    rec.AssignedID,
			Identity:      rec.Identity,
			Name:          rec.Name,
			State:         rec.State,
			SessionActive: rec.HasActiveSession(),
			Idle:          rec.IdleFor(now),
			Distance:      rec.LastDistance,
			Quality:       ranging.QualityForDistance(rec.LastDistance),
		})
	}
	return snap
}

// LogSnapshot writes a snapshot to the operator log, one aggregate line
// and one line per peer.
func LogSnapshot(snap *peer.Snapshot) {
	log.Infof("Status: %d peers, %d active sessions, transport active: %t",
		snap.Peers, snap.ActiveSessions, snap.TransportActive)
	for _, e := range snap.Entries {
		log.Infof("  #%d %s (%q): state=%s session=%t idle=%v distance=%.2fm quality=%s",
			e.AssignedID, e.Identity, e.Name, e.State, e.SessionActive, e.Idle, e.Distance, e.Quality)
	}
}
