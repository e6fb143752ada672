package tracker

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Sweep makes one eviction pass over the registry: peers idle past the
// connection timeout are removed through the same path as an explicit
// disconnect, and sessions that produced no accepted measurement for the
// session timeout are demoted back to connected. Returns the number of
// peers evicted.
//
// The pass walks from the highest index down so that shift-compaction
// after a removal cannot skip or re-visit an entry.
func (t *Tracker) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	evicted := 0
	for i := t.reg.Count() - 1; i >= 0; i-- {
		rec := t.reg.At(i)

		if idle := rec.IdleFor(now); idle > t.cfg.ConnectTimeout {
			log.Warnf("Peer %s (#%d) idle for %v, evicting", rec.Identity, rec.AssignedID, idle.Truncate(time.Millisecond))
			t.removePeer(rec.Identity, "timeout")
			evicted++
			continue
		}

		if !rec.HasActiveSession() {
			continue
		}
		// Sessions are aged by their last accepted measurement; a session
		// that never ranged ages from its last activity instead.
		base := rec.LastRanging
		if base.IsZero() {
			base = rec.LastActivity
		}
		if now.Sub(base) > t.cfg.SessionTimeout {
			log.Warnf("Peer %s (#%d) session idle past %v, demoting to connected", rec.Identity, rec.AssignedID, t.cfg.SessionTimeout)
			t.reg.MarkSession(rec.Identity, false)
		}
	}
	return evicted
}
