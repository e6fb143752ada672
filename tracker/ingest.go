package tracker

import (
	"uwbtrack/datamodel/ranging"

	log "github.com/sirupsen/logrus"
)

// Ingest validates a raw measurement report and forwards the results that
// pass. A result is forwarded only when its status is success, its
// distance is real and within the hardware envelope, and the issuing peer
// currently holds an active session. Everything else is dropped here and
// never reaches a consumer; ranging data for a peer we no longer believe
// is in a session is meaningless, and a session-stop can cross a trailing
// measurement in flight.
//
// Returns the number of results forwarded.
func (t *Tracker) Ingest(rep ranging.Report) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if rep.Kind != ranging.KindRanging {
		log.Debugf("Dropping measurement report of kind %d from %s", rep.Kind, rep.Identity)
		return 0
	}

	rec, ok := t.reg.Get(rep.Identity)
	if !ok {
		log.Debugf("Dropping measurement report from unknown peer %s", rep.Identity)
		return 0
	}
	if !rec.HasActiveSession() {
		log.Debugf("Dropping measurement report from %s: no active session", rep.Identity)
		return 0
	}

	forwarded := 0
	for i, res := range rep.Results {
		if !res.Valid() {
			log.Debugf("Dropping result %d from %s: status=%d distance=%v", i, rep.Identity, res.Status, res.Distance)
			continue
		}
		t.reg.RecordRange(rep.Identity, res.Distance)
		if t.sink != nil {
			t.sink(rep.Identity, res.Distance)
		}
		forwarded++
	}
	return forwarded
}
