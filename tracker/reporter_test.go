package tracker

import (
	"testing"
	"time"

	"uwbtrack/datamodel/peer"
	"uwbtrack/datamodel/ranging"
)

func TestSnapshotCounts(t *testing.T) {
	trk, _, _, clk := newTestTracker(8)

	connect(trk, "a")
	connect(trk, "b")
	trk.Apply(Event{Kind: EventSessionStart, Identity: "b"})
	trk.Ingest(report("b", okResult(3.0)))
	clk.Advance(2 * time.Second)

	snap := trk.Snapshot()
	if snap.Peers != 2 {
		t.Fatalf("Peers = %d, want 2", snap.Peers)
	}
	if snap.ActiveSessions != 1 {
		t.Fatalf("ActiveSessions = %d, want 1", snap.ActiveSessions)
	}
	if !snap.TransportActive {
		t.Fatal("TransportActive = false, want true")
	}
	if len(snap.Entries) != 2 {
		t.Fatalf("Entries = %d, want 2", len(snap.Entries))
	}

	e := snap.Entries[1]
	if e.AssignedID != 2 || e.Identity != "b" {
		t.Fatalf("entry = %+v", e)
	}
	if !e.SessionActive || e.State != peer.StateRanging {
		t.Fatalf("entry session/state = %v/%v", e.SessionActive, e.State)
	}
	if e.Distance != 3.0 || e.Quality != ranging.QualityExcellent {
		t.Fatalf("distance/quality = %v/%v", e.Distance, e.Quality)
	}
	if e.Idle != 2*time.Second {
		t.Fatalf("Idle = %v, want 2s", e.Idle)
	}
}

func TestSnapshotIsImmutable(t *testing.T) {
	trk, reg, _, _ := newTestTracker(8)
	connect(trk, "a")

	snap := trk.Snapshot()
	snap.Entries[0].Identity = "mangled"
	snap.Entries[0].AssignedID = 99

	rec, _ := reg.Get("a")
	if rec.Identity != "a" || rec.AssignedID != 1 {
		t.Fatalf("registry mutated through snapshot: %+v", rec)
	}
}

func TestSnapshotEmpty(t *testing.T) {
	trk, _, _, _ := newTestTracker(8)
	snap := trk.Snapshot()
	if snap.Peers != 0 || snap.ActiveSessions != 0 || snap.TransportActive {
		t.Fatalf("snapshot of empty tracker = %+v", snap)
	}
}
