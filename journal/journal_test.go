package journal

import (
	"testing"
	"time"

	"uwbtrack/datamodel/peer"
)

func testSnapshot(peers int) *peer.Snapshot {
	snap := &peer.Snapshot{
		TakenAt:         time.Unix(1000, 0).UTC(),
		Peers:           peers,
		ActiveSessions:  peers / 2,
		TransportActive: peers > 0,
	}
	for i := 0; i < peers; i++ {
		snap.Entries = append(snap.Entries, peer.SnapshotEntry{
			AssignedID: uint32(i + 1),
			Identity:   "peer",
			State:      peer.StateConnected,
			Distance:   4.2,
		})
	}
	return snap
}

func TestAppendAndGet(t *testing.T) {
	j, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer j.Close()

	seq, err := j.Append(testSnapshot(3))
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if seq != 1 {
		t.Fatalf("seq = %d, want 1", seq)
	}

	snap, err := j.Get(seq)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if snap.Peers != 3 || len(snap.Entries) != 3 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Entries[2].AssignedID != 3 {
		t.Fatalf("entry = %+v", snap.Entries[2])
	}
}

func TestSequenceSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	j, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := j.Append(testSnapshot(i)); err != nil {
			t.Fatalf("Append %d failed: %v", i, err)
		}
	}
	j.Close()

	j, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer j.Close()

	seq, err := j.Append(testSnapshot(9))
	if err != nil {
		t.Fatalf("Append after reopen failed: %v", err)
	}
	if seq != 4 {
		t.Fatalf("seq after reopen = %d, want 4", seq)
	}
}

func TestRecentNewestFirst(t *testing.T) {
	j, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer j.Close()

	for i := 1; i <= 5; i++ {
		if _, err := j.Append(testSnapshot(i)); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	entries, err := j.Recent(3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, wantSeq := range []uint64{5, 4, 3} {
		if entries[i].Seq != wantSeq {
			t.Fatalf("entry %d seq = %d, want %d", i, entries[i].Seq, wantSeq)
		}
		if entries[i].Snapshot.Peers != int(wantSeq) {
			t.Fatalf("entry %d peers = %d, want %d", i, entries[i].Snapshot.Peers, wantSeq)
		}
	}
}

func TestRecentOnEmptyJournal(t *testing.T) {
	j, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer j.Close()

	entries, err := j.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %d entries, want 0", len(entries))
	}
}
