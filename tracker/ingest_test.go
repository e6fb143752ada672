package tracker

import (
	"testing"

	"uwbtrack/datamodel/peer"
	"uwbtrack/datamodel/ranging"
	"uwbtrack/registry"
)

func report(identity string, results ...ranging.Result) ranging.Report {
	return ranging.Report{Kind: ranging.KindRanging, Identity: identity, Results: results}
}

func okResult(distance float64) ranging.Result {
	return ranging.Result{Status: ranging.StatusOK, Distance: distance}
}

func newIngestTracker(t *testing.T) (*Tracker, *registry.Registry, *[]float64) {
	t.Helper()
	clk := newFakeClock()
	reg := registry.NewWithClock(8, clk.Now)
	var forwarded []float64
	trk := NewWithClock(reg, &fakeRadio{}, Config{}, func(_ string, d float64) {
		forwarded = append(forwarded, d)
	}, clk.Now)
	return trk, reg, &forwarded
}

func TestIngestForwardsValidMeasurement(t *testing.T) {
	trk, reg, forwarded := newIngestTracker(t)
	connect(trk, "a")
	trk.Apply(Event{Kind: EventSessionStart, Identity: "a"})

	if n := trk.Ingest(report("a", okResult(4.2))); n != 1 {
		t.Fatalf("forwarded = %d, want 1", n)
	}
	if len(*forwarded) != 1 || (*forwarded)[0] != 4.2 {
		t.Fatalf("sink received %v, want [4.2]", *forwarded)
	}

	rec, _ := reg.Get("a")
	if rec.LastDistance != 4.2 {
		t.Fatalf("LastDistance = %v, want 4.2", rec.LastDistance)
	}
	if rec.State != peer.StateRanging {
		t.Fatalf("state = %v, want ranging", rec.State)
	}
}

func TestIngestDropsInvalidResults(t *testing.T) {
	trk, _, forwarded := newIngestTracker(t)
	connect(trk, "a")
	trk.Apply(Event{Kind: EventSessionStart, Identity: "a"})

	cases := []struct {
		name string
		res  ranging.Result
	}{
		{"failed status", ranging.Result{Status: ranging.StatusFailed, Distance: 4.2}},
		{"sentinel distance", ranging.Result{Status: ranging.StatusOK, Distance: ranging.DistanceUnavailable}},
		{"failed status and sentinel", ranging.Result{Status: ranging.StatusFailed, Distance: ranging.DistanceUnavailable}},
		{"below hardware range", ranging.Result{Status: ranging.StatusOK, Distance: 0.05}},
		{"above hardware range", ranging.Result{Status: ranging.StatusOK, Distance: 150.0}},
	}
	for _, tc := range cases {
		if n := trk.Ingest(report("a", tc.res)); n != 0 {
			t.Errorf("%s: forwarded = %d, want 0", tc.name, n)
		}
	}
	if len(*forwarded) != 0 {
		t.Fatalf("sink received %v, want nothing", *forwarded)
	}
}

func TestIngestDropsWithoutSession(t *testing.T) {
	trk, reg, forwarded := newIngestTracker(t)
	connect(trk, "a")

	// Connected but no session: a valid reading is still dropped.
	if n := trk.Ingest(report("a", okResult(4.2))); n != 0 {
		t.Fatalf("forwarded = %d, want 0", n)
	}

	// Session stopped, trailing measurement crosses in flight.
	trk.Apply(Event{Kind: EventSessionStart, Identity: "a"})
	trk.Apply(Event{Kind: EventSessionStop, Identity: "a"})
	if n := trk.Ingest(report("a", okResult(4.2))); n != 0 {
		t.Fatalf("forwarded after stop = %d, want 0", n)
	}

	if len(*forwarded) != 0 {
		t.Fatalf("sink received %v, want nothing", *forwarded)
	}
	rec, _ := reg.Get("a")
	if rec.LastDistance != ranging.DistanceUnavailable {
		t.Fatalf("LastDistance = %v, want sentinel", rec.LastDistance)
	}
}

func TestIngestDropsUnknownPeer(t *testing.T) {
	trk, _, forwarded := newIngestTracker(t)
	if n := trk.Ingest(report("ghost", okResult(4.2))); n != 0 {
		t.Fatalf("forwarded = %d, want 0", n)
	}
	if len(*forwarded) != 0 {
		t.Fatalf("sink received %v, want nothing", *forwarded)
	}
}

func TestIngestDropsNonRangingKind(t *testing.T) {
	trk, _, _ := newIngestTracker(t)
	connect(trk, "a")
	trk.Apply(Event{Kind: EventSessionStart, Identity: "a"})

	rep := ranging.Report{Kind: ranging.KindUnknown, Identity: "a", Results: []ranging.Result{okResult(4.2)}}
	if n := trk.Ingest(rep); n != 0 {
		t.Fatalf("forwarded = %d, want 0", n)
	}
}

func TestIngestMixedResults(t *testing.T) {
	trk, _, forwarded := newIngestTracker(t)
	connect(trk, "a")
	trk.Apply(Event{Kind: EventSessionStart, Identity: "a"})

	n := trk.Ingest(report("a",
		okResult(1.5),
		ranging.Result{Status: ranging.StatusFailed, Distance: 2.0},
		ranging.Result{Status: ranging.StatusOK, Distance: ranging.DistanceUnavailable},
		okResult(9.0),
	))
	if n != 2 {
		t.Fatalf("forwarded = %d, want 2", n)
	}
	if len(*forwarded) != 2 || (*forwarded)[0] != 1.5 || (*forwarded)[1] != 9.0 {
		t.Fatalf("sink received %v, want [1.5 9.0]", *forwarded)
	}
}
