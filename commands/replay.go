package commands

import (
	"context"
	"fmt"

	"uwbtrack/config"
	"uwbtrack/datamodel/ranging"
	"uwbtrack/registry"
	"uwbtrack/tracker"
	"uwbtrack/transport"

	"github.com/google/uuid"
)

// RunReplay drives the tracker with a scripted event sequence on a
// simulated radio. No network, no journal: a smoke test for a build.
func RunReplay(ctx context.Context, cfg *config.Config) {
	radio := transport.NewSimRadio()
	reg := registry.New(cfg.Tracker.MaxPeers)
	trk := tracker.New(reg, radio, tracker.Config{
		ConnectTimeout: cfg.ConnectTimeout(),
		SessionTimeout: cfg.SessionTimeout(),
	}, func(identity string, distance float64) {
		log.Infof("Range: %s at %.2fm", identity, distance)
	})

	// A full house of peers plus one over capacity.
	ids := make([]string, 0, cfg.Tracker.MaxPeers+1)
	for i := 0; i < cfg.Tracker.MaxPeers+1; i++ {
		ids = append(ids, uuid.NewString())
	}
	for i, id := range ids {
		trk.Apply(tracker.Event{Kind: tracker.EventConnect, Identity: id, Name: fmt.Sprintf("sim-%d", i)})
	}

	// Ranging session against the first peer.
	trk.Apply(tracker.Event{Kind: tracker.EventSessionStart, Identity: ids[0]})
	for _, d := range []float64{4.2, 3.9, ranging.DistanceUnavailable, 3.7} {
		trk.Ingest(ranging.Report{
			Kind:     ranging.KindRanging,
			Identity: ids[0],
			Results:  []ranging.Result{{Status: ranging.StatusOK, Distance: d}},
		})
	}
	trk.Apply(tracker.Event{Kind: tracker.EventSessionStop, Identity: ids[0]})

	tracker.LogSnapshot(trk.Snapshot())

	// Disconnect everyone, including one duplicate.
	for _, id := range ids {
		trk.Apply(tracker.Event{Kind: tracker.EventDisconnect, Identity: id})
	}
	trk.Apply(tracker.Event{Kind: tracker.EventDisconnect, Identity: ids[0]})

	tracker.LogSnapshot(trk.Snapshot())
	log.Infof("Replay done: radio starts=%d stops=%d", radio.Starts(), radio.Stops())
}
