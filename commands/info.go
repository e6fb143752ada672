package commands

import (
	"context"
	"time"

	"uwbtrack/config"
	"uwbtrack/journal"
)

// RunInfo dumps the most recent journaled status snapshots.
func RunInfo(ctx context.Context, cfg *config.Config, limit int) {
	jrn, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		log.Fatalf("Failed to open journal: %v", err)
	}
	defer jrn.Close()

	entries, err := jrn.Recent(limit)
	if err != nil {
		log.Fatalf("Failed to read journal: %v", err)
	}

	log.Infof("Journal: %d snapshots (newest first)", len(entries))
	for _, e := range entries {
		snap := e.Snapshot
		log.Infof("Seq %d @ %s: %d peers, %d active sessions, transport active: %t",
			e.Seq, snap.TakenAt.Format(time.RFC3339), snap.Peers, snap.ActiveSessions, snap.TransportActive)
		for _, p := range snap.Entries {
			log.Infof("  #%d %s (%q): state=%s session=%t idle=%v distance=%.2fm quality=%s",
				p.AssignedID, p.Identity, p.Name, p.State, p.SessionActive, p.Idle, p.Distance, p.Quality)
		}
	}
}
