package commands

import (
	"context"
	"uwbtrack/config"
	"uwbtrack/daemon"
	"uwbtrack/journal"
	"uwbtrack/net/eventfeed"
	"uwbtrack/registry"
	"uwbtrack/tracker"
	"uwbtrack/transport"
)

func RunServe(ctx context.Context, cfg *config.Config) {
	// Open the journal
	jrn, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		log.Fatalf("Failed to open journal: %v", err)
	}
	defer jrn.Close()

	// Join the event feed
	feed, err := eventfeed.Dial(cfg.Feed.MulticastAddress)
	if err != nil {
		log.Fatalf("Failed to join event feed: %v", err)
	}
	defer feed.Close()

	// Create the tracker over a fresh registry; transport start/stop
	// requests go back out over the feed.
	reg := registry.New(cfg.Tracker.MaxPeers)
	trk := tracker.New(reg, transport.NewFeedRadio(feed), tracker.Config{
		ConnectTimeout: cfg.ConnectTimeout(),
		SessionTimeout: cfg.SessionTimeout(),
	}, nil)

	d := daemon.New(cfg, trk, feed, jrn)
	if err := d.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Daemon exited: %v", err)
	}
}
