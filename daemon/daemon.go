// Package daemon wires the event feed, the tracker, and the journal into
// one running unit.
package daemon

import (
	"context"

	"uwbtrack/config"
	"uwbtrack/datamodel/ranging"
	"uwbtrack/helper/timer"
	"uwbtrack/journal"
	"uwbtrack/net/eventfeed"
	"uwbtrack/tracker"

	"golang.org/x/sync/errgroup"

	log "github.com/sirupsen/logrus"
)

type Daemon struct {
	cfg  *config.Config
	trk  *tracker.Tracker
	feed *eventfeed.Feed
	jrn  *journal.Journal
}

func New(cfg *config.Config, trk *tracker.Tracker, feed *eventfeed.Feed, jrn *journal.Journal) *Daemon {
	return &Daemon{
		cfg:  cfg,
		trk:  trk,
		feed: feed,
		jrn:  jrn,
	}
}

// HandleEvent feeds one lifecycle event into the tracker. Runs on the feed
// listener goroutine.
func (d *Daemon) HandleEvent(ev tracker.Event) {
	log.Debugf("Event: %s for %s", ev.Kind, ev.Identity)
	d.trk.Apply(ev)
}

// HandleMeasurement feeds one measurement report through the ingest filter.
func (d *Daemon) HandleMeasurement(rep ranging.Report) {
	d.trk.Ingest(rep)
}

// This is run via the RunWithTicker() helper
func (d *Daemon) sweep(ctx context.Context) error {
	d.trk.Sweep()
	return nil
}

// This is run via the RunWithTicker() helper
func (d *Daemon) report(ctx context.Context) error {
	snap := d.trk.Snapshot()
	tracker.LogSnapshot(snap)

	if err := d.feed.PublishStatus(snap); err != nil {
		log.Errorf("Failed to publish status: %v", err)
	}

	if d.jrn != nil {
		if _, err := d.jrn.Append(snap); err != nil {
			log.Errorf("Failed to journal status: %v", err)
		}
	}
	return nil
}

// Run blocks until the context is cancelled, driving the feed listener and
// the periodic sweep and report tasks.
func (d *Daemon) Run(ctx context.Context) error {
	log.Infof("Daemon %q running, feed %s", d.cfg.Device.Name, d.cfg.Feed.MulticastAddress)

	wg, cctx := errgroup.WithContext(ctx)

	wg.Go(func() error {
		return d.feed.Listen(cctx, d)
	})

	wg.Go(func() error {
		interval := &timer.Interval{Duration: d.cfg.PollInterval()}
		return timer.RunWithTicker(cctx, "sweep", interval, d.sweep)
	})

	wg.Go(func() error {
		interval := &timer.Interval{Duration: d.cfg.StatusInterval()}
		return timer.RunWithTicker(cctx, "report", interval, d.report)
	})

	return wg.Wait()
}
