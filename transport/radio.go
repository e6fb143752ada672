// Package transport provides tracker.Radio implementations: one backed by
// the event feed (asking the firmware to start or stop the radio stack)
// and an in-memory one for replay and tests.
package transport

import (
	"sync"

	"uwbtrack/net/eventfeed"

	log "github.com/sirupsen/logrus"
)

// FeedRadio forwards start/stop requests to the firmware over the event
// feed. The firmware side is responsible for actual radio state; both
// operations are idempotent there.
type FeedRadio struct {
	feed *eventfeed.Feed
}

func NewFeedRadio(feed *eventfeed.Feed) *FeedRadio {
	return &FeedRadio{feed: feed}
}

func (r *FeedRadio) Start() error {
	return r.feed.PublishControl(eventfeed.ControlStart)
}

func (r *FeedRadio) Stop() error {
	return r.feed.PublishControl(eventfeed.ControlStop)
}

// SimRadio is an in-memory radio used by the replay command. It records
// transitions and tolerates duplicate requests.
type SimRadio struct {
	mu      sync.Mutex
	running bool
	starts  int
	stops   int
}

func NewSimRadio() *SimRadio {
	return &SimRadio{}
}

func (r *SimRadio) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		r.running = true
		r.starts++
		log.Infof("SimRadio: started")
	}
	return nil
}

func (r *SimRadio) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		r.running = false
		r.stops++
		log.Infof("SimRadio: stopped")
	}
	return nil
}

func (r *SimRadio) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *SimRadio) Starts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.starts
}

func (r *SimRadio) Stops() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stops
}
