// Package eventfeed implements the UDP-multicast CBOR feed that links the
// tracker to the on-device transport stack. The firmware publishes
// lifecycle events and measurement reports onto the group; the daemon
// publishes transport control requests and periodic status snapshots back.
// A frame is two CBOR values in one datagram: a header carrying the frame
// kind, then the payload.
package eventfeed

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	"uwbtrack/datamodel/peer"
	"uwbtrack/datamodel/ranging"
	"uwbtrack/tracker"

	"github.com/fxamacker/cbor/v2"

	log "github.com/sirupsen/logrus"
)

const (
	FrameEvent       = 1
	FrameMeasurement = 2
	FrameStatus      = 3
	FrameControl     = 4
)

const (
	ControlStart = 1
	ControlStop  = 2
)

const (
	maxDatagram  = 4096
	readInterval = 250 * time.Millisecond
)

type Header struct {
	Kind uint8 `cbor:"1,keyasint"`
}

type ControlRequest struct {
	Op uint8 `cbor:"1,keyasint"`
}

// Handler receives decoded inbound frames. Implementations must be short
// and non-reentrant; they run on the listener goroutine.
type Handler interface {
	HandleEvent(tracker.Event)
	HandleMeasurement(ranging.Report)
}

type Feed struct {
	rc *net.UDPConn
	wc *net.UDPConn
}

func New(rc *net.UDPConn, wc *net.UDPConn) *Feed {
	return &Feed{rc: rc, wc: wc}
}

// Dial joins the multicast group and opens the writer side.
func Dial(group string) (*Feed, error) {
	addr, err := net.ResolveUDPAddr("udp4", group)
	if err != nil {
		return nil, fmt.Errorf("eventfeed: failed to resolve %s: %w", group, err)
	}

	rc, err := net.ListenMulticastUDP("udp4", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("eventfeed: failed to join group: %w", err)
	}

	wc, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("eventfeed: failed to open writer: %w", err)
	}

	log.Infof("Event feed joined %s", group)
	return New(rc, wc), nil
}

func (f *Feed) Close() error {
	f.rc.Close()
	return f.wc.Close()
}

func encodeFrame(kind uint8, payload any) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := cbor.NewEncoder(buf)
	if err := enc.Encode(Header{Kind: kind}); err != nil {
		return nil, err
	}
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f *Feed) publish(kind uint8, payload any) error {
	frame, err := encodeFrame(kind, payload)
	if err != nil {
		return err
	}
	_, err = f.wc.Write(frame)
	return err
}

// PublishEvent puts a lifecycle event onto the feed. Used by the firmware
// side and by the replay tooling.
func (f *Feed) PublishEvent(ev tracker.Event) error {
	return f.publish(FrameEvent, ev)
}

// PublishMeasurement puts a measurement report onto the feed.
func (f *Feed) PublishMeasurement(rep ranging.Report) error {
	return f.publish(FrameMeasurement, rep)
}

// PublishStatus puts a status snapshot onto the feed.
func (f *Feed) PublishStatus(snap *peer.Snapshot) error {
	return f.publish(FrameStatus, snap)
}

// PublishControl requests a transport state change from the firmware.
func (f *Feed) PublishControl(op uint8) error {
	return f.publish(FrameControl, ControlRequest{Op: op})
}

// Listen reads frames from the group and dispatches them to h until the
// context is cancelled. Malformed frames are logged and skipped, never
// fatal. Status and control frames are our own multicast echo and are
// ignored.
func (f *Feed) Listen(ctx context.Context, h Handler) error {
	buf := make([]byte, maxDatagram)
	f.rc.SetReadBuffer(maxDatagram)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		f.rc.SetReadDeadline(time.Now().Add(readInterval))
		n, _, err := f.rc.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			log.Errorf("eventfeed: failed to read frame: %v", err)
			continue
		}
		dispatch(buf[:n], h)
	}
}

func dispatch(data []byte, h Handler) {
	dec := cbor.NewDecoder(bytes.NewReader(data))

	var hdr Header
	if err := dec.Decode(&hdr); err != nil {
		log.Errorf("eventfeed: failed to unmarshal header: %v", err)
		return
	}

	switch hdr.Kind {
	case FrameEvent:
		var ev tracker.Event
		if err := dec.Decode(&ev); err != nil {
			log.Errorf("eventfeed: failed to unmarshal event: %v", err)
			return
		}
		h.HandleEvent(ev)
	case FrameMeasurement:
		var rep ranging.Report
		if err := dec.Decode(&rep); err != nil {
			log.Errorf("eventfeed: failed to unmarshal measurement: %v", err)
			return
		}
		h.HandleMeasurement(rep)
	case FrameStatus, FrameControl:
		// Our own traffic looped back by the group.
	default:
		log.Errorf("eventfeed: unknown frame kind %d", hdr.Kind)
	}
}
