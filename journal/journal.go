// Package journal persists periodic status snapshots into LevelDB so
// operators can inspect tracker history offline. Snapshots are keyed by a
// monotonic sequence number recovered by scanning the store on open.
package journal

import (
	"fmt"
	"sync"

	"uwbtrack/datamodel/peer"

	"github.com/fxamacker/cbor/v2"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	log "github.com/sirupsen/logrus"
)

var ErrCorrupted = fmt.Errorf("corrupted")

const (
	// Snapshots indexed by sequence number. Followed by a 16-digit
	// hexadecimal sequence number (64 bit) so keys sort in append order.
	keyPrefixSeq = "SEQ"
)

type Journal struct {
	path string
	mu   sync.Mutex
	db   *leveldb.DB
	seq  uint64
}

func keyFromSeq(seq uint64) []byte {
	return append([]byte(keyPrefixSeq), []byte(fmt.Sprintf("%016x", seq))...)
}

func seqFromKey(key []byte) (uint64, error) {
	if len(key) != len(keyPrefixSeq)+16 {
		return 0, fmt.Errorf("seqFromKey: invalid key length: %d", len(key))
	}
	if string(key[:len(keyPrefixSeq)]) != keyPrefixSeq {
		return 0, fmt.Errorf("seqFromKey: invalid key prefix: %s", string(key[:len(keyPrefixSeq)]))
	}
	var seq uint64
	if _, err := fmt.Sscanf(string(key[len(keyPrefixSeq):]), "%016x", &seq); err != nil {
		return 0, err
	}
	return seq, nil
}

// Open opens or creates the journal at path, recovering from a corrupted
// store and rescanning the last used sequence number.
func Open(path string) (*Journal, error) {
	opts := &opt.Options{
		Compression: opt.NoCompression,
	}

	db, err := leveldb.OpenFile(path, opts)
	if errors.IsCorrupted(err) {
		db, err = leveldb.RecoverFile(path, nil)
	}
	if err != nil {
		return nil, err
	}

	// Scan the store to identify the last sequence
	iter := db.NewIterator(util.BytesPrefix([]byte(keyPrefixSeq)), nil)
	defer iter.Release()

	var maxSeq uint64 = 0
	if iter.Last() {
		seq, err := seqFromKey(iter.Key())
		if err != nil {
			db.Close()
			return nil, err
		}
		maxSeq = seq
	}

	log.Infof("Opened journal at %s, last sequence %d", path, maxSeq)

	return &Journal{
		path: path,
		db:   db,
		seq:  maxSeq,
	}, nil
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.db.Close()
}

// Append stores a snapshot under the next sequence number and returns it.
func (j *Journal) Append(snap *peer.Snapshot) (uint64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	raw, err := cbor.Marshal(snap)
	if err != nil {
		return 0, err
	}

	seq := j.seq + 1
	if err := j.db.Put(keyFromSeq(seq), raw, nil); err != nil {
		return 0, err
	}
	j.seq = seq
	return seq, nil
}

// Get retrieves the snapshot stored under seq.
func (j *Journal) Get(seq uint64) (*peer.Snapshot, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	raw, err := j.db.Get(keyFromSeq(seq), nil)
	if err != nil {
		return nil, err
	}

	snap := &peer.Snapshot{}
	if err := cbor.Unmarshal(raw, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// Entry is one journaled snapshot with its sequence number.
type Entry struct {
	Seq      uint64
	Snapshot *peer.Snapshot
}

// Recent returns up to limit snapshots, newest first.
func (j *Journal) Recent(limit int) ([]*Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var results []*Entry

	iter := j.db.NewIterator(util.BytesPrefix([]byte(keyPrefixSeq)), nil)
	defer iter.Release()

	for ok := iter.Last(); ok && len(results) < limit; ok = iter.Prev() {
		seq, err := seqFromKey(iter.Key())
		if err != nil {
			return nil, err
		}

		snap := &peer.Snapshot{}
		if err := cbor.Unmarshal(iter.Value(), snap); err != nil {
			log.Errorf("Recent: failed to unmarshal snapshot %d: %v", seq, err)
			return nil, ErrCorrupted
		}
		results = append(results, &Entry{Seq: seq, Snapshot: snap})
	}

	return results, nil
}
