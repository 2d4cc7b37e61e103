package storage

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/tilemaze/pkg/codec"
)

// Errors
var (
	ErrNotFound    = errors.New("archived save not found")
	ErrInvalidSave = errors.New("archive only accepts saved games")
)

// ArchiveEntry summarizes one archived save
type ArchiveEntry struct {
	ID            string    `json:"id"`
	ArchivedAt    time.Time `json:"archived_at"`
	PieceCount    int       `json:"piece_count"`
	ElapsedMillis int64     `json:"elapsed_ms"`
	Size          int       `json:"size"`
}

// Archive keeps encoded saves in a pebble database keyed by KSUID.
// New ids always sort after every stored id, so iteration order is
// archive order even within one second.
type Archive struct {
	db    *pebble.DB
	codec *codec.MazeCodec
	mutex sync.Mutex
	last  ksuid.KSUID
}

// OpenArchive opens or creates the archive at path
func OpenArchive(path string) (*Archive, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}

	a := &Archive{db: db, codec: codec.NewMazeCodec()}
	if a.last, err = a.lastID(); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// lastID returns the highest stored id, or ksuid.Nil when empty
func (a *Archive) lastID() (ksuid.KSUID, error) {
	iter, err := a.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return ksuid.Nil, err
	}
	defer iter.Close()

	for valid := iter.Last(); valid; valid = iter.Prev() {
		if id, err := ksuid.FromBytes(iter.Key()); err == nil {
			return id, nil
		}
	}
	return ksuid.Nil, iter.Error()
}

// nextID returns a new id ordered after every id handed out before
func (a *Archive) nextID() ksuid.KSUID {
	id := ksuid.New()
	if ksuid.Compare(id, a.last) <= 0 {
		id = a.last.Next()
	}
	a.last = id
	return id
}

// validate decodes data and requires a save document
func (a *Archive) validate(data []byte) (*codec.Document, error) {
	doc, err := a.codec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSave, err)
	}
	if doc.Kind != codec.KindSave {
		return nil, fmt.Errorf("%w: got a %s", ErrInvalidSave, doc.Kind)
	}
	return doc, nil
}

// Put stores an encoded save under a new id
func (a *Archive) Put(data []byte) (ksuid.KSUID, error) {
	if _, err := a.validate(data); err != nil {
		return ksuid.Nil, err
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	id := a.nextID()
	if err := a.db.Set(id.Bytes(), data, pebble.Sync); err != nil {
		return ksuid.Nil, err
	}
	return id, nil
}

// Get returns a copy of the save stored under id
func (a *Archive) Get(id ksuid.KSUID) ([]byte, error) {
	data, closer, err := a.db.Get(id.Bytes())
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	defer closer.Close()

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Replace overwrites an existing archived save
func (a *Archive) Replace(id ksuid.KSUID, data []byte) error {
	if _, err := a.validate(data); err != nil {
		return err
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	if _, err := a.Get(id); err != nil {
		return err
	}
	return a.db.Set(id.Bytes(), data, pebble.Sync)
}

// Delete removes an archived save
func (a *Archive) Delete(id ksuid.KSUID) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if _, err := a.Get(id); err != nil {
		return err
	}
	return a.db.Delete(id.Bytes(), pebble.Sync)
}

// List returns every archived save, oldest first. Entries that no longer
// decode are skipped.
func (a *Archive) List() ([]ArchiveEntry, error) {
	iter, err := a.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var entries []ArchiveEntry
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key())
		if err != nil {
			continue
		}
		value := iter.Value()
		doc, err := a.codec.Decode(bytes.NewReader(value))
		if err != nil {
			continue
		}
		entries = append(entries, ArchiveEntry{
			ID:            id.String(),
			ArchivedAt:    id.Time(),
			PieceCount:    doc.PieceCount(),
			ElapsedMillis: doc.ElapsedMillis,
			Size:          len(value),
		})
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ParseID parses the string form of an archive id
func ParseID(s string) (ksuid.KSUID, error) {
	id, err := ksuid.Parse(s)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("%w: bad id %q", ErrNotFound, s)
	}
	return id, nil
}

// Close closes the underlying database
func (a *Archive) Close() error {
	return a.db.Close()
}
