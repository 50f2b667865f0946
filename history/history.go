// Package history provides a bbolt-backed store of keystroke events.
package history

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketName = "keys"

// ErrBadKey is returned for event keys not shaped session:nanos.
var ErrBadKey = errors.New("malformed event key")

// DB wraps a bbolt database of keystroke events.
type DB struct {
	db *bolt.DB
}

// Open opens or creates a history database at the given path, creating
// its directory if needed.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening history %s: %w", path, err)
	}

	// Ensure bucket exists
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db: db}, nil
}

// Close closes the history database.
func (h *DB) Close() error {
	return h.db.Close()
}

// Path returns the path to the database file.
func (h *DB) Path() string {
	return h.db.Path()
}

// Event is one keystroke read by a CLI session.
type Event struct {
	Time       time.Time
	Session    string
	Key        string // accepted key text, empty if none
	Raw        []byte // bytes read from the terminal
	Accepted   bool
	Suppressed bool // dropped as a key repeat
}

// NewSession returns a session id that sorts chronologically.
func NewSession(t time.Time) string {
	return fmt.Sprintf("%016x", t.UnixNano())
}

// MakeKey constructs the event key. Fixed-width hex keeps cursor order
// chronological within a session.
func MakeKey(session string, t time.Time) string {
	return session + ":" + fmt.Sprintf("%016x", uint64(t.UnixNano()))
}

// ParseKey splits an event key into session and time.
func ParseKey(key string) (session string, t time.Time, err error) {
	i := strings.LastIndexByte(key, ':')
	if i < 0 {
		return "", time.Time{}, fmt.Errorf("%q: %w", key, ErrBadKey)
	}
	nanos, err := strconv.ParseUint(key[i+1:], 16, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%q: %w", key, ErrBadKey)
	}
	return key[:i], time.Unix(0, int64(nanos)), nil
}

const (
	flagAccepted   = 1 << 0
	flagSuppressed = 1 << 1
)

// encodeEvent encodes the value part of an event. Session and time live in the key.
// Format: [Flags:1][KeyLen:4][Key:KeyLen][RawLen:4][Raw:RawLen]
func encodeEvent(e Event) []byte {
	buf := make([]byte, 9+len(e.Key)+len(e.Raw))
	if e.Accepted {
		buf[0] |= flagAccepted
	}
	if e.Suppressed {
		buf[0] |= flagSuppressed
	}
	binary.LittleEndian.PutUint32(buf[1:5], uint32(len(e.Key)))
	copy(buf[5:], e.Key)
	pos := 5 + len(e.Key)
	binary.LittleEndian.PutUint32(buf[pos:pos+4], uint32(len(e.Raw)))
	copy(buf[pos+4:], e.Raw)
	return buf
}

// decodeEvent decodes an event value. Truncated values decode as far as they go.
func decodeEvent(key string, data []byte) Event {
	var e Event
	e.Session, e.Time, _ = ParseKey(key)
	if len(data) < 5 {
		return e
	}
	e.Accepted = data[0]&flagAccepted != 0
	e.Suppressed = data[0]&flagSuppressed != 0
	keyLen := int(binary.LittleEndian.Uint32(data[1:5]))
	if len(data) < 5+keyLen {
		return e
	}
	e.Key = string(data[5 : 5+keyLen])
	pos := 5 + keyLen
	if len(data) >= pos+4 {
		rawLen := int(binary.LittleEndian.Uint32(data[pos : pos+4]))
		if len(data) >= pos+4+rawLen {
			// Must copy - bbolt's buffer is only valid during transaction
			e.Raw = append([]byte(nil), data[pos+4:pos+4+rawLen]...)
		}
	}
	return e
}

// Record stores an event. Events of one session at the same instant are
// shifted by a nanosecond so none is overwritten.
func (h *DB) Record(e Event) error {
	if e.Session == "" || strings.ContainsRune(e.Session, ':') {
		return fmt.Errorf("invalid session %q", e.Session)
	}
	return h.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}
		t := e.Time
		for b.Get([]byte(MakeKey(e.Session, t))) != nil {
			t = t.Add(time.Nanosecond)
		}
		return b.Put([]byte(MakeKey(e.Session, t)), encodeEvent(e))
	})
}

// Stats contains history statistics.
type Stats struct {
	TotalEvents int
	Accepted    int
	Suppressed  int
	Sessions    int
	OldestEvent time.Time
	NewestEvent time.Time
	DBSize      int64
}

// Stats returns history statistics.
func (h *DB) Stats() Stats {
	var stats Stats
	sessions := make(map[string]bool)
	h.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}

		cur := b.Cursor()
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			e := decodeEvent(string(k), v)
			stats.TotalEvents++
			if e.Accepted {
				stats.Accepted++
			}
			if e.Suppressed {
				stats.Suppressed++
			}
			sessions[e.Session] = true
			if stats.OldestEvent.IsZero() || e.Time.Before(stats.OldestEvent) {
				stats.OldestEvent = e.Time
			}
			if stats.NewestEvent.IsZero() || e.Time.After(stats.NewestEvent) {
				stats.NewestEvent = e.Time
			}
		}
		return nil
	})
	stats.Sessions = len(sessions)

	// Get database file size
	if info, err := os.Stat(h.db.Path()); err == nil {
		stats.DBSize = info.Size()
	}

	return stats
}

// DeleteOlderThan removes events older than maxAge.
func (h *DB) DeleteOlderThan(maxAge time.Duration) (deleted int, err error) {
	cutoff := time.Now().Add(-maxAge)

	err = h.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}

		var keysToDelete [][]byte
		cur := b.Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			_, t, err := ParseKey(string(k))
			if err != nil || t.Before(cutoff) {
				keysToDelete = append(keysToDelete, append([]byte{}, k...))
			}
		}

		for _, k := range keysToDelete {
			if err := b.Delete(k); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	return
}

// Sessions returns the distinct session ids in key order.
func (h *DB) Sessions() []string {
	var sessions []string
	h.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}
		cur := b.Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			s, _, err := ParseKey(string(k))
			if err != nil {
				continue
			}
			if len(sessions) == 0 || sessions[len(sessions)-1] != s {
				sessions = append(sessions, s)
			}
		}
		return nil
	})
	return sessions
}

// View provides read-only access to iterate over all events.
func (h *DB) View(fn func(e Event) error) error {
	return h.ViewSession("", fn)
}

// ViewSession iterates over the events of one session in chronological
// order. An empty session visits every event.
func (h *DB) ViewSession(session string, fn func(e Event) error) error {
	return h.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}
		var prefix []byte
		if session != "" {
			prefix = []byte(session + ":")
		}
		cur := b.Cursor()
		for k, v := cur.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = cur.Next() {
			if err := fn(decodeEvent(string(k), v)); err != nil {
				return err
			}
		}
		return nil
	})
}
