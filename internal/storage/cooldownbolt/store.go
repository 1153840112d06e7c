// Package cooldownbolt persists book cooldowns in a local BoltDB file.
package cooldownbolt

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/and161185/achbook/internal/model"
)

const (
	bCooldowns = "book_cooldowns"

	defaultTO = 2 * time.Second
)

// Store is a BoltDB-backed implementation of cooldown.Store. Bolt allows a single
// writer, so TryAcquire is atomic for every player.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) a BoltDB database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: defaultTO})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bCooldowns))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// TryAcquire implements cooldown.Store.
func (s *Store) TryAcquire(ctx context.Context, id model.PlayerID, nowMs, windowMs int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var granted bool
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bCooldowns))
		if raw := b.Get(id.Bytes()); raw != nil {
			last := decodeI64(raw)
			if windowMs > 0 && nowMs-last < windowMs {
				return nil
			}
			if nowMs <= last {
				granted = true
				return nil
			}
		}
		granted = true
		return b.Put(id.Bytes(), encodeI64(nowMs))
	})
	return granted, err
}

// Last implements cooldown.Store.
func (s *Store) Last(ctx context.Context, id model.PlayerID) (int64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	var (
		last int64
		ok   bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		if raw := tx.Bucket([]byte(bCooldowns)).Get(id.Bytes()); raw != nil {
			last, ok = decodeI64(raw), true
		}
		return nil
	})
	return last, ok, err
}

// Evict implements cooldown.Evicter.
func (s *Store) Evict(ctx context.Context, nowMs, retentionMs int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bCooldowns))
		var stale [][]byte
		if err := b.ForEach(func(k, v []byte) error {
			if nowMs-decodeI64(v) >= retentionMs {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		n = len(stale)
		return nil
	})
	return n, err
}

func encodeI64(v int64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	return b[:]
}

func decodeI64(b []byte) int64 {
	if len(b) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b))
}
