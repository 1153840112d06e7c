package cooldown

import (
	"context"
	"sync"

	"github.com/and161185/achbook/internal/model"
)

const shardCount = 32

type shard struct {
	mu   sync.Mutex
	last map[model.PlayerID]int64
}

// MemoryStore is an in-process Store. Players are spread over independently
// locked shards so unrelated players rarely contend.
type MemoryStore struct {
	shards [shardCount]shard
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{}
	for i := range m.shards {
		m.shards[i].last = make(map[model.PlayerID]int64)
	}
	return m
}

func (m *MemoryStore) shardFor(id model.PlayerID) *shard {
	return &m.shards[int(id[len(id)-1])%shardCount]
}

// TryAcquire implements Store.
func (m *MemoryStore) TryAcquire(_ context.Context, id model.PlayerID, nowMs, windowMs int64) (bool, error) {
	sh := m.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	last, ok := sh.last[id]
	if ok && windowMs > 0 && nowMs-last < windowMs {
		return false, nil
	}
	if !ok || nowMs > last {
		sh.last[id] = nowMs
	}
	return true, nil
}

// Last implements Store.
func (m *MemoryStore) Last(_ context.Context, id model.PlayerID) (int64, bool, error) {
	sh := m.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	v, ok := sh.last[id]
	return v, ok, nil
}

// Evict implements Evicter.
func (m *MemoryStore) Evict(_ context.Context, nowMs, retentionMs int64) (int, error) {
	n := 0
	for i := range m.shards {
		sh := &m.shards[i]
		sh.mu.Lock()
		for id, last := range sh.last {
			if nowMs-last >= retentionMs {
				delete(sh.last, id)
				n++
			}
		}
		sh.mu.Unlock()
	}
	return n, nil
}

// Len returns the number of tracked players.
func (m *MemoryStore) Len() int {
	n := 0
	for i := range m.shards {
		sh := &m.shards[i]
		sh.mu.Lock()
		n += len(sh.last)
		sh.mu.Unlock()
	}
	return n
}
