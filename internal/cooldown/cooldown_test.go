package cooldown

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/achbook/internal/model"
)

func ms(v int64) time.Time { return time.UnixMilli(v) }

func newPlayer() model.Player { return model.Player{ID: uuid.Must(uuid.NewV4()), Name: "p"} }

func TestGate_Scenario5000(t *testing.T) {
	t.Parallel()

	g := NewGate(NewMemoryStore(), 5000*time.Millisecond, zaptest.NewLogger(t))
	p := newPlayer()
	ctx := context.Background()

	require.True(t, g.IsAuthorized(ctx, p, ms(1000)))
	require.False(t, g.IsAuthorized(ctx, p, ms(3000)))
	require.True(t, g.IsAuthorized(ctx, p, ms(6001)))
}

func TestGate_FirstImmediateAndBoundary(t *testing.T) {
	t.Parallel()

	const d = 250
	g := NewGate(NewMemoryStore(), d*time.Millisecond, nil)
	p := newPlayer()
	ctx := context.Background()
	t0 := int64(10_000)

	require.True(t, g.IsAuthorized(ctx, p, ms(t0)))
	require.False(t, g.IsAuthorized(ctx, p, ms(t0+1)))
	require.False(t, g.IsAuthorized(ctx, p, ms(t0+d-1)))
	require.True(t, g.IsAuthorized(ctx, p, ms(t0+d)))
}

func TestGate_ZeroWindowAlwaysAuthorized(t *testing.T) {
	t.Parallel()

	for _, d := range []time.Duration{0, -time.Second} {
		g := NewGate(NewMemoryStore(), d, nil)
		p := newPlayer()
		for i := 0; i < 10; i++ {
			require.True(t, g.IsAuthorized(context.Background(), p, ms(1000)))
		}
		// even when the clock goes backwards
		require.True(t, g.IsAuthorized(context.Background(), p, ms(500)))
	}
}

func TestGate_UnrestrictedBypassesAndLeavesNoRecord(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	g := NewGate(store, time.Hour, nil)
	p := newPlayer()
	p.Unrestricted = true

	for i := 0; i < 5; i++ {
		require.True(t, g.IsAuthorized(context.Background(), p, ms(int64(1000+i))))
	}
	_, ok, err := store.Last(context.Background(), p.ID)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 0, store.Len())
}

func TestGate_UnrestrictedDoesNotTouchExistingRecord(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	g := NewGate(store, time.Hour, nil)
	p := newPlayer()
	require.True(t, g.IsAuthorized(context.Background(), p, ms(1000)))

	p.Unrestricted = true
	require.True(t, g.IsAuthorized(context.Background(), p, ms(2000)))

	last, ok, err := store.Last(context.Background(), p.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1000), last)
}

func TestGate_IdentitiesIndependent(t *testing.T) {
	t.Parallel()

	g := NewGate(NewMemoryStore(), time.Minute, nil)
	a, b := newPlayer(), newPlayer()
	require.True(t, g.IsAuthorized(context.Background(), a, ms(1000)))
	require.True(t, g.IsAuthorized(context.Background(), b, ms(1001)))
	require.False(t, g.IsAuthorized(context.Background(), a, ms(1002)))
}

func TestGate_TimestampNeverDecreases(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	p := newPlayer()
	ok, err := store.TryAcquire(context.Background(), p.ID, 5000, 0)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = store.TryAcquire(context.Background(), p.ID, 1000, 0)
	require.NoError(t, err)
	require.True(t, ok)

	last, _, err := store.Last(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, int64(5000), last)
}

type failingStore struct{}

func (failingStore) TryAcquire(context.Context, model.PlayerID, int64, int64) (bool, error) {
	return false, errors.New("down")
}
func (failingStore) Last(context.Context, model.PlayerID) (int64, bool, error) {
	return 0, false, errors.New("down")
}

func TestGate_StoreErrorDenies(t *testing.T) {
	t.Parallel()

	g := NewGate(failingStore{}, time.Second, zaptest.NewLogger(t))
	require.False(t, g.IsAuthorized(context.Background(), newPlayer(), ms(1000)))
}

func TestGate_AuthorizeReportsStoreError(t *testing.T) {
	t.Parallel()

	g := NewGate(failingStore{}, time.Second, zaptest.NewLogger(t))
	ok, err := g.Authorize(context.Background(), newPlayer(), ms(1000))
	require.Error(t, err)
	require.False(t, ok)

	op := newPlayer()
	op.Unrestricted = true
	ok, err = g.Authorize(context.Background(), op, ms(1000))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestGate_Remaining(t *testing.T) {
	t.Parallel()

	g := NewGate(NewMemoryStore(), 5*time.Second, nil)
	p := newPlayer()
	ctx := context.Background()

	left, err := g.Remaining(ctx, p, ms(1000))
	require.NoError(t, err)
	require.Zero(t, left)

	require.True(t, g.IsAuthorized(ctx, p, ms(1000)))
	left, err = g.Remaining(ctx, p, ms(3000))
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, left)

	left, err = g.Remaining(ctx, p, ms(9000))
	require.NoError(t, err)
	require.Zero(t, left)
}

func TestGate_ConcurrentSameIdentityGrantsOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := NewGate(NewMemoryStore(), time.Hour, nil)
	p := newPlayer()
	now := ms(1000)

	var granted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.IsAuthorized(context.Background(), p, now) {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), granted.Load())
}

func TestGate_ConcurrentDifferentIdentities(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := NewMemoryStore()
	g := NewGate(store, time.Hour, nil)

	var granted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.IsAuthorized(context.Background(), newPlayer(), ms(1000)) {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int32(100), granted.Load())
	require.Equal(t, 100, store.Len())
}

func TestMemoryStore_Evict(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()
	old, fresh := newPlayer(), newPlayer()
	_, _ = store.TryAcquire(ctx, old.ID, 1000, 0)
	_, _ = store.TryAcquire(ctx, fresh.ID, 9000, 0)

	n, err := store.Evict(ctx, 10_000, 5000)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, 1, store.Len())

	_, ok, _ := store.Last(ctx, old.ID)
	require.False(t, ok)
}

func TestJanitor_SweepAndRetentionFloor(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	g := NewGate(store, 10*time.Second, nil)
	j := NewJanitor(store, g, time.Second, time.Minute, zaptest.NewLogger(t))
	require.Equal(t, 10*time.Second, j.retention)

	p := newPlayer()
	require.True(t, g.IsAuthorized(context.Background(), p, ms(1000)))

	j.now = func() time.Time { return ms(5000) }
	n, err := j.Sweep(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)

	j.now = func() time.Time { return ms(11_000) }
	n, err = j.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestJanitor_RunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := NewMemoryStore()
	g := NewGate(store, time.Millisecond, nil)
	j := NewJanitor(store, g, time.Millisecond, time.Millisecond, nil)
	_, _ = store.TryAcquire(context.Background(), newPlayer().ID, 0, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Run(ctx) }()

	require.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}
