// Package cooldown throttles repeated book grants per player.
package cooldown

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/achbook/internal/model"
)

// Store keeps the last grant time per player. TryAcquire must be atomic per player:
// it grants iff there is no record, windowMs <= 0, or nowMs-last >= windowMs, and on
// grant stores max(last, nowMs).
type Store interface {
	// TryAcquire checks the window and records the grant in one step.
	TryAcquire(ctx context.Context, id model.PlayerID, nowMs, windowMs int64) (bool, error)
	// Last returns the recorded grant time in milliseconds since epoch.
	Last(ctx context.Context, id model.PlayerID) (int64, bool, error)
}

// Evicter drops records that are older than the retention window.
type Evicter interface {
	Evict(ctx context.Context, nowMs, retentionMs int64) (int, error)
}

// Gate decides whether a player may receive a book now.
type Gate struct {
	store  Store
	window time.Duration
	log    *zap.Logger
}

// NewGate constructs a gate. Negative windows are treated as zero (no throttling).
func NewGate(store Store, window time.Duration, log *zap.Logger) *Gate {
	if window < 0 {
		window = 0
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{store: store, window: window, log: log}
}

// Window returns the configured cooldown.
func (g *Gate) Window() time.Duration { return g.window }

// IsAuthorized reports whether s may receive a book at now and, if so, records the grant.
// Subjects with unrestricted access are always authorized and leave no record.
// Store failures are logged and deny the request.
func (g *Gate) IsAuthorized(ctx context.Context, s model.Subject, now time.Time) bool {
	ok, err := g.Authorize(ctx, s, now)
	if err != nil {
		g.log.Error("cooldown store",
			zap.String("player", s.PlayerID().String()),
			zap.Error(err),
		)
		return false
	}
	return ok
}

// Authorize is IsAuthorized for callers that must tell a store outage apart from
// a cooldown denial. On error the grant is not recorded and ok is false.
func (g *Gate) Authorize(ctx context.Context, s model.Subject, now time.Time) (bool, error) {
	if s.HasUnrestrictedAccess() {
		return true, nil
	}
	ok, err := g.store.TryAcquire(ctx, s.PlayerID(), now.UnixMilli(), g.window.Milliseconds())
	if err != nil {
		return false, fmt.Errorf("cooldown store: %w", err)
	}
	return ok, nil
}

// Remaining returns how long s still has to wait, zero if a request would pass.
func (g *Gate) Remaining(ctx context.Context, s model.Subject, now time.Time) (time.Duration, error) {
	if s.HasUnrestrictedAccess() || g.window == 0 {
		return 0, nil
	}
	last, ok, err := g.store.Last(ctx, s.PlayerID())
	if err != nil || !ok {
		return 0, err
	}
	left := g.window - time.Duration(now.UnixMilli()-last)*time.Millisecond
	if left < 0 {
		return 0, nil
	}
	return left, nil
}
