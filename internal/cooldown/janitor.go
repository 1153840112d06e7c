package cooldown

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Janitor periodically evicts stale cooldown records so the store stays bounded.
type Janitor struct {
	store     Evicter
	retention time.Duration
	every     time.Duration
	now       func() time.Time
	log       *zap.Logger
}

// NewJanitor constructs a janitor. Retention shorter than the gate window would
// let players skip their cooldown, so it is raised to the window.
func NewJanitor(store Evicter, gate *Gate, retention, every time.Duration, log *zap.Logger) *Janitor {
	if retention < gate.Window() {
		retention = gate.Window()
	}
	if every <= 0 {
		every = time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Janitor{store: store, retention: retention, every: every, now: time.Now, log: log}
}

// Sweep runs one eviction pass.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	n, err := j.store.Evict(ctx, j.now().UnixMilli(), j.retention.Milliseconds())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		j.log.Debug("cooldown evict", zap.Int("removed", n))
	}
	return n, nil
}

// Run sweeps until ctx is done.
func (j *Janitor) Run(ctx context.Context) error {
	t := time.NewTicker(j.every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if _, err := j.Sweep(ctx); err != nil && ctx.Err() == nil {
				j.log.Warn("cooldown evict failed", zap.Error(err))
			}
		}
	}
}
