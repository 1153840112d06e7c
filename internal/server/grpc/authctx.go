package grpcserver

import (
	"context"

	"github.com/and161185/achbook/internal/model"
)

type ctxKey string

const playerKey ctxKey = "achbook.player"

// WithPlayer stores the authenticated player in context.
func WithPlayer(ctx context.Context, p model.Player) context.Context {
	return context.WithValue(ctx, playerKey, p)
}

// PlayerFromCtx fetches the authenticated player from context.
func PlayerFromCtx(ctx context.Context) (model.Player, bool) {
	v := ctx.Value(playerKey)
	if v == nil {
		return model.Player{}, false
	}
	p, ok := v.(model.Player)
	return p, ok
}
