// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/achbook/internal/model"
)

// AchievementRepository provides read access to the achievements a player has received.
type AchievementRepository interface {
	// ListForPlayer returns a flat list of name, description and formatted date,
	// three elements per achievement, oldest first.
	ListForPlayer(ctx context.Context, id model.PlayerID) ([]string, error)
}
