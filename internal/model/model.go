// Package model defines domain entities used by services and repositories.
package model

import (
	"github.com/gofrs/uuid/v5"
)

// PlayerID identifies a requester. Opaque and comparable.
type PlayerID = uuid.UUID

// Subject is a requester as seen by the cooldown gate.
type Subject interface {
	// PlayerID returns the identity key.
	PlayerID() PlayerID
	// HasUnrestrictedAccess reports the wildcard capability that bypasses cooldowns.
	HasUnrestrictedAccess() bool
}

// Player is the default Subject built from authenticated request data.
type Player struct {
	ID           PlayerID
	Name         string
	Unrestricted bool
}

// PlayerID implements Subject.
func (p Player) PlayerID() PlayerID { return p.ID }

// HasUnrestrictedAccess implements Subject.
func (p Player) HasUnrestrictedAccess() bool { return p.Unrestricted }

// AchievementRecord is one accomplishment. Date is already formatted.
type AchievementRecord struct {
	Name        string
	Description string
	Date        string
}

// CompiledDocument is a finished book. Pages are in record order.
type CompiledDocument struct {
	Pages  []string
	Author string
	Title  string
	Lore   string
}

// Effect is a symbolic presentation hint (sound or particle) for the host.
type Effect struct {
	Kind string // "sound" or "particle"
	Name string
}

// Delivery is what the book service hands to the presentation layer.
type Delivery struct {
	Book    CompiledDocument
	Effects []Effect
	Message string // book-received text
}
