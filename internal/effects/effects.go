// Package effects resolves the presentation hints sent along with a book.
// Playing them is the host's job; this package only picks identifiers.
package effects

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/and161185/achbook/internal/model"
)

// Feature is a host capability detected from its version.
type Feature string

const (
	// FeatureLegacySounds marks hosts older than 1.9 with the old sound enum.
	FeatureLegacySounds Feature = "legacy-sounds"
	// FeatureModernSounds marks hosts with namespaced sound names.
	FeatureModernSounds Feature = "modern-sounds"
)

// ParticleBook is played around the player on delivery.
const ParticleBook = "ENCHANTMENT_TABLE"

// LevelUpSounds maps the sound feature to the level-up sound identifier.
var LevelUpSounds = map[Feature]string{
	FeatureLegacySounds: "LEVEL_UP",
	FeatureModernSounds: "ENTITY_PLAYER_LEVELUP",
}

// MinorVersion extracts the minor number from a server package version such as
// "v1_12_R1" or "1_8_R3".
func MinorVersion(v string) (int, error) {
	parts := strings.Split(strings.TrimPrefix(v, "v"), "_")
	if len(parts) < 2 {
		return 0, fmt.Errorf("effects: bad server version %q", v)
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("effects: bad server version %q: %w", v, err)
	}
	return n, nil
}

// SoundFeature detects which sound enum the host uses.
func SoundFeature(version string) (Feature, error) {
	minor, err := MinorVersion(version)
	if err != nil {
		return "", err
	}
	if minor < 9 {
		return FeatureLegacySounds, nil
	}
	return FeatureModernSounds, nil
}

// Catalog lists the effects to play for a delivered book.
type Catalog struct {
	effects []model.Effect
}

// NewCatalog builds the effect list for a host version and the enabled toggles.
func NewCatalog(version string, sound, particles bool) (*Catalog, error) {
	c := &Catalog{}
	if particles {
		c.effects = append(c.effects, model.Effect{Kind: "particle", Name: ParticleBook})
	}
	if sound {
		f, err := SoundFeature(version)
		if err != nil {
			return nil, err
		}
		c.effects = append(c.effects, model.Effect{Kind: "sound", Name: LevelUpSounds[f]})
	}
	return c, nil
}

// Effects returns a copy of the effect list.
func (c *Catalog) Effects() []model.Effect {
	if c == nil || len(c.effects) == 0 {
		return nil
	}
	return append([]model.Effect(nil), c.effects...)
}
