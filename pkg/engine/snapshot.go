package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/mapquest/pkg/actor"
	"github.com/jwebster45206/mapquest/pkg/combat"
	"github.com/jwebster45206/mapquest/pkg/geo"
	"github.com/jwebster45206/mapquest/pkg/world"
)

const (
	heartGlyph = "❤️"
	skullGlyph = "☠️"
	goldGlyph  = "💰"
)

// Snapshot is a point-in-time copy of the engine state. It shares no memory
// with the engine and is safe to keep.
type Snapshot struct {
	SessionID   uuid.UUID         `json:"session_id"`
	Adventurer  *actor.Adventurer `json:"adventurer,omitempty"`
	Position    *geo.Coordinate   `json:"position,omitempty"`
	Encounter   *EncounterView    `json:"encounter,omitempty"`
	Queued      int               `json:"queued"`
	SessionOver bool              `json:"session_over"`
}

// EncounterView describes the open encounter.
type EncounterView struct {
	PointID string       `json:"point_id"`
	Kind    world.Kind   `json:"kind"`
	Name    string       `json:"name"`
	State   combat.State `json:"state,omitempty"`  // monsters only
	Rounds  int          `json:"rounds,omitempty"` // monsters only
}

// Active reports whether gameplay operations are currently allowed.
func (s Snapshot) Active() bool {
	return s.Adventurer != nil && !s.SessionOver && !s.Adventurer.IsDefeated()
}

// Hearts renders the adventurer's health for the HUD: one heart per two
// hit points, or a skull once there is no active adventurer.
func (s Snapshot) Hearts() string {
	if !s.Active() {
		return skullGlyph
	}
	return strings.Repeat(heartGlyph, s.Adventurer.HitPoints/combat.HeartUnit)
}

// Gold renders the adventurer's purse for the HUD.
func (s Snapshot) Gold() string {
	gold := 0
	if s.Adventurer != nil {
		gold = s.Adventurer.Gold
	}
	return fmt.Sprintf("%s%d", goldGlyph, gold)
}
