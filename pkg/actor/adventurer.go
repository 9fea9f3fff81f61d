// Package actor defines the entities of the game world: the adventurer and the
// things found at points of interest. Types here are plain data; the rules that
// mutate them live in the economy and combat packages.
package actor

import "slices"

// Default starting stats for a new adventurer.
const (
	DefaultName      = "Hero"
	DefaultHitPoints = 10
	DefaultStrength  = 10
	DefaultGold      = 40
)

// Adventurer is the player-controlled character.
// HitPoints and Gold are never negative.
type Adventurer struct {
	Name      string `json:"name" validate:"required"`
	HitPoints int    `json:"hit_points" validate:"gte=0"`
	Strength  int    `json:"strength" validate:"gte=0"`
	Gold      int    `json:"gold" validate:"gte=0"`
	Inventory []Item `json:"inventory"`
}

// NewAdventurer creates an adventurer with an empty inventory.
// Negative hit points or gold are clamped to 0.
func NewAdventurer(name string, hitPoints, strength, gold int) *Adventurer {
	return &Adventurer{
		Name:      name,
		HitPoints: max(hitPoints, 0),
		Strength:  strength,
		Gold:      max(gold, 0),
		Inventory: []Item{},
	}
}

// NewDefaultAdventurer returns the adventurer every new game starts with.
func NewDefaultAdventurer() *Adventurer {
	return NewAdventurer(DefaultName, DefaultHitPoints, DefaultStrength, DefaultGold)
}

// IsDefeated returns true once the adventurer has no hit points left.
func (a *Adventurer) IsDefeated() bool {
	return a.HitPoints <= 0
}

// Clone returns a deep copy, safe to hand to observers.
func (a *Adventurer) Clone() *Adventurer {
	if a == nil {
		return nil
	}
	c := *a
	c.Inventory = slices.Clone(a.Inventory)
	if c.Inventory == nil {
		c.Inventory = []Item{}
	}
	return &c
}

// CountOf returns how many items named name the adventurer carries.
func (a *Adventurer) CountOf(name string) int {
	n := 0
	for _, it := range a.Inventory {
		if it.Is(name) {
			n++
		}
	}
	return n
}
