package world

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/mapquest/pkg/actor"
	"github.com/jwebster45206/mapquest/pkg/geo"
)

// Kind identifies which variant a PointOfInterest carries.
type Kind int

const (
	KindMonster Kind = iota + 1
	KindNPC
	KindStore
	KindWarpZone
)

var kindNames = map[Kind]string{
	KindMonster:  "monster",
	KindNPC:      "npc",
	KindStore:    "store",
	KindWarpZone: "warp_zone",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText encodes the kind as its name.
func (k Kind) MarshalText() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown point of interest kind %d", int(k))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a kind name. "warp" and "warpzone" are accepted
// as aliases of "warp_zone".
func (k *Kind) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	switch s {
	case "warp", "warpzone":
		s = "warp_zone"
	case "shop":
		s = "store"
	}
	for kind, name := range kindNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown point of interest kind %q", string(text))
}

// PointOfInterest is a fixed map location that opens an encounter when the
// adventurer comes near. Exactly one of Monster, NPC, Store or Warp is set,
// matching Kind.
//
// Triggered is per-session state: it is set when an encounter is raised and
// cleared only once the adventurer leaves the point's exit radius.
type PointOfInterest struct {
	ID         string         `json:"id" yaml:"id" validate:"required"`
	Kind       Kind           `json:"kind" yaml:"kind" validate:"required"`
	Coordinate geo.Coordinate `json:"coordinate" yaml:"coordinate"`

	Monster *actor.Monster  `json:"monster,omitempty" yaml:"monster,omitempty"`
	NPC     *actor.NPC      `json:"npc,omitempty" yaml:"npc,omitempty"`
	Store   *actor.Store    `json:"store,omitempty" yaml:"store,omitempty"`
	Warp    *actor.WarpZone `json:"warp,omitempty" yaml:"warp,omitempty"`

	Triggered bool `json:"triggered,omitempty" yaml:"-"`
}

// NewMonsterPoint places a monster on the map.
func NewMonsterPoint(id string, at geo.Coordinate, m *actor.Monster) *PointOfInterest {
	return &PointOfInterest{ID: id, Kind: KindMonster, Coordinate: at, Monster: m}
}

// NewNPCPoint places an NPC on the map.
func NewNPCPoint(id string, at geo.Coordinate, n *actor.NPC) *PointOfInterest {
	return &PointOfInterest{ID: id, Kind: KindNPC, Coordinate: at, NPC: n}
}

// NewStorePoint places a store on the map.
func NewStorePoint(id string, at geo.Coordinate, s *actor.Store) *PointOfInterest {
	return &PointOfInterest{ID: id, Kind: KindStore, Coordinate: at, Store: s}
}

// NewWarpPoint places a warp zone on the map.
func NewWarpPoint(id string, at geo.Coordinate, w *actor.WarpZone) *PointOfInterest {
	return &PointOfInterest{ID: id, Kind: KindWarpZone, Coordinate: at, Warp: w}
}

// Visitor handles every point of interest variant. Implementations must
// provide all four methods, so adding a variant breaks every dispatcher at
// compile time instead of falling through a default case.
type Visitor interface {
	VisitMonster(p *PointOfInterest, m *actor.Monster)
	VisitNPC(p *PointOfInterest, n *actor.NPC)
	VisitStore(p *PointOfInterest, s *actor.Store)
	VisitWarpZone(p *PointOfInterest, w *actor.WarpZone)
}

// Accept dispatches p to the visitor method for its variant. It returns an
// error if Kind and payload disagree, which Validate rules out for loaded worlds.
func (p *PointOfInterest) Accept(v Visitor) error {
	if err := p.checkVariant(); err != nil {
		return err
	}
	switch p.Kind {
	case KindMonster:
		v.VisitMonster(p, p.Monster)
	case KindNPC:
		v.VisitNPC(p, p.NPC)
	case KindStore:
		v.VisitStore(p, p.Store)
	case KindWarpZone:
		v.VisitWarpZone(p, p.Warp)
	}
	return nil
}

// Name returns the display name of the variant.
func (p *PointOfInterest) Name() string {
	switch p.Kind {
	case KindMonster:
		if p.Monster != nil {
			return p.Monster.Name
		}
	case KindNPC:
		if p.NPC != nil {
			return p.NPC.Name
		}
	case KindStore:
		if p.Store != nil {
			return p.Store.Name
		}
	case KindWarpZone:
		if p.Warp != nil {
			return p.Warp.Name
		}
	}
	return p.ID
}

// Active reports whether the point can still raise encounters.
// Defeated monsters are inert.
func (p *PointOfInterest) Active() bool {
	return p.Kind != KindMonster || p.Monster == nil || !p.Monster.Defeated
}

// Clone returns a deep copy of the point and its payload.
func (p *PointOfInterest) Clone() *PointOfInterest {
	c := *p
	if p.Monster != nil {
		m := *p.Monster
		c.Monster = &m
	}
	if p.NPC != nil {
		n := *p.NPC
		c.NPC = &n
	}
	if p.Store != nil {
		s := *p.Store
		s.Inventory = append([]actor.Item(nil), p.Store.Inventory...)
		c.Store = &s
	}
	if p.Warp != nil {
		w := *p.Warp
		c.Warp = &w
	}
	return &c
}

func (p *PointOfInterest) checkVariant() error {
	set := 0
	for _, ok := range []bool{p.Monster != nil, p.NPC != nil, p.Store != nil, p.Warp != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("point %q: expected exactly one payload, found %d", p.ID, set)
	}

	var ok bool
	switch p.Kind {
	case KindMonster:
		ok = p.Monster != nil
	case KindNPC:
		ok = p.NPC != nil
	case KindStore:
		ok = p.Store != nil
	case KindWarpZone:
		ok = p.Warp != nil
	}
	if !ok {
		return fmt.Errorf("point %q: payload does not match kind %s", p.ID, p.Kind)
	}
	return nil
}
