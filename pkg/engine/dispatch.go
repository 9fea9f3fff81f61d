package engine

import (
	"github.com/jwebster45206/mapquest/pkg/actor"
	"github.com/jwebster45206/mapquest/pkg/combat"
	"github.com/jwebster45206/mapquest/pkg/encounter"
	"github.com/jwebster45206/mapquest/pkg/world"
)

// opener opens one queued point of interest. Called with the lock held.
type opener struct {
	e        *Engine
	arrivals []encounter.Event
}

var _ world.Visitor = (*opener)(nil)

func (o *opener) VisitMonster(p *world.PointOfInterest, m *actor.Monster) {
	o.e.open = &openEncounter{point: p, fight: combat.Propose(m)}
	o.opened(p)
	if d := o.e.delegate; d != nil {
		c := *m
		o.e.later(func() { d.EncounteredMonster(&c) })
	}
}

func (o *opener) VisitNPC(p *world.PointOfInterest, n *actor.NPC) {
	o.e.open = &openEncounter{point: p}
	o.opened(p)
	if d := o.e.delegate; d != nil {
		c := *n
		o.e.later(func() { d.EncounteredNPC(&c) })
	}
}

func (o *opener) VisitStore(p *world.PointOfInterest, s *actor.Store) {
	o.e.open = &openEncounter{point: p}
	o.opened(p)
	if d := o.e.delegate; d != nil {
		c := *s
		c.Inventory = append([]actor.Item(nil), s.Inventory...)
		o.e.later(func() { d.EnteredStore(&c) })
	}
}

// VisitWarpZone teleports the adventurer. Encounters still queued at the
// departure point are dropped. Warp zones at the destination are armed
// without firing, so warps never chain.
func (o *opener) VisitWarpZone(p *world.PointOfInterest, w *actor.WarpZone) {
	e := o.e
	dest := w.Destination
	e.position = &dest
	e.queue = nil
	e.logger.Info("Adventurer warped", "session_id", e.sessionID, "warp", w.Name, "destination", dest.String())
	e.notify(ReasonWarped)

	events, err := e.trigger.Update(dest)
	if err != nil {
		e.logger.Error("Warp destination rejected", "warp", w.Name, "error", err)
		return
	}
	for _, ev := range events {
		if ev.Point.Kind == world.KindWarpZone {
			continue
		}
		e.queue = append(e.queue, ev.Point)
		o.arrivals = append(o.arrivals, ev)
	}
}

func (o *opener) opened(p *world.PointOfInterest) {
	o.e.logger.Info("Encounter opened",
		"session_id", o.e.sessionID,
		"point_id", p.ID,
		"kind", p.Kind.String(),
		"name", p.Name())
	o.e.notify(ReasonEncounterOpened)
}
