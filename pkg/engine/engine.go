// Package engine is the authoritative game state: one adventurer walking a
// fixed world, the encounters their movement raises, and the observers that
// keep hosts in sync.
//
// Every operation runs under a single mutex. Observer and delegate callbacks
// are collected while the lock is held and run after it is released, in the
// order the changes happened, so callbacks may call Snapshot freely.
package engine

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/mapquest/pkg/actor"
	"github.com/jwebster45206/mapquest/pkg/combat"
	"github.com/jwebster45206/mapquest/pkg/domain"
	"github.com/jwebster45206/mapquest/pkg/economy"
	"github.com/jwebster45206/mapquest/pkg/encounter"
	"github.com/jwebster45206/mapquest/pkg/geo"
	"github.com/jwebster45206/mapquest/pkg/world"
)

// Options configures an Engine.
type Options struct {
	Trigger  encounter.Options
	Delegate Delegate // may be nil
}

// DefaultOptions uses the standard trigger geometry and no delegate.
func DefaultOptions() Options {
	return Options{Trigger: encounter.DefaultOptions()}
}

// Engine owns one game session at a time.
type Engine struct {
	mu       sync.Mutex
	world    *world.World
	trigger  *encounter.Trigger
	delegate Delegate
	logger   *slog.Logger

	sessionID   uuid.UUID
	adventurer  *actor.Adventurer
	position    *geo.Coordinate
	sessionOver bool
	open        *openEncounter
	queue       []*world.PointOfInterest

	subs   []subscription
	nextID SubscriptionID
	fx     []effect
}

type openEncounter struct {
	point *world.PointOfInterest
	fight *combat.Encounter // monsters only
}

// New creates an engine for w. The engine takes ownership of w and mutates
// its points of interest as the session progresses.
func New(w *world.World, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		world:    w,
		trigger:  encounter.NewTrigger(w.PointsOfInterest, opts.Trigger),
		delegate: opts.Delegate,
		logger:   logger,
	}
}

// SetDelegate replaces the encounter delegate. Pass nil to remove it.
func (e *Engine) SetDelegate(d Delegate) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.delegate = d
}

// StartSession begins a new game with a copy of a, or the default
// adventurer when a is nil. Any previous session is discarded and the world
// is put back into its initial state.
func (e *Engine) StartSession(a *actor.Adventurer) (uuid.UUID, error) {
	if a == nil {
		a = actor.NewDefaultAdventurer()
	}
	if a.IsDefeated() {
		return uuid.Nil, fmt.Errorf("%w: %s starts with no hit points", domain.ErrNoActiveAdventurer, a.Name)
	}

	e.mu.Lock()
	e.world.Reset()
	e.sessionID = uuid.New()
	e.adventurer = a.Clone()
	e.position = nil
	e.sessionOver = false
	e.open = nil
	e.queue = nil
	e.notify(ReasonSessionStarted)
	id := e.sessionID
	e.logger.Info("Session started",
		"session_id", id,
		"adventurer", e.adventurer.Name,
		"hit_points", e.adventurer.HitPoints,
		"strength", e.adventurer.Strength,
		"gold", e.adventurer.Gold)
	fx := e.drain()
	e.mu.Unlock()

	fx.dispatch()
	return id, nil
}

// UpdatePosition moves the adventurer to pos and returns the encounters the
// move raised, including any raised on arrival through a warp zone. Raised
// encounters are queued and opened one at a time.
func (e *Engine) UpdatePosition(pos geo.Coordinate) ([]encounter.Event, error) {
	e.mu.Lock()
	events, err := e.updatePosition(pos)
	fx := e.drain()
	e.mu.Unlock()

	fx.dispatch()
	return events, err
}

func (e *Engine) updatePosition(pos geo.Coordinate) ([]encounter.Event, error) {
	if err := e.requireActive(); err != nil {
		return nil, err
	}
	events, err := e.trigger.Update(pos)
	if err != nil {
		return nil, err
	}

	e.position = &pos
	e.logger.Debug("Adventurer moved", "session_id", e.sessionID, "position", pos.String(), "raised", len(events))
	e.notify(ReasonMoved)

	for _, ev := range events {
		e.queue = append(e.queue, ev.Point)
	}
	return append(events, e.openNext()...), nil
}

// Fight resolves one round against the monster at poiID. The monster's
// encounter must be the open one, or no encounter may be open.
func (e *Engine) Fight(poiID string) (combat.Result, error) {
	e.mu.Lock()
	res, err := e.fightLocked(poiID)
	fx := e.drain()
	e.mu.Unlock()

	fx.dispatch()
	return res, err
}

func (e *Engine) fightLocked(poiID string) (combat.Result, error) {
	if err := e.requireActive(); err != nil {
		return 0, err
	}
	p, ok := e.world.Point(poiID)
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownPointOfInterest, poiID)
	}
	if p.Kind != world.KindMonster {
		return 0, fmt.Errorf("%w: %q is a %s", domain.ErrNotAMonster, poiID, p.Kind)
	}

	var enc *combat.Encounter
	switch {
	case e.open == nil:
		enc = combat.Propose(p.Monster)
	case e.open.point == p:
		enc = e.open.fight
	default:
		return 0, fmt.Errorf("%w: %s is waiting", domain.ErrEncounterInProgress, e.open.point.Name())
	}

	res, err := enc.Fight(e.adventurer)
	if err != nil {
		return 0, err
	}
	e.logger.Info("Fight resolved",
		"session_id", e.sessionID,
		"monster", p.Monster.Name,
		"result", res.String(),
		"round", enc.Rounds,
		"hit_points", e.adventurer.HitPoints,
		"gold", e.adventurer.Gold)
	e.notify(ReasonFight)

	if e.adventurer.IsDefeated() {
		e.endSession()
		return res, nil
	}
	if e.open != nil && !enc.Open() {
		e.closeOpen()
	}
	e.openNext()
	return res, nil
}

// Decline walks away from the open monster encounter, or dismisses the open
// NPC or store encounter.
func (e *Engine) Decline() error {
	e.mu.Lock()
	err := e.declineLocked()
	fx := e.drain()
	e.mu.Unlock()

	fx.dispatch()
	return err
}

func (e *Engine) declineLocked() error {
	if err := e.requireActive(); err != nil {
		return err
	}
	if e.open == nil {
		return domain.ErrNoOpenEncounter
	}
	if e.open.fight != nil {
		if err := e.open.fight.Decline(); err != nil {
			return err
		}
	}
	e.logger.Info("Encounter declined", "session_id", e.sessionID, "point_id", e.open.point.ID)
	e.closeOpen()
	e.openNext()
	return nil
}

// Purchase buys one itemName from the store at storeID.
func (e *Engine) Purchase(storeID, itemName string) error {
	e.mu.Lock()
	err := e.purchaseLocked(storeID, itemName)
	fx := e.drain()
	e.mu.Unlock()

	fx.dispatch()
	return err
}

func (e *Engine) purchaseLocked(storeID, itemName string) error {
	if err := e.requireActive(); err != nil {
		return err
	}
	p, ok := e.world.Point(storeID)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownPointOfInterest, storeID)
	}
	if p.Kind != world.KindStore {
		return fmt.Errorf("%w: %q is a %s", domain.ErrNotAStore, storeID, p.Kind)
	}
	if err := economy.Purchase(p.Store, itemName, e.adventurer); err != nil {
		e.logger.Debug("Purchase refused", "session_id", e.sessionID, "store", p.Store.Name, "item", itemName, "error", err)
		return err
	}
	e.logger.Info("Item purchased", "session_id", e.sessionID, "store", p.Store.Name, "item", itemName, "gold", e.adventurer.Gold)
	e.notify(ReasonPurchase)
	return nil
}

// LookupIcon returns the asset key for item: its own icon when it has one,
// otherwise the world catalog entry for its name.
func (e *Engine) LookupIcon(item actor.Item) (string, bool) {
	if item.Icon != "" {
		return item.Icon, true
	}
	return e.world.Icon(item.Name)
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// SessionID returns the current session, or uuid.Nil before the first one.
func (e *Engine) SessionID() uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessionID
}

// PointsOfInterest returns copies of every point in world order.
func (e *Engine) PointsOfInterest() []*world.PointOfInterest {
	e.mu.Lock()
	defer e.mu.Unlock()
	points := make([]*world.PointOfInterest, len(e.world.PointsOfInterest))
	for i, p := range e.world.PointsOfInterest {
		points[i] = p.Clone()
	}
	return points
}

// Reservoir returns the world's reservoir outline, unchanged.
func (e *Engine) Reservoir() geo.Polygon {
	return slices.Clone(e.world.Reservoir)
}

// Region returns the world's camera region.
func (e *Engine) Region() geo.Region {
	return e.world.Region
}

// Subscribe registers o for every subsequent notification.
func (e *Engine) Subscribe(o Observer) SubscriptionID {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	e.subs = append(e.subs, subscription{id: e.nextID, observer: o})
	return e.nextID
}

// Unsubscribe removes a registration. Unknown ids are ignored.
func (e *Engine) Unsubscribe(id SubscriptionID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = slices.DeleteFunc(e.subs, func(s subscription) bool { return s.id == id })
}

func (e *Engine) requireActive() error {
	if e.adventurer == nil || e.sessionOver {
		return domain.ErrNoActiveAdventurer
	}
	return nil
}

// openNext opens queued encounters until one stays open or the queue is
// empty. It returns events raised by warp arrivals.
func (e *Engine) openNext() []encounter.Event {
	o := &opener{e: e}
	for e.open == nil && len(e.queue) > 0 {
		p := e.queue[0]
		e.queue = e.queue[1:]
		if !p.Active() {
			continue
		}
		if err := p.Accept(o); err != nil {
			e.logger.Error("Skipping malformed point of interest", "point_id", p.ID, "error", err)
		}
	}
	return o.arrivals
}

func (e *Engine) closeOpen() {
	e.open = nil
	e.notify(ReasonEncounterClosed)
}

func (e *Engine) endSession() {
	e.sessionOver = true
	e.open = nil
	e.queue = nil
	e.logger.Info("Adventurer defeated, session over", "session_id", e.sessionID, "gold", e.adventurer.Gold)
	e.notify(ReasonSessionEnded)
}

func (e *Engine) snapshot() Snapshot {
	s := Snapshot{
		SessionID:   e.sessionID,
		Adventurer:  e.adventurer.Clone(),
		Queued:      len(e.queue),
		SessionOver: e.sessionOver,
	}
	if e.position != nil {
		pos := *e.position
		s.Position = &pos
	}
	if e.open != nil {
		v := &EncounterView{
			PointID: e.open.point.ID,
			Kind:    e.open.point.Kind,
			Name:    e.open.point.Name(),
		}
		if e.open.fight != nil {
			v.State = e.open.fight.State
			v.Rounds = e.open.fight.Rounds
		}
		s.Encounter = v
	}
	return s
}

// notify records a notification carrying the state as of now.
func (e *Engine) notify(r Reason) {
	n := Notification{Reason: r, Snapshot: e.snapshot()}
	e.fx = append(e.fx, effect{notify: &n})
}

// later records a delegate call.
func (e *Engine) later(call func()) {
	e.fx = append(e.fx, effect{call: call})
}

func (e *Engine) drain() effects {
	fx := effects{list: e.fx}
	e.fx = nil
	if len(fx.list) == 0 {
		return fx
	}
	fx.observers = make([]Observer, len(e.subs))
	for i, s := range e.subs {
		fx.observers[i] = s.observer
	}
	return fx
}
