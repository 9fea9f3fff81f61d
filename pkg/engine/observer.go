package engine

import "github.com/jwebster45206/mapquest/pkg/actor"

// Reason says what kind of change a Notification reports.
type Reason string

const (
	ReasonSessionStarted  Reason = "session.started"
	ReasonMoved           Reason = "adventurer.moved"
	ReasonEncounterOpened Reason = "encounter.opened"
	ReasonEncounterClosed Reason = "encounter.closed"
	ReasonFight           Reason = "encounter.fight"
	ReasonWarped          Reason = "adventurer.warped"
	ReasonPurchase        Reason = "store.purchase"
	ReasonSessionEnded    Reason = "session.ended"
)

// Notification is delivered to every observer after a state change.
// Observers pull whatever they render from the snapshot.
type Notification struct {
	Reason   Reason   `json:"reason"`
	Snapshot Snapshot `json:"snapshot"`
}

// Observer receives state-changed notifications.
type Observer interface {
	StateChanged(n Notification)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(n Notification)

// StateChanged calls f(n).
func (f ObserverFunc) StateChanged(n Notification) { f(n) }

// SubscriptionID identifies a registered observer.
type SubscriptionID uint64

// Delegate is told when the adventurer walks into an encounter, once per
// proximity entry. The arguments are copies.
type Delegate interface {
	EncounteredMonster(m *actor.Monster)
	EncounteredNPC(n *actor.NPC)
	EnteredStore(s *actor.Store)
}

type subscription struct {
	id       SubscriptionID
	observer Observer
}

// effect is a callback recorded while the lock is held and run after it is
// released. Exactly one of notify or call is set.
type effect struct {
	notify *Notification
	call   func()
}

type effects struct {
	list      []effect
	observers []Observer
}

func (fx effects) dispatch() {
	for _, f := range fx.list {
		if f.call != nil {
			f.call()
			continue
		}
		for _, o := range fx.observers {
			o.StateChanged(*f.notify)
		}
	}
}
