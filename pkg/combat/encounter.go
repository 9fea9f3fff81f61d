package combat

import (
	"fmt"

	"github.com/jwebster45206/mapquest/pkg/actor"
	"github.com/jwebster45206/mapquest/pkg/domain"
)

// State is the lifecycle stage of a monster encounter.
type State int

const (
	Proposed State = iota + 1 // "Fight?" is on screen
	Engaged                   // a fight is being resolved
	Resolved                  // someone won
	Declined                  // the adventurer walked away
)

func (s State) String() string {
	switch s {
	case Proposed:
		return "proposed"
	case Engaged:
		return "engaged"
	case Resolved:
		return "resolved"
	case Declined:
		return "declined"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Encounter tracks one monster encounter from proposal to outcome. A tie
// sends it back to Proposed so the adventurer can fight again or decline.
type Encounter struct {
	Monster *actor.Monster
	State   State
	Result  Result // set once Resolved
	Rounds  int    // fight attempts, ties included
}

// Propose opens an encounter with m.
func Propose(m *actor.Monster) *Encounter {
	return &Encounter{Monster: m, State: Proposed}
}

// Open reports whether the encounter still needs a decision.
func (e *Encounter) Open() bool {
	return e.State == Proposed || e.State == Engaged
}

// Fight resolves one round against a.
func (e *Encounter) Fight(a *actor.Adventurer) (Result, error) {
	if !e.Open() {
		return 0, fmt.Errorf("%w: %s encounter is %s", domain.ErrEncounterClosed, e.Monster.Name, e.State)
	}

	e.State = Engaged
	res, err := Resolve(a, e.Monster)
	if err != nil {
		e.State = Proposed
		return 0, err
	}
	e.Rounds++

	if res == Tie {
		e.State = Proposed
		return res, nil
	}
	e.State = Resolved
	e.Result = res
	return res, nil
}

// Decline walks away from a proposed encounter.
func (e *Encounter) Decline() error {
	if e.State != Proposed {
		return fmt.Errorf("%w: cannot decline a %s encounter", domain.ErrEncounterClosed, e.State)
	}
	e.State = Declined
	return nil
}
