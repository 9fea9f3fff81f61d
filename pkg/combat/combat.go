// Package combat resolves fights between the adventurer and monsters.
package combat

import (
	"fmt"

	"github.com/jwebster45206/mapquest/pkg/actor"
	"github.com/jwebster45206/mapquest/pkg/domain"
	"github.com/jwebster45206/mapquest/pkg/economy"
)

// HeartUnit is the hit point cost of a lost fight. The HUD shows one heart
// per HeartUnit hit points.
const HeartUnit = 2

// Result is the outcome of a single fight.
type Result int

const (
	AdventurerWon Result = iota + 1
	AdventurerLost
	Tie
)

func (r Result) String() string {
	switch r {
	case AdventurerWon:
		return "adventurer_won"
	case AdventurerLost:
		return "adventurer_lost"
	case Tie:
		return "tie"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// MarshalText encodes the result by name.
func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Resolve fights m with a. The stronger side wins; equal strength is a tie.
//
//   - Won: m is marked defeated and a gains m.Reward gold.
//   - Lost: a loses HeartUnit hit points, clamped at 0.
//   - Tie: nothing changes.
//
// Only hit points, gold and the defeated flag are ever touched.
func Resolve(a *actor.Adventurer, m *actor.Monster) (Result, error) {
	if a == nil || a.IsDefeated() {
		return 0, domain.ErrNoActiveAdventurer
	}
	if m == nil {
		return 0, fmt.Errorf("%w: no monster", domain.ErrNotAMonster)
	}
	if m.Defeated {
		return 0, fmt.Errorf("%w: %s is already defeated", domain.ErrTargetAlreadyResolved, m.Name)
	}

	switch {
	case a.Strength > m.Strength:
		m.Defeated = true
		economy.GrantReward(a, m.Reward)
		return AdventurerWon, nil
	case a.Strength < m.Strength:
		a.HitPoints = max(a.HitPoints-HeartUnit, 0)
		return AdventurerLost, nil
	default:
		return Tie, nil
	}
}
