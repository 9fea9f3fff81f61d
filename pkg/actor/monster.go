package actor

// Monster represents a creature waiting at a point of interest.
// A monster's identity is its map position plus its name.
type Monster struct {
	Name        string `json:"name" yaml:"name" validate:"required"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Strength    int    `json:"strength" yaml:"strength" validate:"gte=0"`
	Reward      int    `json:"reward" yaml:"reward" validate:"gte=0"` // gold granted on defeat
	Defeated    bool   `json:"defeated,omitempty" yaml:"defeated,omitempty"`
}

// NewMonster creates an undefeated monster. Negative strength or reward are
// clamped to 0.
func NewMonster(name string, strength, reward int) *Monster {
	return &Monster{
		Name:     name,
		Strength: max(strength, 0),
		Reward:   max(reward, 0),
	}
}

// Is reports whether the monster has the given name.
func (m *Monster) Is(name string) bool {
	return sameName(m.Name, name)
}

// IsDefeated returns true once the adventurer has beaten the monster.
func (m *Monster) IsDefeated() bool {
	return m.Defeated
}
