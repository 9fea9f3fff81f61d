package actor

// NPC represents a non-player character. NPCs have no stats; meeting one is
// pure flavor.
type NPC struct {
	Name     string `json:"name" yaml:"name" validate:"required"`
	Dialogue string `json:"dialogue,omitempty" yaml:"dialogue,omitempty"`
}

// Is reports whether the NPC has the given name.
func (n *NPC) Is(name string) bool {
	return sameName(n.Name, name)
}
