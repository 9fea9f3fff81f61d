package actor

import "github.com/jwebster45206/mapquest/pkg/geo"

// WarpZone teleports the adventurer to Destination when entered.
type WarpZone struct {
	Name        string         `json:"name" yaml:"name" validate:"required"`
	Destination geo.Coordinate `json:"destination" yaml:"destination"`
}

// Is reports whether the warp zone has the given name.
func (w *WarpZone) Is(name string) bool {
	return sameName(w.Name, name)
}
