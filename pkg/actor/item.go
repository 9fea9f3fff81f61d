package actor

import "strings"

// Item is something an adventurer can carry or a store can sell.
// Items are values: acquiring one copies it.
type Item struct {
	Name string `json:"name" yaml:"name" validate:"required"`
	Cost int    `json:"cost" yaml:"cost" validate:"gte=0"`
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"` // opaque asset key
}

// Is reports whether the item has the given name, ignoring case and
// surrounding whitespace.
func (i Item) Is(name string) bool {
	return sameName(i.Name, name)
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
