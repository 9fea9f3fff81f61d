package actor

// Store is a shop with a static catalog. Buying an item never removes it
// from the catalog.
type Store struct {
	Name      string `json:"name" yaml:"name" validate:"required"`
	Inventory []Item `json:"inventory" yaml:"inventory" validate:"dive"`
}

// Is reports whether the store has the given name.
func (s *Store) Is(name string) bool {
	return sameName(s.Name, name)
}

// Item looks up a catalog entry by name.
func (s *Store) Item(name string) (Item, bool) {
	for _, it := range s.Inventory {
		if it.Is(name) {
			return it, true
		}
	}
	return Item{}, false
}
