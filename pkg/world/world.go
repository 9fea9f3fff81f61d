// Package world defines the fixed, pre-authored map a game session is played
// on: its points of interest, the reservoir polygon, and the icon catalog.
package world

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/mapquest/pkg/actor"
	"github.com/jwebster45206/mapquest/pkg/domain"
	"github.com/jwebster45206/mapquest/pkg/geo"
)

//go:embed data/central_park.json
var centralPark []byte

// World is the static definition of a map. PointsOfInterest order is the
// stable order encounters are raised in.
type World struct {
	Name             string             `json:"name" yaml:"name" validate:"required"`
	Region           geo.Region         `json:"region" yaml:"region"`
	PointsOfInterest []*PointOfInterest `json:"points_of_interest" yaml:"points_of_interest" validate:"required,min=1,dive,required"`
	Reservoir        geo.Polygon        `json:"reservoir,omitempty" yaml:"reservoir,omitempty" validate:"dive"`
	Icons            map[string]string  `json:"icons,omitempty" yaml:"icons,omitempty"` // item name -> asset key
}

// Format selects the decoder used by Decode.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns a fresh copy of the built-in Central Park world.
func Default() *World {
	w, err := Decode(centralPark, FormatJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded world is invalid: %v", err))
	}
	return w
}

// Load reads and validates a world file. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func Load(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read world file: %w", err)
	}
	return Decode(data, FormatFor(path))
}

// FormatFor picks a format from a file name.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses and validates a world definition.
func Decode(data []byte, format Format) (*World, error) {
	var w World
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&w); err != nil {
			return nil, fmt.Errorf("%w: failed to parse yaml: %v", domain.ErrInvalidWorld, err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&w); err != nil {
			return nil, fmt.Errorf("%w: failed to parse json: %v", domain.ErrInvalidWorld, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", domain.ErrInvalidWorld, format)
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// Validate checks struct constraints, unique IDs, and that every point's
// payload matches its kind.
func (w *World) Validate() error {
	if err := validate.Struct(w); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidWorld, err)
	}

	seen := make(map[string]bool, len(w.PointsOfInterest))
	for _, p := range w.PointsOfInterest {
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate point id %q", domain.ErrInvalidWorld, p.ID)
		}
		seen[p.ID] = true

		if err := p.checkVariant(); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidWorld, err)
		}
		if err := p.Coordinate.Validate(); err != nil {
			return fmt.Errorf("%w: point %q: %v", domain.ErrInvalidWorld, p.ID, err)
		}
		if p.Kind == KindWarpZone {
			if err := p.Warp.Destination.Validate(); err != nil {
				return fmt.Errorf("%w: warp %q destination: %v", domain.ErrInvalidWorld, p.ID, err)
			}
		}
	}
	return nil
}

// Point returns the point of interest with the given id.
func (w *World) Point(id string) (*PointOfInterest, bool) {
	for _, p := range w.PointsOfInterest {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Reset clears every triggered flag and revives every monster, putting the
// world back into its start-of-session state.
func (w *World) Reset() {
	for _, p := range w.PointsOfInterest {
		p.Triggered = false
		if p.Monster != nil {
			p.Monster.Defeated = false
		}
	}
}

// Icon looks up the catalog asset key for an item name.
func (w *World) Icon(itemName string) (string, bool) {
	if icon, ok := w.Icons[itemName]; ok {
		return icon, true
	}
	for name, icon := range w.Icons {
		if (actor.Item{Name: name}).Is(itemName) {
			return icon, true
		}
	}
	return "", false
}

// Counts returns how many points of each kind the world holds.
func (w *World) Counts() map[Kind]int {
	counts := make(map[Kind]int)
	for _, p := range w.PointsOfInterest {
		counts[p.Kind]++
	}
	return counts
}
