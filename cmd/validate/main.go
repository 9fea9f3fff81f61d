package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/mapquest/pkg/encounter"
	"github.com/jwebster45206/mapquest/pkg/geo"
	"github.com/jwebster45206/mapquest/pkg/world"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <world.json|world.yaml>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	fmt.Printf("Validating %s...\n", filename)

	w, err := world.Load(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	v := &WorldValidator{radius: encounter.DefaultRadiusMeters}
	v.check(w)

	fmt.Print(summary(w))
	for _, warning := range v.warnings {
		fmt.Println("warning:", warning)
	}
	fmt.Println("World file is valid!")
}

// WorldValidator collects layout problems that load fine but make for a
// confusing map.
type WorldValidator struct {
	radius   float64
	warnings []string
}

func (v *WorldValidator) check(w *world.World) {
	for _, p := range w.PointsOfInterest {
		if w.Region.Span.LatDelta > 0 && !w.Region.Contains(p.Coordinate) {
			v.warn("%s %q lies outside the map region", kindLabel(p.Kind), p.ID)
		}

		switch p.Kind {
		case world.KindStore:
			for _, item := range p.Store.Inventory {
				if item.Icon != "" {
					continue
				}
				if _, ok := w.Icon(item.Name); !ok {
					v.warn("store %q sells %q with no icon", p.ID, item.Name)
				}
			}
		case world.KindWarpZone:
			for _, other := range w.PointsOfInterest {
				if other.Kind == world.KindWarpZone && other.ID != p.ID &&
					geo.Distance(p.Warp.Destination, other.Coordinate) < v.radius {
					v.warn("warp %q lands on warp %q, which will not fire until the adventurer walks away", p.ID, other.ID)
				}
			}
		}
	}
}

func (v *WorldValidator) warn(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func summary(w *world.World) string {
	counts := w.Counts()
	kinds := make([]world.Kind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	var b strings.Builder
	fmt.Fprintf(&b, "World %q: %d points of interest\n", w.Name, len(w.PointsOfInterest))
	for _, k := range kinds {
		fmt.Fprintf(&b, "  %-10s %d\n", kindLabel(k), counts[k])
	}
	return b.String()
}

var titleCaser = cases.Title(language.English)

func kindLabel(k world.Kind) string {
	if k == world.KindNPC {
		return "NPC"
	}
	return titleCaser.String(strings.ReplaceAll(k.String(), "_", " "))
}
