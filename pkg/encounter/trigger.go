// Package encounter turns a stream of adventurer positions into encounter
// events, one per proximity entry.
package encounter

import (
	"github.com/jwebster45206/mapquest/pkg/geo"
	"github.com/jwebster45206/mapquest/pkg/world"
)

// Default trigger geometry.
const (
	DefaultRadiusMeters = 25.0
	DefaultExitFactor   = 1.1
)

// Options configures the proximity test. A point raises an event when the
// adventurer comes closer than Radius, and re-arms only once the adventurer
// is farther than Radius*ExitFactor. The gap between the two keeps GPS
// jitter at the boundary from re-firing the same encounter.
type Options struct {
	Radius     float64 // meters
	ExitFactor float64 // >= 1
}

// DefaultOptions returns the standard 25m / 1.1x geometry.
func DefaultOptions() Options {
	return Options{Radius: DefaultRadiusMeters, ExitFactor: DefaultExitFactor}
}

func (o Options) normalized() Options {
	if o.Radius <= 0 {
		o.Radius = DefaultRadiusMeters
	}
	if o.ExitFactor < 1 {
		o.ExitFactor = 1
	}
	return o
}

// ExitRadius is the distance beyond which a triggered point re-arms.
func (o Options) ExitRadius() float64 {
	o = o.normalized()
	return o.Radius * o.ExitFactor
}

// Event is raised once when the adventurer enters a point's radius.
type Event struct {
	Point    *world.PointOfInterest
	Distance float64 // meters, at the moment of entry
}

// Trigger watches positions against a fixed set of points. The triggered
// state lives on each PointOfInterest.
type Trigger struct {
	points []*world.PointOfInterest
	opts   Options
}

// NewTrigger watches points in the given order.
func NewTrigger(points []*world.PointOfInterest, opts Options) *Trigger {
	return &Trigger{points: points, opts: opts.normalized()}
}

// Options returns the normalized geometry in use.
func (t *Trigger) Options() Options {
	return t.opts
}

// Update processes one position and returns the events raised by it, in
// point order. Defeated monsters never raise events.
func (t *Trigger) Update(pos geo.Coordinate) ([]Event, error) {
	if err := pos.Validate(); err != nil {
		return nil, err
	}

	exit := t.opts.ExitRadius()
	var events []Event
	for _, p := range t.points {
		d := geo.Distance(pos, p.Coordinate)
		switch {
		case p.Triggered:
			if d > exit {
				p.Triggered = false
			}
		case d < t.opts.Radius && p.Active():
			p.Triggered = true
			events = append(events, Event{Point: p, Distance: d})
		}
	}
	return events, nil
}

// Nearby returns the points within the trigger radius of pos, whether or
// not they are armed. Hosts use it to draw proximity hints.
func (t *Trigger) Nearby(pos geo.Coordinate) []*world.PointOfInterest {
	var near []*world.PointOfInterest
	for _, p := range t.points {
		if geo.Distance(pos, p.Coordinate) < t.opts.Radius {
			near = append(near, p)
		}
	}
	return near
}

// Reset re-arms every point.
func (t *Trigger) Reset() {
	for _, p := range t.points {
		p.Triggered = false
	}
}
