package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/jwebster45206/mapquest/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestCoordinate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		coord   Coordinate
		wantErr bool
	}{
		{name: "central park", coord: Coordinate{Lat: 40.7746, Lon: -73.9641}},
		{name: "poles and antimeridian", coord: Coordinate{Lat: 90, Lon: -180}},
		{name: "NaN latitude", coord: Coordinate{Lat: math.NaN(), Lon: 0}, wantErr: true},
		{name: "infinite longitude", coord: Coordinate{Lat: 0, Lon: math.Inf(1)}, wantErr: true},
		{name: "latitude out of range", coord: Coordinate{Lat: 91, Lon: 0}, wantErr: true},
		{name: "longitude out of range", coord: Coordinate{Lat: 0, Lon: -181}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.coord.Validate()
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidPosition) {
					t.Errorf("expected ErrInvalidPosition, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	a := Coordinate{Lat: 40.7746, Lon: -73.9641}

	assert.Equal(t, 0.0, Distance(a, a))

	// One degree of latitude is roughly 111.2 km.
	b := Coordinate{Lat: 41.7746, Lon: -73.9641}
	assert.InDelta(t, 111195, Distance(a, b), 50)

	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
}

func TestOffset(t *testing.T) {
	start := Coordinate{Lat: 40.7746, Lon: -73.9641}

	north := Offset(start, 100, 0)
	assert.InDelta(t, 100, Distance(start, north), 0.5)
	assert.Greater(t, north.Lat, start.Lat)

	east := Offset(start, 0, 100)
	assert.InDelta(t, 100, Distance(start, east), 0.5)
	assert.Greater(t, east.Lon, start.Lon)
}

func TestRegion_Contains(t *testing.T) {
	r := Region{
		Center: Coordinate{Lat: 40.7746, Lon: -73.9641},
		Span:   Span{LatDelta: 0.1, LonDelta: 0.1},
	}

	assert.True(t, r.Contains(r.Center))
	assert.True(t, r.Contains(Coordinate{Lat: 40.8, Lon: -73.92}))
	assert.False(t, r.Contains(Coordinate{Lat: 40.9, Lon: -73.9641}))
}

func TestDisplacement(t *testing.T) {
	start := Coordinate{Lat: 40.7746, Lon: -73.9641}

	n, e := Displacement(start, Offset(start, 120, -45))
	assert.InDelta(t, 120, n, 1e-6)
	assert.InDelta(t, -45, e, 1e-6)

	n, e = Displacement(start, start)
	assert.Zero(t, n)
	assert.Zero(t, e)
}
