package geo

import (
	"fmt"
	"math"

	"github.com/jwebster45206/mapquest/pkg/domain"
)

// EarthRadiusMeters is the mean Earth radius used for great-circle distances.
const EarthRadiusMeters = 6371008.8

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" yaml:"lon" validate:"gte=-180,lte=180"`
}

// Validate reports ErrInvalidPosition for non-finite or out-of-range coordinates.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return fmt.Errorf("%w: non-finite coordinate (%v, %v)", domain.ErrInvalidPosition, c.Lat, c.Lon)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", domain.ErrInvalidPosition, c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: longitude %v out of range", domain.ErrInvalidPosition, c.Lon)
	}
	return nil
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

// Distance returns the great-circle (haversine) distance in meters.
func Distance(a, b Coordinate) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := lat2 - lat1
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Offset moves c by the given number of meters north and east. Used by hosts
// that step the adventurer around the map; accurate enough for park-sized areas.
func Offset(c Coordinate, northMeters, eastMeters float64) Coordinate {
	dLat := northMeters / EarthRadiusMeters
	dLon := eastMeters / (EarthRadiusMeters * math.Cos(radians(c.Lat)))
	return Coordinate{
		Lat: c.Lat + degrees(dLat),
		Lon: c.Lon + degrees(dLon),
	}
}

// Displacement is the inverse of Offset: the meters north and east that
// lead from one coordinate to another.
func Displacement(from, to Coordinate) (northMeters, eastMeters float64) {
	northMeters = radians(to.Lat-from.Lat) * EarthRadiusMeters
	eastMeters = radians(to.Lon-from.Lon) * EarthRadiusMeters * math.Cos(radians(from.Lat))
	return northMeters, eastMeters
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }
