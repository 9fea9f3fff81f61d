package geo

// Span is the extent of a Region in degrees.
type Span struct {
	LatDelta float64 `json:"lat_delta" yaml:"lat_delta" validate:"gte=0"`
	LonDelta float64 `json:"lon_delta" yaml:"lon_delta" validate:"gte=0"`
}

// Region is the camera area hosts should frame when rendering the world.
type Region struct {
	Center Coordinate `json:"center" yaml:"center"`
	Span   Span       `json:"span" yaml:"span"`
}

// Contains reports whether c falls inside the region's bounding box.
func (r Region) Contains(c Coordinate) bool {
	halfLat := r.Span.LatDelta / 2
	halfLon := r.Span.LonDelta / 2
	return c.Lat >= r.Center.Lat-halfLat && c.Lat <= r.Center.Lat+halfLat &&
		c.Lon >= r.Center.Lon-halfLon && c.Lon <= r.Center.Lon+halfLon
}

// Polygon is an ordered ring of coordinates. It is static geometry and is
// passed to renderers unchanged.
type Polygon []Coordinate
