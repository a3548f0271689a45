package geo

import (
	"math"

	"github.com/matzehuels/venuemap/pkg/errors"
)

// EarthRadius is the WGS84 equatorial radius in meters.
const EarthRadius = 6378137.0

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// Origin is the geographic point that corresponds to local coordinate (0, 0).
type Origin struct {
	Lat float64 `json:"lat" toml:"lat"`
	Lon float64 `json:"lon" toml:"lon"`
}

// Point is a geographic coordinate in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate reports an INVALID_ORIGIN error when the origin cannot anchor a
// projection: non-finite values or a latitude at or beyond the poles, where
// the longitude scale collapses to zero.
func (o Origin) Validate() error {
	if math.IsNaN(o.Lat) || math.IsInf(o.Lat, 0) || math.IsNaN(o.Lon) || math.IsInf(o.Lon, 0) {
		return errors.New(errors.ErrCodeInvalidOrigin, "origin must be finite (lat=%v, lon=%v)", o.Lat, o.Lon)
	}
	if math.Abs(o.Lat) >= 90 {
		return errors.New(errors.ErrCodeInvalidOrigin, "origin latitude %v is out of range (|lat| must be < 90)", o.Lat)
	}
	return nil
}

// IsZero reports whether the origin was left unset.
func (o Origin) IsZero() bool {
	return o.Lat == 0 && o.Lon == 0
}

// lonScale is the number of meters per radian of longitude at the origin.
func (o Origin) lonScale() float64 {
	return EarthRadius * math.Cos(o.Lat*degToRad)
}

// ToGeo projects local meters to a geographic point around origin.
// Larger y moves south, so the latitude delta is negated.
func ToGeo(xm, ym float64, origin Origin) (Point, error) {
	if err := origin.Validate(); err != nil {
		return Point{}, err
	}
	return origin.Project(xm, ym), nil
}

// ToLocal is the inverse of [ToGeo]: it recovers local meters from a
// geographic point, restoring the downward-positive y convention.
func ToLocal(lat, lon float64, origin Origin) (xm, ym float64, err error) {
	if err := origin.Validate(); err != nil {
		return 0, 0, err
	}
	xm, ym = origin.Unproject(lat, lon)
	return xm, ym, nil
}

// Project is [ToGeo] without origin validation. Callers that project many
// points validate the origin once and use this in the loop.
func (o Origin) Project(xm, ym float64) Point {
	dLat := (-ym / EarthRadius) * radToDeg
	dLon := (xm / o.lonScale()) * radToDeg
	return Point{Lat: o.Lat + dLat, Lon: o.Lon + dLon}
}

// Unproject is [ToLocal] without origin validation.
func (o Origin) Unproject(lat, lon float64) (xm, ym float64) {
	dLat := (lat - o.Lat) * degToRad
	dLon := (lon - o.Lon) * degToRad
	return dLon * o.lonScale(), -(dLat * EarthRadius)
}
