// Package geo converts between local venue coordinates and geographic
// coordinates.
//
// Venue geometry is authored in meters on a local plane whose origin is the
// top-left corner of the mapped area: x grows to the right (east) and y grows
// downward (south). An [Origin] pins that plane to a latitude/longitude.
//
// The transform is an equirectangular approximation on a sphere of radius
// [EarthRadius]. The longitude scale is evaluated at the origin latitude on
// both legs, which makes [ToLocal] an exact algebraic inverse of [ToGeo]:
//
//	p, _ := geo.ToGeo(10, 10, origin)
//	x, y, _ := geo.ToLocal(p.Lat, p.Lon, origin)   // x == 10, y == 10
//
// The approximation is accurate for venue-scale extents (tens of meters) and
// degrades over tens of kilometers.
package geo
