// Package geojson renders a venue as a GeoJSON FeatureCollection.
//
// Local meter coordinates are projected around the venue origin with
// [geo.Origin.Project]. Every feature carries a "type" property naming its
// category (Metadata, Room, Zone, Polygon, Pin, Anchor) so consumers can
// style and filter without inspecting geometry.
//
// Features are emitted in a fixed order: the metadata point first, then
// rooms, zones, polygons, pins and anchors, each in dataset order. Polygon
// rings are always closed. Point features keep their local coordinates in
// the x_m and y_m properties.
//
// [geo.Origin.Project]: github.com/matzehuels/venuemap/pkg/geo#Origin.Project
package geojson
