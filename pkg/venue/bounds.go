package venue

import (
	"github.com/paulmach/orb"

	"github.com/matzehuels/venuemap/pkg/errors"
)

// Bounds is the enclosing extent of a venue in meters, measured from the
// local origin.
type Bounds struct {
	WidthM  float64 `json:"width_m"`
	HeightM float64 `json:"height_m"`
}

// ComputeBounds returns the maximum x+w / y+h over rects, the maximum vertex
// coordinate over polys and the maximum x / y over points. An empty source
// contributes 0.
//
// Minima are not considered: entities left of or above the origin do not
// grow the extent. Every source starts from 0, so the result is never
// negative and adding an entity never shrinks it.
//
// A polygon with no vertices yields a MALFORMED_GEOMETRY error.
func ComputeBounds(rects []Rect, polys []Polygon, points []Marker) (Bounds, error) {
	var b Bounds
	for _, r := range rects {
		b.WidthM = max(b.WidthM, r.X+r.W)
		b.HeightM = max(b.HeightM, r.Y+r.H)
	}
	for _, p := range polys {
		if len(p.Points) == 0 {
			return Bounds{}, errors.New(errors.ErrCodeMalformedGeometry, "polygon %q has no vertices", p.ID)
		}
		for _, pt := range p.Points {
			b.WidthM = max(b.WidthM, pt.X())
			b.HeightM = max(b.HeightM, pt.Y())
		}
	}
	for _, m := range points {
		b.WidthM = max(b.WidthM, m.X)
		b.HeightM = max(b.HeightM, m.Y)
	}
	return b, nil
}

// Bounds computes the extent over every entity of the venue.
func (v *Venue) Bounds() (Bounds, error) {
	return ComputeBounds(v.Rects(true), v.Polygons, v.Markers())
}

// Rects returns the rectangles of rooms and zones, followed by doors when
// withDoors is set.
func (v *Venue) Rects(withDoors bool) []Rect {
	out := make([]Rect, 0, len(v.Rooms)+len(v.Zones)+len(v.Doors))
	for _, r := range v.Rooms {
		out = append(out, r.Rect)
	}
	for _, z := range v.Zones {
		out = append(out, z.Rect)
	}
	if withDoors {
		for _, d := range v.Doors {
			out = append(out, d.Rect)
		}
	}
	return out
}

// Markers returns the point data of pins followed by anchors.
func (v *Venue) Markers() []Marker {
	out := make([]Marker, 0, len(v.Pins)+len(v.Anchors))
	for _, p := range v.Pins {
		out = append(out, p.Marker)
	}
	for _, a := range v.Anchors {
		out = append(out, a.Marker)
	}
	return out
}

// Centroid returns the arithmetic mean of the polygon's vertices. This is
// the label anchor, not the area centroid.
func (p Polygon) Centroid() (orb.Point, error) {
	if len(p.Points) == 0 {
		return orb.Point{}, errors.New(errors.ErrCodeMalformedGeometry, "polygon %q has no vertices", p.ID)
	}
	var sx, sy float64
	for _, pt := range p.Points {
		sx += pt.X()
		sy += pt.Y()
	}
	n := float64(len(p.Points))
	return orb.Point{sx / n, sy / n}, nil
}

// Ring returns the polygon's vertices as a closed ring, repeating the first
// vertex at the end when the stored points are open.
func (p Polygon) Ring() orb.Ring {
	ring := make(orb.Ring, 0, len(p.Points)+1)
	ring = append(ring, p.Points...)
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}
