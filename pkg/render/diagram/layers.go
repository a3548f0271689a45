package diagram

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/matzehuels/venuemap/pkg/venue"
)

// renderStructure paints fills first, then walls, then door gaps on top of
// the walls they interrupt.
func (r *renderer) renderStructure(g *etree.Element, v *venue.Venue) {
	s := r.scale
	for _, room := range v.Rooms {
		e := rect(g, room.X*s, room.Y*s, room.W*s, room.H*s, "room-fill")
		fill(e, room.Color)
		tagID(e, room.ID)
	}
	for _, z := range v.Zones {
		e := rect(g, z.X*s, z.Y*s, z.W*s, z.H*s, "zone-fill")
		fill(e, z.Color)
		tagID(e, z.ID)
		rect(g, z.X*s, z.Y*s, z.W*s, z.H*s, "zone-line")
	}
	for _, p := range v.Polygons {
		e := g.CreateElement("polygon")
		e.CreateAttr("points", r.points(p))
		e.CreateAttr("class", "room-fill")
		fill(e, p.Color)
		tagID(e, p.ID)
	}
	for _, room := range v.Rooms {
		rect(g, room.X*s, room.Y*s, room.W*s, room.H*s, "wall")
	}
	for _, d := range v.Doors {
		rect(g, d.X*s-DoorMargin, d.Y*s-DoorMargin, d.W*s+2*DoorMargin, d.H*s+2*DoorMargin, "door-gap")
	}
}

// fill passes an entity color through verbatim. Entities without a color
// fall back to the style's class rules.
func fill(e *etree.Element, color string) {
	if color != "" {
		e.CreateAttr("fill", color)
	}
}

func (r *renderer) points(p venue.Polygon) string {
	parts := make([]string, len(p.Points))
	for i, pt := range p.Points {
		parts[i] = num(pt.X()*r.scale) + "," + num(pt.Y()*r.scale)
	}
	return strings.Join(parts, " ")
}

// renderMeasurements annotates each room's width above its top edge and its
// height left of its left edge.
func (r *renderer) renderMeasurements(g *etree.Element, rooms []venue.Room) {
	s := r.scale
	for _, room := range rooms {
		x0, y0 := room.X*s, room.Y*s
		x1, y1 := (room.X+room.W)*s, (room.Y+room.H)*s

		ly := y0 - DimOffset
		line(g, x0, ly, x1, ly)
		text(g, x0+(x1-x0)/2, ly-5, "dim-text", meters(room.W))

		lx := x0 - DimOffset
		line(g, lx, y0, lx, y1)
		text(g, lx-15, y0+(y1-y0)/2, "dim-text", meters(room.H))
	}
}

func line(g *etree.Element, x1, y1, x2, y2 float64) {
	e := g.CreateElement("line")
	e.CreateAttr("x1", num(x1))
	e.CreateAttr("y1", num(y1))
	e.CreateAttr("x2", num(x2))
	e.CreateAttr("y2", num(y2))
	e.CreateAttr("class", "dim-line")
}

func meters(v float64) string { return num(v) + "m" }

// renderLabels centers names on their entity. Rooms and zones always get a
// text element, empty or not; unnamed polygons get none.
func (r *renderer) renderLabels(g *etree.Element, v *venue.Venue, centroids [][2]float64) {
	for _, room := range v.Rooms {
		cx, cy := room.Center()
		r.label(g, cx, cy, room.LabelOffset, "label-room", room.Name)
	}
	for _, z := range v.Zones {
		cx, cy := z.Center()
		r.label(g, cx, cy, z.LabelOffset, "label-zone", z.Name)
	}
	for i, p := range v.Polygons {
		if p.Name == "" {
			continue
		}
		r.label(g, centroids[i][0], centroids[i][1], p.LabelOffset, "label-room", p.Name)
	}
}

func (r *renderer) label(g *etree.Element, x, y float64, off venue.Offset, class, s string) {
	text(g, (x+off.DX)*r.scale, (y+off.DY)*r.scale, class, s)
}

func (r *renderer) renderMarkers(g *etree.Element, v *venue.Venue) {
	for _, p := range v.Pins {
		r.marker(g, p.Marker, PinRadius, "marker-pin")
	}
	for _, a := range v.Anchors {
		class := "marker-anchor"
		if a.Suggested {
			class += " suggested"
		}
		r.marker(g, a.Marker, AnchorRadius, class)
	}
}

func (r *renderer) marker(g *etree.Element, m venue.Marker, radius float64, class string) {
	x, y := m.X*r.scale, m.Y*r.scale
	color := m.Color
	if color == "" {
		color = DefaultMarkerColor
	}

	c := g.CreateElement("circle")
	c.CreateAttr("cx", num(x))
	c.CreateAttr("cy", num(y))
	c.CreateAttr("r", num(radius))
	c.CreateAttr("fill", color)
	c.CreateAttr("class", class)
	tagID(c, m.ID)

	if label := m.Label(); label != "" {
		text(g, x+radius+4, y+4, "marker-label", label)
	}
}
