package venue

import (
	"github.com/paulmach/orb"

	"github.com/matzehuels/venuemap/pkg/geo"
)

// Offset is a label nudge in meters, applied on top of an entity's computed
// label position. It replaces per-id special cases in the renderers.
type Offset struct {
	DX float64 `toml:"dx" json:"dx"`
	DY float64 `toml:"dy" json:"dy"`
}

// Rect holds the fields shared by every rectangle entity.
type Rect struct {
	ID          string  `toml:"id" json:"id"`
	Name        string  `toml:"name" json:"name"`
	X           float64 `toml:"x" json:"x"`
	Y           float64 `toml:"y" json:"y"`
	W           float64 `toml:"w" json:"w"`
	H           float64 `toml:"h" json:"h"`
	Color       string  `toml:"color" json:"color,omitempty"`
	LabelOffset Offset  `toml:"label_offset" json:"label_offset"`
}

// Area returns w*h. Degenerate rectangles yield zero or negative areas.
func (r Rect) Area() float64 { return r.W * r.H }

// Center returns the geometric center.
func (r Rect) Center() (float64, float64) { return r.X + r.W/2, r.Y + r.H/2 }

// Positive reports whether both sides are strictly positive.
func (r Rect) Positive() bool { return r.W > 0 && r.H > 0 }

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return r.Contains(o.X, o.Y) && r.Contains(o.X+o.W, o.Y+o.H)
}

// Room is a top-level rectangular area.
type Room struct {
	Rect
}

// Zone is a functional sub-area. Parent is a weak reference to a room id
// used only for display grouping.
type Zone struct {
	Rect
	Parent string `toml:"parent" json:"parent,omitempty"`
}

// Door is a rectangular opening that visually interrupts a wall.
type Door struct {
	Rect
	Type string `toml:"type" json:"type,omitempty"`
}

// Polygon is a free-form area. Points are stored open; ring closure is an
// output concern.
type Polygon struct {
	ID          string      `toml:"id" json:"id"`
	Name        string      `toml:"name" json:"name"`
	Points      []orb.Point `toml:"points" json:"points"`
	Color       string      `toml:"color" json:"color,omitempty"`
	LabelOffset Offset      `toml:"label_offset" json:"label_offset"`
}

// Marker holds the fields shared by point entities.
type Marker struct {
	ID    string  `toml:"id" json:"id"`
	Name  string  `toml:"name" json:"name"`
	X     float64 `toml:"x" json:"x"`
	Y     float64 `toml:"y" json:"y"`
	Kind  string  `toml:"kind" json:"kind,omitempty"`
	Color string  `toml:"color" json:"color,omitempty"`
}

// Label returns the display text of a marker: its name, or its id when the
// name is empty.
func (m Marker) Label() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

// Pin is a labeled point of interest.
type Pin struct {
	Marker
}

// Anchor is a positioning beacon location. RoleID and TgID correlate the
// anchor with external systems and pass through untouched.
type Anchor struct {
	Marker
	Room      string `toml:"room" json:"room,omitempty"`
	Suggested bool   `toml:"suggested" json:"suggested,omitempty"`
	RoleID    any    `toml:"role_id" json:"role_id,omitempty"`
	TgID      any    `toml:"tg_id" json:"tg_id,omitempty"`
}

// Venue is the full entity set of one floor plan.
type Venue struct {
	Name     string     `toml:"name" json:"name,omitempty"`
	Origin   geo.Origin `toml:"origin" json:"origin"`
	Rooms    []Room     `toml:"rooms" json:"rooms"`
	Zones    []Zone     `toml:"zones" json:"zones"`
	Doors    []Door     `toml:"doors" json:"doors"`
	Polygons []Polygon  `toml:"polygons" json:"polygons"`
	Pins     []Pin      `toml:"pins" json:"pins"`
	Anchors  []Anchor   `toml:"anchors" json:"anchors"`
}

// Clone returns a copy whose entity slices can be appended to or modified
// without touching v.
func (v *Venue) Clone() *Venue {
	c := *v
	c.Rooms = append([]Room(nil), v.Rooms...)
	c.Zones = append([]Zone(nil), v.Zones...)
	c.Doors = append([]Door(nil), v.Doors...)
	c.Pins = append([]Pin(nil), v.Pins...)
	c.Anchors = append([]Anchor(nil), v.Anchors...)
	c.Polygons = make([]Polygon, len(v.Polygons))
	for i, p := range v.Polygons {
		p.Points = append([]orb.Point(nil), p.Points...)
		c.Polygons[i] = p
	}
	return &c
}

// Room returns the room with the given id. Zone parents and anchor rooms
// are resolved through this lookup; a miss is not an error.
func (v *Venue) Room(id string) (Room, bool) {
	if id == "" {
		return Room{}, false
	}
	for _, r := range v.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}

// ZonesOf returns the zones whose Parent is roomID, in dataset order.
func (v *Venue) ZonesOf(roomID string) []Zone {
	var out []Zone
	for _, z := range v.Zones {
		if z.Parent == roomID {
			out = append(out, z)
		}
	}
	return out
}

// AnchorsIn returns the anchors whose Room is roomID, in dataset order.
func (v *Venue) AnchorsIn(roomID string) []Anchor {
	var out []Anchor
	for _, a := range v.Anchors {
		if a.Room == roomID {
			out = append(out, a)
		}
	}
	return out
}

// Counts summarizes how many entities of each kind a venue holds.
type Counts struct {
	Rooms    int `json:"rooms"`
	Zones    int `json:"zones"`
	Doors    int `json:"doors"`
	Polygons int `json:"polygons"`
	Pins     int `json:"pins"`
	Anchors  int `json:"anchors"`
}

// Counts returns the per-kind entity counts.
func (v *Venue) Counts() Counts {
	return Counts{
		Rooms:    len(v.Rooms),
		Zones:    len(v.Zones),
		Doors:    len(v.Doors),
		Polygons: len(v.Polygons),
		Pins:     len(v.Pins),
		Anchors:  len(v.Anchors),
	}
}
