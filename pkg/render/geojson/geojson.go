package geojson

import (
	"encoding/json"

	"github.com/paulmach/orb"
	orbjson "github.com/paulmach/orb/geojson"

	"github.com/matzehuels/venuemap/pkg/errors"
	"github.com/matzehuels/venuemap/pkg/geo"
	"github.com/matzehuels/venuemap/pkg/venue"
)

// Values of the "type" property.
const (
	TypeMetadata = "Metadata"
	TypeRoom     = "Room"
	TypeZone     = "Zone"
	TypePolygon  = "Polygon"
	TypePin      = "Pin"
	TypeAnchor   = "Anchor"
)

// Default marker kinds for points that carry none.
const (
	DefaultPinKind    = "pin"
	DefaultAnchorKind = "beacon"
)

// Categories selects which feature groups are emitted.
type Categories struct {
	Rooms    bool `json:"rooms"`
	Zones    bool `json:"zones"`
	Polygons bool `json:"polygons"`
	Pins     bool `json:"pins"`
	Anchors  bool `json:"anchors"`
	Metadata bool `json:"metadata"`
}

// AllCategories enables every group.
func AllCategories() Categories {
	return Categories{Rooms: true, Zones: true, Polygons: true, Pins: true, Anchors: true, Metadata: true}
}

// Any reports whether at least one category is enabled.
func (c Categories) Any() bool {
	return c.Rooms || c.Zones || c.Polygons || c.Pins || c.Anchors || c.Metadata
}

// Option configures rendering.
type Option func(*builder)

type builder struct {
	cats      Categories
	origin    geo.Origin
	hasOrigin bool
}

// WithCategories sets the enabled categories. The default is
// [AllCategories].
func WithCategories(c Categories) Option { return func(b *builder) { b.cats = c } }

// WithOrigin projects around o instead of the venue's own origin.
func WithOrigin(o geo.Origin) Option {
	return func(b *builder) { b.origin, b.hasOrigin = o, true }
}

// Render builds the collection and serializes it as JSON indented by two
// spaces.
func Render(v *venue.Venue, opts ...Option) ([]byte, error) {
	fc, err := Build(v, opts...)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize geojson")
	}
	return append(out, '\n'), nil
}

// Build returns the feature collection for v.
//
// The origin is validated before any feature is produced, and every polygon
// is checked for vertices, so an error never leaves a partial collection.
func Build(v *venue.Venue, opts ...Option) (*orbjson.FeatureCollection, error) {
	b := builder{cats: AllCategories(), origin: v.Origin}
	for _, opt := range opts {
		opt(&b)
	}
	if err := b.origin.Validate(); err != nil {
		return nil, err
	}

	// Doors do not contribute to the published extent.
	bounds, err := venue.ComputeBounds(v.Rects(false), v.Polygons, v.Markers())
	if err != nil {
		return nil, err
	}

	fc := orbjson.NewFeatureCollection()
	if b.cats.Metadata {
		fc.Append(b.metadata(bounds))
	}
	if b.cats.Rooms {
		for _, r := range v.Rooms {
			fc.Append(b.rect(r.Rect, TypeRoom, orbjson.Properties{"height": r.H}))
		}
	}
	if b.cats.Zones {
		for _, z := range v.Zones {
			fc.Append(b.rect(z.Rect, TypeZone, orbjson.Properties{"parent": z.Parent}))
		}
	}
	if b.cats.Polygons {
		for _, p := range v.Polygons {
			fc.Append(b.polygon(p))
		}
	}
	if b.cats.Pins {
		for _, p := range v.Pins {
			fc.Append(b.point(p.Marker, TypePin, DefaultPinKind, nil))
		}
	}
	if b.cats.Anchors {
		for _, a := range v.Anchors {
			fc.Append(b.point(a.Marker, TypeAnchor, DefaultAnchorKind, orbjson.Properties{
				"room":      a.Room,
				"suggested": a.Suggested,
				"roleId":    a.RoleID,
				"tgId":      a.TgID,
			}))
		}
	}
	return fc, nil
}

func (b *builder) project(x, y float64) orb.Point {
	p := b.origin.Project(x, y)
	return orb.Point{p.Lon, p.Lat}
}

func (b *builder) metadata(bounds venue.Bounds) *orbjson.Feature {
	f := orbjson.NewFeature(orb.Point{b.origin.Lon, b.origin.Lat})
	f.Properties = orbjson.Properties{
		"type":           TypeMetadata,
		"geo_origin_lat": b.origin.Lat,
		"geo_origin_lon": b.origin.Lon,
		"width_m":        bounds.WidthM,
		"height_m":       bounds.HeightM,
	}
	return f
}

// rect projects the corners top-left, top-right, bottom-right, bottom-left
// and closes the ring on the top-left corner.
func (b *builder) rect(r venue.Rect, typ string, extra orbjson.Properties) *orbjson.Feature {
	tl := b.project(r.X, r.Y)
	ring := orb.Ring{
		tl,
		b.project(r.X+r.W, r.Y),
		b.project(r.X+r.W, r.Y+r.H),
		b.project(r.X, r.Y+r.H),
		tl,
	}
	f := orbjson.NewFeature(orb.Polygon{ring})
	f.Properties = props(typ, r.ID, r.Name, extra)
	return f
}

func (b *builder) polygon(p venue.Polygon) *orbjson.Feature {
	local := p.Ring()
	ring := make(orb.Ring, len(local))
	for i, pt := range local {
		ring[i] = b.project(pt.X(), pt.Y())
	}
	f := orbjson.NewFeature(orb.Polygon{ring})
	f.Properties = props(TypePolygon, p.ID, p.Name, nil)
	return f
}

func (b *builder) point(m venue.Marker, typ, defaultKind string, extra orbjson.Properties) *orbjson.Feature {
	kind := m.Kind
	if kind == "" {
		kind = defaultKind
	}
	f := orbjson.NewFeature(b.project(m.X, m.Y))
	f.Properties = props(typ, m.ID, m.Name, extra)
	f.Properties["kind"] = kind
	f.Properties["color"] = m.Color
	f.Properties["x_m"] = m.X
	f.Properties["y_m"] = m.Y
	return f
}

func props(typ, id, name string, extra orbjson.Properties) orbjson.Properties {
	p := orbjson.Properties{"type": typ, "id": id, "name": name}
	for k, v := range extra {
		p[k] = v
	}
	return p
}
