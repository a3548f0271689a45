package diagram

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/matzehuels/venuemap/pkg/errors"
	"github.com/matzehuels/venuemap/pkg/venue"
)

// Group ids, in document order.
const (
	LayerStructure    = "layer1-structure"
	LayerMeasurements = "layer2-measurements"
	LayerLabels       = "layer3-labels"
	LayerMarkers      = "layer4-markers"
)

// Render builds the diagram and serializes it as indented UTF-8 text.
func Render(v *venue.Venue, opts ...Option) ([]byte, error) {
	doc, err := Build(v, opts...)
	if err != nil {
		return nil, err
	}
	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize svg")
	}
	return out, nil
}

// Build returns the diagram as an element tree, for callers that want to
// post-process it before serializing.
func Build(v *venue.Venue, opts ...Option) (*etree.Document, error) {
	r := newRenderer(opts...)

	bounds, err := v.Bounds()
	if err != nil {
		return nil, err
	}
	// Label positions are computed up front so a bad polygon fails the
	// whole render instead of producing a partial document.
	centroids, err := polygonCentroids(v.Polygons)
	if err != nil {
		return nil, err
	}

	w := bounds.WidthM*r.scale + 2*r.padding
	h := bounds.HeightM*r.scale + 2*r.padding

	doc := etree.NewDocument()
	svg := doc.CreateElement("svg")
	svg.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	svg.CreateAttr("width", num(w))
	svg.CreateAttr("height", num(h))
	svg.CreateAttr("viewBox", num(-r.padding)+" "+num(-r.padding)+" "+num(w)+" "+num(h))

	if r.title != "" {
		svg.CreateElement("title").SetText(r.title)
	}
	r.style.RenderDefs(svg)
	if bg := r.style.Background(); bg != "" {
		rect(svg, -r.padding, -r.padding, w, h, "background").CreateAttr("fill", bg)
	}

	if r.layers.Structure {
		r.renderStructure(group(svg, LayerStructure), v)
	}
	if r.layers.Measurements {
		r.renderMeasurements(group(svg, LayerMeasurements), v.Rooms)
	}
	if r.layers.Labels {
		r.renderLabels(group(svg, LayerLabels), v, centroids)
	}
	if r.layers.Markers {
		r.renderMarkers(group(svg, LayerMarkers), v)
	}
	return doc, nil
}

func polygonCentroids(polys []venue.Polygon) ([][2]float64, error) {
	out := make([][2]float64, len(polys))
	for i, p := range polys {
		c, err := p.Centroid()
		if err != nil {
			return nil, err
		}
		out[i] = [2]float64{c.X(), c.Y()}
	}
	return out, nil
}

func group(svg *etree.Element, id string) *etree.Element {
	g := svg.CreateElement("g")
	g.CreateAttr("id", id)
	return g
}

func rect(parent *etree.Element, x, y, w, h float64, class string) *etree.Element {
	e := parent.CreateElement("rect")
	e.CreateAttr("x", num(x))
	e.CreateAttr("y", num(y))
	e.CreateAttr("width", num(w))
	e.CreateAttr("height", num(h))
	e.CreateAttr("class", class)
	return e
}

func text(parent *etree.Element, x, y float64, class, s string) *etree.Element {
	e := parent.CreateElement("text")
	e.CreateAttr("x", num(x))
	e.CreateAttr("y", num(y))
	e.CreateAttr("class", class)
	e.SetText(s)
	return e
}

func tagID(e *etree.Element, id string) {
	if id != "" {
		e.CreateAttr("data-id", id)
	}
}

// num formats a drawing coordinate with the fewest digits that round-trip.
func num(f float64) string {
	if f == 0 {
		return "0" // avoid "-0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
