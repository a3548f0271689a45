package diagram

const (
	// DefaultScale is the number of drawing units per meter.
	DefaultScale = 20.0
	// DefaultPadding is the margin around the content, in drawing units.
	DefaultPadding = 50.0

	// DoorMargin expands door gaps past their declared rectangle so they
	// fully cover the wall stroke underneath.
	DoorMargin = 2.0
	// DimOffset is the distance between a room edge and its dimension line.
	DimOffset = 10.0

	PinRadius    = 5.0
	AnchorRadius = 7.0

	// DefaultMarkerColor fills markers that carry no color of their own.
	DefaultMarkerColor = "#FF1493"
)

// Layers selects which groups are emitted.
type Layers struct {
	Structure    bool `json:"structure"`
	Measurements bool `json:"measurements"`
	Labels       bool `json:"labels"`
	Markers      bool `json:"markers"`
}

// AllLayers enables every group.
func AllLayers() Layers {
	return Layers{Structure: true, Measurements: true, Labels: true, Markers: true}
}

// Any reports whether at least one layer is enabled.
func (l Layers) Any() bool {
	return l.Structure || l.Measurements || l.Labels || l.Markers
}

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	layers  Layers
	style   Style
	scale   float64
	padding float64
	title   string
}

// WithLayers sets the enabled layers. The default is [AllLayers].
func WithLayers(l Layers) Option { return func(r *renderer) { r.layers = l } }

// WithStyle sets the visual style. The default is [Classic].
func WithStyle(s Style) Option { return func(r *renderer) { r.style = s } }

// WithScale sets drawing units per meter. Non-positive values are ignored.
func WithScale(s float64) Option {
	return func(r *renderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithPadding sets the margin around the content. Negative values are
// ignored.
func WithPadding(p float64) Option {
	return func(r *renderer) {
		if p >= 0 {
			r.padding = p
		}
	}
}

// WithTitle adds a <title> element, shown as a tooltip by most viewers.
func WithTitle(t string) Option { return func(r *renderer) { r.title = t } }

func newRenderer(opts ...Option) renderer {
	r := renderer{
		layers:  AllLayers(),
		style:   Classic{},
		scale:   DefaultScale,
		padding: DefaultPadding,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.style == nil {
		r.style = Classic{}
	}
	return r
}
