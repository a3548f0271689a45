// Package pipeline provides the generation pipeline for venuemap.
//
// This package implements the load → prepare → render pipeline used by the
// CLI and the HTTP API. By centralizing this logic, both entry points apply
// the same defaults, the same anchor handling and the same caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read a venue file, accept an inline venue, or use the embedded
//     reference venue
//  2. Prepare: work on a copy; override the origin, attach anchors to rooms
//     and append suggested anchors
//  3. Render: produce the requested formats (svg, geojson, png, pdf, dot,
//     hierarchy), consulting the cache first
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:        "venue.toml",
//	    AutoAnchors: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/venuemap/pkg/cache"
	"github.com/matzehuels/venuemap/pkg/errors"
	"github.com/matzehuels/venuemap/pkg/geo"
	"github.com/matzehuels/venuemap/pkg/render/diagram"
	"github.com/matzehuels/venuemap/pkg/render/geojson"
	"github.com/matzehuels/venuemap/pkg/venue"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultStyle is the default diagram style.
	DefaultStyle = "classic"

	// DefaultScale is the default number of drawing units per meter.
	DefaultScale = diagram.DefaultScale

	// DefaultPadding is the default canvas margin in drawing units.
	DefaultPadding = diagram.DefaultPadding

	// DefaultPNGScale is the default raster scale for PNG export.
	DefaultPNGScale = 2.0

	// SourceDefault names the embedded venue in logs and results.
	SourceDefault = "builtin:substation"
	// SourceInline names a venue passed in Options.Venue.
	SourceInline = "inline"
)

// Format constants for output formats.
const (
	FormatSVG       = "svg"
	FormatGeoJSON   = "geojson"
	FormatPNG       = "png"
	FormatPDF       = "pdf"
	FormatDOT       = "dot"
	FormatHierarchy = "hierarchy"
)

// DefaultFormats are produced when no format is requested: the floor plan
// and the feature collection.
var DefaultFormats = []string{FormatSVG, FormatGeoJSON}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:       true,
	FormatGeoJSON:   true,
	FormatPNG:       true,
	FormatPDF:       true,
	FormatDOT:       true,
	FormatHierarchy: true,
}

// FileExtension returns the conventional file extension of a format.
func FileExtension(format string) string {
	switch format {
	case FormatHierarchy:
		return "hierarchy.svg"
	default:
		return format
	}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the generation pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. Venue takes precedence over Path; with neither set the
	// embedded reference venue is used.
	Path  string       `json:"path,omitempty"`
	Venue *venue.Venue `json:"venue,omitempty"`

	// Prepare options
	Origin      *geo.Origin `json:"origin,omitempty"`       // Overrides the venue origin
	NoOrigin    bool        `json:"no_origin,omitempty"`    // Keep a (0, 0) origin instead of the reference one
	AutoAnchors bool        `json:"auto_anchors,omitempty"` // Append suggested anchors
	AssignRooms bool        `json:"assign_rooms,omitempty"` // Attach roomless anchors to their room

	// Render options. Nil layer and category sets enable everything.
	Formats    []string            `json:"formats,omitempty"`
	Layers     *diagram.Layers     `json:"layers,omitempty"`
	Categories *geojson.Categories `json:"categories,omitempty"`
	Style      string              `json:"style,omitempty"`
	Scale      float64             `json:"scale,omitempty"`
	Padding    *float64            `json:"padding,omitempty"`
	PNGScale   float64             `json:"png_scale,omitempty"`
	Title      string              `json:"title,omitempty"`
	Refresh    bool                `json:"refresh,omitempty"` // Skip cache reads

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and API responses.
	RunID string

	// Source names where the venue came from.
	Source string

	// Venue is the prepared working copy the artifacts were rendered from.
	Venue *venue.Venue

	// VenueHash is the content hash of the prepared venue.
	VenueHash string

	// Bounds is the extent of the prepared venue.
	Bounds venue.Bounds

	// Suggested lists the anchors added by the recommender.
	Suggested []venue.Anchor

	// Issues lists advisory containment findings.
	Issues []venue.Issue

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which formats came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Counts     venue.Counts
	LoadTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	RenderHit bool     // Whether all artifacts came from cache
	Hits      []string // Formats served from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is registered.
func ValidateStyle(style string) error {
	_, err := diagram.StyleByName(style)
	return err
}

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. This method is idempotent - calling it multiple times has the
// same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the load and prepare fields.
func (o *Options) ValidateForLoad() error {
	if o.Venue == nil && o.Path != "" {
		if err := errors.ValidateOutputPath(o.Path); err != nil {
			return err
		}
	}
	if o.Origin != nil {
		if err := o.Origin.Validate(); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(DefaultFormats)
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if !finite(o.Scale) || !finite(o.PNGScale) || o.Scale < 0 || o.PNGScale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be a positive number")
	}
	if p := o.DiagramPadding(); !finite(p) || p < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "padding must be a non-negative number")
	}
	return ValidateStyle(o.Style)
}

// DiagramLayers returns the enabled diagram layers.
func (o *Options) DiagramLayers() diagram.Layers {
	if o.Layers == nil {
		return diagram.AllLayers()
	}
	return *o.Layers
}

// DiagramPadding returns the canvas margin in drawing units.
func (o *Options) DiagramPadding() float64 {
	if o.Padding == nil {
		return DefaultPadding
	}
	return *o.Padding
}

// GeoCategories returns the enabled feature categories.
func (o *Options) GeoCategories() geojson.Categories {
	if o.Categories == nil {
		return geojson.AllCategories()
	}
	return *o.Categories
}

// ArtifactKeyOpts returns cache key options for one format. Only options
// that affect that format are included, so for example changing the style
// does not invalidate cached GeoJSON.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		k.Style = o.Style
		k.Scale = o.Scale
		k.Padding = o.DiagramPadding()
		k.Include = layerNames(o.DiagramLayers())
		if format == FormatPNG {
			k.PNGScale = o.PNGScale
		}
		k.Title = o.Title
	case FormatGeoJSON:
		k.Include = categoryNames(o.GeoCategories())
	}
	return k
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func layerNames(l diagram.Layers) []string {
	var out []string
	for _, f := range []struct {
		name string
		on   bool
	}{{"structure", l.Structure}, {"measurements", l.Measurements}, {"labels", l.Labels}, {"markers", l.Markers}} {
		if f.on {
			out = append(out, f.name)
		}
	}
	return out
}

func categoryNames(c geojson.Categories) []string {
	var out []string
	for _, f := range []struct {
		name string
		on   bool
	}{{"rooms", c.Rooms}, {"zones", c.Zones}, {"polygons", c.Polygons}, {"pins", c.Pins}, {"anchors", c.Anchors}, {"metadata", c.Metadata}} {
		if f.on {
			out = append(out, f.name)
		}
	}
	return out
}
