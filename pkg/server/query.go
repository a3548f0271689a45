package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/matzehuels/venuemap/pkg/cache"
	"github.com/matzehuels/venuemap/pkg/errors"
	"github.com/matzehuels/venuemap/pkg/geo"
	"github.com/matzehuels/venuemap/pkg/pipeline"
	"github.com/matzehuels/venuemap/pkg/render/diagram"
	"github.com/matzehuels/venuemap/pkg/render/geojson"
	"github.com/matzehuels/venuemap/pkg/venue"
)

// optionsFromQuery builds pipeline options from query parameters. Boolean
// parameters accept anything strconv.ParseBool does.
func optionsFromQuery(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	var opts pipeline.Options
	p := queryParser{q: q}

	layers := diagram.AllLayers()
	layers.Structure = !p.flag("no-structure")
	layers.Measurements = !p.flag("no-measurements")
	layers.Labels = !p.flag("no-labels")
	layers.Markers = !p.flag("no-markers")
	opts.Layers = &layers

	cats := geojson.AllCategories()
	cats.Rooms = !p.flag("no-rooms")
	cats.Zones = !p.flag("no-zones")
	cats.Polygons = !p.flag("no-polygons")
	cats.Pins = !p.flag("no-pins")
	cats.Anchors = !p.flag("no-anchors")
	cats.Metadata = !p.flag("no-metadata")
	opts.Categories = &cats

	opts.AutoAnchors = p.flag("auto-anchors")
	opts.AssignRooms = p.flag("assign-rooms")
	opts.Refresh = p.flag("refresh")
	opts.Style = q.Get("style")
	opts.Title = q.Get("title")
	opts.Scale = p.number("scale")
	if q.Has("padding") {
		pad := p.number("padding")
		opts.Padding = &pad
	}
	if q.Has("origin-lat") || q.Has("origin-lon") {
		opts.Origin = &geo.Origin{Lat: p.number("origin-lat"), Lon: p.number("origin-lon")}
	}

	if p.err != nil {
		return pipeline.Options{}, p.err
	}
	return opts, nil
}

type queryParser struct {
	q   url.Values
	err error
}

func (p *queryParser) flag(name string) bool {
	raw := p.q.Get(name)
	if raw == "" {
		return false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil && p.err == nil {
		p.err = errors.New(errors.ErrCodeInvalidInput, "query parameter %s: %q is not a boolean", name, raw)
	}
	return b
}

func (p *queryParser) number(name string) float64 {
	raw := p.q.Get(name)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err == nil {
		err = errors.ValidateFinite(name, f)
	}
	if err != nil && p.err == nil {
		p.err = errors.New(errors.ErrCodeInvalidInput, "query parameter %s: %q is not a number", name, raw)
	}
	return f
}

func venueHash(v *venue.Venue) (string, error) {
	fp, err := venue.Fingerprint(v)
	if err != nil {
		return "", err
	}
	return cache.Hash(fp), nil
}
