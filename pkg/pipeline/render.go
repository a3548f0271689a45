package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/venuemap/pkg/errors"
	"github.com/matzehuels/venuemap/pkg/render"
	"github.com/matzehuels/venuemap/pkg/render/diagram"
	"github.com/matzehuels/venuemap/pkg/render/geojson"
	"github.com/matzehuels/venuemap/pkg/render/hierarchy"
	"github.com/matzehuels/venuemap/pkg/venue"
)

// Render generates output artifacts in the requested formats. The SVG
// diagram is built at most once and reused for PNG and PDF conversion.
// Rendering is all-or-nothing: the first failing format aborts the call.
func Render(ctx context.Context, v *venue.Venue, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var svg []byte
	diagramSVG := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = renderDiagram(v, opts)
		return svg, err
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = diagramSVG()
		case FormatGeoJSON:
			data, err = geojson.Render(v, geojson.WithCategories(opts.GeoCategories()))
		case FormatPNG:
			if data, err = diagramSVG(); err == nil {
				data, err = render.ToPNG(ctx, data, opts.PNGScale)
			}
		case FormatPDF:
			if data, err = diagramSVG(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		case FormatDOT:
			data = []byte(hierarchy.ToDOT(v, hierarchyOptions()))
		case FormatHierarchy:
			data, err = hierarchy.RenderSVG(ctx, hierarchy.ToDOT(v, hierarchyOptions()))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func renderDiagram(v *venue.Venue, opts Options) ([]byte, error) {
	style, err := diagram.StyleByName(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := []diagram.Option{
		diagram.WithLayers(opts.DiagramLayers()),
		diagram.WithStyle(style),
		diagram.WithScale(opts.Scale),
		diagram.WithPadding(opts.DiagramPadding()),
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, diagram.WithTitle(opts.Title))
	}
	return diagram.Render(v, svgOpts...)
}

func hierarchyOptions() hierarchy.Options {
	return hierarchy.Options{Detailed: true, Markers: true}
}
