// Package render provides the output formats for venue floor plans.
//
// # Overview
//
// The rendering work lives in subpackages:
//
//   - [diagram]: the layered SVG floor plan
//   - [geojson]: the GeoJSON feature collection
//   - [hierarchy]: a Graphviz graph of rooms, zones and markers
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both the floor plan and
// the hierarchy graph go through them.
//
//	svg, err := diagram.Render(v)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [diagram]: github.com/matzehuels/venuemap/pkg/render/diagram
// [geojson]: github.com/matzehuels/venuemap/pkg/render/geojson
// [hierarchy]: github.com/matzehuels/venuemap/pkg/render/hierarchy
package render
