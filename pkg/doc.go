// Package pkg provides the libraries behind venuemap.
//
// # Overview
//
// venuemap turns a venue description in meters into a layered SVG floor
// plan and a GeoJSON FeatureCollection placed around a geographic origin.
// The pkg directory is organized into four areas:
//
//  1. Model: [venue] (entities, TOML loading, bounds, room index) and
//     [geo] (meters ⇄ latitude/longitude)
//  2. Domain logic: [anchors] (anchor recommendation and room assignment)
//  3. Rendering: [render/diagram] (SVG), [render/geojson] (GeoJSON),
//     [render/hierarchy] (Graphviz) and [render] (PNG/PDF conversion)
//  4. Orchestration and infrastructure: [pipeline] (load → prepare →
//     render), [cache], [observability], [server] (HTTP API)
//
// # Architecture
//
// The typical data flow:
//
//	venue.toml (or the built-in venue)
//	         ↓
//	    [venue] package (decode + validate)
//	         ↓
//	    [anchors] package (optional suggested anchors on a copy)
//	         ↓
//	    [render/diagram], [render/geojson], [render/hierarchy]
//	         ↓
//	    SVG / GeoJSON / PNG / PDF / DOT output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/venuemap/pkg/anchors"
//	    "github.com/matzehuels/venuemap/pkg/render/diagram"
//	    "github.com/matzehuels/venuemap/pkg/render/geojson"
//	    "github.com/matzehuels/venuemap/pkg/venue"
//	)
//
//	v, err := venue.Load("venue.toml")
//	if err != nil {
//	    return err
//	}
//	v = anchors.Augment(v)
//
//	svg, err := diagram.Render(v)
//	features, err := geojson.Render(v)
//
// Most callers go through [pipeline.Runner] instead, which adds caching,
// option defaults and observability hooks.
//
// [venue]: https://pkg.go.dev/github.com/matzehuels/venuemap/pkg/venue
// [geo]: https://pkg.go.dev/github.com/matzehuels/venuemap/pkg/geo
// [anchors]: https://pkg.go.dev/github.com/matzehuels/venuemap/pkg/anchors
// [render]: https://pkg.go.dev/github.com/matzehuels/venuemap/pkg/render
// [render/diagram]: https://pkg.go.dev/github.com/matzehuels/venuemap/pkg/render/diagram
// [render/geojson]: https://pkg.go.dev/github.com/matzehuels/venuemap/pkg/render/geojson
// [render/hierarchy]: https://pkg.go.dev/github.com/matzehuels/venuemap/pkg/render/hierarchy
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/venuemap/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/venuemap/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/venuemap/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/venuemap/pkg/observability
// [server]: https://pkg.go.dev/github.com/matzehuels/venuemap/pkg/server
package pkg
