// Package diagram renders a venue as a layered SVG floor plan.
//
// The document holds up to four groups, always in this order:
//
//	layer1-structure     room fills, zone fills and outlines, polygons,
//	                     walls, door gaps
//	layer2-measurements  width and height annotations per room
//	layer3-labels        room, zone and polygon names
//	layer4-markers       pins and anchors
//
// Each group can be switched off with [WithLayers]; a viewer can also hide
// groups individually by id. Coordinates are venue meters multiplied by the
// scale, with the padding placed around the content through the viewBox so
// that meter (0, 0) maps to drawing (0, 0).
//
//	svg, err := diagram.Render(v,
//	    diagram.WithLayers(diagram.Layers{Structure: true, Labels: true}),
//	    diagram.WithStyle(diagram.Blueprint{}),
//	)
package diagram
