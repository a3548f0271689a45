// Package hierarchy renders the containment structure of a venue as a
// Graphviz diagram.
//
// The venue is the root; rooms hang below it, zones below their parent
// room and markers below the room that contains them. Zones whose parent
// does not exist attach to the venue with a dashed edge, matching the weak
// nature of the parent link.
//
//	dot := hierarchy.ToDOT(v, hierarchy.Options{Markers: true})
//	svg, err := hierarchy.RenderSVG(ctx, dot)
package hierarchy
