package hierarchy

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/venuemap/pkg/errors"
	"github.com/matzehuels/venuemap/pkg/venue"
)

// Options configures hierarchy rendering.
type Options struct {
	// Detailed adds dimensions and area to room and zone labels.
	Detailed bool
	// Markers includes pins and anchors as leaf nodes.
	Markers bool
}

const rootID = "venue"

// ToDOT converts a venue to Graphviz DOT source. Anchors without a room
// and pins are placed under the smallest room containing them.
func ToDOT(v *venue.Venue, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	name := v.Name
	if name == "" {
		name = "venue"
	}
	fmt.Fprintf(&buf, "  %q [label=%q, shape=folder, fillcolor=\"#EEEEEE\"];\n", rootID, name)

	rooms := make(map[string]string, len(v.Rooms))
	for i, r := range v.Rooms {
		id := nodeID("room", r.ID, i)
		if r.ID != "" {
			rooms[r.ID] = id
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(rectAttrs(r.Rect, opts.Detailed), ", "))
		fmt.Fprintf(&buf, "  %q -> %q;\n", rootID, id)
	}

	buf.WriteString("\n")
	for i, z := range v.Zones {
		id := nodeID("zone", z.ID, i)
		attrs := append(rectAttrs(z.Rect, opts.Detailed), "fontsize=11", "style=\"rounded,filled,dashed\"")
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
		if parent, ok := rooms[z.Parent]; ok {
			fmt.Fprintf(&buf, "  %q -> %q;\n", parent, id)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", rootID, id)
		}
	}

	if opts.Markers {
		buf.WriteString("\n")
		writeMarkers(&buf, v, rooms)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeMarkers(buf *bytes.Buffer, v *venue.Venue, rooms map[string]string) {
	idx := venue.NewRoomIndex(v.Rooms)
	parentOf := func(roomID string, x, y float64) (string, bool) {
		if id, ok := rooms[roomID]; ok {
			return id, true
		}
		if r, ok := idx.Innermost(x, y); ok {
			if id, ok := rooms[r.ID]; ok {
				return id, false
			}
		}
		return rootID, false
	}

	for i, p := range v.Pins {
		id := nodeID("pin", p.ID, i)
		fmt.Fprintf(buf, "  %q [label=%q, shape=ellipse, fontsize=10, fillcolor=%q];\n", id, p.Label(), markerColor(p.Color))
		parent, _ := parentOf("", p.X, p.Y)
		fmt.Fprintf(buf, "  %q -> %q [style=dotted];\n", parent, id)
	}
	for i, a := range v.Anchors {
		id := nodeID("anchor", a.ID, i)
		style := "filled"
		if a.Suggested {
			style = "filled,dashed"
		}
		fmt.Fprintf(buf, "  %q [label=%q, shape=diamond, fontsize=10, style=%q, fillcolor=%q];\n", id, a.Label(), style, markerColor(a.Color))
		parent, declared := parentOf(a.Room, a.X, a.Y)
		if declared {
			fmt.Fprintf(buf, "  %q -> %q;\n", parent, id)
		} else {
			fmt.Fprintf(buf, "  %q -> %q [style=dotted];\n", parent, id)
		}
	}
}

func nodeID(kind, id string, i int) string {
	if id == "" {
		return fmt.Sprintf("%s#%d", kind, i)
	}
	return kind + ":" + id
}

func rectAttrs(r venue.Rect, detailed bool) []string {
	label := r.Name
	if label == "" {
		label = r.ID
	}
	if detailed {
		label += fmt.Sprintf("\n%s x %s m\n%s m²", num(r.W), num(r.H), num(r.Area()))
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if r.Color != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", r.Color))
	}
	return attrs
}

func markerColor(c string) string {
	if c == "" {
		return "#FF1493"
	}
	return c
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// render.ToPDF or render.ToPNG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based root element with a
// plain one sized in user units, so the graph scales like the floor plan.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
