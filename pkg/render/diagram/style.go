package diagram

import (
	"sort"
	"strings"

	"github.com/beevik/etree"

	"github.com/matzehuels/venuemap/pkg/errors"
)

// Style defines the visual appearance of a diagram. Geometry and class
// names are fixed; a style only decides how the classes look.
type Style interface {
	// Name identifies the style on the command line and in the API.
	Name() string
	// Background returns the canvas color, or "" for a transparent canvas.
	// Door gaps are painted in this color.
	Background() string
	// RenderDefs writes the <defs> content, including the class rules.
	RenderDefs(svg *etree.Element)
}

// Classic is the default look: black walls on a transparent canvas.
type Classic struct{}

func (Classic) Name() string       { return "classic" }
func (Classic) Background() string { return "" }

func (Classic) RenderDefs(svg *etree.Element) {
	writeCSS(svg, []string{
		".wall { fill: none; stroke: black; stroke-width: 3; }",
		".zone-fill { stroke: none; fill-opacity: 0.5; }",
		".zone-line { fill: none; stroke: #333; stroke-width: 1; stroke-dasharray: 5,5; }",
		".room-fill { fill-opacity: 0.2; stroke: none; }",
		".door-gap { fill: white; stroke: none; }",
		".dim-line { stroke: #555; stroke-width: 1; stroke-dasharray: 2; }",
		".dim-text { font-family: sans-serif; font-size: 10px; fill: #666; text-anchor: middle; }",
		".label-room { font-family: sans-serif; font-size: 14px; font-weight: bold; fill: black; text-anchor: middle; }",
		".label-zone { font-family: sans-serif; font-size: 10px; font-weight: normal; fill: #333; text-anchor: middle; font-style: italic; }",
		".marker-pin { stroke: white; stroke-width: 2; }",
		".marker-anchor { stroke: white; stroke-width: 2; }",
		".marker-anchor.suggested { stroke-dasharray: 2,2; }",
		".marker-label { font-family: sans-serif; font-size: 10px; fill: #111; }",
	})
}

// Blueprint draws white linework on a dark blue canvas.
type Blueprint struct{}

const blueprintBackground = "#0B3D91"

func (Blueprint) Name() string       { return "blueprint" }
func (Blueprint) Background() string { return blueprintBackground }

func (Blueprint) RenderDefs(svg *etree.Element) {
	writeCSS(svg, []string{
		".wall { fill: none; stroke: #F0F4FF; stroke-width: 2; }",
		".zone-fill { stroke: none; fill-opacity: 0.15; }",
		".zone-line { fill: none; stroke: #C8D6F0; stroke-width: 1; stroke-dasharray: 4,3; }",
		".room-fill { fill-opacity: 0.1; stroke: none; }",
		".door-gap { fill: " + blueprintBackground + "; stroke: none; }",
		".dim-line { stroke: #9FB6E0; stroke-width: 1; stroke-dasharray: 2; }",
		".dim-text { font-family: monospace; font-size: 10px; fill: #9FB6E0; text-anchor: middle; }",
		".label-room { font-family: monospace; font-size: 14px; font-weight: bold; fill: #F0F4FF; text-anchor: middle; }",
		".label-zone { font-family: monospace; font-size: 10px; fill: #C8D6F0; text-anchor: middle; font-style: italic; }",
		".marker-pin { stroke: " + blueprintBackground + "; stroke-width: 2; }",
		".marker-anchor { stroke: " + blueprintBackground + "; stroke-width: 2; }",
		".marker-anchor.suggested { stroke-dasharray: 2,2; }",
		".marker-label { font-family: monospace; font-size: 10px; fill: #F0F4FF; }",
	})
}

func writeCSS(svg *etree.Element, rules []string) {
	defs := svg.CreateElement("defs")
	style := defs.CreateElement("style")
	style.CreateAttr("type", "text/css")
	style.SetText("\n" + strings.Join(rules, "\n") + "\n")
}

var styles = map[string]Style{
	Classic{}.Name():   Classic{},
	Blueprint{}.Name(): Blueprint{},
}

// StyleByName returns the registered style with the given name.
func StyleByName(name string) (Style, error) {
	if name == "" {
		return Classic{}, nil
	}
	s, ok := styles[strings.ToLower(name)]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (available: %s)", name, strings.Join(StyleNames(), ", "))
	}
	return s, nil
}

// StyleNames lists the registered style names in sorted order.
func StyleNames() []string {
	names := make([]string, 0, len(styles))
	for n := range styles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
