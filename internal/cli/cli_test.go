package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"

	"github.com/matzehuels/venuemap/pkg/anchors"
	"github.com/matzehuels/venuemap/pkg/errors"
	"github.com/matzehuels/venuemap/pkg/pipeline"
	"github.com/matzehuels/venuemap/pkg/render/diagram"
	"github.com/matzehuels/venuemap/pkg/render/geojson"
	"github.com/matzehuels/venuemap/pkg/venue"
)

func testCLI() *CLI {
	return New(io.Discard, log.InfoLevel)
}

func TestRootCommandSubcommands(t *testing.T) {
	root := testCLI().RootCommand()
	want := []string{"generate", "anchors", "inspect", "locate", "hierarchy", "serve", "cache", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestGenerateFlagsFormats(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*generateFlags)
		want []string
	}{
		{"default both", func(*generateFlags) {}, []string{"svg", "geojson"}},
		{"svg only", func(f *generateFlags) { f.svg = true }, []string{"svg"}},
		{"geojson only", func(f *generateFlags) { f.geojson = true }, []string{"geojson"}},
		{"svg and png", func(f *generateFlags) { f.svg, f.png = true, true }, []string{"svg", "png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := defaultGenerateFlags()
			tt.mod(&f)
			got := f.formats()
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("formats() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateFlagsOutputPath(t *testing.T) {
	f := defaultGenerateFlags()
	f.outSVG = filepath.Join("out", "plan.svg")

	tests := map[string]string{
		pipeline.FormatSVG:     filepath.Join("out", "plan.svg"),
		pipeline.FormatGeoJSON: defaultOutGeoJSON,
		pipeline.FormatPNG:     filepath.Join("out", "plan.png"),
		pipeline.FormatPDF:     filepath.Join("out", "plan.pdf"),
		pipeline.FormatDOT:     filepath.Join("out", "plan.dot"),
	}
	for format, want := range tests {
		if got := f.outputPath(format); got != want {
			t.Errorf("outputPath(%s) = %q, want %q", format, got, want)
		}
	}
}

func TestGenerateFlagsOptions(t *testing.T) {
	f := defaultGenerateFlags()
	f.noLabels = true
	f.noPins = true
	f.autoAnchors = true

	opts := f.options()
	if opts.Layers.Labels || !opts.Layers.Structure {
		t.Errorf("layers = %+v", *opts.Layers)
	}
	if opts.Categories.Pins || !opts.Categories.Rooms {
		t.Errorf("categories = %+v", *opts.Categories)
	}
	if !opts.AutoAnchors || opts.Origin != nil {
		t.Errorf("opts = %+v", opts)
	}

	f.originSet, f.originLat, f.originLon = true, 1, 2
	if o := f.options().Origin; o == nil || o.Lat != 1 || o.Lon != 2 {
		t.Errorf("origin = %+v", o)
	}
}

func TestGenerateCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	svgPath := filepath.Join(dir, "plan", "detailed.svg")
	geoPath := filepath.Join(dir, "detailed.geojson")

	root := testCLI().RootCommand()
	root.SetArgs([]string{"generate", "--no-cache", "--auto-anchors", "--no-measurements",
		"--out-svg", svgPath, "--out-geojson", geoPath})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("generate: %v", err)
	}

	svg, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("anchor_suggested_")) {
		t.Error("svg should contain suggested anchors")
	}
	if bytes.Contains(svg, []byte(`id="layer2-measurements"`)) {
		t.Error("measurements layer should be omitted")
	}

	var fc struct {
		Features []json.RawMessage `json:"features"`
	}
	data, err := os.ReadFile(geoPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 38 {
		t.Errorf("features = %d, want 38", len(fc.Features))
	}
}

func TestGenerateCommandSVGOnly(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	svgPath := filepath.Join(dir, "a.svg")
	geoPath := filepath.Join(dir, "a.geojson")

	root := testCLI().RootCommand()
	root.SetArgs([]string{"generate", "--svg", "--out-svg", svgPath, "--out-geojson", geoPath})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := os.Stat(svgPath); err != nil {
		t.Error("svg not written")
	}
	if _, err := os.Stat(geoPath); !os.IsNotExist(err) {
		t.Error("geojson should not be written with --svg alone")
	}
}

func TestGenerateCommandErrors(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing venue", []string{"generate", "--venue", filepath.Join(t.TempDir(), "none.toml")}, errors.ErrCodeFileNotFound},
		{"bad style", []string{"generate", "--style", "neon"}, errors.ErrCodeInvalidStyle},
		{"bad origin", []string{"generate", "--origin-lat", "91"}, errors.ErrCodeInvalidOrigin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := testCLI().RootCommand()
			root.SetArgs(append(tt.args, "--no-cache", "--out-svg", filepath.Join(t.TempDir(), "x.svg")))
			root.SetErr(io.Discard)
			err := root.ExecuteContext(context.Background())
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestWriteAnchorsTOML(t *testing.T) {
	suggested := anchors.Recommend(venue.Default().Rooms)

	var buf bytes.Buffer
	if err := writeAnchorsTOML(&buf, suggested); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "[[anchors]]") {
		t.Fatalf("output is not an array of tables:\n%s", buf.String())
	}

	back, err := venue.Parse(&buf)
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if len(back.Anchors) != len(suggested) {
		t.Fatalf("anchors = %d, want %d", len(back.Anchors), len(suggested))
	}
	for i, a := range back.Anchors {
		if a.ID != suggested[i].ID || a.X != suggested[i].X || a.Y != suggested[i].Y || !a.Suggested {
			t.Errorf("anchor %d = %+v, want %+v", i, a, suggested[i])
		}
	}
}

func TestInspectVenue(t *testing.T) {
	r, err := inspectVenue(venue.Default())
	if err != nil {
		t.Fatal(err)
	}
	if r.Bounds != (venue.Bounds{WidthM: 28, HeightM: 25}) {
		t.Errorf("bounds = %+v", r.Bounds)
	}
	if len(r.Rooms) != 6 || len(r.Polygons) != 1 {
		t.Fatalf("rooms = %d, polygons = %d", len(r.Rooms), len(r.Polygons))
	}
	if got := r.Polygons[0]; got[0] != "only_cans_bar" || got[1] != "3" || got[2] != "15" {
		t.Errorf("polygon row = %v", got)
	}
	if len(r.Issues) != 2 {
		t.Errorf("issues = %v", r.Issues)
	}
	if len(r.Hash) != 12 {
		t.Errorf("hash = %q", r.Hash)
	}
}

func TestPolygonArea(t *testing.T) {
	cw := venue.Polygon{ID: "cw", Points: []orb.Point{{0, 0}, {0, 2}, {2, 2}, {2, 0}}}
	ccw := venue.Polygon{ID: "ccw", Points: []orb.Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}}}
	for _, p := range []venue.Polygon{cw, ccw} {
		if got := polygonArea(p); got != 4 {
			t.Errorf("%s area = %v, want 4", p.ID, got)
		}
	}
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		x, y    string
		wantErr bool
	}{
		{"1", "2.5", false},
		{"-3", "0", false},
		{"a", "1", true},
		{"1", "", true},
		{"NaN", "1", true},
		{"1", "Inf", true},
	}
	for _, tt := range tests {
		_, _, err := parsePoint(tt.x, tt.y)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePoint(%q, %q) error = %v, wantErr %v", tt.x, tt.y, err, tt.wantErr)
		}
	}
}

func TestLocateRooms(t *testing.T) {
	rooms := locateRooms(venue.Default(), 16, 4)
	if len(rooms) == 0 || rooms[0].ID != "front_room" {
		t.Errorf("rooms = %v", rooms)
	}
	if got := locateRooms(venue.Default(), 100, 100); len(got) != 0 {
		t.Errorf("outside point rooms = %v", got)
	}
}

func TestNum(t *testing.T) {
	tests := map[float64]string{
		15:      "15",
		2.5:     "2.5",
		1.0 / 3: "0.33",
		-0.125:  "-0.13",
	}
	for in, want := range tests {
		if got := num(in); got != want {
			t.Errorf("num(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestDisplayAddr(t *testing.T) {
	if got := displayAddr(":8080"); got != "localhost:8080" {
		t.Errorf("displayAddr(:8080) = %q", got)
	}
	if got := displayAddr("0.0.0.0:9000"); got != "0.0.0.0:9000" {
		t.Errorf("displayAddr = %q", got)
	}
}

// =============================================================================
// Layer picker
// =============================================================================

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m LayerPickerModel, keys ...string) LayerPickerModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(LayerPickerModel)
	}
	return m
}

func TestLayerPickerToggle(t *testing.T) {
	m := NewLayerPickerModel(diagram.AllLayers(), geojson.AllCategories())

	// Turn off labels (third item) and pins (eighth item).
	m = press(m, "down", "down", "x", "down", "down", "down", "down", "down", "x", "enter")
	if !m.Confirmed {
		t.Fatal("enter should confirm")
	}
	sel := m.Selection()
	if sel.Layers.Labels || !sel.Layers.Structure || !sel.Layers.Markers {
		t.Errorf("layers = %+v", sel.Layers)
	}
	if sel.Categories.Pins || !sel.Categories.Rooms {
		t.Errorf("categories = %+v", sel.Categories)
	}
	if sel.AutoAnchors {
		t.Error("auto anchors should start off")
	}
}

func TestLayerPickerAllNone(t *testing.T) {
	m := NewLayerPickerModel(diagram.AllLayers(), geojson.AllCategories())
	m = press(m, "n")
	if sel := m.Selection(); sel.Layers.Any() || sel.Categories.Any() {
		t.Errorf("n should clear everything: %+v", sel)
	}
	m = press(m, "a")
	if sel := m.Selection(); sel.Layers != diagram.AllLayers() || !sel.AutoAnchors {
		t.Errorf("a should select everything: %+v", sel)
	}
}

func TestLayerPickerCursorBounds(t *testing.T) {
	m := NewLayerPickerModel(diagram.AllLayers(), geojson.AllCategories())
	m = press(m, "up", "k")
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor)
	}
	for range len(m.Items) + 3 {
		m = press(m, "j")
	}
	if m.Cursor != len(m.Items)-1 {
		t.Errorf("cursor = %d, want %d", m.Cursor, len(m.Items)-1)
	}
	if !strings.Contains(m.View(), "add suggested anchors") {
		t.Error("view should list every item")
	}
}

func TestLayerPickerQuit(t *testing.T) {
	m := NewLayerPickerModel(diagram.AllLayers(), geojson.AllCategories())
	next, cmd := m.Update(key("esc"))
	if next.(LayerPickerModel).Confirmed {
		t.Error("esc should not confirm")
	}
	if cmd == nil {
		t.Error("esc should quit")
	}
}

func TestApplyPicked(t *testing.T) {
	f := defaultGenerateFlags()
	f.applyPicked(layerSelection{
		Layers:      diagram.Layers{Structure: true},
		Categories:  geojson.Categories{Rooms: true, Metadata: true},
		AutoAnchors: true,
	})
	opts := f.options()
	if opts.Layers.Labels || !opts.Layers.Structure || opts.Categories.Zones || !opts.Categories.Metadata || !opts.AutoAnchors {
		t.Errorf("opts = %+v %+v %+v", *opts.Layers, *opts.Categories, opts.AutoAnchors)
	}
}
