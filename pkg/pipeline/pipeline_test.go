package pipeline

import (
	"bytes"
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/venuemap/pkg/cache"
	"github.com/matzehuels/venuemap/pkg/errors"
	"github.com/matzehuels/venuemap/pkg/geo"
	"github.com/matzehuels/venuemap/pkg/render/diagram"
	"github.com/matzehuels/venuemap/pkg/venue"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"geojson", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"hierarchy", false},
		{"json", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "geojson"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"classic", false},
		{"blueprint", false},
		{"", false}, // falls back to classic
		{"handdrawn", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if len(opts.Formats) != 2 || opts.Formats[0] != FormatSVG || opts.Formats[1] != FormatGeoJSON {
		t.Errorf("Formats = %v, want [svg geojson]", opts.Formats)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style = %q, want %q", opts.Style, DefaultStyle)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.PNGScale != DefaultPNGScale {
		t.Errorf("PNGScale = %v, want %v", opts.PNGScale, DefaultPNGScale)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
	if opts.DiagramLayers() != diagram.AllLayers() {
		t.Error("nil Layers should enable every layer")
	}

	// DefaultFormats must not be aliased.
	opts.Formats[0] = FormatPNG
	if DefaultFormats[0] != FormatSVG {
		t.Error("modifying options changed DefaultFormats")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Style: "blueprint"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Style != first.Style || len(opts.Formats) != len(first.Formats) {
		t.Error("second call changed options")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad style", Options{Style: "neon"}, errors.ErrCodeInvalidStyle},
		{"negative scale", Options{Scale: -1}, errors.ErrCodeInvalidInput},
		{"nan scale", Options{Scale: math.NaN()}, errors.ErrCodeInvalidInput},
		{"infinite png scale", Options{PNGScale: math.Inf(1)}, errors.ErrCodeInvalidInput},
		{"nan padding", Options{Padding: func() *float64 { p := math.NaN(); return &p }()}, errors.ErrCodeInvalidInput},
		{"bad origin", Options{Origin: &geo.Origin{Lat: 95}}, errors.ErrCodeInvalidOrigin},
		{"control char path", Options{Path: "venue\x00.toml"}, errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Style: "blueprint"}
	opts.SetRenderDefaults()

	svg := opts.ArtifactKeyOpts(FormatSVG)
	if svg.Style != "blueprint" || svg.Scale != DefaultScale {
		t.Errorf("svg key opts = %+v", svg)
	}
	if len(svg.Include) != 4 {
		t.Errorf("svg Include = %v, want all four layers", svg.Include)
	}

	gj := opts.ArtifactKeyOpts(FormatGeoJSON)
	if gj.Style != "" || gj.Scale != 0 {
		t.Errorf("geojson key should not depend on diagram options: %+v", gj)
	}

	png := opts.ArtifactKeyOpts(FormatPNG)
	if png.Scale != DefaultScale || png.PNGScale != DefaultPNGScale {
		t.Errorf("png key opts = %+v", png)
	}
	if svg.PNGScale != 0 {
		t.Errorf("svg key should not depend on PNGScale: %+v", svg)
	}

	opts.Layers = &diagram.Layers{Structure: true}
	if got := opts.ArtifactKeyOpts(FormatSVG).Include; len(got) != 1 || got[0] != "structure" {
		t.Errorf("Include = %v, want [structure]", got)
	}
}

func TestArtifactKeyPNGScale(t *testing.T) {
	// Padding is not multiplied by the PNG scale, so these rasterize to
	// different images and must not share a cache entry.
	a := Options{Scale: 20, PNGScale: 2}
	b := Options{Scale: 40, PNGScale: 1}
	a.SetRenderDefaults()
	b.SetRenderDefaults()

	k := cache.NewDefaultKeyer()
	ka := k.ArtifactKey("venue", a.ArtifactKeyOpts(FormatPNG))
	kb := k.ArtifactKey("venue", b.ArtifactKeyOpts(FormatPNG))
	if ka == kb {
		t.Errorf("scale 20 x2 and scale 40 x1 share key %s", ka)
	}

	// The PNG scale does not affect the SVG.
	c := Options{Scale: 20, PNGScale: 3}
	c.SetRenderDefaults()
	if k.ArtifactKey("venue", a.ArtifactKeyOpts(FormatSVG)) != k.ArtifactKey("venue", c.ArtifactKeyOpts(FormatSVG)) {
		t.Error("svg key should not depend on PNGScale")
	}
}

func TestFileExtension(t *testing.T) {
	if got := FileExtension(FormatHierarchy); got != "hierarchy.svg" {
		t.Errorf("FileExtension(hierarchy) = %q", got)
	}
	if got := FileExtension(FormatGeoJSON); got != "geojson" {
		t.Errorf("FileExtension(geojson) = %q", got)
	}
}

// =============================================================================
// Runner
// =============================================================================

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	m.sets++
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

func testRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Errorf("NewRunner left nil fields: %+v", r)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestExecuteDefaultVenue(t *testing.T) {
	r := testRunner(nil)
	res, err := r.Execute(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Source != SourceDefault {
		t.Errorf("Source = %q", res.Source)
	}
	if res.RunID == "" || res.VenueHash == "" {
		t.Error("RunID and VenueHash should be set")
	}
	if res.Bounds != (venue.Bounds{WidthM: 28, HeightM: 25}) {
		t.Errorf("Bounds = %+v", res.Bounds)
	}
	if len(res.Suggested) != 0 {
		t.Errorf("Suggested = %d without AutoAnchors", len(res.Suggested))
	}
	if len(res.Issues) != 2 {
		t.Errorf("Issues = %v, want 2 containment findings", res.Issues)
	}
	if !bytes.Contains(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact missing")
	}
	if !bytes.Contains(res.Artifacts[FormatGeoJSON], []byte(`"FeatureCollection"`)) {
		t.Error("geojson artifact missing")
	}
	if res.CacheInfo.RenderHit {
		t.Error("NullCache should never hit")
	}
}

func TestExecuteAutoAnchors(t *testing.T) {
	r := testRunner(nil)
	res, err := r.Execute(context.Background(), Options{AutoAnchors: true, Formats: []string{FormatGeoJSON}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Suggested) != 11 {
		t.Fatalf("Suggested = %d, want 11", len(res.Suggested))
	}
	if res.Stats.Counts.Anchors != 9+11 {
		t.Errorf("Anchors = %d, want 20", res.Stats.Counts.Anchors)
	}
	for _, a := range res.Suggested {
		if !a.Suggested || !strings.HasPrefix(a.ID, "anchor_suggested_") {
			t.Errorf("unexpected suggested anchor %+v", a)
		}
	}
	if got := bytes.Count(res.Artifacts[FormatGeoJSON], []byte(`"suggested": true`)); got != 11 {
		t.Errorf("geojson suggested anchors = %d, want 11", got)
	}
	if _, ok := res.Artifacts[FormatSVG]; ok {
		t.Error("only geojson was requested")
	}
}

func TestExecuteInlineVenueUnchanged(t *testing.T) {
	base := &venue.Venue{
		Name:  "Box",
		Rooms: []venue.Room{{Rect: venue.Rect{ID: "r", X: 0, Y: 0, W: 10, H: 10}}},
	}
	origin := geo.Origin{Lat: 52.5, Lon: 13.4}

	res, err := testRunner(nil).Execute(context.Background(), Options{
		Venue:       base,
		Origin:      &origin,
		AutoAnchors: true,
		Formats:     []string{FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Source != SourceInline {
		t.Errorf("Source = %q", res.Source)
	}
	if len(base.Anchors) != 0 || !base.Origin.IsZero() {
		t.Error("Execute modified the inline venue")
	}
	if res.Venue.Origin != origin {
		t.Errorf("Origin = %+v, want override", res.Venue.Origin)
	}
	if len(res.Suggested) != 2 {
		t.Errorf("Suggested = %d, want 2 for a 100 m² room", len(res.Suggested))
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatDOT]), "digraph G {") {
		t.Errorf("dot artifact = %q", res.Artifacts[FormatDOT])
	}
}

func TestExecuteFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "venue.toml")
	if err := os.WriteFile(path, venue.DefaultTOML(), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := testRunner(nil).Execute(context.Background(), Options{Path: path, Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Source != path || res.Stats.Counts.Rooms != 6 {
		t.Errorf("Source = %q, rooms = %d", res.Source, res.Stats.Counts.Rooms)
	}

	_, err = testRunner(nil).Execute(context.Background(), Options{Path: filepath.Join(dir, "missing.toml")})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestExecuteInvalidInlineVenue(t *testing.T) {
	bad := &venue.Venue{Polygons: []venue.Polygon{{ID: "p"}}}
	_, err := testRunner(nil).Execute(context.Background(), Options{Venue: bad})
	if !errors.Is(err, errors.ErrCodeMalformedGeometry) {
		t.Errorf("error = %v, want MALFORMED_GEOMETRY", err)
	}
}

func TestExecuteCaching(t *testing.T) {
	mc := newMemCache()
	r := testRunner(mc)
	ctx := context.Background()
	opts := Options{AutoAnchors: true}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.RenderHit || mc.sets != 2 {
		t.Fatalf("first run: hit=%v sets=%d", first.CacheInfo.RenderHit, mc.sets)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit || len(second.CacheInfo.Hits) != 2 {
		t.Errorf("second run: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}
	if first.RunID == second.RunID {
		t.Error("runs should have distinct ids")
	}

	// A style change only invalidates the diagram.
	third, err := r.Execute(ctx, Options{AutoAnchors: true, Style: "blueprint"})
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.RenderHit || len(third.CacheInfo.Hits) != 1 || third.CacheInfo.Hits[0] != FormatGeoJSON {
		t.Errorf("style change: %+v", third.CacheInfo)
	}

	// Refresh bypasses reads.
	fourth, err := r.Execute(ctx, Options{AutoAnchors: true, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(fourth.CacheInfo.Hits) != 0 {
		t.Errorf("refresh should not read the cache: %+v", fourth.CacheInfo)
	}
}

func TestRenderLayersAndCategories(t *testing.T) {
	v := venue.Default()
	opts := Options{
		Formats: []string{FormatSVG},
		Layers:  &diagram.Layers{Structure: true},
	}
	out, err := Render(context.Background(), v, opts)
	if err != nil {
		t.Fatal(err)
	}
	svg := string(out[FormatSVG])
	if !strings.Contains(svg, `id="layer1-structure"`) || strings.Contains(svg, `id="layer3-labels"`) {
		t.Error("layer selection not applied")
	}
}

func TestRenderUnsupportedFormat(t *testing.T) {
	_, err := Render(context.Background(), venue.Default(), Options{Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v", err)
	}
}

func TestExecuteBatch(t *testing.T) {
	r := testRunner(nil)
	batch := []Options{
		{Formats: []string{FormatGeoJSON}},
		{Formats: []string{"gif"}},
		{AutoAnchors: true, Formats: []string{FormatDOT}},
	}
	out := r.ExecuteBatch(context.Background(), batch)
	if len(out) != 3 {
		t.Fatalf("len = %d", len(out))
	}
	for i, br := range out {
		if br.Index != i {
			t.Errorf("out[%d].Index = %d", i, br.Index)
		}
	}
	if out[0].Err != nil || out[2].Err != nil {
		t.Errorf("unexpected errors: %v, %v", out[0].Err, out[2].Err)
	}
	if out[1].Err == nil {
		t.Error("invalid entry should fail")
	}
	if len(out[2].Result.Suggested) != 11 {
		t.Errorf("Suggested = %d", len(out[2].Result.Suggested))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, br := range r.ExecuteBatch(ctx, batch[:1]) {
		if br.Err == nil {
			t.Error("cancelled batch should report an error")
		}
	}
	if got := r.ExecuteBatch(context.Background(), nil); len(got) != 0 {
		t.Errorf("empty batch = %v", got)
	}
}

func TestPrepareOriginFallback(t *testing.T) {
	r := testRunner(nil)
	base := &venue.Venue{Rooms: []venue.Room{{Rect: venue.Rect{ID: "r", W: 4, H: 4}}}}
	ref := venue.Default().Origin

	tests := []struct {
		name string
		opts Options
		want geo.Origin
	}{
		{"reference origin", Options{}, ref},
		{"kept at zero", Options{NoOrigin: true}, geo.Origin{}},
		{"override", Options{Origin: &geo.Origin{Lat: 1, Lon: 2}}, geo.Origin{Lat: 1, Lon: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, suggested, err := r.Prepare(context.Background(), base, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if v.Origin != tt.want {
				t.Errorf("Origin = %+v, want %+v", v.Origin, tt.want)
			}
			if suggested != nil {
				t.Errorf("suggested = %v without AutoAnchors", suggested)
			}
		})
	}
	if !base.Origin.IsZero() {
		t.Error("Prepare modified base")
	}
}

func TestPrepareAssignRooms(t *testing.T) {
	base := venue.Default()
	for i := range base.Anchors {
		base.Anchors[i].Room = ""
	}
	v, _, err := testRunner(nil).Prepare(context.Background(), base, Options{AssignRooms: true})
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range v.Anchors {
		if a.Room == "" {
			t.Errorf("anchor %s was not assigned", a.ID)
		}
	}
	if base.Anchors[0].Room != "" {
		t.Error("Prepare modified base anchors")
	}
}

func TestRenderPadding(t *testing.T) {
	zero := 0.0
	out, err := Render(context.Background(), venue.Default(), Options{Formats: []string{FormatSVG}, Padding: &zero})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out[FormatSVG], []byte(`viewBox="0 0 560 500"`)) {
		t.Error("zero padding should produce a tight viewBox")
	}
}

func TestRenderRejectsUnhashableVenue(t *testing.T) {
	mc := newMemCache()
	r := testRunner(mc)

	v := venue.Default()
	v.Rooms[0].W = math.NaN()
	_, _, err := r.RenderWithCacheInfo(context.Background(), v, "", Options{Formats: []string{FormatGeoJSON}})
	if !errors.Is(err, errors.ErrCodeInvalidVenue) {
		t.Fatalf("err = %v, want INVALID_VENUE", err)
	}
	if mc.sets != 0 {
		t.Errorf("cache sets = %d, want 0", mc.sets)
	}
}
