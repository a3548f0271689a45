package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/venuemap/pkg/geo"
	"github.com/matzehuels/venuemap/pkg/pipeline"
	"github.com/matzehuels/venuemap/pkg/render/diagram"
	"github.com/matzehuels/venuemap/pkg/render/geojson"
)

const (
	defaultOutSVG     = "detailed.svg"
	defaultOutGeoJSON = "detailed.geojson"
)

// generateFlags holds the command-line flags for the generate command.
type generateFlags struct {
	venuePath string

	// outputs; none set means svg + geojson
	svg, geojson, png, pdf, dot bool
	outSVG, outGeoJSON          string

	// diagram layers
	noStructure, noMeasurements, noLabels, noMarkers bool
	// geojson categories
	noRooms, noZones, noPolygons, noPins, noAnchors, noMetadata bool

	autoAnchors bool
	assignRooms bool
	style       string
	title       string
	scale       float64
	padding     float64
	originLat   float64
	originLon   float64
	originSet   bool

	noCache     bool
	refresh     bool
	interactive bool
}

func defaultGenerateFlags() generateFlags {
	return generateFlags{
		outSVG:     defaultOutSVG,
		outGeoJSON: defaultOutGeoJSON,
		style:      pipeline.DefaultStyle,
		scale:      pipeline.DefaultScale,
		padding:    pipeline.DefaultPadding,
	}
}

// generateCommand creates the generate command, the main entry point that
// writes the floor plan and the feature collection.
func (c *CLI) generateCommand() *cobra.Command {
	f := defaultGenerateFlags()

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the SVG floor plan and GeoJSON features",
		Long: `Generate the SVG floor plan and GeoJSON features of a venue.

Without output flags both detailed.svg and detailed.geojson are written.
Layers (--no-structure, --no-measurements, --no-labels, --no-markers) and
feature categories (--no-rooms, --no-zones, --no-polygons, --no-pins,
--no-anchors, --no-metadata) can be switched off independently.
--auto-anchors appends recommended anchors to both outputs.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.originSet = cmd.Flags().Changed("origin-lat") || cmd.Flags().Changed("origin-lon")
			return c.runGenerate(cmd.Context(), f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.venuePath, "venue", "", "venue file (TOML); default is the built-in venue")

	fl.BoolVar(&f.svg, "svg", false, "write the SVG floor plan")
	fl.BoolVar(&f.geojson, "geojson", false, "write the GeoJSON features")
	fl.BoolVar(&f.png, "png", false, "write a PNG of the floor plan (requires rsvg-convert)")
	fl.BoolVar(&f.pdf, "pdf", false, "write a PDF of the floor plan (requires rsvg-convert)")
	fl.BoolVar(&f.dot, "dot", false, "write the venue hierarchy as Graphviz DOT")
	fl.StringVar(&f.outSVG, "out-svg", f.outSVG, "SVG output path; PNG, PDF and DOT outputs share its base name")
	fl.StringVar(&f.outGeoJSON, "out-geojson", f.outGeoJSON, "GeoJSON output path")

	fl.BoolVar(&f.noStructure, "no-structure", false, "omit walls, fills and door gaps")
	fl.BoolVar(&f.noMeasurements, "no-measurements", false, "omit dimension lines")
	fl.BoolVar(&f.noLabels, "no-labels", false, "omit room, zone and polygon labels")
	fl.BoolVar(&f.noMarkers, "no-markers", false, "omit pins and anchors from the SVG")
	fl.BoolVar(&f.noRooms, "no-rooms", false, "omit room features")
	fl.BoolVar(&f.noZones, "no-zones", false, "omit zone features")
	fl.BoolVar(&f.noPolygons, "no-polygons", false, "omit polygon features")
	fl.BoolVar(&f.noPins, "no-pins", false, "omit pin features")
	fl.BoolVar(&f.noAnchors, "no-anchors", false, "omit anchor features")
	fl.BoolVar(&f.noMetadata, "no-metadata", false, "omit the metadata feature")

	fl.BoolVar(&f.autoAnchors, "auto-anchors", false, "append recommended anchors")
	fl.BoolVar(&f.assignRooms, "assign-rooms", false, "attach anchors without a room to the room containing them")
	fl.StringVar(&f.style, "style", f.style, "diagram style: "+strings.Join(diagram.StyleNames(), ", "))
	fl.StringVar(&f.title, "title", "", "SVG title")
	fl.Float64Var(&f.scale, "scale", f.scale, "drawing units per meter")
	fl.Float64Var(&f.padding, "padding", f.padding, "margin around the plan in drawing units")
	fl.Float64Var(&f.originLat, "origin-lat", 0, "override the venue origin latitude")
	fl.Float64Var(&f.originLon, "origin-lon", 0, "override the venue origin longitude")

	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fl.BoolVar(&f.refresh, "refresh", false, "re-render even when cached")
	fl.BoolVarP(&f.interactive, "interactive", "i", false, "pick layers and categories interactively")

	return cmd
}

// formats returns the requested output formats in a stable order.
func (f generateFlags) formats() []string {
	var out []string
	for _, o := range []struct {
		on     bool
		format string
	}{
		{f.svg, pipeline.FormatSVG},
		{f.geojson, pipeline.FormatGeoJSON},
		{f.png, pipeline.FormatPNG},
		{f.pdf, pipeline.FormatPDF},
		{f.dot, pipeline.FormatDOT},
	} {
		if o.on {
			out = append(out, o.format)
		}
	}
	if len(out) == 0 {
		return append(out, pipeline.DefaultFormats...)
	}
	return out
}

func (f generateFlags) layers() diagram.Layers {
	return diagram.Layers{
		Structure:    !f.noStructure,
		Measurements: !f.noMeasurements,
		Labels:       !f.noLabels,
		Markers:      !f.noMarkers,
	}
}

func (f generateFlags) categories() geojson.Categories {
	return geojson.Categories{
		Rooms:    !f.noRooms,
		Zones:    !f.noZones,
		Polygons: !f.noPolygons,
		Pins:     !f.noPins,
		Anchors:  !f.noAnchors,
		Metadata: !f.noMetadata,
	}
}

// options converts the flags to pipeline options.
func (f generateFlags) options() pipeline.Options {
	layers := f.layers()
	cats := f.categories()
	padding := f.padding
	opts := pipeline.Options{
		Path:        f.venuePath,
		AutoAnchors: f.autoAnchors,
		AssignRooms: f.assignRooms,
		Formats:     f.formats(),
		Layers:      &layers,
		Categories:  &cats,
		Style:       f.style,
		Scale:       f.scale,
		Padding:     &padding,
		Title:       f.title,
		Refresh:     f.refresh,
	}
	if f.originSet {
		opts.Origin = &geo.Origin{Lat: f.originLat, Lon: f.originLon}
	}
	return opts
}

// outputPath returns where an artifact of the given format is written.
func (f generateFlags) outputPath(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return f.outSVG
	case pipeline.FormatGeoJSON:
		return f.outGeoJSON
	default:
		base := strings.TrimSuffix(f.outSVG, filepath.Ext(f.outSVG))
		return base + "." + pipeline.FileExtension(format)
	}
}

// runGenerate executes the pipeline and writes each artifact.
func (c *CLI) runGenerate(ctx context.Context, f generateFlags) error {
	if f.interactive {
		picked, ok, err := pickLayers(f.layers(), f.categories())
		if err != nil {
			return err
		}
		if !ok {
			printInfo("Cancelled")
			return nil
		}
		f.applyPicked(picked)
	}

	opts := f.options()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, f.noCache, "cli:")
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinner(ctx, "Preparing venue...")
	restore := spinner.Follow()
	spinner.Start()

	res, err := runner.Execute(ctx, opts)
	restore()
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	for _, format := range opts.Formats {
		path := f.outputPath(format)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	prog.done(fmt.Sprintf("Generated %d outputs", len(opts.Formats)),
		"formats", strings.Join(opts.Formats, ","), "venue", res.VenueHash[:12])
	printStats(res.Stats.Counts, res.CacheInfo.RenderHit)
	if n := len(res.Suggested); n > 0 {
		printDetail("%d suggested anchors added", n)
	}
	for _, issue := range res.Issues {
		printWarning("%s", issue.Message)
	}
	return nil
}

// applyPicked stores the interactive selection back into the flags.
func (f *generateFlags) applyPicked(p layerSelection) {
	f.noStructure = !p.Layers.Structure
	f.noMeasurements = !p.Layers.Measurements
	f.noLabels = !p.Layers.Labels
	f.noMarkers = !p.Layers.Markers
	f.noRooms = !p.Categories.Rooms
	f.noZones = !p.Categories.Zones
	f.noPolygons = !p.Categories.Polygons
	f.noPins = !p.Categories.Pins
	f.noAnchors = !p.Categories.Anchors
	f.noMetadata = !p.Categories.Metadata
	f.autoAnchors = f.autoAnchors || p.AutoAnchors
}
