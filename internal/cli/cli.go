// Package cli implements the venuemap command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/venuemap/pkg/buildinfo"
	"github.com/matzehuels/venuemap/pkg/cache"
	"github.com/matzehuels/venuemap/pkg/observability"
	"github.com/matzehuels/venuemap/pkg/pipeline"
	"github.com/matzehuels/venuemap/pkg/venue"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "venuemap"

	// Environment variables selecting a shared cache backend.
	envRedisURL = "VENUEMAP_REDIS_URL"
	envMongoURI = "VENUEMAP_MONGO_URI"
	envMongoDB  = "VENUEMAP_MONGO_DB"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the pipeline,
// cache and HTTP hooks are routed to the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "venuemap draws venue floor plans as SVG and GeoJSON",
		Long: `venuemap turns a venue description (rooms, zones, doors, polygons, pins
and positioning anchors, in meters) into a layered SVG floor plan and a
GeoJSON FeatureCollection placed on the map around a geographic origin.

Without --venue the built-in reference venue is used.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.anchorsCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.locateCommand())
	root.AddCommand(c.hierarchyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool, prefix string) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, prefix), c.Logger), nil
}

// newCache opens the configured cache. Redis and MongoDB are used when
// their environment variables are set; otherwise results go to the file
// cache. A file cache that cannot be created degrades to no caching.
func newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := cacheConfig()
	cc, err := cache.Open(ctx, cfg)
	if err != nil && cfg.Backend == cache.BackendFile {
		return cache.NewNullCache(), nil
	}
	return cc, err
}

func cacheConfig() cache.Config {
	cfg := cache.Config{
		RedisURL:      os.Getenv(envRedisURL),
		MongoURI:      os.Getenv(envMongoURI),
		MongoDatabase: os.Getenv(envMongoDB),
	}
	if cfg.RedisURL == "" && cfg.MongoURI == "" {
		cfg.Backend = cache.BackendFile
	}
	return cfg
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory (~/.cache/venuemap/).
func cacheDir() (string, error) {
	return cache.DefaultDir()
}

// =============================================================================
// Venue Helpers
// =============================================================================

// loadVenue reads the venue file at path, or returns the built-in venue
// when path is empty.
func loadVenue(path string) (*venue.Venue, error) {
	if path == "" {
		return venue.Default(), nil
	}
	return venue.Load(path)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
