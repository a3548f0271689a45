package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/venuemap/pkg/anchors"
	"github.com/matzehuels/venuemap/pkg/cache"
	"github.com/matzehuels/venuemap/pkg/observability"
	"github.com/matzehuels/venuemap/pkg/venue"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → prepare → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Load
	loadStart := time.Now()
	base, source, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Source = source
	result.Stats.LoadTime = time.Since(loadStart)

	// Stage 2: Prepare
	prepared, suggested, err := r.Prepare(ctx, base, opts)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	result.Venue = prepared
	result.Suggested = suggested
	result.Stats.Counts = prepared.Counts()
	fp, err := venue.Fingerprint(prepared)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	result.VenueHash = cache.Hash(fp)
	if result.Bounds, err = prepared.Bounds(); err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	result.Issues = venue.CheckContainment(prepared)

	logger.Info("loaded venue",
		"source", source,
		"rooms", result.Stats.Counts.Rooms,
		"anchors", result.Stats.Counts.Anchors,
		"suggested", len(suggested),
		"duration", result.Stats.LoadTime)
	for _, issue := range result.Issues {
		logger.Warn(issue.Message, "kind", issue.Kind, "id", issue.ID)
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, info, err := r.RenderWithCacheInfo(ctx, prepared, result.VenueHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo = info
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", len(info.Hits),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load returns the base venue selected by opts together with a name for its
// source. The returned venue is owned by the caller.
func (r *Runner) Load(ctx context.Context, opts Options) (*venue.Venue, string, error) {
	source := SourceDefault
	switch {
	case opts.Venue != nil:
		source = SourceInline
	case opts.Path != "":
		source = opts.Path
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	var v *venue.Venue
	var err error
	switch {
	case opts.Venue != nil:
		if err = opts.Venue.Validate(); err == nil {
			v = opts.Venue.Clone()
		}
	case opts.Path != "":
		v, err = venue.Load(opts.Path)
	default:
		v = venue.Default()
	}

	entities := 0
	if v != nil {
		c := v.Counts()
		entities = c.Rooms + c.Zones + c.Doors + c.Polygons + c.Pins + c.Anchors
	}
	hooks.OnLoadComplete(ctx, source, entities, time.Since(start), err)
	if err != nil {
		return nil, source, err
	}
	return v, source, nil
}

// Prepare derives the working venue from base. base is never modified.
// A venue without an origin is placed at the reference venue's origin
// unless opts.Origin or opts.NoOrigin says otherwise.
// It returns the prepared venue and the anchors the recommender added.
func (r *Runner) Prepare(ctx context.Context, base *venue.Venue, opts Options) (*venue.Venue, []venue.Anchor, error) {
	v := base.Clone()
	if opts.Origin != nil {
		if err := opts.Origin.Validate(); err != nil {
			return nil, nil, err
		}
		v.Origin = *opts.Origin
	} else if v.Origin.IsZero() && !opts.NoOrigin {
		v.Origin = venue.Default().Origin
	}
	if opts.AssignRooms {
		v.Anchors = anchors.AssignRooms(v.Anchors, v.Rooms)
	}
	if !opts.AutoAnchors {
		return v, nil, nil
	}

	suggested := anchors.Recommend(v.Rooms)
	observability.Pipeline().OnRecommend(ctx, len(v.Rooms), len(suggested))
	r.Logger.Debug("recommended anchors", "rooms", len(v.Rooms), "anchors", len(suggested))
	v.Anchors = append(v.Anchors, suggested...)
	return v, suggested, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. venueHash identifies the prepared venue; artifacts are rendered from
// v only for formats that miss the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, v *venue.Venue, venueHash string, opts Options) (map[string][]byte, CacheInfo, error) {
	var info CacheInfo
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, info, err
	}

	if venueHash == "" {
		fp, err := venue.Fingerprint(v)
		if err != nil {
			return nil, info, err
		}
		venueHash = cache.Hash(fp)
	}

	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(venueHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
				info.Hits = append(info.Hits, format)
				cacheHooks.OnCacheHit(ctx, format)
				continue
			}
		}
		cacheHooks.OnCacheMiss(ctx, format)
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		info.RenderHit = true
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, info, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := Render(ctx, v, sub)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, info, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(venueHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Debug("cache write failed", "format", format, "error", err)
			continue
		}
		cacheHooks.OnCacheSet(ctx, format, len(data))
	}

	return artifacts, info, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
