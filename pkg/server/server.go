// Package server exposes the venuemap pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                       liveness and build info
//	GET  /v1/venue                      bounds, counts and containment issues
//	GET  /v1/venue/diagram.svg          floor-plan SVG
//	GET  /v1/venue/features.geojson     GeoJSON FeatureCollection
//	GET  /v1/venue/hierarchy.svg        room/zone/marker hierarchy
//	GET  /v1/venue/anchors/suggested    recommended anchors as JSON
//	GET  /v1/venue/locate?x=..&y=..     rooms containing a point
//	POST /v1/render?output=svg|geojson  render a TOML venue from the body
//
// GET routes serve the venue the server was started with. Query parameters
// mirror the CLI flags: no-structure, no-measurements, no-labels,
// no-markers, no-rooms, no-zones, no-polygons, no-pins, no-anchors,
// no-metadata, auto-anchors, assign-rooms, style, scale, padding.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/venuemap/pkg/observability"
	"github.com/matzehuels/venuemap/pkg/pipeline"
	"github.com/matzehuels/venuemap/pkg/venue"
)

// maxBodyBytes bounds POST /v1/render request bodies.
const maxBodyBytes = 1 << 20

// Server serves one venue and renders posted ones.
type Server struct {
	runner *pipeline.Runner
	venue  *venue.Venue
	logger *log.Logger
	router chi.Router
}

// New creates a server for v. A nil venue serves the embedded reference
// venue. The runner's cache is shared by every request.
func New(runner *pipeline.Runner, v *venue.Venue, logger *log.Logger) *Server {
	if v == nil {
		v = venue.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	s := &Server{
		runner: runner,
		venue:  v,
		logger: logger.WithPrefix("http"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/venue", func(r chi.Router) {
			r.Get("/", s.handleVenue)
			r.Get("/diagram.svg", s.handleArtifact(pipeline.FormatSVG))
			r.Get("/features.geojson", s.handleArtifact(pipeline.FormatGeoJSON))
			r.Get("/hierarchy.svg", s.handleArtifact(pipeline.FormatHierarchy))
			r.Get("/anchors/suggested", s.handleSuggested)
			r.Get("/locate", s.handleLocate)
		})
		r.Post("/render", s.handleRender)
	})

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// requestLogger logs each request at debug level with its chi request id
// and reports it to the HTTP hooks.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d)
	})
}
