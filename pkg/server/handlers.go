package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/venuemap/pkg/anchors"
	"github.com/matzehuels/venuemap/pkg/buildinfo"
	"github.com/matzehuels/venuemap/pkg/errors"
	"github.com/matzehuels/venuemap/pkg/pipeline"
	"github.com/matzehuels/venuemap/pkg/venue"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:       "image/svg+xml",
	pipeline.FormatGeoJSON:   "application/geo+json",
	pipeline.FormatPNG:       "image/png",
	pipeline.FormatPDF:       "application/pdf",
	pipeline.FormatDOT:       "text/vnd.graphviz",
	pipeline.FormatHierarchy: "image/svg+xml",
}

// VenueResponse is the body of GET /v1/venue.
type VenueResponse struct {
	Name   string        `json:"name,omitempty"`
	Hash   string        `json:"hash"`
	Origin any           `json:"origin"`
	Bounds venue.Bounds  `json:"bounds"`
	Counts venue.Counts  `json:"counts"`
	Issues []venue.Issue `json:"issues"`
}

// LocateResponse is the body of GET /v1/venue/locate.
type LocateResponse struct {
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Rooms []string `json:"rooms"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code      string `json:"code"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleVenue(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromQuery(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	v, _, err := s.runner.Prepare(r.Context(), s.venue, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	bounds, err := v.Bounds()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	hash, err := venueHash(v)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	issues := venue.CheckContainment(v)
	if issues == nil {
		issues = []venue.Issue{}
	}
	respondJSON(w, http.StatusOK, VenueResponse{
		Name:   v.Name,
		Hash:   hash,
		Origin: v.Origin,
		Bounds: bounds,
		Counts: v.Counts(),
		Issues: issues,
	})
}

func (s *Server) handleArtifact(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := optionsFromQuery(r)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		opts.Venue = s.venue
		opts.Formats = []string{format}
		s.execute(w, r, opts)
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromQuery(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	format := r.URL.Query().Get("output")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.respondError(w, r, err)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	if len(body) > maxBodyBytes {
		s.respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "venue body exceeds %d bytes", maxBodyBytes))
		return
	}
	v, err := venue.Parse(bytes.NewReader(body))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	opts.Venue = v
	opts.Formats = []string{format}
	s.execute(w, r, opts)
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Run-ID", res.RunID)
	w.Header().Set("X-Venue-Hash", res.VenueHash)
	if res.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleSuggested(w http.ResponseWriter, r *http.Request) {
	suggested := anchors.Recommend(s.venue.Rooms)
	if suggested == nil {
		suggested = []venue.Anchor{}
	}
	respondJSON(w, http.StatusOK, suggested)
}

func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		s.respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "x and y must be numbers"))
		return
	}
	for _, f := range []float64{x, y} {
		if err := errors.ValidateFinite("point", f); err != nil {
			s.respondError(w, r, err)
			return
		}
	}

	resp := LocateResponse{X: x, Y: y, Rooms: []string{}}
	for _, room := range venue.NewRoomIndex(s.venue.Rooms).Locate(x, y) {
		resp.Rooms = append(resp.Rooms, room.ID)
	}
	respondJSON(w, http.StatusOK, resp)
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	if errors.IsClientError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	reqID := middleware.GetReqID(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", reqID, "error", err)
	} else {
		s.logger.Debug("request rejected", "id", reqID, "error", err)
	}
	respondJSON(w, status, ErrorResponse{
		Code:      code,
		Error:     errors.UserMessage(err),
		RequestID: reqID,
	})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(body)
}
