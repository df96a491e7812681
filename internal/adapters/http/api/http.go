// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/okian/rangers/internal/domain/character"
	"github.com/okian/rangers/internal/domain/timeline"
	"github.com/okian/rangers/internal/domain/types"
	"github.com/okian/rangers/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	TimelineDependencies
	WidgetDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	widgetHandler   *WidgetHandler
	timelineHandler *TimelineHandler
	logger          logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("api")
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(deps),
		widgetHandler:   NewWidgetHandler(deps),
		timelineHandler: NewTimelineHandler(deps, log),
		logger:          log,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(path, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(path, RequestIDMiddleware(MetricsMiddleware(h, endpoint)))
	}

	route("/healthz", "healthz", s.healthHandler.HandleHealth)
	route("/stats", "stats", s.statsHandler.HandleStats)
	route("/widget", "widget", s.widgetHandler.HandleWidget)
	route("/characters", "characters", s.widgetHandler.HandleCharacters)
	route("/placeholder", "placeholder", s.timelineHandler.HandlePlaceholder)
	route("/snapshot", "snapshot", s.timelineHandler.HandleSnapshot)
	route("/timeline", "timeline", s.timelineHandler.HandleTimeline)
}

// hostRequest holds the query parameters shared by entry endpoints.
type hostRequest struct {
	Hero   string
	Family types.Family
	Now    time.Time
	HasNow bool
}

// parseHostRequest reads hero, family and now from the query string.
// An unknown hero is not an error; it resolves to the default character later.
func parseHostRequest(r *http.Request) (hostRequest, error) {
	q := r.URL.Query()
	req := hostRequest{Hero: q.Get("hero")}

	family, err := types.ParseFamily(q.Get("family"))
	if err != nil {
		return hostRequest{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	req.Family = family

	if raw := strings.TrimSpace(q.Get("now")); raw != "" {
		now, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return hostRequest{}, fmt.Errorf("%w: invalid now; must be RFC3339", ErrBadRequest)
		}
		req.Now = now
		req.HasNow = true
	}
	return req, nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// TimelineDependencies defines the operations behind the entry endpoints.
type TimelineDependencies interface {
	Catalog() *character.Catalog
	Now() time.Time
	Placeholder(ctx context.Context) timeline.Entry
	SnapshotAt(ctx context.Context, selection string, now time.Time) timeline.Entry
	TimelineAt(ctx context.Context, selection string, now time.Time) timeline.Timeline
}
