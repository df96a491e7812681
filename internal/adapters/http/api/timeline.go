package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/okian/rangers/internal/domain/types"
	"github.com/okian/rangers/pkg/logger"
)

// TimelineHandler serves placeholder, snapshot and timeline requests.
type TimelineHandler struct {
	deps   TimelineDependencies
	logger logger.Logger
}

// NewTimelineHandler creates a new timeline handler.
func NewTimelineHandler(deps TimelineDependencies, log logger.Logger) *TimelineHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &TimelineHandler{deps: deps, logger: log}
}

// HandlePlaceholder handles GET /placeholder?family=F requests.
func (h *TimelineHandler) HandlePlaceholder(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r)
	if !ok {
		return
	}
	e := h.deps.Placeholder(r.Context())
	writeJSON(w, http.StatusOK, types.RenderEntry(h.deps.Catalog(), e, req.Family))
}

// HandleSnapshot handles GET /snapshot?hero=H&family=F&now=T requests.
func (h *TimelineHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r)
	if !ok {
		return
	}
	e := h.deps.SnapshotAt(r.Context(), req.Hero, h.now(req))
	writeJSON(w, http.StatusOK, types.RenderEntry(h.deps.Catalog(), e, req.Family))
}

// HandleTimeline handles GET /timeline?hero=H&family=F&now=T requests.
func (h *TimelineHandler) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r)
	if !ok {
		return
	}
	tl := h.deps.TimelineAt(r.Context(), req.Hero, h.now(req))
	writeJSON(w, http.StatusOK, types.RenderTimeline(h.deps.Catalog(), tl, req.Family))
}

func (h *TimelineHandler) parse(w http.ResponseWriter, r *http.Request) (hostRequest, bool) {
	const op = "api.parse_host_request"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return hostRequest{}, false
	}
	req, err := parseHostRequest(r)
	if err != nil {
		code := "bad_request"
		if errors.Is(err, types.ErrUnknownFamily) {
			code = "unknown_family"
		}
		log := h.logger.With(logger.String("request_id", RequestID(r.Context())))
		log.Warn(r.Context(), "rejected host request",
			logger.String("op", op),
			logger.Error(err),
		)
		writeError(w, http.StatusBadRequest, code, err)
		return hostRequest{}, false
	}
	return req, true
}

func (h *TimelineHandler) now(req hostRequest) time.Time {
	if req.HasNow {
		return req.Now
	}
	return h.deps.Now()
}
