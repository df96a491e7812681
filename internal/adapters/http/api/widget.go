package api

import (
	"net/http"

	"github.com/okian/rangers/internal/domain/character"
	"github.com/okian/rangers/internal/domain/types"
)

// WidgetDependencies defines the interface for widget metadata.
type WidgetDependencies interface {
	Characters() []character.Detail
	Describe() types.WidgetDescriptor
}

// WidgetHandler serves the widget descriptor and the character list.
type WidgetHandler struct {
	deps WidgetDependencies
}

// NewWidgetHandler creates a new widget handler.
func NewWidgetHandler(deps WidgetDependencies) *WidgetHandler {
	return &WidgetHandler{deps: deps}
}

// HandleWidget handles GET /widget requests.
func (h *WidgetHandler) HandleWidget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Describe())
}

// HandleCharacters handles GET /characters requests.
func (h *WidgetHandler) HandleCharacters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	details := h.deps.Characters()
	out := make([]types.CharacterView, 0, len(details))
	for _, d := range details {
		out = append(out, types.RenderCharacter(d))
	}
	writeJSON(w, http.StatusOK, out)
}
