// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// MetaHandler serves the lookup lists used to populate client filters.
type MetaHandler struct {
	deps Dependencies
}

// NewMetaHandler creates a new metadata handler.
func NewMetaHandler(deps Dependencies) *MetaHandler {
	return &MetaHandler{deps: deps}
}

// HandleGetCountries handles GET /api/kols/meta/countries requests.
func (h *MetaHandler) HandleGetCountries(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, h.deps.Countries)
}

// HandleGetExpertiseAreas handles GET /api/kols/meta/expertise-areas requests.
func (h *MetaHandler) HandleGetExpertiseAreas(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, h.deps.ExpertiseAreas)
}

func (h *MetaHandler) serveList(w http.ResponseWriter, r *http.Request, list func(context.Context) ([]string, error)) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	values, err := list(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if values == nil {
		values = []string{}
	}
	writeJSON(w, http.StatusOK, values)
}
