// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/medatlas/kolserve/internal/domain/query"
)

// KOLHandler handles record list and point-lookup requests.
type KOLHandler struct {
	deps Dependencies
}

// NewKOLHandler creates a new KOL handler.
func NewKOLHandler(deps Dependencies) *KOLHandler {
	return &KOLHandler{deps: deps}
}

// HandleListKOLs handles GET /api/kols requests with optional filter
// query parameters: query, country, expertiseArea, minHIndex, maxHIndex.
func (h *KOLHandler) HandleListKOLs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	records, err := h.deps.ListKOLs(r.Context(), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleGetKOL handles GET /api/kols/{id} requests.
func (h *KOLHandler) HandleGetKOL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/kols/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	k, err := h.deps.GetKOL(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, k)
}

func filterFromQuery(r *http.Request) (query.Filter, error) {
	q := r.URL.Query()
	f := query.Filter{
		Query:         q.Get("query"),
		Country:       q.Get("country"),
		ExpertiseArea: q.Get("expertiseArea"),
	}

	for _, bound := range []struct {
		name string
		dst  **int
	}{
		{"minHIndex", &f.MinHIndex},
		{"maxHIndex", &f.MaxHIndex},
	} {
		raw := q.Get(bound.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return query.Filter{}, fmt.Errorf("%s must be a non-negative integer", bound.name)
		}
		*bound.dst = &v
	}
	return f, nil
}
