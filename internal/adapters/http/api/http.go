// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/medatlas/kolserve/internal/adapters/repository"
	"github.com/medatlas/kolserve/internal/app"
	"github.com/medatlas/kolserve/internal/domain/model"
	"github.com/medatlas/kolserve/internal/domain/query"
	"github.com/medatlas/kolserve/internal/domain/stats"
)

// Dependencies bundles the operations HTTP handlers call into. Using an
// interface keeps the handler layer loosely coupled to the app package.
type Dependencies interface {
	ListKOLs(ctx context.Context, f query.Filter) ([]model.KOL, error)
	GetKOL(ctx context.Context, id string) (model.KOL, error)
	Statistics(ctx context.Context) (stats.Summary, error)
	Countries(ctx context.Context) ([]string, error)
	ExpertiseAreas(ctx context.Context) ([]string, error)
	Health(ctx context.Context) app.HealthReport
}

// Server wires HTTP routes for the business API.
type Server struct {
	kolHandler    *KOLHandler
	statsHandler  *StatsHandler
	metaHandler   *MetaHandler
	healthHandler *HealthHandler
	cors          *corsMiddleware
}

// NewServer creates an API server with all handlers.
func NewServer(deps Dependencies, corsOrigins []string) *Server {
	return &Server{
		kolHandler:    NewKOLHandler(deps),
		statsHandler:  NewStatsHandler(deps),
		metaHandler:   NewMetaHandler(deps),
		healthHandler: NewHealthHandler(deps),
		cors:          newCORSMiddleware(corsOrigins),
	}
}

// Register attaches all HTTP routes to mux, most specific first.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	wrap := func(h http.HandlerFunc, endpoint string) http.HandlerFunc {
		return s.cors.Handler(MetricsMiddleware(h, endpoint))
	}

	mux.HandleFunc("/api/kols/stats", wrap(s.statsHandler.HandleGetStats, "stats"))
	mux.HandleFunc("/api/kols/meta/countries", wrap(s.metaHandler.HandleGetCountries, "countries"))
	mux.HandleFunc("/api/kols/meta/expertise-areas", wrap(s.metaHandler.HandleGetExpertiseAreas, "expertise_areas"))
	mux.HandleFunc("/api/kols/", wrap(s.kolHandler.HandleGetKOL, "kol"))
	mux.HandleFunc("/api/kols", wrap(s.kolHandler.HandleListKOLs, "kols"))
	mux.HandleFunc("/health", wrap(s.healthHandler.HandleHealth, "health"))
	mux.Handle("/metrics", s.metricsEndpoint())
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

// writeDomainError maps engine errors to transport status codes. The
// engines never translate their own errors; this is the only place the
// mapping lives.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, stats.ErrEmptyDataset):
		writeError(w, http.StatusInternalServerError, "empty_dataset", err)
	case errors.Is(err, app.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
