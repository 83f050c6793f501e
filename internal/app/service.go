// Package app provides the core business service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/medatlas/kolserve/internal/adapters/repository"
	"github.com/medatlas/kolserve/internal/domain/model"
	"github.com/medatlas/kolserve/internal/domain/query"
	"github.com/medatlas/kolserve/internal/domain/stats"
	"github.com/medatlas/kolserve/pkg/logger"
	"github.com/medatlas/kolserve/pkg/metrics"
)

// ErrNotStarted is returned by read operations before Start succeeds.
var ErrNotStarted = errors.New("service not started")

// HealthReport mirrors the health endpoint payload.
type HealthReport struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	DataSource string `json:"data_source"`
	TotalKOLs  int    `json:"total_kols"`
}

// Service wires the record store and the pure domain engines behind the
// operation surface consumed by the HTTP adapter. The store is loaded
// exactly once in Start and is read-only afterwards, so every read
// operation is safe to call concurrently.
type Service struct {
	mu sync.Mutex

	store    repository.Store
	dataPath string
	version  string
	started  bool

	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithDataPath sets the JSON dataset path used when no store is injected.
func WithDataPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dataPath = path
		}
	}
}

// WithStore injects a pre-built store. Tests use this to substitute a
// fixture-backed store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithVersion sets the version string reported by Health.
func WithVersion(version string) Option {
	return func(s *Service) {
		if version != "" {
			s.version = version
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataPath: "data/kols.json",
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the dataset. A load failure is fatal: the caller must not
// begin serving, and there is no degraded empty-dataset mode.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	if s.store == nil {
		s.store = repository.NewMemStore(
			repository.WithPath(s.dataPath),
			repository.WithLogger(s.log),
		)
	}

	start := time.Now()
	if err := s.store.Load(ctx); err != nil {
		s.log.Error(ctx, "dataset load failed", logger.Error(err))
		return err
	}
	loadMs := float64(time.Since(start).Microseconds()) / 1000

	records := s.store.All(ctx)
	metrics.RecordDatasetLoadDuration(loadMs)
	metrics.UpdateDatasetRecords(len(records))
	metrics.UpdateDatasetCountries(len(query.Countries(records)))

	s.started = true
	s.log.Info(ctx, "dataset loaded",
		logger.Int("records", len(records)),
		logger.String("source", s.store.Source()),
		logger.Float64("durationMs", loadMs),
	)
	return nil
}

// Stop marks the service as stopped. There are no background tasks to
// wind down; the method exists for lifecycle symmetry.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.log.Info(context.Background(), "service stopped")
}

func (s *Service) ready() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// ListKOLs returns the records matching the filter in source order. A
// zero filter returns the full set.
func (s *Service) ListKOLs(ctx context.Context, f query.Filter) ([]model.KOL, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	records := s.store.All(ctx)
	if f.IsZero() {
		return records, nil
	}
	metrics.RecordSearch()
	return query.Search(records, f), nil
}

// GetKOL returns a single record by id, or repository.ErrNotFound.
func (s *Service) GetKOL(ctx context.Context, id string) (model.KOL, error) {
	if err := s.ready(); err != nil {
		return model.KOL{}, err
	}
	k, err := s.store.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.RecordLookupMiss()
		}
		return model.KOL{}, err
	}
	return k, nil
}

// Statistics computes the aggregate summary over the full record set.
func (s *Service) Statistics(ctx context.Context) (stats.Summary, error) {
	if err := s.ready(); err != nil {
		return stats.Summary{}, err
	}
	summary, err := stats.Compute(s.store.All(ctx))
	if err != nil {
		metrics.RecordStatisticsError()
		return stats.Summary{}, err
	}
	metrics.RecordStatisticsComputed()
	return summary, nil
}

// Countries returns the sorted distinct countries in the dataset.
func (s *Service) Countries(ctx context.Context) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return query.Countries(s.store.All(ctx)), nil
}

// ExpertiseAreas returns the sorted distinct expertise areas.
func (s *Service) ExpertiseAreas(ctx context.Context) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return query.ExpertiseAreas(s.store.All(ctx)), nil
}

// Health reports service liveness. The record count comes from the
// list operation; if that fails the service is unhealthy.
func (s *Service) Health(ctx context.Context) HealthReport {
	report := HealthReport{
		Status:  "healthy",
		Version: s.version,
	}
	if s.store != nil {
		report.DataSource = s.store.Source()
	}

	records, err := s.ListKOLs(ctx, query.Filter{})
	if err != nil {
		report.Status = "unhealthy"
		return report
	}
	report.TotalKOLs = len(records)
	return report
}

// GetStats returns service state for the metrics updater.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	out := map[string]interface{}{
		"started": started,
		"version": s.version,
	}
	if started {
		ctx := context.Background()
		records := s.store.All(ctx)
		out["totalKOLs"] = len(records)
		out["countries"] = len(query.Countries(records))
		out["dataSource"] = s.store.Source()

		metrics.UpdateDatasetRecords(len(records))
	}
	return out
}
