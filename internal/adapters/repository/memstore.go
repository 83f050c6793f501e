package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/medatlas/kolserve/internal/domain/model"
	"github.com/medatlas/kolserve/pkg/logger"
)

// MemStore loads a JSON array of records into memory once and serves
// reads from the immutable snapshot. Concurrent reads need no locking
// after Load; the mutex only guards against racing first loads.
type MemStore struct {
	mu     sync.Mutex
	path   string
	log    logger.Logger
	loaded bool

	records []model.KOL
	byID    map[string]model.KOL
}

// NewMemStore creates a store for the given options. Load must be
// called before any read.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		path: "data/kols.json",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads, parses, and validates the dataset. A second call is a
// no-op so concurrent first accesses cannot load twice.
func (s *MemStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return nil
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSourceNotFound, s.path)
		}
		return fmt.Errorf("%w: %s: %v", ErrSourceNotFound, s.path, err)
	}

	var records []model.KOL
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}

	byID := make(map[string]model.KOL, len(records))
	for i, k := range records {
		if err := k.Validate(); err != nil {
			return fmt.Errorf("%w: record %d (id %q): %w", ErrInvalidRecord, i, k.ID, err)
		}
		// Last entry wins on duplicate ids; the ordered slice keeps
		// every entry. Duplicates indicate a data-quality problem in
		// the source file, so call them out.
		if _, dup := byID[k.ID]; dup && s.log != nil {
			s.log.Warn(ctx, "duplicate id in data source; keeping the later record for lookups",
				logger.String("id", k.ID),
				logger.Int("index", i),
			)
		}
		byID[k.ID] = k
	}

	s.records = records
	s.byID = byID
	s.loaded = true
	return nil
}

// All returns a copy of the full ordered record set.
func (s *MemStore) All(_ context.Context) []model.KOL {
	out := make([]model.KOL, len(s.records))
	copy(out, s.records)
	return out
}

// ByID returns the record for id, or ErrNotFound naming the id.
func (s *MemStore) ByID(_ context.Context, id string) (model.KOL, error) {
	k, ok := s.byID[id]
	if !ok {
		return model.KOL{}, fmt.Errorf("id %q: %w", id, ErrNotFound)
	}
	return k, nil
}

// Count returns the number of loaded records.
func (s *MemStore) Count(_ context.Context) int {
	return len(s.records)
}

// Source returns the path the dataset was loaded from.
func (s *MemStore) Source() string {
	return s.path
}
