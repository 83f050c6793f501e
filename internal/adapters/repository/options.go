package repository

import "github.com/medatlas/kolserve/pkg/logger"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithPath sets the JSON data file path.
func WithPath(path string) Option {
	return func(s *MemStore) {
		if path != "" {
			s.path = path
		}
	}
}

// WithLogger sets the logger used for load-time diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(s *MemStore) {
		if log != nil {
			s.log = log
		}
	}
}
