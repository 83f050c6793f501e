// Package repository defines the record store interface and errors.
package repository

import (
	"context"

	"github.com/medatlas/kolserve/internal/domain/model"
)

// Store provides read access to the loaded record set.
type Store interface {
	// Load reads and validates the dataset. It is all-or-nothing: any
	// unreadable source, malformed content, or invalid record fails the
	// whole load and leaves the store unusable.
	Load(ctx context.Context) error

	// All returns the full ordered record set as a defensive copy.
	All(ctx context.Context) []model.KOL

	// ByID returns the record for id, or ErrNotFound.
	ByID(ctx context.Context, id string) (model.KOL, error)

	// Count returns the number of loaded records.
	Count(ctx context.Context) int

	// Source describes where the data was loaded from.
	Source() string
}
