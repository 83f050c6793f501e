package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound        = errors.New("kol not found")
	ErrSourceNotFound  = errors.New("data source not found")
	ErrMalformedSource = errors.New("data source is not valid JSON")
	ErrInvalidRecord   = errors.New("invalid record in data source")
)
