// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance for record constraints.
var validate *validator.Validate //nolint:gochecknoglobals // shared validator, read-only after init

func init() { //nolint:gochecknoinits // validator setup
	validate = validator.New()
}

// KOL is a single Key Opinion Leader record. Field names and JSON keys
// mirror the source data file schema. Records are immutable once loaded.
type KOL struct {
	ID                string `json:"id" validate:"required"`
	Name              string `json:"name" validate:"required,min=1"`
	Affiliation       string `json:"affiliation"`
	Country           string `json:"country" validate:"required,min=1"`
	City              string `json:"city,omitempty"`
	ExpertiseArea     string `json:"expertiseArea" validate:"required"`
	PublicationsCount int    `json:"publicationsCount" validate:"gte=0"`
	HIndex            int    `json:"hIndex" validate:"gte=0"`
	Citations         int    `json:"citations" validate:"gte=0"`
}

// ValidationError describes a single constraint violation on a record.
type ValidationError struct {
	Field      string
	Constraint string
	Message    string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks all field constraints plus the h-index invariant:
// a researcher with h-index h has at least h publications, so
// publicationsCount >= hIndex must hold.
func (k KOL) Validate() error {
	if err := validate.Struct(k); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ValidationError{
				Field:      fe.Field(),
				Constraint: fe.Tag(),
				Message:    fmt.Sprintf("field %s failed constraint %q (value: %v)", fe.Field(), fe.Tag(), fe.Value()),
			}
		}
		return err
	}
	if k.PublicationsCount < k.HIndex {
		return &ValidationError{
			Field:      "publicationsCount",
			Constraint: "gtefield=HIndex",
			Message: fmt.Sprintf("publicationsCount (%d) must be >= hIndex (%d)",
				k.PublicationsCount, k.HIndex),
		}
	}
	return nil
}

// CitationRatio returns citations per publication, or 0 when the record
// has no publications.
func (k KOL) CitationRatio() float64 {
	if k.PublicationsCount == 0 {
		return 0
	}
	return float64(k.Citations) / float64(k.PublicationsCount)
}
