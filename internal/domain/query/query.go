// Package query filters the in-memory record set and derives lookup lists.
package query

import (
	"sort"
	"strings"

	"github.com/medatlas/kolserve/internal/domain/model"
)

// Filter holds optional search predicates. Predicates combine as a
// logical AND; a zero Filter matches every record.
type Filter struct {
	// Query matches case-insensitively against name or affiliation.
	Query string
	// Country and ExpertiseArea are exact, case-sensitive matches.
	Country       string
	ExpertiseArea string
	// MinHIndex and MaxHIndex are inclusive bounds; nil means unbounded.
	MinHIndex *int
	MaxHIndex *int
}

// IsZero reports whether no predicate is set.
func (f Filter) IsZero() bool {
	return f.Query == "" && f.Country == "" && f.ExpertiseArea == "" &&
		f.MinHIndex == nil && f.MaxHIndex == nil
}

func (f Filter) matches(k model.KOL) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(k.Name), q) &&
			!strings.Contains(strings.ToLower(k.Affiliation), q) {
			return false
		}
	}
	if f.Country != "" && k.Country != f.Country {
		return false
	}
	if f.ExpertiseArea != "" && k.ExpertiseArea != f.ExpertiseArea {
		return false
	}
	if f.MinHIndex != nil && k.HIndex < *f.MinHIndex {
		return false
	}
	if f.MaxHIndex != nil && k.HIndex > *f.MaxHIndex {
		return false
	}
	return true
}

// Search returns the records satisfying every set predicate, preserving
// the input order.
func Search(records []model.KOL, f Filter) []model.KOL {
	out := make([]model.KOL, 0, len(records))
	for _, k := range records {
		if f.matches(k) {
			out = append(out, k)
		}
	}
	return out
}

// Countries returns the sorted distinct country values.
func Countries(records []model.KOL) []string {
	return distinct(records, func(k model.KOL) string { return k.Country })
}

// ExpertiseAreas returns the sorted distinct expertise areas.
func ExpertiseAreas(records []model.KOL) []string {
	return distinct(records, func(k model.KOL) string { return k.ExpertiseArea })
}

func distinct(records []model.KOL, key func(model.KOL) string) []string {
	seen := make(map[string]struct{}, len(records))
	out := make([]string, 0, len(records))
	for _, k := range records {
		v := key(k)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
