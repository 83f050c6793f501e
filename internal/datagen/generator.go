// Package datagen produces mock KOL datasets for local development and
// load fixtures.
package datagen

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/google/uuid"

	"github.com/medatlas/kolserve/internal/domain/model"
)

// Pools the generator draws from. Skewed on purpose so generated
// datasets have believable country/expertise distributions.
var (
	firstNames = []string{
		"Sarah", "Kenji", "Maria", "James", "Aisha", "Lucas", "Ingrid",
		"Rafael", "Mei", "Patricia", "Omar", "Elena", "David", "Yuki",
	}
	lastNames = []string{
		"Johnson", "Tanaka", "Rossi", "Williams", "Khan", "Silva",
		"Larsen", "Garcia", "Chen", "Muller", "Haddad", "Petrov",
	}
	affiliations = []string{
		"Harvard Medical School", "Kyoto University", "University of Milan",
		"Johns Hopkins University", "Charite Berlin", "Karolinska Institute",
		"University of Sao Paulo", "Seoul National University",
	}
	countries = []string{
		"United States", "United States", "United States", "Japan",
		"Italy", "Germany", "Sweden", "Brazil", "South Korea", "India",
	}
	cities = []string{
		"Boston", "Kyoto", "Milan", "Baltimore", "Berlin", "Stockholm",
		"Sao Paulo", "Seoul", "Mumbai", "",
	}
	expertiseAreas = []string{
		"Dermatology", "Dermatology", "Vitiligo", "Vitiligo",
		"Pigmentation Disorders", "Immunodermatology", "Pediatric Dermatology",
	}
)

// Bibliometric generation ranges.
const (
	maxPublications = 250
	minPublications = 5
	maxCitationsPer = 60
)

// randInt returns a uniform value in [0, n) using crypto/rand.
func randInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

func pick(pool []string) string {
	return pool[randInt(len(pool))]
}

// Generate produces n valid records with uuid identifiers. Every record
// satisfies publicationsCount >= hIndex, so generated files always load.
func Generate(n int) []model.KOL {
	records := make([]model.KOL, 0, n)
	for i := 0; i < n; i++ {
		publications := minPublications + randInt(maxPublications-minPublications)
		hIndex := randInt(publications + 1)
		citations := publications * (1 + randInt(maxCitationsPer))

		records = append(records, model.KOL{
			ID:                uuid.NewString(),
			Name:              fmt.Sprintf("Dr. %s %s", pick(firstNames), pick(lastNames)),
			Affiliation:       pick(affiliations),
			Country:           pick(countries),
			City:              pick(cities),
			ExpertiseArea:     pick(expertiseAreas),
			PublicationsCount: publications,
			HIndex:            hIndex,
			Citations:         citations,
		})
	}
	return records
}

// WriteFile writes records as an indented JSON array.
func WriteFile(path string, records []model.KOL) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
