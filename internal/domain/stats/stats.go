// Package stats computes aggregate metrics over the full record set.
package stats

import (
	"errors"
	"math"
	"sort"

	"github.com/medatlas/kolserve/internal/domain/model"
)

// ErrEmptyDataset is returned when statistics are requested on an empty
// record set; averages and the top-ratio selection are undefined there.
var ErrEmptyDataset = errors.New("no records available for statistics")

// TopCountriesLimit caps the number of country distribution entries.
const TopCountriesLimit = 10

// CountryDistribution is one geographic distribution entry.
type CountryDistribution struct {
	Country    string  `json:"country"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ExpertiseDistribution is one expertise-area distribution entry.
type ExpertiseDistribution struct {
	ExpertiseArea string  `json:"expertiseArea"`
	Count         int     `json:"count"`
	Percentage    float64 `json:"percentage"`
}

// TopCitationRatioKOL is the record with the highest citations-per-
// publication ratio, with the ratio and its distance above the dataset
// average.
type TopCitationRatioKOL struct {
	KOL                    model.KOL `json:"kol"`
	Ratio                  float64   `json:"ratio"`
	PercentageAboveAverage float64   `json:"percentageAboveAverage"`
}

// Summary holds all aggregate metrics for one record set snapshot.
type Summary struct {
	TotalKOLs                  int                     `json:"totalKOLs"`
	TotalPublications          int                     `json:"totalPublications"`
	TotalCitations             int                     `json:"totalCitations"`
	CountriesRepresented       int                     `json:"countriesRepresented"`
	AvgHIndex                  float64                 `json:"avgHIndex"`
	AvgCitationsPerPublication float64                 `json:"avgCitationsPerPublication"`
	TopCountries               []CountryDistribution   `json:"topCountries"`
	ExpertiseDistribution      []ExpertiseDistribution `json:"expertiseDistribution"`
	TopCitationRatioKOL        TopCitationRatioKOL     `json:"topCitationRatioKOL"`
}

// Compute derives a Summary from records. It returns ErrEmptyDataset on
// an empty input rather than producing NaN averages.
//
// Tie-breaks are deterministic: distribution entries with equal counts
// keep first-encountered order (stable sort over first-seen grouping),
// and the top-ratio selection is a linear max scan where the first
// record seen wins ties.
func Compute(records []model.KOL) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, ErrEmptyDataset
	}

	total := len(records)

	var totalPublications, totalCitations, totalHIndex int
	for _, k := range records {
		totalPublications += k.PublicationsCount
		totalCitations += k.Citations
		totalHIndex += k.HIndex
	}

	avgHIndex := float64(totalHIndex) / float64(total)
	avgRatio := 0.0
	if totalPublications > 0 {
		avgRatio = float64(totalCitations) / float64(totalPublications)
	}

	countryCounts := countByKey(records, func(k model.KOL) string { return k.Country })
	countriesRepresented := len(countryCounts)

	topCountries := make([]CountryDistribution, 0, TopCountriesLimit)
	for i, g := range countryCounts {
		if i == TopCountriesLimit {
			break
		}
		topCountries = append(topCountries, CountryDistribution{
			Country:    g.label,
			Count:      g.count,
			Percentage: percentage(g.count, total),
		})
	}

	expertiseCounts := countByKey(records, func(k model.KOL) string { return k.ExpertiseArea })
	expertise := make([]ExpertiseDistribution, 0, len(expertiseCounts))
	for _, g := range expertiseCounts {
		expertise = append(expertise, ExpertiseDistribution{
			ExpertiseArea: g.label,
			Count:         g.count,
			Percentage:    percentage(g.count, total),
		})
	}

	top := topByCitationRatio(records, avgRatio)

	return Summary{
		TotalKOLs:                  total,
		TotalPublications:          totalPublications,
		TotalCitations:             totalCitations,
		CountriesRepresented:       countriesRepresented,
		AvgHIndex:                  round1(avgHIndex),
		AvgCitationsPerPublication: round1(avgRatio),
		TopCountries:               topCountries,
		ExpertiseDistribution:      expertise,
		TopCitationRatioKOL:        top,
	}, nil
}

type group struct {
	label string
	count int
}

// countByKey groups records by key in first-encountered order, then
// sorts count-descending. The stable sort keeps the encounter order
// among equal counts.
func countByKey(records []model.KOL, key func(model.KOL) string) []group {
	index := make(map[string]int, len(records))
	groups := make([]group, 0, len(records))
	for _, k := range records {
		label := key(k)
		if i, ok := index[label]; ok {
			groups[i].count++
			continue
		}
		index[label] = len(groups)
		groups = append(groups, group{label: label, count: 1})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].count > groups[j].count
	})
	return groups
}

// topByCitationRatio selects the record with the maximum citation ratio
// via a strict linear scan; first-encountered wins on equal ratios.
func topByCitationRatio(records []model.KOL, avgRatio float64) TopCitationRatioKOL {
	best := records[0]
	bestRatio := best.CitationRatio()
	for _, k := range records[1:] {
		if r := k.CitationRatio(); r > bestRatio {
			best = k
			bestRatio = r
		}
	}

	// A zero average makes "above average" undefined; report 0 rather
	// than dividing by zero.
	aboveAvg := 0.0
	if avgRatio > 0 {
		aboveAvg = (bestRatio - avgRatio) / avgRatio * 100
	}

	return TopCitationRatioKOL{
		KOL:                    best,
		Ratio:                  round2(bestRatio),
		PercentageAboveAverage: round2(aboveAvg),
	}
}

func percentage(count, total int) float64 {
	return float64(count) / float64(total) * 100
}

// round1 and round2 round half away from zero, matching the rounding
// used throughout the API.
func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
