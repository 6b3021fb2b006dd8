// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate computes the descriptive statistics of a filtered paper
// table: tag frequencies, categorical distributions, size totals and
// per-annotation-level numeric summaries. Every function returns an empty
// result for an empty table.
package aggregate

import (
	"sort"
	"strconv"

	"github.com/pdiddy/dataset-review/internal/normalize"
	"github.com/pdiddy/dataset-review/pkg/types"
)

// Count is the number of papers carrying one value.
type Count struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// TagFrequency counts, for every tag observed in field and not in blocklist,
// the papers containing it. Sorted ascending by count, then by tag.
func TagFrequency(papers []types.Paper, field types.TagFieldName, blocklist []string) []Count {
	block := make(map[string]bool, len(blocklist))
	for _, b := range blocklist {
		block[b] = true
	}

	var out []Count
	for _, tag := range normalize.Vocabulary(papers, field) {
		if block[tag] {
			continue
		}
		n := 0
		for _, has := range normalize.Indicators(papers, field, tag) {
			if has {
				n++
			}
		}
		out = append(out, Count{Value: tag, Count: n})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count < out[j].Count
	})
	return out
}

// Distribution counts papers per value of key, most frequent first, ties by
// value. Empty keys are not counted.
func Distribution(papers []types.Paper, key func(types.Paper) string) []Count {
	counts := make(map[string]int)
	for _, p := range papers {
		if k := key(p); k != "" {
			counts[k]++
		}
	}
	out := make([]Count, 0, len(counts))
	for v, n := range counts {
		out = append(out, Count{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// LanguageDistribution counts papers per primary language.
func LanguageDistribution(papers []types.Paper) []Count {
	return Distribution(papers, func(p types.Paper) string { return p.PrimaryLanguage })
}

// AvailabilityDistribution counts papers per availability class.
func AvailabilityDistribution(papers []types.Paper) []Count {
	return Distribution(papers, func(p types.Paper) string { return string(p.Availability) })
}

// LevelDistribution counts papers per annotation level.
func LevelDistribution(papers []types.Paper) []Count {
	return Distribution(papers, func(p types.Paper) string { return string(p.AnnotationLevel) })
}

// YearDistribution counts papers per publication year, oldest first.
// Papers with an unknown year are not counted.
func YearDistribution(papers []types.Paper) []Count {
	counts := make(map[int]int)
	for _, p := range papers {
		if p.Year > 0 {
			counts[p.Year]++
		}
	}
	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)
	out := make([]Count, len(years))
	for i, y := range years {
		out[i] = Count{Value: strconv.Itoa(y), Count: counts[y]}
	}
	return out
}

// RelevantTotal sums the counts of the given sub-population labels. Absent
// and NotApplicable sizes are missing, never zero.
func RelevantTotal(size types.SizeField, labels []string) (float64, bool) {
	if size.Kind != types.Present {
		return 0, false
	}
	total := 0.0
	for _, l := range labels {
		total += size.Counts[l]
	}
	return total, true
}

// AllTotal sums every sub-population count. Absent and NotApplicable sizes
// are missing.
func AllTotal(size types.SizeField) (float64, bool) {
	if size.Kind != types.Present {
		return 0, false
	}
	total := 0.0
	for _, v := range size.Counts {
		total += v
	}
	return total, true
}

// ClinicalPaper is one row of the clinical-annotation availability table.
type ClinicalPaper struct {
	ID              int                `json:"paper_id" yaml:"paper_id"`
	Title           string             `json:"title" yaml:"title"`
	Tasks           []string           `json:"tasks" yaml:"tasks"`
	PrimaryLanguage string             `json:"primary_language" yaml:"primary_language"`
	Availability    types.Availability `json:"availability" yaml:"availability"`
}

// ClinicalAvailability lists the papers annotated with any of styles.
func ClinicalAvailability(papers []types.Paper, styles []string) []ClinicalPaper {
	var out []ClinicalPaper
	for _, p := range papers {
		for _, s := range styles {
			if p.AnnotationStyle.Has(s) {
				out = append(out, ClinicalPaper{
					ID:              p.ID,
					Title:           p.Title,
					Tasks:           p.Tasks.Tags(),
					PrimaryLanguage: p.PrimaryLanguage,
					Availability:    p.Availability,
				})
				break
			}
		}
	}
	return out
}
