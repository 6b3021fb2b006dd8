// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provenance decides whether a paper introduced its own dataset.
package provenance

import (
	"slices"
	"sort"

	"github.com/pdiddy/dataset-review/pkg/types"
)

// IsOriginal reports whether p lists itself among its dataset sources.
func IsOriginal(p types.Paper) bool {
	return slices.Contains(p.SourceIDs, p.ID)
}

// Resolve returns a copy of papers with Original set on every row.
func Resolve(papers []types.Paper) []types.Paper {
	out := make([]types.Paper, len(papers))
	for i, p := range papers {
		p.Original = IsOriginal(p)
		out[i] = p
	}
	return out
}

// Reuse counts how many non-original papers build on one source dataset.
type Reuse struct {
	SourceID int    `json:"source_id" yaml:"source_id"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Papers   int    `json:"papers" yaml:"papers"`
}

// ReuseCounts tallies the sources cited by non-original papers, most reused
// first. Titles are filled from papers when the source is in the table.
func ReuseCounts(papers []types.Paper) []Reuse {
	titles := make(map[int]string, len(papers))
	for _, p := range papers {
		titles[p.ID] = p.Title
	}

	counts := make(map[int]int)
	for _, p := range papers {
		if IsOriginal(p) {
			continue
		}
		for _, id := range uniqueIDs(p.SourceIDs) {
			counts[id]++
		}
	}

	out := make([]Reuse, 0, len(counts))
	for id, n := range counts {
		out = append(out, Reuse{SourceID: id, Title: titles[id], Papers: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Papers != out[j].Papers {
			return out[i].Papers > out[j].Papers
		}
		return out[i].SourceID < out[j].SourceID
	})
	return out
}

func uniqueIDs(ids []int) []int {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
