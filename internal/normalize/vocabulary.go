// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"sort"

	"github.com/pdiddy/dataset-review/pkg/types"
)

// Vocabulary returns the sorted union of tags observed in field across
// papers. Sentinel values contribute nothing.
func Vocabulary(papers []types.Paper, field types.TagFieldName) []string {
	seen := make(map[string]struct{})
	for _, p := range papers {
		for _, t := range p.TagField(field).Tags() {
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Indicators is the "row contains tag" column for tag, in row order. It is
// computed from the current tag sets on every call.
func Indicators(papers []types.Paper, field types.TagFieldName, tag string) []bool {
	out := make([]bool, len(papers))
	for i, p := range papers {
		out[i] = p.TagField(field).Has(tag)
	}
	return out
}
