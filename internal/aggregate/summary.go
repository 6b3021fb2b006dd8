// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pdiddy/dataset-review/pkg/types"
)

// Summary describes the non-missing values of one numeric column. Statistics
// are nil when they cannot be computed: all of them for an empty column,
// Std for a single value.
type Summary struct {
	Count   int      `json:"count" yaml:"count"`
	Missing int      `json:"missing" yaml:"missing"`
	Min     *float64 `json:"min" yaml:"min"`
	Max     *float64 `json:"max" yaml:"max"`
	Mean    *float64 `json:"mean" yaml:"mean"`
	Median  *float64 `json:"median" yaml:"median"`
	Std     *float64 `json:"std" yaml:"std"`
}

// Summarize computes count, min, max, mean, median and sample standard
// deviation of values. missing is carried through for reporting.
func Summarize(values []float64, missing int) Summary {
	s := Summary{Count: len(values), Missing: missing}
	if len(values) == 0 {
		return s
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s.Min = ptr(floats.Min(sorted))
	s.Max = ptr(floats.Max(sorted))
	s.Mean = ptr(stat.Mean(sorted, nil))
	s.Median = ptr(median(sorted))
	if len(sorted) > 1 {
		s.Std = ptr(stat.StdDev(sorted, nil))
	}
	return s
}

// median expects sorted input and averages the two middle values of an
// even-length slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func ptr(v float64) *float64 {
	return &v
}

// Column names one numeric total derived from a size field.
type Column struct {
	Field types.SizeFieldName

	// Relevant sums only the relevant sub-population labels.
	Relevant bool
}

// Name returns the column label, e.g. "n_documents_total" or
// "n_individuals_relevant_total".
func (c Column) Name() string {
	if c.Relevant {
		return string(c.Field) + "_relevant_total"
	}
	return string(c.Field) + "_total"
}

// DefaultColumns lists the all-label and relevant totals of every size field.
func DefaultColumns() []Column {
	cols := make([]Column, 0, 2*len(types.SizeFieldNames))
	for _, f := range types.SizeFieldNames {
		cols = append(cols, Column{Field: f}, Column{Field: f, Relevant: true})
	}
	return cols
}

// Value returns the column total for p.
func (c Column) Value(p types.Paper, relevantLabels []string) (float64, bool) {
	size := p.SizeField(c.Field)
	if c.Relevant {
		return RelevantTotal(size, relevantLabels)
	}
	return AllTotal(size)
}

// ColumnSummary pairs a column name with its summary.
type ColumnSummary struct {
	Column  string  `json:"column" yaml:"column"`
	Summary Summary `json:"summary" yaml:"summary"`
}

// GroupSummary holds the column summaries of one annotation level.
type GroupSummary struct {
	Level   types.AnnotationLevel `json:"level" yaml:"level"`
	Papers  int                   `json:"papers" yaml:"papers"`
	Columns []ColumnSummary       `json:"columns" yaml:"columns"`
}

// GroupedSummary partitions papers by annotation level and summarizes every
// column within each partition. The document and individual levels are
// always reported, even when empty; other observed levels follow in sorted
// order. Papers without a level are left out.
func GroupedSummary(papers []types.Paper, columns []Column, relevantLabels []string) []GroupSummary {
	groups := map[types.AnnotationLevel][]types.Paper{
		types.LevelDocument:   nil,
		types.LevelIndividual: nil,
	}
	for _, p := range papers {
		if p.AnnotationLevel == "" {
			continue
		}
		groups[p.AnnotationLevel] = append(groups[p.AnnotationLevel], p)
	}

	levels := []types.AnnotationLevel{types.LevelDocument, types.LevelIndividual}
	var extra []types.AnnotationLevel
	for l := range groups {
		if l != types.LevelDocument && l != types.LevelIndividual {
			extra = append(extra, l)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	levels = append(levels, extra...)

	out := make([]GroupSummary, 0, len(levels))
	for _, l := range levels {
		rows := groups[l]
		g := GroupSummary{Level: l, Papers: len(rows)}
		for _, c := range columns {
			var values []float64
			missing := 0
			for _, p := range rows {
				if v, ok := c.Value(p, relevantLabels); ok {
					values = append(values, v)
				} else {
					missing++
				}
			}
			g.Columns = append(g.Columns, ColumnSummary{Column: c.Name(), Summary: Summarize(values, missing)})
		}
		out = append(out, g)
	}
	return out
}
