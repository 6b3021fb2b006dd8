// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report assembles the outcome of one review run (funnel, dataset
// reuse, descriptive statistics and the final dataset table) and exports it
// as YAML, JSON or a plain-text summary.
package report

import (
	"sort"
	"time"

	"github.com/pdiddy/dataset-review/internal/aggregate"
	"github.com/pdiddy/dataset-review/internal/filter"
	"github.com/pdiddy/dataset-review/internal/provenance"
	"github.com/pdiddy/dataset-review/pkg/types"
)

// Report is the exported outcome of one run.
type Report struct {
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Input       string    `json:"input" yaml:"input"`

	Funnel []filter.StageCount `json:"funnel" yaml:"funnel"`
	Reuse  []provenance.Reuse  `json:"reuse" yaml:"reuse"`

	// Preliminary describes the table after the exclusion criteria, before
	// the stricter acceptance stages. Final describes the surviving table.
	Preliminary Statistics `json:"preliminary" yaml:"preliminary"`
	Final       Statistics `json:"final" yaml:"final"`

	Table []Row `json:"table" yaml:"table"`
}

// Statistics holds the descriptive statistics of one snapshot.
type Statistics struct {
	Stage            string                    `json:"stage" yaml:"stage"`
	Papers           int                       `json:"papers" yaml:"papers"`
	Tasks            []aggregate.Count         `json:"tasks" yaml:"tasks"`
	Platforms        []aggregate.Count         `json:"platforms" yaml:"platforms"`
	AnnotationStyles []aggregate.Count         `json:"annotation_styles" yaml:"annotation_styles"`
	Languages        []aggregate.Count         `json:"languages" yaml:"languages"`
	Availability     []aggregate.Count         `json:"availability" yaml:"availability"`
	Levels           []aggregate.Count         `json:"levels" yaml:"levels"`
	Years            []aggregate.Count         `json:"years" yaml:"years"`
	Sizes            []aggregate.GroupSummary  `json:"sizes" yaml:"sizes"`
	Clinical         []aggregate.ClinicalPaper `json:"clinical" yaml:"clinical"`
}

// Row is one display line of the final dataset table.
type Row struct {
	PaperID      int    `json:"paper_id" yaml:"paper_id"`
	Year         int    `json:"year" yaml:"year"`
	Reference    string `json:"reference" yaml:"reference"`
	Platforms    string `json:"platforms" yaml:"platforms"`
	Tasks        string `json:"tasks" yaml:"tasks"`
	Level        string `json:"level" yaml:"level"`
	Individuals  string `json:"individuals" yaml:"individuals"`
	Documents    string `json:"documents" yaml:"documents"`
	Availability string `json:"availability" yaml:"availability"`
}

// Input carries what Build needs from a run.
type Input struct {
	GeneratedAt time.Time
	Source      string

	// Papers is the provenance-resolved table the pipeline ran on.
	Papers []types.Paper
	Result filter.Result
	Filter types.FilterConfig
}

// Build assembles the report of one run.
func Build(in Input) Report {
	r := Report{
		GeneratedAt: in.GeneratedAt,
		Input:       in.Source,
		Funnel:      in.Result.Funnel,
		Reuse:       provenance.ReuseCounts(in.Papers),
	}

	preliminary := filter.StageExclusion
	if _, ok := in.Result.Snapshot(preliminary); !ok && len(in.Result.Funnel) > 0 {
		preliminary = in.Result.Funnel[len(in.Result.Funnel)-1].Stage
	}
	prelimPapers, _ := in.Result.Snapshot(preliminary)
	r.Preliminary = Summarize(preliminary, prelimPapers, in.Filter)

	final := in.Result.Final()
	finalStage := ""
	if len(in.Result.Funnel) > 0 {
		finalStage = in.Result.Funnel[len(in.Result.Funnel)-1].Stage
	}
	r.Final = Summarize(finalStage, final, in.Filter)
	r.Table = Table(final, in.Filter)
	return r
}

// Summarize computes the statistics of one snapshot. Blocklisted tags are
// left out of the tag frequencies.
func Summarize(stage string, papers []types.Paper, cfg types.FilterConfig) Statistics {
	return Statistics{
		Stage:            stage,
		Papers:           len(papers),
		Tasks:            aggregate.TagFrequency(papers, types.FieldTasks, cfg.ExcludedTasks),
		Platforms:        aggregate.TagFrequency(papers, types.FieldPlatforms, cfg.ExcludedPlatforms),
		AnnotationStyles: aggregate.TagFrequency(papers, types.FieldAnnotationStyle, nil),
		Languages:        aggregate.LanguageDistribution(papers),
		Availability:     aggregate.AvailabilityDistribution(papers),
		Levels:           aggregate.LevelDistribution(papers),
		Years:            aggregate.YearDistribution(papers),
		Sizes:            aggregate.GroupedSummary(papers, aggregate.DefaultColumns(), cfg.RelevantSizeLabels),
		Clinical:         aggregate.ClinicalAvailability(papers, cfg.ClinicalStyles),
	}
}

// Table renders papers as display rows, oldest first.
func Table(papers []types.Paper, cfg types.FilterConfig) []Row {
	drop := make(map[string]bool, len(cfg.ExcludedTasks))
	for _, t := range cfg.ExcludedTasks {
		drop[t] = true
	}

	sorted := make([]types.Paper, len(papers))
	copy(sorted, papers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	rows := make([]Row, len(sorted))
	for i, p := range sorted {
		rows[i] = Row{
			PaperID:      p.ID,
			Year:         p.Year,
			Reference:    p.Title + " " + Reference(p.Authors, p.Year),
			Platforms:    Platforms(p.Platforms),
			Tasks:        Tasks(p.Tasks, drop),
			Level:        LevelAbbreviation(p.AnnotationLevel),
			Individuals:  Thousands(aggregate.AllTotal(p.NIndividuals)),
			Documents:    Thousands(aggregate.AllTotal(p.NDocuments)),
			Availability: ShortAvailability(p.Availability),
		}
	}
	return rows
}
