// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter narrows the normalized paper table through an ordered list
// of named stages and records how many papers survive each one.
//
// Every stage reads the previous stage's snapshot and produces a new one.
// Input slices and the papers in them are never modified.
package filter

import (
	"fmt"

	"github.com/pdiddy/dataset-review/internal/normalize"
	"github.com/pdiddy/dataset-review/pkg/types"
)

// Funnel labels used by the default pipeline.
const (
	StageInitial        = "initial_search"
	StageOriginal       = "unique_datasets_only"
	StageAnnotated      = "annotated"
	StagePlatforms      = "platform_exclusion"
	StageExclusion      = "apply_exclusion_criteria"
	StageTaskAccept     = "task_acceptance"
	StageLanguageAccept = "language_acceptance"
	StageKnownAvailable = "known_availability"
	StageAvailable      = "available"
)

// StageCount is one funnel entry: the number of papers left after a stage.
type StageCount struct {
	Stage string `json:"stage" yaml:"stage"`
	Count int    `json:"count" yaml:"count"`
}

// Pipeline is an ordered list of stages. Initial labels the unfiltered count.
type Pipeline struct {
	Initial string
	Stages  []Stage
}

// New builds a pipeline, rejecting unnamed stages, stages without a Keep
// predicate, and duplicate names.
func New(initial string, stages ...Stage) (Pipeline, error) {
	if initial == "" {
		return Pipeline{}, fmt.Errorf("initial stage name is empty")
	}
	seen := map[string]bool{initial: true}
	for i, s := range stages {
		if s.Name == "" {
			return Pipeline{}, fmt.Errorf("stage %d has no name", i)
		}
		if s.Keep == nil {
			return Pipeline{}, fmt.Errorf("stage %q has no predicate", s.Name)
		}
		if seen[s.Name] {
			return Pipeline{}, fmt.Errorf("duplicate stage name %q", s.Name)
		}
		seen[s.Name] = true
	}
	return Pipeline{Initial: initial, Stages: stages}, nil
}

// Result holds the funnel and the snapshot produced by every stage.
type Result struct {
	Funnel    []StageCount
	snapshots map[string][]types.Paper
}

// Snapshot returns the papers that survived the named stage, or false when
// no stage has that name.
func (r Result) Snapshot(name string) ([]types.Paper, bool) {
	s, ok := r.snapshots[name]
	return s, ok
}

// Final returns the papers that survived the last stage.
func (r Result) Final() []types.Paper {
	if len(r.Funnel) == 0 {
		return nil
	}
	return r.snapshots[r.Funnel[len(r.Funnel)-1].Stage]
}

// Run applies the stages in order. Counts are non-increasing along the funnel.
func (pl Pipeline) Run(papers []types.Paper) Result {
	current := make([]types.Paper, len(papers))
	copy(current, papers)

	res := Result{snapshots: make(map[string][]types.Paper, len(pl.Stages)+1)}
	res.record(pl.Initial, current)

	for _, s := range pl.Stages {
		next := make([]types.Paper, 0, len(current))
		for _, p := range current {
			if !s.Keep(p) {
				continue
			}
			if s.Prune != nil {
				p = s.Prune(p)
			}
			next = append(next, p)
		}
		current = next
		res.record(s.Name, current)
	}
	return res
}

func (r *Result) record(name string, papers []types.Paper) {
	r.snapshots[name] = papers
	r.Funnel = append(r.Funnel, StageCount{Stage: name, Count: len(papers)})
}

// FromConfig builds the review pipeline in its fixed order: originality,
// annotation presence, platform exclusion, task exclusion, then the stricter
// task, language and availability acceptance stages. A stricter stage is
// included only when its allow-list is non-empty. The known-availability
// stage precedes availability acceptance unless the allow-list accepts
// Unknown. Allowed availability values must belong to the closed vocabulary.
func FromConfig(cfg types.FilterConfig) (Pipeline, error) {
	stages := []Stage{
		KeepOriginal(StageOriginal),
		RequireAnnotation(StageAnnotated),
		ExcludeAll(StagePlatforms, types.FieldPlatforms, cfg.ExcludedPlatforms, cfg.PruneExcluded),
		ExcludeAll(StageExclusion, types.FieldTasks, cfg.ExcludedTasks, cfg.PruneExcluded),
	}

	if len(cfg.AcceptedTasks) > 0 {
		stages = append(stages, AcceptTasks(StageTaskAccept, cfg.AcceptedTasks))
	}
	if len(cfg.AcceptedLanguages) > 0 {
		stages = append(stages, AcceptLanguage(StageLanguageAccept, cfg.AcceptedLanguages))
	}
	if len(cfg.AcceptedAvailability) > 0 {
		allow := make([]types.Availability, 0, len(cfg.AcceptedAvailability))
		allowUnknown := false
		for _, raw := range cfg.AcceptedAvailability {
			a, err := normalize.AvailabilityClass(raw)
			if err != nil {
				return Pipeline{}, fmt.Errorf("accepted_availability: %w", err)
			}
			allowUnknown = allowUnknown || a == types.AvailabilityUnknown
			allow = append(allow, a)
		}
		// Narrowing to known availability would override an allow-list
		// that accepts Unknown.
		if !allowUnknown {
			stages = append(stages, KnownAvailability(StageKnownAvailable))
		}
		stages = append(stages, AcceptAvailability(StageAvailable, allow))
	}

	return New(StageInitial, stages...)
}
