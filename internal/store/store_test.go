// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/dataset-review/internal/filter"
	"github.com/pdiddy/dataset-review/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{Dir: t.TempDir(), MaxResults: 20})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func samplePapers() []types.Paper {
	return []types.Paper{
		{
			ID: 1, Title: "Depression On Twitter", Authors: []string{"Smith", "Jones"},
			Year: 2015, PrimaryLanguage: "English", SourceIDs: []int{1},
			Tasks:           types.NewTags("depression", "sentiment"),
			Platforms:       types.NewTags("twitter"),
			AnnotationStyle: types.NewTags("manual"),
			AnnotationLevel: types.LevelIndividual,
			Availability:    types.AvailabilityDownload,
			NIndividuals:    types.NewSize(map[string]float64{"depression": 400, "control": 600}),
			NDocuments:      types.SizeField{Kind: types.NotApplicable},
		},
		{
			ID: 2, Title: "Reused", SourceIDs: []int{1},
			Tasks:        types.NewTags("depression"),
			Platforms:    types.NewTags("twitter"),
			Availability: types.AvailabilityUnknown,
		},
		{
			ID: 3, Title: "Unannotated", SourceIDs: []int{3},
			Tasks:        types.NATags(),
			Platforms:    types.NATags(),
			Availability: types.AvailabilityUnknown,
		},
	}
}

func recordSample(t *testing.T, s *Store) (int64, filter.Result) {
	t.Helper()
	pl, err := filter.New(filter.StageInitial,
		filter.KeepOriginal(filter.StageOriginal),
		filter.RequireAnnotation(filter.StageAnnotated),
		filter.ExcludeAll(filter.StageExclusion, types.FieldTasks, []string{"sentiment"}, true),
	)
	require.NoError(t, err)
	res := pl.Run(samplePapers())

	id, err := s.RecordRun(context.Background(), Run{
		StartedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Input:     "sources.xlsx",
		Config:    types.DefaultPipelineConfig(),
		Result:    res,
	})
	require.NoError(t, err)
	return id, res
}

// --- tests ---

func TestRecordRunFunnel(t *testing.T) {
	s := testStore(t)
	id, res := recordSample(t, s)

	funnel, err := s.Funnel(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, res.Funnel, funnel)
	assert.Equal(t, []filter.StageCount{
		{Stage: filter.StageInitial, Count: 3},
		{Stage: filter.StageOriginal, Count: 2},
		{Stage: filter.StageAnnotated, Count: 1},
		{Stage: filter.StageExclusion, Count: 1},
	}, funnel)
}

func TestPapersRoundTrip(t *testing.T) {
	s := testStore(t)
	id, _ := recordSample(t, s)

	papers, err := s.Papers(context.Background(), PaperQuery{RunID: id})
	require.NoError(t, err)
	require.Len(t, papers, 3)

	first := papers[0]
	assert.Equal(t, filter.StageExclusion, first.Stage)
	assert.Equal(t, []string{"Smith", "Jones"}, first.Authors)
	assert.Equal(t, []int{1}, first.SourceIDs)
	// The sample papers are unresolved; the stored flag comes from the sources.
	assert.True(t, first.Original)
	// Pruned form of the last surviving stage.
	assert.Equal(t, []string{"depression"}, first.Tasks.Tags())
	assert.Equal(t, types.NotApplicable, first.NDocuments.Kind)
	assert.Equal(t, types.Absent, first.NConversations.Kind)
	assert.Equal(t, 600.0, first.NIndividuals.Counts["control"])
	assert.Equal(t, types.LevelIndividual, first.AnnotationLevel)

	assert.Equal(t, filter.StageInitial, papers[1].Stage)
	assert.False(t, papers[1].Original)

	assert.Equal(t, filter.StageOriginal, papers[2].Stage)
	assert.Equal(t, types.NotApplicable, papers[2].Tasks.Kind)
}

func TestPapersFilters(t *testing.T) {
	s := testStore(t)
	id, _ := recordSample(t, s)
	ctx := context.Background()

	tests := []struct {
		name string
		q    PaperQuery
		want []int
	}{
		{"stage", PaperQuery{RunID: id, Stage: filter.StageOriginal}, []int{1, 3}},
		{"final stage", PaperQuery{RunID: id, Stage: filter.StageExclusion}, []int{1}},
		{"task", PaperQuery{RunID: id, Task: "depression"}, []int{1, 2}},
		{"platform", PaperQuery{RunID: id, Platform: "twitter"}, []int{1, 2}},
		{"language", PaperQuery{RunID: id, Language: "English"}, []int{1}},
		{"availability", PaperQuery{RunID: id, Availability: types.AvailabilityUnknown}, []int{2, 3}},
		{"limit", PaperQuery{RunID: id, MaxResults: 1}, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			papers, err := s.Papers(ctx, tt.q)
			require.NoError(t, err)
			var got []int
			for _, p := range papers {
				got = append(got, p.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPapersUnknownStage(t *testing.T) {
	s := testStore(t)
	id, _ := recordSample(t, s)

	_, err := s.Papers(context.Background(), PaperQuery{RunID: id, Stage: "no_such_stage"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `stage "no_such_stage" not found`)
}

func TestPapersCorruptColumn(t *testing.T) {
	s := testStore(t)
	id, _ := recordSample(t, s)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `UPDATE papers SET authors = '{bad' WHERE run_id = ? AND paper_id = 1`, id)
	require.NoError(t, err)

	_, err = s.Papers(ctx, PaperQuery{RunID: id})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding authors of paper 1")
}

func TestListRunsAndDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.LatestRunID(ctx)
	assert.Error(t, err)

	first, _ := recordSample(t, s)
	second, _ := recordSample(t, s)

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, "sources.xlsx", runs[0].Input)
	assert.Equal(t, 3, runs[0].Initial)
	assert.Equal(t, 1, runs[0].Final)
	assert.Equal(t, 2026, runs[0].StartedAt.Year())

	latest, err := s.LatestRunID(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, latest)

	require.NoError(t, s.Delete(ctx, first))
	assert.Error(t, s.Delete(ctx, first))

	_, err = s.Funnel(ctx, first)
	assert.Error(t, err)
	papers, err := s.Papers(ctx, PaperQuery{RunID: first})
	require.NoError(t, err)
	assert.Empty(t, papers)
}

func TestReopenKeepsHistory(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(types.StoreConfig{Dir: dir})
	require.NoError(t, err)
	id, _ := recordSample(t, s)
	require.NoError(t, s.Close())

	s2, err := NewStore(types.StoreConfig{Dir: dir})
	require.NoError(t, err)
	defer s2.Close()

	funnel, err := s2.Funnel(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, funnel, 4)
}
