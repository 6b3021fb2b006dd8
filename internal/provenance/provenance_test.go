// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provenance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/dataset-review/pkg/types"
)

func TestIsOriginal(t *testing.T) {
	tests := []struct {
		name    string
		id      int
		sources []int
		want    bool
	}{
		{"self only", 4, []int{4}, true},
		{"self among others", 4, []int{1, 4}, true},
		{"reuses another dataset", 4, []int{1}, false},
		{"reuses several datasets", 4, []int{1, 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOriginal(types.Paper{ID: tt.id, SourceIDs: tt.sources}))
		})
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	in := []types.Paper{
		{ID: 1, SourceIDs: []int{1}},
		{ID: 2, SourceIDs: []int{1}},
	}
	out := Resolve(in)

	require.Len(t, out, 2)
	assert.True(t, out[0].Original)
	assert.False(t, out[1].Original)
	assert.False(t, in[0].Original)
}

func TestReuseCounts(t *testing.T) {
	papers := []types.Paper{
		{ID: 1, Title: "CLPsych 2015 Shared Task", SourceIDs: []int{1}},
		{ID: 2, Title: "RSDD", SourceIDs: []int{2}},
		{ID: 3, SourceIDs: []int{1}},
		{ID: 4, SourceIDs: []int{1, 1}},
		{ID: 5, SourceIDs: []int{2, 1}},
		{ID: 6, SourceIDs: []int{99}},
	}

	got := ReuseCounts(papers)
	assert.Equal(t, []Reuse{
		{SourceID: 1, Title: "CLPsych 2015 Shared Task", Papers: 3},
		{SourceID: 2, Title: "RSDD", Papers: 1},
		{SourceID: 99, Papers: 1},
	}, got)
}

func TestReuseCountsEmpty(t *testing.T) {
	assert.Empty(t, ReuseCounts(nil))
}
