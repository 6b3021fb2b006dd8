// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dataset-review/internal/filter"
	"github.com/pdiddy/dataset-review/internal/provenance"
	"github.com/pdiddy/dataset-review/pkg/types"
)

// --- test helpers ---

func samplePapers() []types.Paper {
	return provenance.Resolve([]types.Paper{
		{
			ID: 1, Title: "Detecting Depression", Authors: []string{"Smith", "Jones", "Lee", "Park"},
			Year: 2017, PrimaryLanguage: "English", SourceIDs: []int{1},
			Tasks:           types.NewTags("depression", "ptsd", "sentiment"),
			Platforms:       types.NewTags("twitter", "reddit"),
			AnnotationStyle: types.NewTags("survey_(clinical)"),
			AnnotationLevel: types.LevelIndividual,
			Availability:    types.AvailabilityDownload,
			NIndividuals:    types.NewSize(map[string]float64{"depression": 1200, "control": 1500}),
		},
		{
			ID: 2, Title: "Reuse", Authors: []string{"Wu"}, Year: 2018, SourceIDs: []int{1},
			Tasks:        types.NewTags("depression"),
			Platforms:    types.NewTags("twitter"),
			Availability: types.AvailabilityDownload,
		},
		{
			ID: 3, Title: "Clinical Notes", Authors: []string{"Roe"}, Year: 2014,
			PrimaryLanguage: "English", SourceIDs: []int{3},
			Tasks:        types.NewTags("depression"),
			Platforms:    types.NewTags("ehr"),
			Availability: types.AvailabilityUnknown,
		},
		{
			ID: 4, Title: "Self Harm Posts", Authors: []string{"Ng", "Ito"}, Year: 2015,
			PrimaryLanguage: "English", SourceIDs: []int{4},
			Tasks:           types.NewTags("self_harm"),
			Platforms:       types.NewTags("tumblr"),
			AnnotationLevel: types.LevelDocument,
			Availability:    types.AvailabilityUnknown,
			NDocuments:      types.NewSize(map[string]float64{"self_harm": 300}),
		},
	})
}

func sampleReport(t *testing.T) Report {
	t.Helper()
	cfg := types.DefaultPipelineConfig().Filter
	pl, err := filter.FromConfig(cfg)
	require.NoError(t, err)

	papers := samplePapers()
	return Build(Input{
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Source:      "sources.xlsx",
		Papers:      papers,
		Result:      pl.Run(papers),
		Filter:      cfg,
	})
}

// --- display helpers ---

func TestCleanTaskName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"ptsd", "PTSD"},
		{"adhd", "ADHD"},
		{"mental_health_(combined)", "Mental Health Disorder (General)"},
		{"rape_(survivor)", "Trauma (Rape Survivor)"},
		{"suicide_(ideation)", "Suicide (Ideation)"},
		{"self_harm", "Self Harm"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanTaskName(tt.in), tt.in)
	}
}

func TestTasksAbbreviates(t *testing.T) {
	f := types.NewTags("depression", "suicide_(ideation)", "sentiment", "gambling")
	drop := map[string]bool{"sentiment": true}
	assert.Equal(t, "DEP, Gambling, SI", Tasks(f, drop))
	assert.Empty(t, Tasks(types.NATags(), nil))
}

func TestPlatforms(t *testing.T) {
	assert.Equal(t, "Reddit, Social Media", Platforms(types.NewTags("social_media", "reddit")))
	assert.Empty(t, Platforms(types.TagField{}))
}

func TestShortAvailability(t *testing.T) {
	assert.Equal(t, "No Restrictions", ShortAvailability(types.AvailabilityDownload))
	assert.Equal(t, "Unknown", ShortAvailability(types.AvailabilityUnknown))
}

func TestReference(t *testing.T) {
	tests := []struct {
		authors []string
		year    int
		want    string
	}{
		{[]string{"Smith"}, 2019, "Smith (2019)"},
		{[]string{"Smith", "Jones"}, 2019, "Smith & Jones (2019)"},
		{[]string{"Smith", "Jones", "Lee"}, 2019, "Smith, Jones, & Lee (2019)"},
		{[]string{"Smith", "Jones", "Lee", "Park"}, 2019, "Smith et al. (2019)"},
		{nil, 2019, "(2019)"},
		{[]string{"Smith"}, 0, "Smith (n.d.)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Reference(tt.authors, tt.year))
	}
}

func TestLevelAbbreviation(t *testing.T) {
	assert.Equal(t, "Doc.", LevelAbbreviation(types.LevelDocument))
	assert.Equal(t, "Ind.", LevelAbbreviation(types.LevelIndividual))
	assert.Empty(t, LevelAbbreviation(""))
}

func TestThousands(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{5700, "5,700"},
		{1234567, "1,234,567"},
		{-12000, "-12,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Thousands(tt.v, true))
	}
	assert.Empty(t, Thousands(42, false))
}

// --- report ---

func TestBuild(t *testing.T) {
	r := sampleReport(t)

	assert.Equal(t, "sources.xlsx", r.Input)
	require.NotEmpty(t, r.Funnel)
	assert.Equal(t, filter.StageCount{Stage: filter.StageInitial, Count: 4}, r.Funnel[0])

	require.Len(t, r.Reuse, 1)
	assert.Equal(t, provenance.Reuse{SourceID: 1, Title: "Detecting Depression", Papers: 1}, r.Reuse[0])

	assert.Equal(t, filter.StageExclusion, r.Preliminary.Stage)
	assert.Equal(t, 2, r.Preliminary.Papers)
	for _, c := range r.Preliminary.Tasks {
		assert.NotEqual(t, "sentiment", c.Value)
	}
	require.Len(t, r.Preliminary.Clinical, 1)
	assert.Equal(t, 1, r.Preliminary.Clinical[0].ID)

	assert.Equal(t, filter.StageAvailable, r.Final.Stage)
	assert.Equal(t, 1, r.Final.Papers)
	require.Len(t, r.Table, 1)
	assert.Equal(t, Row{
		PaperID:      1,
		Year:         2017,
		Reference:    "Detecting Depression Smith et al. (2017)",
		Platforms:    "Reddit, Twitter",
		Tasks:        "DEP, PTSD",
		Level:        "Ind.",
		Individuals:  "2,700",
		Documents:    "",
		Availability: "No Restrictions",
	}, r.Table[0])
}

func TestTableSortsByYear(t *testing.T) {
	rows := Table(samplePapers(), types.FilterConfig{})
	var years []int
	for _, r := range rows {
		years = append(years, r.Year)
	}
	assert.Equal(t, []int{2014, 2015, 2017, 2018}, years)
}

func TestExport(t *testing.T) {
	r := sampleReport(t)
	dir := filepath.Join(t.TempDir(), "reports")

	path, err := Export(types.ReportConfig{OutputDir: dir, Format: types.OutputYAML}, r)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.yaml"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, "sources.xlsx", fromYAML["input"])

	path, err = Export(types.ReportConfig{OutputDir: dir, Format: types.OutputJSON}, r)
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	var fromJSON Report
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, r.Funnel, fromJSON.Funnel)
	assert.Equal(t, r.Table, fromJSON.Table)

	path, err = Export(types.ReportConfig{OutputDir: dir, Format: types.OutputMarkdown}, r)
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "**Last Update**: 2026-01-02")
	assert.Contains(t, string(data), "| Detecting Depression Smith et al. (2017) | Reddit, Twitter | DEP, PTSD | Ind. | 2,700 |  | No Restrictions |")

	_, err = Export(types.ReportConfig{OutputDir: dir, Format: "xml"}, r)
	assert.Error(t, err)
}

func TestMarkdownCellEscapes(t *testing.T) {
	assert.Equal(t, "a<br/>b \\| c", mdCell(" a\nb | c "))
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, sampleReport(t))
	out := buf.String()

	assert.Contains(t, out, "initial_search")
	assert.Contains(t, out, "Most reused datasets")
	assert.Contains(t, out, "Detecting Depression Smith et al. (2017)")
	assert.Contains(t, out, "1 datasets")

	buf.Reset()
	WriteText(&buf, Report{})
	assert.Contains(t, buf.String(), "No datasets survived filtering.")
}
