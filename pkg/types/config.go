package types

import "time"

// InputConfig holds settings for loading the source spreadsheet.
type InputConfig struct {
	// Path is a local .xlsx/.csv file or an http(s) URL to one.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Sheet selects the worksheet of an .xlsx file. Empty uses the first sheet.
	Sheet string `json:"sheet,omitempty" yaml:"sheet,omitempty" mapstructure:"sheet"`

	// MaxYear drops papers published in or after this year before filtering.
	// Zero disables the cut-off.
	MaxYear int `json:"max_year" yaml:"max_year" mapstructure:"max_year"`

	// Timeout bounds a remote download.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// MaxRetries is the retry budget for rate-limited downloads (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// FilterConfig holds the block- and allow-lists that drive the filter pipeline.
// Empty allow-lists disable the corresponding stricter stage.
type FilterConfig struct {
	ExcludedPlatforms []string `json:"excluded_platforms" yaml:"excluded_platforms" mapstructure:"excluded_platforms"`
	ExcludedTasks     []string `json:"excluded_tasks" yaml:"excluded_tasks" mapstructure:"excluded_tasks"`

	// PruneExcluded removes blocklisted tags from surviving rows.
	PruneExcluded bool `json:"prune_excluded" yaml:"prune_excluded" mapstructure:"prune_excluded"`

	AcceptedTasks        []string `json:"accepted_tasks,omitempty" yaml:"accepted_tasks,omitempty" mapstructure:"accepted_tasks"`
	AcceptedLanguages    []string `json:"accepted_languages,omitempty" yaml:"accepted_languages,omitempty" mapstructure:"accepted_languages"`
	AcceptedAvailability []string `json:"accepted_availability,omitempty" yaml:"accepted_availability,omitempty" mapstructure:"accepted_availability"`

	// RelevantSizeLabels are the sub-populations summed into the relevant totals.
	RelevantSizeLabels []string `json:"relevant_size_labels" yaml:"relevant_size_labels" mapstructure:"relevant_size_labels"`

	// ClinicalStyles are the annotation styles reported in the clinical availability table.
	ClinicalStyles []string `json:"clinical_styles" yaml:"clinical_styles" mapstructure:"clinical_styles"`
}

// StoreConfig holds settings for the SQLite run history.
type StoreConfig struct {
	// Dir is the directory holding the database file.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults bounds list queries (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// OutputFormat selects the report export format.
type OutputFormat string

const (
	OutputYAML     OutputFormat = "yaml"
	OutputJSON     OutputFormat = "json"
	OutputMarkdown OutputFormat = "markdown"
)

// ReportConfig holds settings for report export.
type ReportConfig struct {
	// OutputDir is where report files are written.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is json or console.
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// Output is stdout or stderr.
	Output string `json:"output" yaml:"output" mapstructure:"output"`
}

// PipelineConfig groups all stage configurations for one run.
type PipelineConfig struct {
	Input   InputConfig   `json:"input" yaml:"input" mapstructure:"input"`
	Filter  FilterConfig  `json:"filter" yaml:"filter" mapstructure:"filter"`
	Store   StoreConfig   `json:"store" yaml:"store" mapstructure:"store"`
	Report  ReportConfig  `json:"report" yaml:"report" mapstructure:"report"`
	Logging LoggingConfig `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// DefaultPipelineConfig returns the review's published inclusion criteria.
// The stricter stage keeps only datasets that can be obtained.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Input: InputConfig{
			Path:       "supplemental_data/data_sources_standardized.xlsx",
			MaxYear:    2020,
			Timeout:    30 * time.Second,
			MaxRetries: 5,
		},
		Filter: FilterConfig{
			ExcludedPlatforms: []string{
				"ehr",
				"death_row_last_statements",
				"doctor_patient_conversation",
				"interview",
				"phone",
				"ecological_momentary_assessments",
				"essays",
			},
			ExcludedTasks: []string{
				"counseling_outcome",
				"cyberbullying",
				"imminent_death",
				"depression_(diagnoses_date)",
				"psychiatric_(concepts)",
				"psychiatric_(readmission)",
				"sentiment",
				"aggression",
				"breast_cancer",
				"ehr_categories",
				"life_satisfaction",
				"relationships",
			},
			PruneExcluded: true,
			AcceptedAvailability: []string{
				string(AvailabilitySignedAgreement),
				string(AvailabilityAPI),
				string(AvailabilityAuthorContact),
				string(AvailabilityDownload),
			},
			RelevantSizeLabels: []string{
				"combined",
				"control",
				"depression",
				"depression_(low-mild)",
				"depression_(high)",
				"mental_health_(combined)",
				"increase_activity",
				"constant_activity",
				"decrease_activity",
				"suicide_(ideation)",
				"suicide_(attempt)",
			},
			ClinicalStyles: []string{"clinical_diagnoses", "survey_(clinical)"},
		},
		Store: StoreConfig{
			Dir:        "output/index",
			MaxResults: 20,
		},
		Report: ReportConfig{
			OutputDir: "output/reports",
			Format:    OutputYAML,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}
