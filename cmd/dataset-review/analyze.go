// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-review/internal/filter"
	"github.com/pdiddy/dataset-review/internal/load"
	"github.com/pdiddy/dataset-review/internal/logging"
	"github.com/pdiddy/dataset-review/internal/normalize"
	"github.com/pdiddy/dataset-review/internal/provenance"
	"github.com/pdiddy/dataset-review/internal/report"
	"github.com/pdiddy/dataset-review/internal/store"
	"github.com/pdiddy/dataset-review/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Normalize the source table, run the inclusion funnel and report",
	Long: `Analyze loads the curated spreadsheet (.xlsx or .csv, local or http(s)),
normalizes every row, drops papers published in or after --max-year, resolves
dataset provenance and applies the inclusion funnel.

The report (funnel, dataset reuse, descriptive statistics and the final table)
is written to the report directory and summarized on stdout. The run is
recorded in the history database unless --no-store is given.`,
	RunE: runAnalyze,
}

func init() {
	defaults := types.DefaultPipelineConfig()

	analyzeCmd.Flags().Int("max-year", defaults.Input.MaxYear, "drop papers published in or after this year (0 disables)")
	analyzeCmd.Flags().StringSlice("accept-task", nil, "keep only datasets with one of these tasks")
	analyzeCmd.Flags().StringSlice("accept-language", nil, "keep only datasets in one of these languages")
	analyzeCmd.Flags().String("output-dir", defaults.Report.OutputDir, "directory for the exported report")
	analyzeCmd.Flags().String("format", string(defaults.Report.Format), "report format (yaml, json, markdown)")
	analyzeCmd.Flags().Bool("no-store", false, "do not record the run in the history database")
	analyzeCmd.Flags().Bool("quiet", false, "skip the text summary on stdout")

	bindFlag("input.max_year", analyzeCmd.Flags().Lookup("max-year"))
	bindFlag("filter.accepted_tasks", analyzeCmd.Flags().Lookup("accept-task"))
	bindFlag("filter.accepted_languages", analyzeCmd.Flags().Lookup("accept-language"))
	bindFlag("report.output_dir", analyzeCmd.Flags().Lookup("output-dir"))
	bindFlag("report.format", analyzeCmd.Flags().Lookup("format"))

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	noStore, _ := cmd.Flags().GetBool("no-store")
	quiet, _ := cmd.Flags().GetBool("quiet")

	ctx := context.Background()
	cfg := pipelineCfg
	started := time.Now()

	rows, err := load.Open(ctx, cfg.Input, logger)
	if err != nil {
		return err
	}

	papers, err := normalize.Table(rows)
	if err != nil {
		logNormalizeError(err)
		return err
	}
	logger.Info().Int("papers", len(papers)).Msg("normalized source table")

	if cfg.Input.MaxYear > 0 {
		before := len(papers)
		papers = normalize.BeforeYear(papers, cfg.Input.MaxYear)
		logger.Info().
			Int("max_year", cfg.Input.MaxYear).
			Int("dropped", before-len(papers)).
			Msg("applied year cut-off")
	}
	papers = provenance.Resolve(papers)

	pl, err := filter.FromConfig(cfg.Filter)
	if err != nil {
		return fmt.Errorf("building filter pipeline: %w", err)
	}
	res := pl.Run(papers)
	for _, sc := range res.Funnel {
		logger.Info().Str("stage", sc.Stage).Int("papers", sc.Count).Msg("funnel stage")
	}

	rep := report.Build(report.Input{
		GeneratedAt: started,
		Source:      cfg.Input.Path,
		Papers:      papers,
		Result:      res,
		Filter:      cfg.Filter,
	})
	path, err := report.Export(cfg.Report, rep)
	if err != nil {
		return err
	}
	logger.Info().Str("path", path).Msg("wrote report")

	if !noStore {
		st, err := store.NewStore(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		runID, err := st.RecordRun(ctx, store.Run{
			StartedAt: started,
			Input:     cfg.Input.Path,
			Config:    cfg,
			Result:    res,
		})
		if err != nil {
			return err
		}
		runLogger := logging.WithRun(logger, runID, cfg.Input.Path)
		runLogger.Info().
			Int("final", len(res.Final())).
			Dur("elapsed", time.Since(started)).
			Msg("recorded run")
	}

	if !quiet {
		report.WriteText(os.Stdout, rep)
	}
	return nil
}

// logNormalizeError adds the failing row to the log before the error is
// returned to cobra.
func logNormalizeError(err error) {
	var dup *normalize.DuplicateIDError
	if errors.As(err, &dup) {
		paperLogger := logging.WithPaper(logger, dup.ID, dup.Line)
		paperLogger.Error().
			Int("first_row", dup.FirstLine).
			Msg("duplicate paper id")
		return
	}
	var rowErr *normalize.RowError
	if errors.As(err, &rowErr) {
		logger.Error().
			Int("row", rowErr.Line).
			Str("paper_id", rowErr.PaperID).
			Str("column", rowErr.Column).
			Err(rowErr.Err).
			Msg("normalization failed")
	}
}
