// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-review/internal/normalize"
	"github.com/pdiddy/dataset-review/internal/report"
	"github.com/pdiddy/dataset-review/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the run history (list, funnel, papers, delete)",
	Long: `Runs queries the SQLite history written by analyze. Every run keeps its
configuration, its funnel and every paper with the last stage it survived.`,
}

// --- list subcommand ---

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, most recent first",
	RunE:  runRunsList,
}

func runRunsList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	st, err := store.NewStore(pipelineCfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(context.Background(), limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(runs)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-20s  %7s  %7s  %s\n", "ID", "Started", "Initial", "Final", "Input")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-6d  %-20s  %7d  %7d  %s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Initial, r.Final, r.Input)
	}
	return nil
}

// --- funnel subcommand ---

var runsFunnelCmd = &cobra.Command{
	Use:   "funnel [run-id]",
	Short: "Show the funnel of a run (default: latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRunsFunnel,
}

func runRunsFunnel(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	ctx := context.Background()

	st, err := store.NewStore(pipelineCfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	runID, err := resolveRunID(ctx, st, args)
	if err != nil {
		return err
	}
	funnel, err := st.Funnel(ctx, runID)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(funnel)
	}
	report.WriteText(os.Stdout, report.Report{Funnel: funnel})
	return nil
}

// --- papers subcommand ---

var runsPapersCmd = &cobra.Command{
	Use:   "papers [run-id]",
	Short: "List the papers of a run with structured filters",
	Long: `Papers lists the stored papers of a run (default: latest). Use --stage to
keep papers that survived a funnel stage, and --task, --platform, --language
or --availability to filter further.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRunsPapers,
}

func runRunsPapers(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, err := store.NewStore(pipelineCfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	runID, err := resolveRunID(ctx, st, args)
	if err != nil {
		return err
	}

	q, err := paperQueryFromFlags(cmd, runID)
	if err != nil {
		return err
	}
	papers, err := st.Papers(ctx, q)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatPapersOutput(papers, jsonOutput)
}

func paperQueryFromFlags(cmd *cobra.Command, runID int64) (store.PaperQuery, error) {
	stage, _ := cmd.Flags().GetString("stage")
	task, _ := cmd.Flags().GetString("task")
	platform, _ := cmd.Flags().GetString("platform")
	language, _ := cmd.Flags().GetString("language")
	availability, _ := cmd.Flags().GetString("availability")
	limit, _ := cmd.Flags().GetInt("limit")

	q := store.PaperQuery{
		RunID:      runID,
		Stage:      stage,
		Task:       task,
		Platform:   platform,
		MaxResults: limit,
	}
	if language != "" {
		q.Language = normalize.Title(language)
	}
	if availability != "" {
		a, err := normalize.AvailabilityClass(availability)
		if err != nil {
			return q, err
		}
		q.Availability = a
	}
	return q, nil
}

func formatPapersOutput(papers []store.StoredPaper, jsonOutput bool) error {
	if jsonOutput {
		type row struct {
			store.StoredPaper
			Tasks     string `json:"tasks"`
			Platforms string `json:"platforms"`
		}
		rows := make([]row, len(papers))
		for i, p := range papers {
			rows[i] = row{StoredPaper: p, Tasks: normalize.JoinTags(p.Tasks), Platforms: normalize.JoinTags(p.Platforms)}
		}
		return writeJSON(rows)
	}

	if len(papers) == 0 {
		fmt.Println("No papers found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-4s  %-40s  %-24s  %-20s  %s\n",
		"ID", "Year", "Title", "Tasks", "Platforms", "Stage")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 130))
	for _, p := range papers {
		fmt.Fprintf(os.Stdout, "%-6d  %-4d  %-40s  %-24s  %-20s  %s\n",
			p.ID, p.Year, clip(p.Title, 40), clip(normalize.JoinTags(p.Tasks), 24),
			clip(normalize.JoinTags(p.Platforms), 20), p.Stage)
	}
	fmt.Fprintf(os.Stdout, "\n%d papers\n", len(papers))
	return nil
}

// --- delete subcommand ---

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a run from the history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run id %q: %w", args[0], err)
		}
		st, err := store.NewStore(pipelineCfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Delete(context.Background(), runID); err != nil {
			return err
		}
		logger.Info().Int64("run_id", runID).Msg("deleted run")
		return nil
	},
}

// --- shared helpers ---

func resolveRunID(ctx context.Context, st *store.Store, args []string) (int64, error) {
	if len(args) == 0 {
		return st.LatestRunID(ctx)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid run id %q: %w", args[0], err)
	}
	return id, nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	runsListCmd.Flags().Int("limit", 0, "maximum number of runs (default: store.max_results)")
	runsListCmd.Flags().Bool("json", false, "output as JSON")

	runsFunnelCmd.Flags().Bool("json", false, "output as JSON")

	runsPapersCmd.Flags().String("stage", "", "keep papers that survived this stage")
	runsPapersCmd.Flags().String("task", "", "filter by task tag")
	runsPapersCmd.Flags().String("platform", "", "filter by platform tag")
	runsPapersCmd.Flags().String("language", "", "filter by primary language")
	runsPapersCmd.Flags().String("availability", "", "filter by availability (label or raw token)")
	runsPapersCmd.Flags().Int("limit", 0, "maximum number of papers (default: store.max_results)")
	runsPapersCmd.Flags().Bool("json", false, "output as JSON")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsFunnelCmd)
	runsCmd.AddCommand(runsPapersCmd)
	runsCmd.AddCommand(runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}
