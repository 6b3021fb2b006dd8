// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-review/internal/aggregate"
	"github.com/pdiddy/dataset-review/internal/load"
	"github.com/pdiddy/dataset-review/internal/normalize"
	"github.com/pdiddy/dataset-review/pkg/types"
)

var vocabularyCmd = &cobra.Command{
	Use:   "vocabulary <tasks|platforms|annotation_style>",
	Short: "List the tags observed in one column of the source table",
	Long: `Vocabulary normalizes the source table and prints every tag observed in
the given column with the number of papers carrying it, least frequent first.
No filtering is applied; use it to curate the block- and allow-lists.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(types.FieldTasks), string(types.FieldPlatforms), string(types.FieldAnnotationStyle)},
	RunE:      runVocabulary,
}

func init() {
	vocabularyCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(vocabularyCmd)
}

func runVocabulary(cmd *cobra.Command, args []string) error {
	field := types.TagFieldName(args[0])
	switch field {
	case types.FieldTasks, types.FieldPlatforms, types.FieldAnnotationStyle:
	default:
		return fmt.Errorf("unknown tag column %q", args[0])
	}

	rows, err := load.Open(context.Background(), pipelineCfg.Input, logger)
	if err != nil {
		return err
	}
	papers, err := normalize.Table(rows)
	if err != nil {
		logNormalizeError(err)
		return err
	}

	counts := aggregate.TagFrequency(papers, field, nil)
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(counts)
	}
	if len(counts) == 0 {
		fmt.Println("No tags found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-40s  %s\n", "Tag", "Papers")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 50))
	for _, c := range counts {
		fmt.Fprintf(os.Stdout, "%-40s  %d\n", c.Value, c.Count)
	}
	fmt.Fprintf(os.Stdout, "\n%d tags over %d papers\n", len(counts), len(papers))
	return nil
}
