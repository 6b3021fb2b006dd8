// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dataset-review/pkg/types"
)

const reportBase = "report"

// ExportYAML writes r to dir/report.yaml and returns the path.
func ExportYAML(dir string, r Report) (string, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeFile(dir, reportBase+".yaml", data)
}

// ExportJSON writes r to dir/report.json and returns the path.
func ExportJSON(dir string, r Report) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeFile(dir, reportBase+".json", data)
}

// ExportMarkdown writes the final table of r to dir/report.md and returns
// the path.
func ExportMarkdown(dir string, r Report) (string, error) {
	var b strings.Builder
	WriteMarkdown(&b, r)
	return writeFile(dir, reportBase+".md", []byte(b.String()))
}

// Export writes r in the configured format.
func Export(cfg types.ReportConfig, r Report) (string, error) {
	switch cfg.Format {
	case types.OutputJSON:
		return ExportJSON(cfg.OutputDir, r)
	case types.OutputMarkdown:
		return ExportMarkdown(cfg.OutputDir, r)
	case types.OutputYAML, "":
		return ExportYAML(cfg.OutputDir, r)
	default:
		return "", fmt.Errorf("unknown report format %q", cfg.Format)
	}
}

func writeFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// WriteText prints the funnel, the most reused datasets and the final table.
func WriteText(w io.Writer, r Report) {
	fmt.Fprintln(w, "Filter funnel")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	for _, sc := range r.Funnel {
		fmt.Fprintf(w, "%-30s  %6d\n", sc.Stage, sc.Count)
	}

	if len(r.Reuse) > 0 {
		fmt.Fprintln(w, "\nMost reused datasets")
		fmt.Fprintln(w, strings.Repeat("-", 70))
		for i, u := range r.Reuse {
			if i == 5 {
				break
			}
			fmt.Fprintf(w, "%-6d  %-50s  %4d\n", u.SourceID, truncate(u.Title, 50), u.Papers)
		}
	}

	fmt.Fprintln(w)
	if len(r.Table) == 0 {
		fmt.Fprintln(w, "No datasets survived filtering.")
		return
	}
	fmt.Fprintf(w, "%-50s  %-20s  %-16s  %-5s  %12s  %12s  %s\n",
		"Reference", "Platform(s)", "Task(s)", "Level", "# Individuals", "# Documents", "Availability")
	fmt.Fprintln(w, strings.Repeat("-", 140))
	for _, row := range r.Table {
		fmt.Fprintf(w, "%-50s  %-20s  %-16s  %-5s  %12s  %12s  %s\n",
			truncate(row.Reference, 50), truncate(row.Platforms, 20), truncate(row.Tasks, 16),
			row.Level, row.Individuals, row.Documents, row.Availability)
	}
	fmt.Fprintf(w, "\n%d datasets\n", len(r.Table))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// WriteMarkdown renders the final table as a pipe table.
func WriteMarkdown(w io.Writer, r Report) {
	fmt.Fprintln(w, "# Mental Health Datasets")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "**Last Update**: %s\n\n", r.GeneratedAt.Format("2006-01-02"))
	fmt.Fprintln(w, "| Reference | Platform(s) | Task(s) | Label Resolution | # Individuals | # Documents | Availability |")
	fmt.Fprintln(w, "|:--|:--|:--|:--|--:|--:|:--|")
	for _, row := range r.Table {
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s |\n",
			mdCell(row.Reference), mdCell(row.Platforms), mdCell(row.Tasks), row.Level,
			row.Individuals, row.Documents, mdCell(row.Availability))
	}
}

func mdCell(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\n", "<br/>")
	return strings.ReplaceAll(s, "|", "\\|")
}
