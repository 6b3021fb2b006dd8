//go:build mage

// Package main contains Mage build targets for dataset-review developer tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the pipeline expects.
var projectDirs = []string{
	"supplemental_data",
	"output/index",
	"output/reports",
}

// Init creates the project directory structure for the pipeline.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "dataset-review"
	cmdPkg  = "./cmd/dataset-review"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests of every package.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Analyze builds the CLI and runs the review pipeline with the default
// configuration.
func Analyze() error {
	mg.Deps(Init, Build)
	return sh.RunV(filepath.Join(binDir, binName), "analyze")
}

// Clean removes the binary and generated outputs.
func Clean() error {
	for _, dir := range []string{binDir, "output"} {
		if err := sh.Rm(dir); err != nil {
			return fmt.Errorf("removing %s: %w", dir, err)
		}
	}
	fmt.Println("Cleaned bin/ and output/.")
	return nil
}

// packageStats holds the non-blank Go line counts of one package directory.
type packageStats struct {
	prod, test int
}

// Stats prints non-blank Go line counts per package, split into production
// and test code.
func Stats() error {
	stats, err := countPackageLines(".")
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(stats))
	for dir := range stats {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var total packageStats
	fmt.Printf("%-30s  %6s  %6s\n", "Package", "Prod", "Test")
	for _, dir := range dirs {
		s := stats[dir]
		fmt.Printf("%-30s  %6d  %6d\n", dir, s.prod, s.test)
		total.prod += s.prod
		total.test += s.test
	}
	fmt.Printf("%-30s  %6d  %6d\n", "total", total.prod, total.test)
	return nil
}

// countPackageLines walks root, skipping directories the go tool ignores,
// and counts non-blank lines of every .go file by directory.
func countPackageLines(root string) (map[string]packageStats, error) {
	stats := make(map[string]packageStats)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				n++
			}
		}
		dir := filepath.Dir(path)
		s := stats[dir]
		if strings.HasSuffix(path, "_test.go") {
			s.test += n
		} else {
			s.prod += n
		}
		stats[dir] = s
		return nil
	})
	return stats, err
}
