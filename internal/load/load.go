// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package load reads the curated source spreadsheet into raw rows. It
// accepts .xlsx and .csv files, locally or over http(s).
package load

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/dataset-review/internal/httputil"
	"github.com/pdiddy/dataset-review/pkg/types"
)

// Format identifies a spreadsheet encoding.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DetectFormat infers the format from a path or URL extension.
func DetectFormat(location string) (Format, error) {
	p := location
	if u, err := url.Parse(location); err == nil && isRemote(location) {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported spreadsheet %q: want .xlsx or .csv", location)
	}
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Open reads the spreadsheet named by cfg.Path and returns its rows.
func Open(ctx context.Context, cfg types.InputConfig, logger zerolog.Logger) ([]types.RawRow, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("no input spreadsheet configured")
	}
	format, err := DetectFormat(cfg.Path)
	if err != nil {
		return nil, err
	}

	var data []byte
	if isRemote(cfg.Path) {
		client := &http.Client{Timeout: cfg.Timeout}
		logger.Info().Str("url", cfg.Path).Msg("downloading spreadsheet")
		data, err = httputil.Download(ctx, client, cfg.Path, cfg.MaxRetries, logger)
	} else {
		data, err = os.ReadFile(cfg.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading spreadsheet: %w", err)
	}

	var rows []types.RawRow
	switch format {
	case FormatXLSX:
		rows, err = ReadXLSX(bytes.NewReader(data), cfg.Sheet)
	case FormatCSV:
		rows, err = ReadCSV(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", cfg.Path, err)
	}

	logger.Info().Str("format", string(format)).Int("rows", len(rows)).Msg("loaded spreadsheet")
	return rows, nil
}

// ReadXLSX reads the named worksheet, or the first one when sheet is empty.
func ReadXLSX(r io.Reader, sheet string) ([]types.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return fromRecords(records)
}

// ReadCSV reads a comma separated file with a header row.
func ReadCSV(r io.Reader) ([]types.RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return fromRecords(records)
}

// fromRecords keys every data row by the header. Cells are trimmed; an empty
// cell is missing. Blank rows are skipped.
func fromRecords(records [][]string) ([]types.RawRow, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	header := make([]string, len(records[0]))
	present := make(map[string]bool, len(header))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
		present[header[i]] = true
	}
	var missing []string
	for _, col := range types.RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	var rows []types.RawRow
	for i, rec := range records[1:] {
		row := types.RawRow{Line: i + 2, Cells: make(map[string]types.Cell, len(header))}
		blank := true
		for j, col := range header {
			if col == "" {
				continue
			}
			v := ""
			if j < len(rec) {
				v = strings.TrimSpace(rec[j])
			}
			if v == "" {
				row.Cells[col] = types.MissingCell()
				continue
			}
			blank = false
			row.Cells[col] = types.Val(v)
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
