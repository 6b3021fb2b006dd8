// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package load

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/dataset-review/pkg/types"
)

// --- test helpers ---

func header() []string {
	return append([]string(nil), types.RequiredColumns...)
}

func sampleRecords() [][]string {
	return [][]string{
		header(),
		{"1", "Title A", "Smith, Doe", "2015", "english", "1", "depression", "twitter", "manual", "individual", "available_via_download", "depression 12", "", ""},
		{"", "", "", "", "", "", "", "", "", "", "", "", "", ""},
		{"2", " Title B ", "Lee", "2016", "english", "1", "na", "reddit", "", "document", "", "", "na"},
	}
}

func csvText(records [][]string) string {
	var b strings.Builder
	for _, rec := range records {
		quoted := make([]string, len(rec))
		for i, v := range rec {
			quoted[i] = `"` + v + `"`
		}
		b.WriteString(strings.Join(quoted, ","))
		b.WriteString("\n")
	}
	return b.String()
}

func xlsxBytes(t *testing.T, sheet string, records [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, rec := range records {
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func checkRows(t *testing.T, rows []types.RawRow) {
	t.Helper()
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Title A", rows[0].Get(types.ColTitle).Value)
	assert.Equal(t, "depression 12", rows[0].Get(types.ColNDocuments).Value)
	assert.True(t, rows[0].Get(types.ColNIndividuals).Missing)

	assert.Equal(t, 4, rows[1].Line)
	assert.Equal(t, "Title B", rows[1].Get(types.ColTitle).Value)
	assert.Equal(t, "na", rows[1].Get(types.ColTasks).Value)
	assert.True(t, rows[1].Get(types.ColAvailability).Missing)
	// Short rows leave trailing columns missing.
	assert.True(t, rows[1].Get(types.ColNConversations).Missing)
}

// --- tests ---

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"data/sources.xlsx", FormatXLSX, false},
		{"data/SOURCES.CSV", FormatCSV, false},
		{"https://example.org/files/sources.xlsx?raw=true", FormatXLSX, false},
		{"sources.xls", "", true},
		{"sources", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := DetectFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadCSV(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(csvText(sampleRecords())))
	require.NoError(t, err)
	checkRows(t, rows)
}

func TestReadCSVMissingColumns(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("paper_id,title\n1,A\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source_ids")
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadXLSX(t *testing.T) {
	data := xlsxBytes(t, "Sheet1", sampleRecords())
	rows, err := ReadXLSX(strings.NewReader(string(data)), "")
	require.NoError(t, err)
	checkRows(t, rows)
}

func TestReadXLSXNamedSheet(t *testing.T) {
	data := xlsxBytes(t, "standardized", sampleRecords())

	rows, err := ReadXLSX(strings.NewReader(string(data)), "standardized")
	require.NoError(t, err)
	checkRows(t, rows)

	_, err = ReadXLSX(strings.NewReader(string(data)), "nope")
	assert.Error(t, err)
}

func TestOpenLocal(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "sources.csv")
	require.NoError(t, os.WriteFile(p, []byte(csvText(sampleRecords())), 0o644))

	rows, err := Open(context.Background(), types.InputConfig{Path: p}, zerolog.Nop())
	require.NoError(t, err)
	checkRows(t, rows)

	_, err = Open(context.Background(), types.InputConfig{Path: filepath.Join(dir, "absent.csv")}, zerolog.Nop())
	assert.Error(t, err)

	_, err = Open(context.Background(), types.InputConfig{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestOpenRemote(t *testing.T) {
	data := xlsxBytes(t, "Sheet1", sampleRecords())
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer ts.Close()

	rows, err := Open(context.Background(), types.InputConfig{Path: ts.URL + "/sources.xlsx", MaxRetries: 1}, zerolog.Nop())
	require.NoError(t, err)
	checkRows(t, rows)
}
