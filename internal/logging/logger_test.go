// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/dataset-review/pkg/types"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"":        zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(types.LoggingConfig{Level: "info", Format: "json"}, &buf)

	paperLogger := WithPaper(logger, 12, 4)
	paperLogger.Info().Msg("normalized")
	logger.Debug().Msg("dropped")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "normalized", entry["message"])
	assert.Equal(t, float64(12), entry["paper_id"])
	assert.Equal(t, float64(4), entry["row"])
	assert.Equal(t, "info", entry["level"])
}

func TestWithRun(t *testing.T) {
	var buf bytes.Buffer
	logger := WithRun(NewWithWriter(types.LoggingConfig{Format: "json"}, &buf), 3, "data.xlsx")
	logger.Info().Msg("start")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, float64(3), entry["run_id"])
	assert.Equal(t, "data.xlsx", entry["input"])
}
