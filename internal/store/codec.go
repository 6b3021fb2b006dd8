// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pdiddy/dataset-review/pkg/types"
)

// Tag columns hold a JSON array, the string "na", or NULL for absent.
// Size columns hold a JSON object, the string "na", or NULL for absent.
const naColumn = "na"

func encodeTags(f types.TagField) any {
	switch f.Kind {
	case types.NotApplicable:
		return naColumn
	case types.Present:
		tags := f.Tags()
		if tags == nil {
			tags = []string{}
		}
		data, _ := json.Marshal(tags)
		return string(data)
	default:
		return nil
	}
}

func decodeTags(v sql.NullString) (types.TagField, error) {
	if !v.Valid {
		return types.TagField{}, nil
	}
	if v.String == naColumn {
		return types.NATags(), nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(v.String), &tags); err != nil {
		return types.TagField{}, fmt.Errorf("decoding tags %q: %w", v.String, err)
	}
	return types.NewTags(tags...), nil
}

func encodeSize(f types.SizeField) any {
	switch f.Kind {
	case types.NotApplicable:
		return naColumn
	case types.Present:
		counts := f.Counts
		if counts == nil {
			counts = map[string]float64{}
		}
		data, _ := json.Marshal(counts)
		return string(data)
	default:
		return nil
	}
}

func decodeSize(v sql.NullString) (types.SizeField, error) {
	if !v.Valid {
		return types.SizeField{}, nil
	}
	if v.String == naColumn {
		return types.SizeField{Kind: types.NotApplicable}, nil
	}
	counts := make(map[string]float64)
	if err := json.Unmarshal([]byte(v.String), &counts); err != nil {
		return types.SizeField{}, fmt.Errorf("decoding size %q: %w", v.String, err)
	}
	return types.NewSize(counts), nil
}
