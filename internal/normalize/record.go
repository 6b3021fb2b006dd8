// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"strings"

	"github.com/pdiddy/dataset-review/pkg/types"
)

// Record normalizes one raw row into a Paper. Failures are returned as a
// *RowError naming the row and column.
func Record(raw types.RawRow) (types.Paper, error) {
	idCell := raw.Get(types.ColPaperID)
	fail := func(col string, err error) (types.Paper, error) {
		return types.Paper{}, &RowError{
			Line:    raw.Line,
			PaperID: strings.TrimSpace(idCell.Value),
			Column:  col,
			Err:     err,
		}
	}

	if idCell.Missing {
		return fail(types.ColPaperID, &ParseError{Reason: "paper_id is empty"})
	}
	id, err := ParseInt(idCell.Value)
	if err != nil {
		return fail(types.ColPaperID, err)
	}

	p := types.Paper{
		ID:              id,
		Title:           raw.Get(types.ColTitle).Value,
		Authors:         ParseAuthors(raw.Get(types.ColAuthors)),
		PrimaryLanguage: NormalizeLanguage(raw.Get(types.ColPrimaryLanguage)),
		Tasks:           ParseTags(raw.Get(types.ColTasks)),
		Platforms:       ParsePlatforms(raw.Get(types.ColPlatforms)),
		AnnotationStyle: ParseTags(raw.Get(types.ColAnnotationStyle)),
		AnnotationLevel: ParseAnnotationLevel(raw.Get(types.ColAnnotationLevel)),
	}

	// A missing year stays zero: unknown.
	if c := raw.Get(types.ColYear); !c.Missing {
		if p.Year, err = ParseInt(c.Value); err != nil {
			return fail(types.ColYear, err)
		}
	}

	if p.SourceIDs, err = ParseSources(raw.Get(types.ColSourceIDs)); err != nil {
		return fail(types.ColSourceIDs, err)
	}

	if p.Availability, err = ParseAvailability(raw.Get(types.ColAvailability)); err != nil {
		return fail(types.ColAvailability, err)
	}

	sizes := []struct {
		col string
		dst *types.SizeField
	}{
		{types.ColNDocuments, &p.NDocuments},
		{types.ColNIndividuals, &p.NIndividuals},
		{types.ColNConversations, &p.NConversations},
	}
	for _, s := range sizes {
		if *s.dst, err = ParseSize(raw.Get(s.col)); err != nil {
			return fail(s.col, err)
		}
	}

	return p, nil
}

// Table normalizes every row and rejects duplicate paper IDs. It stops at
// the first failure.
func Table(rows []types.RawRow) ([]types.Paper, error) {
	papers := make([]types.Paper, 0, len(rows))
	seen := make(map[int]int, len(rows))
	for _, raw := range rows {
		p, err := Record(raw)
		if err != nil {
			return nil, err
		}
		if first, ok := seen[p.ID]; ok {
			return nil, &DuplicateIDError{ID: p.ID, FirstLine: first, Line: raw.Line}
		}
		seen[p.ID] = raw.Line
		papers = append(papers, p)
	}
	return papers, nil
}

// BeforeYear returns the papers published before year. Papers with an unknown
// year are dropped. A non-positive year returns papers unchanged.
func BeforeYear(papers []types.Paper, year int) []types.Paper {
	if year <= 0 {
		return papers
	}
	out := make([]types.Paper, 0, len(papers))
	for _, p := range papers {
		if p.Year > 0 && p.Year < year {
			out = append(out, p)
		}
	}
	return out
}
