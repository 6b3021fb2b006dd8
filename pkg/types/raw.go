// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Cell is one raw spreadsheet value. Missing distinguishes an empty cell from
// any string value, including the empty string after trimming.
type Cell struct {
	Value   string
	Missing bool
}

// Val returns a present cell holding v.
func Val(v string) Cell {
	return Cell{Value: v}
}

// MissingCell returns the missing marker.
func MissingCell() Cell {
	return Cell{Missing: true}
}

// Column names expected in the source spreadsheet.
const (
	ColPaperID         = "paper_id"
	ColTitle           = "title"
	ColAuthors         = "authors"
	ColYear            = "year"
	ColPrimaryLanguage = "primary_language"
	ColSourceIDs       = "source_ids"
	ColTasks           = "tasks"
	ColPlatforms       = "platforms"
	ColAnnotationStyle = "annotation_style"
	ColAnnotationLevel = "annotation_level"
	ColAvailability    = "availability"
	ColNDocuments      = "n_documents"
	ColNIndividuals    = "n_individuals"
	ColNConversations  = "n_conversations"
)

// RequiredColumns lists the columns a source spreadsheet must carry.
var RequiredColumns = []string{
	ColPaperID,
	ColTitle,
	ColAuthors,
	ColYear,
	ColPrimaryLanguage,
	ColSourceIDs,
	ColTasks,
	ColPlatforms,
	ColAnnotationStyle,
	ColAnnotationLevel,
	ColAvailability,
	ColNDocuments,
	ColNIndividuals,
	ColNConversations,
}

// RawRow is one unnormalized spreadsheet row keyed by column name.
type RawRow struct {
	// Line is the 1-based spreadsheet row number, header included.
	Line int

	Cells map[string]Cell
}

// Get returns the cell for col, or the missing marker when the column is absent.
func (r RawRow) Get(col string) Cell {
	c, ok := r.Cells[col]
	if !ok {
		return MissingCell()
	}
	return c
}
