// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrVocabulary marks a value outside a closed vocabulary.
	ErrVocabulary = errors.New("unknown vocabulary")

	// ErrParse marks a malformed cell.
	ErrParse = errors.New("parse error")

	// ErrDuplicateID marks a paper_id that appears more than once.
	ErrDuplicateID = errors.New("duplicate paper_id")
)

// VocabularyError reports a raw value outside the closed availability set.
type VocabularyError struct {
	Value string
}

// Error implements the error interface.
func (e *VocabularyError) Error() string {
	return fmt.Sprintf("unknown availability %q", e.Value)
}

// Unwrap returns ErrVocabulary.
func (e *VocabularyError) Unwrap() error {
	return ErrVocabulary
}

// ParseError reports a cell that could not be parsed.
type ParseError struct {
	Value  string
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrParse.
func (e *ParseError) Unwrap() error {
	return ErrParse
}

// RowError locates a normalization failure in the source table.
type RowError struct {
	Line    int
	PaperID string
	Column  string
	Err     error
}

// Error implements the error interface.
func (e *RowError) Error() string {
	if e.PaperID != "" {
		return fmt.Sprintf("row %d (paper_id %s), column %s: %v", e.Line, e.PaperID, e.Column, e.Err)
	}
	return fmt.Sprintf("row %d, column %s: %v", e.Line, e.Column, e.Err)
}

// Unwrap returns the underlying error.
func (e *RowError) Unwrap() error {
	return e.Err
}

// DuplicateIDError reports two rows sharing a paper_id.
type DuplicateIDError struct {
	ID        int
	FirstLine int
	Line      int
}

// Error implements the error interface.
func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("paper_id %d on row %d already used on row %d", e.ID, e.Line, e.FirstLine)
}

// Unwrap returns ErrDuplicateID.
func (e *DuplicateIDError) Unwrap() error {
	return ErrDuplicateID
}
