// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the dataset-review pipeline:
// the normalized Paper record, its tagged field variants, and configuration.
package types

import (
	"sort"
)

// FieldKind distinguishes the three states of a normalized spreadsheet cell.
type FieldKind int

const (
	// Absent means the cell was empty: the value was not reported.
	Absent FieldKind = iota
	// NotApplicable means the cell held the literal "na": reported as inapplicable.
	NotApplicable
	// Present means the cell held a parsed value.
	Present
)

// String returns a short label for the kind.
func (k FieldKind) String() string {
	switch k {
	case Absent:
		return "absent"
	case NotApplicable:
		return "n/a"
	case Present:
		return "present"
	default:
		return "unknown"
	}
}

// TagField is a set of categorical tags, or one of the Absent/NotApplicable
// sentinels. The zero value is Absent.
type TagField struct {
	Kind FieldKind
	tags map[string]struct{}
}

// NewTags returns a Present TagField holding the given tags.
func NewTags(tags ...string) TagField {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return TagField{Kind: Present, tags: set}
}

// NATags returns the NotApplicable sentinel.
func NATags() TagField {
	return TagField{Kind: NotApplicable}
}

// Has reports whether the field is Present and contains tag.
func (f TagField) Has(tag string) bool {
	if f.Kind != Present {
		return false
	}
	_, ok := f.tags[tag]
	return ok
}

// Len returns the number of tags; zero for the sentinels.
func (f TagField) Len() int {
	return len(f.tags)
}

// Tags returns the tags in sorted order. Nil for the sentinels.
func (f TagField) Tags() []string {
	if f.Kind != Present {
		return nil
	}
	out := make([]string, 0, len(f.tags))
	for t := range f.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Without returns a copy of f with every tag in drop removed. Sentinels are
// returned unchanged.
func (f TagField) Without(drop map[string]bool) TagField {
	if f.Kind != Present {
		return f
	}
	kept := make(map[string]struct{}, len(f.tags))
	for t := range f.tags {
		if !drop[t] {
			kept[t] = struct{}{}
		}
	}
	return TagField{Kind: Present, tags: kept}
}

// Equal reports whether two fields have the same kind and tag set.
func (f TagField) Equal(o TagField) bool {
	if f.Kind != o.Kind || len(f.tags) != len(o.tags) {
		return false
	}
	for t := range f.tags {
		if _, ok := o.tags[t]; !ok {
			return false
		}
	}
	return true
}

// SizeField maps a sub-population label (e.g. "control", "depression") to a
// count, or is one of the Absent/NotApplicable sentinels.
type SizeField struct {
	Kind   FieldKind
	Counts map[string]float64
}

// NewSize returns a Present SizeField holding counts.
func NewSize(counts map[string]float64) SizeField {
	return SizeField{Kind: Present, Counts: counts}
}

// AnnotationLevel is the granularity at which ground-truth labels were assigned.
type AnnotationLevel string

const (
	LevelDocument   AnnotationLevel = "document"
	LevelIndividual AnnotationLevel = "individual"
)

// Availability is one of the eight canonical dataset availability classes.
type Availability string

const (
	AvailabilityProhibited      Availability = "Not Available (Prohibited)"
	AvailabilityNoLongerExists  Availability = "Not Available (No Longer Exists)"
	AvailabilitySignedAgreement Availability = "Available (Signed Agreement)"
	AvailabilityAuthorContact   Availability = "Available (Author Discretion)"
	AvailabilityDownload        Availability = "Available (No Restrictions)"
	AvailabilityAPI             Availability = "Available (Reproducible via API)"
	AvailabilityPending         Availability = "Pending Availability"
	AvailabilityUnknown         Availability = "Unknown"
)

// Paper is one normalized row of the curated dataset table.
type Paper struct {
	// ID is the externally assigned, unique paper identifier.
	ID int `json:"paper_id" yaml:"paper_id"`

	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	Year int `json:"year" yaml:"year"`

	// PrimaryLanguage is title-cased (e.g. "English").
	PrimaryLanguage string `json:"primary_language" yaml:"primary_language"`

	// SourceIDs lists the papers whose dataset this paper uses. Never empty.
	SourceIDs []int `json:"source_ids" yaml:"source_ids"`

	Tasks           TagField `json:"-" yaml:"-"`
	Platforms       TagField `json:"-" yaml:"-"`
	AnnotationStyle TagField `json:"-" yaml:"-"`

	AnnotationLevel AnnotationLevel `json:"annotation_level" yaml:"annotation_level"`
	Availability    Availability    `json:"availability" yaml:"availability"`

	NDocuments     SizeField `json:"-" yaml:"-"`
	NIndividuals   SizeField `json:"-" yaml:"-"`
	NConversations SizeField `json:"-" yaml:"-"`

	// Original is set by provenance resolution: the paper introduced its own dataset.
	Original bool `json:"original" yaml:"original"`
}

// TagFieldName names one of the tag-valued columns of a Paper.
type TagFieldName string

const (
	FieldTasks           TagFieldName = "tasks"
	FieldPlatforms       TagFieldName = "platforms"
	FieldAnnotationStyle TagFieldName = "annotation_style"
)

// TagField returns the tag-valued column named by name. Unknown names yield Absent.
func (p Paper) TagField(name TagFieldName) TagField {
	switch name {
	case FieldTasks:
		return p.Tasks
	case FieldPlatforms:
		return p.Platforms
	case FieldAnnotationStyle:
		return p.AnnotationStyle
	default:
		return TagField{}
	}
}

// WithTagField returns a copy of p with the named column replaced.
func (p Paper) WithTagField(name TagFieldName, f TagField) Paper {
	switch name {
	case FieldTasks:
		p.Tasks = f
	case FieldPlatforms:
		p.Platforms = f
	case FieldAnnotationStyle:
		p.AnnotationStyle = f
	}
	return p
}

// SizeFieldName names one of the size-valued columns of a Paper.
type SizeFieldName string

const (
	FieldNDocuments     SizeFieldName = "n_documents"
	FieldNIndividuals   SizeFieldName = "n_individuals"
	FieldNConversations SizeFieldName = "n_conversations"
)

// SizeFieldNames lists the size columns in table order.
var SizeFieldNames = []SizeFieldName{FieldNDocuments, FieldNIndividuals, FieldNConversations}

// SizeField returns the size-valued column named by name.
func (p Paper) SizeField(name SizeFieldName) SizeField {
	switch name {
	case FieldNDocuments:
		return p.NDocuments
	case FieldNIndividuals:
		return p.NIndividuals
	case FieldNConversations:
		return p.NConversations
	default:
		return SizeField{}
	}
}
