// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns raw spreadsheet cells into typed Paper fields.
// Free-text tag columns are open vocabularies and pass unknown tags through;
// availability is a closed vocabulary and rejects anything it does not know.
package normalize

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/dataset-review/pkg/types"
)

// Delimiter separates list items inside a cell.
const Delimiter = ", "

// naMarker is the literal spreadsheet value for "reported as not applicable".
const naMarker = "na"

// availabilityVocabulary maps raw availability values to canonical classes.
// A missing cell maps to AvailabilityUnknown separately.
var availabilityVocabulary = map[string]types.Availability{
	"not_available_for_distribution": types.AvailabilityProhibited,
	"no_longer_exists":               types.AvailabilityNoLongerExists,
	"available_via_signed_agreement": types.AvailabilitySignedAgreement,
	"available_via_author_contact":   types.AvailabilityAuthorContact,
	"available_via_download":         types.AvailabilityDownload,
	"reproducible_via_api":           types.AvailabilityAPI,
	"pending":                        types.AvailabilityPending,
}

// AvailabilityVocabulary returns the raw availability values in sorted order.
func AvailabilityVocabulary() []string {
	out := make([]string, 0, len(availabilityVocabulary))
	for k := range availabilityVocabulary {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ParseTags splits a tag cell into a set. A missing cell is Absent and the
// literal "na" is NotApplicable.
func ParseTags(c types.Cell) types.TagField {
	if c.Missing {
		return types.TagField{}
	}
	if c.Value == naMarker {
		return types.NATags()
	}
	return types.NewTags(strings.Split(c.Value, Delimiter)...)
}

// ParsePlatforms splits a platform cell into a set. Platforms have no
// not-applicable form; "na" is kept as an ordinary tag.
func ParsePlatforms(c types.Cell) types.TagField {
	if c.Missing {
		return types.TagField{}
	}
	return types.NewTags(strings.Split(c.Value, Delimiter)...)
}

// JoinTags serializes a tag set back into cell form. Tags are sorted, so the
// result re-parses to an equal set. Sentinels serialize to "" and "na".
func JoinTags(f types.TagField) string {
	switch f.Kind {
	case types.NotApplicable:
		return naMarker
	case types.Present:
		return strings.Join(f.Tags(), Delimiter)
	default:
		return ""
	}
}

// FormatFloat parses a size count. Parentheses are stripped and a trailing
// lowercase "k" multiplies by 1000: "1.2k" is 1200, "(500)" is 500.
func FormatFloat(s string) (float64, error) {
	num := strings.NewReplacer("(", "", ")", "").Replace(s)
	mult := 1.0
	if strings.HasSuffix(num, "k") {
		num = strings.TrimSuffix(num, "k")
		mult = 1000.0
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, &ParseError{Value: s, Reason: "not a number"}
	}
	return v * mult, nil
}

// ParseSize parses a size cell of "label value" pairs, e.g.
// "depression 1.2k, control (500)". Each pair must split into exactly two
// whitespace-separated tokens.
func ParseSize(c types.Cell) (types.SizeField, error) {
	if c.Missing {
		return types.SizeField{}, nil
	}
	if c.Value == naMarker {
		return types.SizeField{Kind: types.NotApplicable}, nil
	}
	counts := make(map[string]float64)
	for _, pair := range strings.Split(c.Value, Delimiter) {
		tokens := strings.Fields(pair)
		if len(tokens) != 2 {
			return types.SizeField{}, &ParseError{Value: pair, Reason: "want \"label value\""}
		}
		v, err := FormatFloat(tokens[1])
		if err != nil {
			return types.SizeField{}, err
		}
		if v < 0 {
			return types.SizeField{}, &ParseError{Value: pair, Reason: "negative count"}
		}
		counts[tokens[0]] = v
	}
	return types.NewSize(counts), nil
}

// ParseAvailability maps a raw availability value onto its canonical class.
// A missing cell is AvailabilityUnknown; any unlisted value is a VocabularyError.
func ParseAvailability(c types.Cell) (types.Availability, error) {
	if c.Missing {
		return types.AvailabilityUnknown, nil
	}
	a, ok := availabilityVocabulary[c.Value]
	if !ok {
		return "", &VocabularyError{Value: c.Value}
	}
	return a, nil
}

// ParseSources parses the comma separated list of source paper IDs.
func ParseSources(c types.Cell) ([]int, error) {
	if c.Missing {
		return nil, &ParseError{Value: "", Reason: "source_ids is empty"}
	}
	parts := strings.Split(c.Value, Delimiter)
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := ParseInt(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseInt parses an integer cell. Spreadsheet exports often render integers
// as "12.0"; integral floats are accepted.
func ParseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, &ParseError{Value: s, Reason: "not an integer"}
	}
	return int(f), nil
}

// ParseAnnotationLevel lowercases the annotation level. A missing cell yields
// the empty level; unlisted levels pass through.
func ParseAnnotationLevel(c types.Cell) types.AnnotationLevel {
	if c.Missing {
		return ""
	}
	return types.AnnotationLevel(strings.ToLower(strings.TrimSpace(c.Value)))
}

// ParseAuthors splits the author cell into names in source order.
func ParseAuthors(c types.Cell) []string {
	if c.Missing || c.Value == "" {
		return nil
	}
	return strings.Split(c.Value, Delimiter)
}

// NormalizeLanguage title-cases a language name ("english" becomes "English").
func NormalizeLanguage(c types.Cell) string {
	if c.Missing {
		return ""
	}
	return Title(c.Value)
}

// Title upper-cases the first letter of every word and lower-cases the rest.
// A word is a maximal run of letters.
func Title(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

// AvailabilityClass resolves a configured availability name, given either as
// a raw token ("available_via_download") or a canonical label
// ("Available (No Restrictions)").
func AvailabilityClass(s string) (types.Availability, error) {
	if a, ok := availabilityVocabulary[s]; ok {
		return a, nil
	}
	if types.Availability(s) == types.AvailabilityUnknown {
		return types.AvailabilityUnknown, nil
	}
	for _, a := range availabilityVocabulary {
		if string(a) == s {
			return a, nil
		}
	}
	return "", &VocabularyError{Value: s}
}
