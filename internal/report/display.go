// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/dataset-review/internal/normalize"
	"github.com/pdiddy/dataset-review/pkg/types"
)

var upperTasks = map[string]bool{"adhd": true, "ocd": true, "ptsd": true}

var taskAbbreviations = map[string]string{
	"Suicide (Ideation)":               "SI",
	"Suicide (Attempt)":                "SA",
	"Bipolar Disorder":                 "BIPD",
	"Borderline Personality Disorder":  "BRPD",
	"PTSD":                             "PTSD",
	"Seasonal Affective Disorder":      "SAD",
	"Depression":                       "DEP",
	"Anxiety":                          "ANX",
	"Eating":                           "EAT",
	"Eating (Recovery)":                "EATR",
	"OCD":                              "OCD",
	"Schizophrenia":                    "SCHZ",
	"ADHD":                             "ADHD",
	"Psychosis":                        "PSY",
	"Anxiety (Social)":                 "ANXS",
	"Self Harm":                        "SH",
	"Trauma (Rape Survivor)":           "RS",
	"Panic":                            "PAN",
	"Trauma":                           "TRA",
	"Alcoholism":                       "ALC",
	"Opiate Addiction":                 "OPAD",
	"Aspergers":                        "ASP",
	"Autism":                           "AUT",
	"Opiate Usage":                     "OPUS",
	"Mental Health Disorder (General)": "MHGEN",
	"Stress":                           "STR",
	"Stress (Stressor And Subjects)":   "STRS",
}

// CleanTaskName turns a task tag into its display name.
func CleanTaskName(tag string) string {
	switch {
	case upperTasks[tag]:
		return strings.ToUpper(tag)
	case tag == "mental_health_(combined)":
		return "Mental Health Disorder (General)"
	case tag == "rape_(survivor)":
		return "Trauma (Rape Survivor)"
	default:
		return normalize.Title(strings.ReplaceAll(tag, "_", " "))
	}
}

// TaskAbbreviation returns the short code of a display name, or the name
// itself when it has none.
func TaskAbbreviation(name string) string {
	if abbr, ok := taskAbbreviations[name]; ok {
		return abbr
	}
	return name
}

// Tasks renders the task tags of f not in drop as comma-separated
// abbreviations.
func Tasks(f types.TagField, drop map[string]bool) string {
	var out []string
	for _, t := range f.Tags() {
		if drop[t] {
			continue
		}
		out = append(out, TaskAbbreviation(CleanTaskName(t)))
	}
	return strings.Join(out, ", ")
}

// Platforms renders platform tags as title-cased names.
func Platforms(f types.TagField) string {
	tags := f.Tags()
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = normalize.Title(strings.ReplaceAll(t, "_", " "))
	}
	return strings.Join(out, ", ")
}

// ShortAvailability returns the parenthesized part of an availability label,
// e.g. "No Restrictions". Labels without one are returned unchanged.
func ShortAvailability(a types.Availability) string {
	s := string(a)
	open := strings.Index(s, "(")
	if open < 0 {
		return s
	}
	rest := s[open+1:]
	if end := strings.Index(rest, ")"); end >= 0 {
		return rest[:end]
	}
	return rest
}

// Reference formats an author-year citation: "A (2019)", "A & B (2019)",
// "A, B, & C (2019)" or "A et al. (2019)".
func Reference(authors []string, year int) string {
	when := "n.d."
	if year > 0 {
		when = strconv.Itoa(year)
	}

	var who string
	switch n := len(authors); {
	case n == 0:
		return "(" + when + ")"
	case n == 1:
		who = authors[0]
	case n == 2:
		who = authors[0] + " & " + authors[1]
	case n == 3:
		who = authors[0] + ", " + authors[1] + ", & " + authors[2]
	default:
		who = authors[0] + " et al."
	}
	return fmt.Sprintf("%s (%s)", who, when)
}

// LevelAbbreviation shortens an annotation level: "document" becomes "Doc.".
func LevelAbbreviation(l types.AnnotationLevel) string {
	if l == "" {
		return ""
	}
	t := normalize.Title(string(l))
	if r := []rune(t); len(r) > 3 {
		t = string(r[:3])
	}
	return t + "."
}

// Thousands formats a total as a comma-grouped integer. Missing totals
// render as the empty string.
func Thousands(v float64, ok bool) string {
	if !ok {
		return ""
	}
	n := int64(v)
	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
