// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"github.com/pdiddy/dataset-review/internal/normalize"
	"github.com/pdiddy/dataset-review/internal/provenance"
	"github.com/pdiddy/dataset-review/pkg/types"
)

// Stage is one named narrowing step. Keep decides which rows survive; Prune,
// when set, rewrites each surviving row.
type Stage struct {
	Name  string
	Keep  func(types.Paper) bool
	Prune func(types.Paper) types.Paper
}

// KeepOriginal retains papers that introduced their own dataset.
func KeepOriginal(name string) Stage {
	return Stage{Name: name, Keep: provenance.IsOriginal}
}

// RequireAnnotation drops papers whose tasks are Absent or NotApplicable.
func RequireAnnotation(name string) Stage {
	return Stage{
		Name: name,
		Keep: func(p types.Paper) bool {
			return p.Tasks.Kind == types.Present
		},
	}
}

// ExcludeAll drops a paper only when every tag of field is in blocklist. A
// paper with at least one acceptable tag survives. Absent and NotApplicable
// fields survive, as does an empty tag set: nothing in them is blocklisted.
// With prune set, surviving papers lose their blocklisted tags.
func ExcludeAll(name string, field types.TagFieldName, blocklist []string, prune bool) Stage {
	block := toSet(blocklist)
	s := Stage{
		Name: name,
		Keep: func(p types.Paper) bool {
			f := p.TagField(field)
			if f.Kind != types.Present || f.Len() == 0 {
				return true
			}
			for _, t := range f.Tags() {
				if !block[t] {
					return true
				}
			}
			return false
		},
	}
	if prune {
		s.Prune = func(p types.Paper) types.Paper {
			return p.WithTagField(field, p.TagField(field).Without(block))
		}
	}
	return s
}

// AcceptTasks keeps papers with at least one task in allow. Papers without
// present tasks never match.
func AcceptTasks(name string, allow []string) Stage {
	ok := toSet(allow)
	return Stage{
		Name: name,
		Keep: func(p types.Paper) bool {
			for _, t := range p.Tasks.Tags() {
				if ok[t] {
					return true
				}
			}
			return false
		},
	}
}

// AcceptLanguage keeps papers whose primary language equals one in allow.
// Allowed names are title-cased like the normalized column. An empty
// language never matches.
func AcceptLanguage(name string, allow []string) Stage {
	ok := make(map[string]bool, len(allow))
	for _, l := range allow {
		ok[normalize.Title(l)] = true
	}
	return Stage{
		Name: name,
		Keep: func(p types.Paper) bool {
			return p.PrimaryLanguage != "" && ok[p.PrimaryLanguage]
		},
	}
}

// AcceptAvailability keeps papers whose availability class is in allow.
func AcceptAvailability(name string, allow []types.Availability) Stage {
	ok := make(map[types.Availability]bool, len(allow))
	for _, a := range allow {
		ok[a] = true
	}
	return Stage{
		Name: name,
		Keep: func(p types.Paper) bool {
			return ok[p.Availability]
		},
	}
}

// KnownAvailability drops papers whose availability is Unknown.
func KnownAvailability(name string) Stage {
	return Stage{
		Name: name,
		Keep: func(p types.Paper) bool {
			return p.Availability != types.AvailabilityUnknown && p.Availability != ""
		},
	}
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
