// SPDX-License-Identifier: MPL-2.0

package merge

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"stackpack/pkg/bundlefile"
	"stackpack/pkg/registry"
)

// categoryOrder is the fixed semantic ordering over section categories, used
// to break ties between groups of equal priority. It is an ordered list, not
// a map: position is meaning. Matching is by normalized-substring, first hit
// wins; titles matching nothing sort after every known category in insertion
// order.
var categoryOrder = []string{
	"project context",
	"critical",
	"core principles",
	"workflow",
	"architecture",
	"commands",
	"code style",
	"security",
	"performance",
	"testing",
	"dependencies",
	"configuration",
	"environment",
	"troubleshooting",
	"resources",
}

// mergeableKeywords marks section categories whose content concatenates
// across bundles instead of overriding. These are list-like sections where
// every bundle's entries remain useful side by side.
var mergeableKeywords = []string{
	"commands",
	"security",
	"performance",
	"dependencies",
	"testing",
	"environment",
	"resources",
}

const (
	mergedDocTitle = "# CLAUDE.md"
	mergedDocIntro = "This file is generated from the configuration bundles listed at the end.\n" +
		"It provides guidance to Claude Code when working with this repository.\n" +
		"Edit the source bundles and recompose; direct edits here are overwritten."
	compatibilityNotice = "_Composed configurations regenerate as a unit. Bundle priorities and\n" +
		"section overrides determine which content wins on collision._"
)

type (
	// RootDocInput pairs one bundle's root document with its descriptor. Doc
	// is nil for bundles without a root document; such bundles contribute no
	// sections but still appear in the trailer.
	RootDocInput struct {
		Doc        *string
		Descriptor registry.Descriptor
	}

	// RootDocOptions controls document generation.
	RootDocOptions struct {
		// Now supplies the generation timestamp. The trailer records the date
		// only, so compositions are byte-stable within a day and under an
		// injected clock. Nil means time.Now.
		Now func() time.Time
	}

	// sectionGroup collects every section sharing a normalized title.
	sectionGroup struct {
		key       string
		sections  []Section
		insertion int
	}
)

// MergeRootDocs merges the root documents of the given bundles, in canonical
// bundle order, into one document. It is a pure function: all grouping state
// is allocated locally per call. Zero inputs (or zero documents) produce the
// title/intro/trailer skeleton.
func MergeRootDocs(inputs []RootDocInput, opts RootDocOptions) (string, []bundlefile.Warning) {
	var warnings []bundlefile.Warning

	// Group sections globally by normalized title, preserving first-seen
	// insertion order for the final tie-break.
	groups := make(map[string]*sectionGroup)
	var ordered []*sectionGroup

	for _, input := range inputs {
		if input.Doc == nil {
			continue
		}
		sections, preamble := splitSections(*input.Doc)
		if strings.TrimSpace(preamble) != "" {
			warnings = append(warnings, bundlefile.Warning{
				Bundle:  input.Descriptor.ID,
				Path:    bundlefile.RootDocName,
				Message: "content before the first heading was dropped",
			})
		}
		for _, section := range sections {
			section.SourceBundle = input.Descriptor.ID
			section.Priority = input.Descriptor.SectionPriority(section.Title)
			section.BundlePriority = input.Descriptor.Priority

			key := bundlefile.Normalize(section.Title)
			group, ok := groups[key]
			if !ok {
				group = &sectionGroup{key: key, insertion: len(ordered)}
				groups[key] = group
				ordered = append(ordered, group)
			}
			group.sections = append(group.sections, section)
		}
	}

	// Order groups: max override priority descending, then the fixed category
	// table, then insertion order.
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, pj := maxPriority(ordered[i]), maxPriority(ordered[j])
		if pi != pj {
			return pi > pj
		}
		ri, rj := categoryRank(ordered[i].key), categoryRank(ordered[j].key)
		if ri != rj {
			return ri < rj
		}
		return ordered[i].insertion < ordered[j].insertion
	})

	var b strings.Builder
	b.WriteString(mergedDocTitle)
	b.WriteString("\n\n")
	b.WriteString(mergedDocIntro)
	b.WriteString("\n")

	for _, group := range ordered {
		b.WriteString("\n")
		if isMergeable(group, inputs) && len(group.sections) > 1 {
			writeMergedGroup(&b, group)
		} else {
			best := bestSection(group.sections)
			writeHeading(&b, best.Title)
			if best.Content != "" {
				b.WriteString(best.Content)
				b.WriteString("\n")
			}
		}
	}

	writeTrailer(&b, inputs, opts)
	return b.String(), warnings
}

// maxPriority is the highest override priority among a group's sections.
func maxPriority(group *sectionGroup) int {
	best := 0
	for i, section := range group.sections {
		if i == 0 || section.Priority > best {
			best = section.Priority
		}
	}
	return best
}

// categoryRank positions a normalized title within categoryOrder by substring
// match. Unmatched titles rank after all known categories.
func categoryRank(normalizedTitle string) int {
	for i, keyword := range categoryOrder {
		if strings.Contains(normalizedTitle, bundlefile.Normalize(keyword)) {
			return i
		}
	}
	return len(categoryOrder)
}

// isMergeable reports whether a group concatenates instead of overriding:
// either its title matches the fixed keyword allow-list, or any contributing
// bundle's descriptor explicitly marks the section mergeable.
func isMergeable(group *sectionGroup, inputs []RootDocInput) bool {
	for _, keyword := range mergeableKeywords {
		if strings.Contains(group.key, bundlefile.Normalize(keyword)) {
			return true
		}
	}
	for _, input := range inputs {
		for _, override := range input.Descriptor.Sections {
			if override.Mergeable && bundlefile.Normalize(override.Title) == group.key {
				return true
			}
		}
	}
	return false
}

// bestSection selects a group's winning section: highest override priority,
// then highest bundle priority, then longest content, then first encountered.
func bestSection(sections []Section) Section {
	best := sections[0]
	for _, candidate := range sections[1:] {
		switch {
		case candidate.Priority != best.Priority:
			if candidate.Priority > best.Priority {
				best = candidate
			}
		case candidate.BundlePriority != best.BundlePriority:
			if candidate.BundlePriority > best.BundlePriority {
				best = candidate
			}
		case len(candidate.Content) > len(best.Content):
			best = candidate
		}
	}
	return best
}

// writeMergedGroup concatenates every source's content under a provenance
// note, collapsing lines that already appeared verbatim in an earlier source.
// Subheading lines are structure, not content: they are never collapsed and
// never suppress a later occurrence, so each source's subsection blocks stay
// grouped under their own heading.
func writeMergedGroup(b *strings.Builder, group *sectionGroup) {
	best := bestSection(group.sections)
	writeHeading(b, best.Title)

	var bundles []string
	for _, section := range group.sections {
		if len(bundles) == 0 || bundles[len(bundles)-1] != section.SourceBundle {
			bundles = append(bundles, section.SourceBundle)
		}
	}
	fmt.Fprintf(b, "_combined from: %s_\n", strings.Join(bundles, ", "))

	seen := make(map[string]bool)
	for _, section := range group.sections {
		lines := strings.Split(section.Content, "\n")
		emittedBlank := true
		var emitted []string
		for _, line := range lines {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				if !emittedBlank {
					emitted = append(emitted, "")
					emittedBlank = true
				}
				continue
			}
			if !strings.HasPrefix(trimmed, "#") && seen[line] {
				continue
			}
			emitted = append(emitted, line)
			emittedBlank = false
		}
		// Trim a trailing blank left by a skipped duplicate run.
		for len(emitted) > 0 && emitted[len(emitted)-1] == "" {
			emitted = emitted[:len(emitted)-1]
		}
		if len(emitted) == 0 {
			continue
		}
		b.WriteString("\n")
		for _, line := range emitted {
			b.WriteString(line)
			b.WriteString("\n")
			if t := strings.TrimSpace(line); t != "" && !strings.HasPrefix(t, "#") {
				seen[line] = true
			}
		}
	}
}

// writeHeading emits a section heading at the clamped output level. Sections
// nest directly under the document title, so every emitted heading is level
// two regardless of source depth.
func writeHeading(b *strings.Builder, title string) {
	b.WriteString("## ")
	b.WriteString(title)
	b.WriteString("\n\n")
}

// writeTrailer appends the fixed metadata trailer: the ordered bundle list,
// the generation date, and the static compatibility notice.
func writeTrailer(b *strings.Builder, inputs []RootDocInput, opts RootDocOptions) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	b.WriteString("\n---\n\n## Included Configurations\n\n")
	for _, input := range inputs {
		d := input.Descriptor
		b.WriteString("- **")
		b.WriteString(d.Name)
		b.WriteString("**")
		if d.Version != "" {
			b.WriteString(" v")
			b.WriteString(d.Version)
		}
		if d.Description != "" {
			b.WriteString(": ")
			b.WriteString(d.Description)
		}
		b.WriteString("\n")
	}
	if len(inputs) == 0 {
		b.WriteString("_none_\n")
	}

	fmt.Fprintf(b, "\n_Generated on %s._\n\n", now().Format("2006-01-02"))
	b.WriteString(compatibilityNotice)
	b.WriteString("\n")
}
