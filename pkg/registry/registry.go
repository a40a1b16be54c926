// SPDX-License-Identifier: MPL-2.0

// Package registry loads and resolves bundle descriptors. A descriptor lives
// in a bundle.toml manifest at the bundle root and declares the bundle's
// identity, priority, dependency/conflict relations, and optional per-section
// priority overrides consumed by the root-document merger.
//
// Descriptors are immutable after load. The composition core never looks a
// bundle up from ambient state; the resolved, ordered entry list is passed
// into it explicitly.
package registry

import (
	"fmt"

	"stackpack/pkg/bundlefile"
)

type (
	// Descriptor is the declared metadata of one bundle.
	Descriptor struct {
		// ID is the unique bundle identifier (lowercase, hyphenated).
		ID string `toml:"id" json:"id,omitempty"`
		// Name is the human-readable bundle name.
		Name string `toml:"name" json:"name,omitempty"`
		// Version is the bundle version string.
		Version string `toml:"version" json:"version,omitempty"`
		// Category groups bundles in listings (framework, tooling, workflow, ...).
		Category string `toml:"category" json:"category,omitempty"`
		// Description is a one-line summary for listings and the merged trailer.
		Description string `toml:"description" json:"description,omitempty"`
		// Priority breaks ties between bundles defining the same item or
		// section. Higher wins. Zero is the default.
		Priority int `toml:"priority" json:"priority,omitempty"`
		// Dependencies lists bundle ids that must be part of any composition
		// including this bundle.
		Dependencies []string `toml:"dependencies" json:"dependencies,omitempty"`
		// Conflicts lists bundle ids that must not be composed together with
		// this bundle.
		Conflicts []string `toml:"conflicts" json:"conflicts,omitempty"`
		// Sections are per-section overrides for the root-document merger.
		Sections []SectionOverride `toml:"sections" json:"sections,omitempty"`
	}

	// SectionOverride adjusts how one root-document section of this bundle is
	// merged. Title matching uses normalized form.
	SectionOverride struct {
		Title     string `toml:"title" json:"title,omitempty"`
		Mergeable bool   `toml:"mergeable" json:"mergeable,omitempty"`
		Priority  int    `toml:"priority" json:"priority,omitempty"`
	}

	// Entry pairs a resolved on-disk bundle root with its descriptor.
	Entry struct {
		// Path is the absolute bundle root directory.
		Path string
		// Descriptor is the parsed manifest.
		Descriptor Descriptor
	}
)

// SectionPriority returns the declared priority override for a section title,
// matching on normalized form. Absent overrides yield zero.
func (d *Descriptor) SectionPriority(title string) int {
	normalized := bundlefile.Normalize(title)
	for _, section := range d.Sections {
		if bundlefile.Normalize(section.Title) == normalized {
			return section.Priority
		}
	}
	return 0
}

// CollisionError is returned when two discovered bundles declare the same id.
type CollisionError struct {
	ID           string
	FirstSource  string
	SecondSource string
}

// Error implements the error interface.
func (e *CollisionError) Error() string {
	return fmt.Sprintf(
		"bundle id collision: %q declared by both:\n  - %s\n  - %s\n\n"+
			"Rename one bundle's id in its bundle.toml, or pass the bundle you want by path.",
		e.ID, e.FirstSource, e.SecondSource)
}
