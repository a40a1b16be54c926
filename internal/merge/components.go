// SPDX-License-Identifier: MPL-2.0

package merge

import (
	"stackpack/pkg/bundlefile"
)

// Agents deduplicates agent lists across bundles. bundles must be in
// canonical composition order; priorities maps bundle id to declared bundle
// priority.
func Agents(bundles []*bundlefile.Bundle, priorities map[string]int) []bundlefile.Agent {
	perBundle := make([][]bundlefile.Agent, len(bundles))
	for i, bundle := range bundles {
		perBundle[i] = bundle.Agents
	}
	return dedupe(perBundle, priorities,
		func(a bundlefile.Agent) string { return a.Name },
		func(a bundlefile.Agent) string { return a.SourceBundle })
}

// Commands deduplicates command lists across bundles.
func Commands(bundles []*bundlefile.Bundle, priorities map[string]int) []bundlefile.Command {
	perBundle := make([][]bundlefile.Command, len(bundles))
	for i, bundle := range bundles {
		perBundle[i] = bundle.Commands
	}
	return dedupe(perBundle, priorities,
		func(c bundlefile.Command) string { return c.Name },
		func(c bundlefile.Command) string { return c.SourceBundle })
}

// Hooks deduplicates hook lists across bundles.
func Hooks(bundles []*bundlefile.Bundle, priorities map[string]int) []bundlefile.Hook {
	perBundle := make([][]bundlefile.Hook, len(bundles))
	for i, bundle := range bundles {
		perBundle[i] = bundle.Hooks
	}
	return dedupe(perBundle, priorities,
		func(h bundlefile.Hook) string { return h.Name },
		func(h bundlefile.Hook) string { return h.SourceBundle })
}

// dedupe groups items by normalized name across all bundles. When multiple
// bundles define the same name, the item from the bundle with the highest
// declared priority wins; a priority tie keeps the first-encountered item.
// Losers are dropped whole, never merged field by field. The result preserves
// first-encounter positions, so output order is stable for a given bundle
// order.
func dedupe[T any](perBundle [][]T, priorities map[string]int, name func(T) string, source func(T) string) []T {
	type slot struct {
		index    int
		priority int
	}

	var result []T
	claimed := make(map[string]slot)

	for _, items := range perBundle {
		for _, item := range items {
			key := bundlefile.Normalize(name(item))
			priority := priorities[source(item)]
			existing, ok := claimed[key]
			if !ok {
				claimed[key] = slot{index: len(result), priority: priority}
				result = append(result, item)
				continue
			}
			if priority > existing.priority {
				result[existing.index] = item
				claimed[key] = slot{index: existing.index, priority: priority}
			}
		}
	}
	return result
}
