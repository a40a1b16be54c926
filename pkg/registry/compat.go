// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"fmt"
	"strings"
)

// IncompatibleError reports every dependency and conflict violation found in
// a proposed bundle selection.
type IncompatibleError struct {
	Problems []string
}

// Error implements the error interface.
func (e *IncompatibleError) Error() string {
	if len(e.Problems) == 1 {
		return "incompatible bundle selection: " + e.Problems[0]
	}
	return "incompatible bundle selection:\n  - " + strings.Join(e.Problems, "\n  - ")
}

// CheckCompatibility validates a bundle selection against each descriptor's
// declared relations: every dependency must be part of the selection and no
// two selected bundles may conflict. The composition core does not run this
// check itself; callers run it before composing.
func CheckCompatibility(selected []Entry) error {
	present := make(map[string]bool, len(selected))
	for _, entry := range selected {
		present[entry.Descriptor.ID] = true
	}

	var problems []string
	for _, entry := range selected {
		for _, dep := range entry.Descriptor.Dependencies {
			if !present[dep] {
				problems = append(problems,
					fmt.Sprintf("%s depends on %s, which is not selected", entry.Descriptor.ID, dep))
			}
		}
		for _, conflict := range entry.Descriptor.Conflicts {
			if present[conflict] {
				problems = append(problems,
					fmt.Sprintf("%s conflicts with %s", entry.Descriptor.ID, conflict))
			}
		}
	}

	if len(problems) > 0 {
		return &IncompatibleError{Problems: problems}
	}
	return nil
}
