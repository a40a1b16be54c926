// SPDX-License-Identifier: MPL-2.0

package merge

import (
	"encoding/json"

	"stackpack/pkg/bundlefile"
)

// Settings deep-merges settings objects in canonical bundle order:
//
//   - permissions.allow / permissions.deny: set union, insertion order from
//     first occurrence
//   - hooks: keyed by event name; each event's handler list concatenates
//     across bundles without dedup (handlers are independent side effects)
//   - env and extension keys: last bundle wins per key
//
// Nil inputs contribute nothing. The result never contains a key absent from
// every input.
func Settings(inputs []*bundlefile.Settings) *bundlefile.Settings {
	merged := &bundlefile.Settings{}

	var allow, deny []string
	allowSeen := make(map[string]bool)
	denySeen := make(map[string]bool)
	hasPermissions := false

	for _, input := range inputs {
		if input == nil {
			continue
		}

		if input.Permissions != nil {
			hasPermissions = true
			for _, entry := range input.Permissions.Allow {
				if !allowSeen[entry] {
					allowSeen[entry] = true
					allow = append(allow, entry)
				}
			}
			for _, entry := range input.Permissions.Deny {
				if !denySeen[entry] {
					denySeen[entry] = true
					deny = append(deny, entry)
				}
			}
		}

		for event, handlers := range input.Hooks {
			if merged.Hooks == nil {
				merged.Hooks = make(map[string][]json.RawMessage)
			}
			merged.Hooks[event] = append(merged.Hooks[event], handlers...)
		}

		for key, value := range input.Env {
			if merged.Env == nil {
				merged.Env = make(map[string]string)
			}
			merged.Env[key] = value
		}

		for key, value := range input.Extra {
			if merged.Extra == nil {
				merged.Extra = make(map[string]json.RawMessage)
			}
			merged.Extra[key] = value
		}
	}

	if hasPermissions {
		merged.Permissions = &bundlefile.Permissions{Allow: allow, Deny: deny}
	}
	return merged
}
