// SPDX-License-Identifier: MPL-2.0

package bundlefile

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type (
	// Settings models a settings document as typed known fields plus an opaque
	// extension map. Known fields get documented merge rules (union for
	// permission lists, per-event concatenation for hooks); everything else is
	// carried through the extension map with last-wins overwrite semantics.
	Settings struct {
		// Permissions holds the allow/deny tool permission lists.
		Permissions *Permissions
		// Hooks maps an event name ("PreToolUse", "PostToolUse", ...) to its
		// matcher entries. Entries are opaque JSON: handlers are independent
		// side effects, so composition concatenates rather than interprets
		// them.
		Hooks map[string][]json.RawMessage
		// Env holds environment variables applied to every session.
		Env map[string]string
		// Extra carries every top-level key this tool does not recognize, in
		// the order first encountered.
		Extra map[string]json.RawMessage
	}

	// Permissions is the allow/deny pair under the "permissions" key.
	Permissions struct {
		Allow []string `json:"allow,omitempty"`
		Deny  []string `json:"deny,omitempty"`
	}
)

// settingsEnvelope is the wire shape of the known keys.
type settingsEnvelope struct {
	Permissions *Permissions                 `json:"permissions,omitempty"`
	Hooks       map[string][]json.RawMessage `json:"hooks,omitempty"`
	Env         map[string]string            `json:"env,omitempty"`
}

// ParseSettings decodes a settings document. The input may be JSONC (line and
// block comments, trailing commas); comments are stripped before decoding.
func ParseSettings(data []byte) (*Settings, error) {
	stripped := jsonc.ToJSON(data)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(stripped, &raw); err != nil {
		return nil, fmt.Errorf("bundlefile: parse settings: %w", err)
	}

	var envelope settingsEnvelope
	if err := json.Unmarshal(stripped, &envelope); err != nil {
		return nil, fmt.Errorf("bundlefile: parse settings: %w", err)
	}

	settings := &Settings{
		Permissions: envelope.Permissions,
		Hooks:       envelope.Hooks,
		Env:         envelope.Env,
	}
	for key, value := range raw {
		switch key {
		case "permissions", "hooks", "env":
			continue
		}
		if settings.Extra == nil {
			settings.Extra = make(map[string]json.RawMessage)
		}
		settings.Extra[key] = value
	}
	return settings, nil
}

// MarshalIndent serializes the settings with known keys first (permissions,
// hooks, env) followed by extension keys in sorted order. Only keys that are
// actually present appear in the output; composition never injects synthetic
// keys.
func (s *Settings) MarshalIndent() ([]byte, error) {
	var b bytes.Buffer
	b.WriteString("{")
	first := true

	writeKey := func(key string, value any) error {
		data, err := json.MarshalIndent(value, "  ", "  ")
		if err != nil {
			return err
		}
		if !first {
			b.WriteString(",")
		}
		first = false
		b.WriteString("\n  ")
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return err
		}
		b.Write(keyJSON)
		b.WriteString(": ")
		b.Write(data)
		return nil
	}

	if s.Permissions != nil {
		if err := writeKey("permissions", s.Permissions); err != nil {
			return nil, err
		}
	}
	if len(s.Hooks) > 0 {
		if err := writeKey("hooks", s.Hooks); err != nil {
			return nil, err
		}
	}
	if len(s.Env) > 0 {
		if err := writeKey("env", s.Env); err != nil {
			return nil, err
		}
	}
	for _, key := range sortedKeys(s.Extra) {
		if err := writeKey(key, s.Extra[key]); err != nil {
			return nil, err
		}
	}

	if first {
		b.WriteString("}")
	} else {
		b.WriteString("\n}")
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
