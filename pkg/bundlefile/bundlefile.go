// SPDX-License-Identifier: MPL-2.0

package bundlefile

import (
	"strings"
	"unicode"
)

const (
	// RootDocName is the file name of the root memory document.
	RootDocName = "CLAUDE.md"
	// ConfigDirName is the directory holding agents, commands, hooks and settings.
	ConfigDirName = ".claude"
	// AgentsDirName is the agents subdirectory under ConfigDirName.
	AgentsDirName = "agents"
	// CommandsDirName is the commands subdirectory under ConfigDirName.
	CommandsDirName = "commands"
	// HooksDirName is the hooks subdirectory under ConfigDirName.
	HooksDirName = "hooks"
	// SettingsFileName is the settings document under ConfigDirName.
	SettingsFileName = "settings.json"
	// ItemExt is the file extension for agent and command definitions.
	ItemExt = ".md"
)

type (
	// Bundle is the parsed form of one configuration bundle. It is created
	// fresh per Parse call, owned by the caller, and never mutated afterwards.
	Bundle struct {
		// ID is the bundle identifier the items were parsed under.
		ID string
		// RootDoc is the raw text of the root memory document, nil when the
		// bundle has none.
		RootDoc *string
		// Agents, Commands and Hooks preserve the file order of their source
		// directories.
		Agents   []Agent
		Commands []Command
		Hooks    []Hook
		// Settings is nil when the bundle has no settings document or the
		// document failed to parse (the failure is reported as a Warning).
		Settings *Settings
	}

	// Agent is one agent definition.
	Agent struct {
		Name        string
		Description string
		Tools       []string
		Model       string
		Color       string
		Body        string
		// SourceBundle is the id of the bundle the agent came from. Recorded on
		// every item so merge decisions stay traceable.
		SourceBundle string
	}

	// Command is one slash-command definition.
	Command struct {
		Name         string
		Description  string
		AllowedTools []string
		ArgumentHint string
		Body         string
		SourceBundle string
	}

	// HookKind discriminates config hooks from script hooks.
	HookKind string

	// Hook is one hook file, either a JSON configuration document or an opaque
	// script body.
	Hook struct {
		Name         string
		Kind         HookKind
		// Ext is the original file extension, kept so script hooks round-trip
		// with their interpreter association intact.
		Ext          string
		Body         string
		SourceBundle string
	}

	// Warning reports a content-level problem that dropped or degraded a unit
	// without failing the parse.
	Warning struct {
		// Bundle is the id of the bundle the problem was found in.
		Bundle string
		// Path is the offending file, relative to the bundle root when known.
		Path string
		// Message describes what was dropped or degraded and why.
		Message string
	}
)

const (
	// KindScript marks an opaque script hook.
	KindScript HookKind = "script"
	// KindConfig marks a structured JSON hook.
	KindConfig HookKind = "config"
)

// Normalize reduces a name or section title to its identity form: lowercased
// with every non-alphanumeric rune stripped. Two items collide exactly when
// their normalized names are equal.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Slug derives an output file name stem from a display name: lowercased, with
// runs of non-alphanumeric runes collapsed to single hyphens and no leading or
// trailing hyphen.
func Slug(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}
	return b.String()
}
