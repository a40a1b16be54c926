// SPDX-License-Identifier: MPL-2.0

// Package bundlefile defines the on-disk format of a configuration bundle and
// the parser that turns a bundle directory into structured in-memory entities.
//
// A bundle is a directory with the same shape as a composed Claude Code
// configuration:
//
//	<root>/
//	  bundle.toml            descriptor (parsed by pkg/registry)
//	  CLAUDE.md              root memory document (optional)
//	  .claude/
//	    agents/*.md          agent definitions, YAML frontmatter + body
//	    commands/*.md        slash commands, YAML frontmatter + body
//	    hooks/*              *.json config hooks, anything else script hooks
//	    settings.json        settings document, JSONC tolerated
//
// Every piece is independently optional. Content-level problems (a frontmatter
// block that will not parse, malformed settings JSON, a nameless item) drop the
// offending unit and surface as Warnings; only an unreadable directory is a
// structural error.
package bundlefile
