// SPDX-License-Identifier: MPL-2.0

// Package issue defines the user-facing error surface: actionable errors with
// suggestions, and rendered markdown pages for the known failure modes of the
// composition pipeline.
package issue

import (
	"github.com/charmbracelet/glamour"
)

// Id identifies a known failure mode with a dedicated help page.
type Id int

const (
	// BundleNotFoundId: a requested bundle id matched no search path.
	BundleNotFoundId Id = iota + 1
	// ManifestInvalidId: a bundle.toml failed to parse or validate.
	ManifestInvalidId
	// OutputNotWritableId: the output root could not be created or written.
	OutputNotWritableId
	// CompositionFailedId: the pipeline failed at some step.
	CompositionFailedId
)

// Issue is a renderable help page for one failure mode.
type Issue struct {
	id    Id
	mdMsg string
}

// Id returns the issue identifier.
func (i *Issue) Id() Id {
	return i.id
}

// Render produces the terminal form of the issue page via glamour. The
// stylePath is a glamour style name ("dark", "light", "auto") or a path to a
// style JSON file.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.mdMsg, stylePath)
}

var render = glamour.Render

// Lookup returns the issue page for an id, or nil when the id has no page.
func Lookup(id Id) *Issue {
	return issues[id]
}

var issues = map[Id]*Issue{
	BundleNotFoundId: {
		id: BundleNotFoundId,
		mdMsg: `
# Bundle not found

The requested bundle id did not match any bundle in the search paths.

## Search locations (in order of precedence):
1. ./bundles in the current directory
2. ~/.stackpack/bundles
3. Paths configured in your config file

## Things you can try:
- List every discoverable bundle:
~~~
$ stackpack list
~~~
- Pass the bundle by path instead of id:
~~~
$ stackpack compose ./path/to/bundle --output .
~~~`,
	},
	ManifestInvalidId: {
		id: ManifestInvalidId,
		mdMsg: `
# Invalid bundle manifest

A bundle.toml failed to parse or violated the manifest schema.

## Common issues:
- Invalid TOML syntax
- An id that is not lowercase-hyphenated
- A priority outside the -1000..1000 range

## Minimal valid manifest:
~~~toml
id = "my-bundle"
name = "My Bundle"
version = "1.0.0"
priority = 10
~~~`,
	},
	OutputNotWritableId: {
		id: OutputNotWritableId,
		mdMsg: `
# Output directory not writable

The output root could not be created or written to.

## Things you can try:
- Check permissions on the output directory and its parent
- Pass a different directory:
~~~
$ stackpack compose <bundles> --output /tmp/composed
~~~`,
	},
	CompositionFailedId: {
		id: CompositionFailedId,
		mdMsg: `
# Composition failed

The pipeline stopped before committing its writes. The error above names the
step that failed (validating, parsing, merging, writing, or verifying).

## Things you can try:
- Re-run with --verbose for the full error chain
- If the failure was during writing, the output may be partial; restore the
  previous state:
~~~
$ stackpack restore --output <dir>
~~~`,
	},
}
