// SPDX-License-Identifier: MPL-2.0

package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSections(t *testing.T) {
	doc := "## Commands\n- make test\n- make build\n\n## Code Style\nUse tabs.\n"
	sections, preamble := splitSections(doc)

	require.Len(t, sections, 2)
	assert.Empty(t, preamble)

	assert.Equal(t, "Commands", sections[0].Title)
	assert.Equal(t, 2, sections[0].Level)
	assert.Equal(t, "- make test\n- make build", sections[0].Content)

	assert.Equal(t, "Code Style", sections[1].Title)
	assert.Equal(t, "Use tabs.", sections[1].Content)
}

func TestSplitSectionsPreamble(t *testing.T) {
	doc := "Some intro text.\n\n## Commands\n- make test\n"
	sections, preamble := splitSections(doc)

	require.Len(t, sections, 1)
	assert.Equal(t, "Some intro text.\n\n", preamble)
	assert.Equal(t, "Commands", sections[0].Title)
}

func TestSplitSectionsNoHeadings(t *testing.T) {
	doc := "Just prose, no structure.\n"
	sections, preamble := splitSections(doc)

	assert.Empty(t, sections)
	assert.Equal(t, doc, preamble)
}

func TestSplitSectionsEmpty(t *testing.T) {
	sections, preamble := splitSections("")
	assert.Empty(t, sections)
	assert.Empty(t, preamble)
}

func TestSplitSectionsSubsectionsStayWithParent(t *testing.T) {
	// Only ## and # headings start sections. A ### block is content of the
	// preceding section, heading line included, so subsection groupings
	// survive merging.
	doc := "## Testing\nRun all suites.\n\n### Unit\ngo test ./...\n\n## Security\nNo secrets.\n"
	sections, _ := splitSections(doc)

	require.Len(t, sections, 2)
	assert.Equal(t, "Testing", sections[0].Title)
	assert.Equal(t, "Run all suites.\n\n### Unit\ngo test ./...", sections[0].Content)
	assert.Equal(t, "Security", sections[1].Title)
	assert.Equal(t, "No secrets.", sections[1].Content)
}

func TestSplitSectionsFencedCodeHeadingIgnored(t *testing.T) {
	// A "## heading" inside a fenced code block is code, not structure. The
	// AST-based splitter must not cut the section there.
	doc := "## Commands\n```sh\n## this is a comment, not a heading\nmake test\n```\n\n## Style\nTabs.\n"
	sections, _ := splitSections(doc)

	require.Len(t, sections, 2)
	assert.Equal(t, "Commands", sections[0].Title)
	assert.Contains(t, sections[0].Content, "## this is a comment, not a heading")
	assert.Equal(t, "Style", sections[1].Title)
}

func TestSplitSectionsLevelOneTitle(t *testing.T) {
	doc := "# Project\n\n## Commands\n- make\n"
	sections, preamble := splitSections(doc)

	require.Len(t, sections, 2)
	assert.Empty(t, preamble)
	assert.Equal(t, "Project", sections[0].Title)
	assert.Equal(t, 1, sections[0].Level)
	assert.Empty(t, sections[0].Content)
}
