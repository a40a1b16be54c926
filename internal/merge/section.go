// SPDX-License-Identifier: MPL-2.0

package merge

import (
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Section is an intermediate entity produced while merging root documents and
// discarded afterwards. Identity for grouping is the normalized title.
type Section struct {
	// Title is the heading text as written.
	Title string
	// Content is the body between this heading and the next, trimmed of
	// surrounding blank lines.
	Content string
	// Level is the source heading level.
	Level int
	// SourceBundle is the id of the bundle the section came from.
	SourceBundle string
	// Priority is the per-section override priority from the bundle
	// descriptor, zero when no override matches.
	Priority int
	// BundlePriority is the declared priority of the owning bundle.
	BundlePriority int
}

var (
	markdownOnce   sync.Once
	markdownParser goldmark.Markdown
)

// getMarkdownParser returns the shared goldmark instance. Parser configuration
// never changes, so one instance serves all calls; parse state lives in the
// per-call reader, not the parser.
func getMarkdownParser() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownParser = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownParser
}

// splitSections parses a markdown document and slices it into heading-led
// sections. Only level one and two headings start a section; deeper headings
// (### and below) stay inside the enclosing section's content so subsection
// groupings survive merging. Anything before the first top-level heading is
// returned as preamble; callers decide what to do with it (the merger drops
// it with a warning when non-blank).
func splitSections(doc string) (sections []Section, preamble string) {
	source := []byte(doc)
	reader := text.NewReader(source)
	root := getMarkdownParser().Parser().Parse(reader)

	type headingMark struct {
		level        int
		title        string
		lineStart    int // byte offset of the heading line itself
		contentStart int // byte offset just past the heading line
	}
	var marks []headingMark

	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		heading, ok := node.(*ast.Heading)
		if !ok || heading.Level > 2 || heading.Lines().Len() == 0 {
			continue
		}
		first := heading.Lines().At(0)
		last := heading.Lines().At(heading.Lines().Len() - 1)
		marks = append(marks, headingMark{
			level:        heading.Level,
			title:        strings.TrimSpace(string(source[first.Start:last.Stop])),
			lineStart:    lineStartOffset(source, first.Start),
			contentStart: lineEndOffset(source, last.Stop),
		})
	}

	if len(marks) == 0 {
		return nil, doc
	}

	preamble = string(source[:marks[0].lineStart])
	for i, mark := range marks {
		end := len(source)
		if i+1 < len(marks) {
			end = marks[i+1].lineStart
		}
		sections = append(sections, Section{
			Title:   mark.title,
			Content: strings.Trim(string(source[mark.contentStart:end]), "\n"),
			Level:   mark.level,
		})
	}
	return sections, preamble
}

// lineStartOffset walks back from pos to the byte just after the previous
// newline, i.e. the start of the line containing pos.
func lineStartOffset(source []byte, pos int) int {
	for pos > 0 && source[pos-1] != '\n' {
		pos--
	}
	return pos
}

// lineEndOffset walks forward from pos past the end of the current line,
// including its newline.
func lineEndOffset(source []byte, pos int) int {
	for pos < len(source) && source[pos] != '\n' {
		pos++
	}
	if pos < len(source) {
		pos++
	}
	return pos
}
