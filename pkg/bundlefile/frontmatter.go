// SPDX-License-Identifier: MPL-2.0

package bundlefile

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoFrontmatter indicates the document does not start with a YAML fence.
	ErrNoFrontmatter = errors.New("bundlefile: no frontmatter block")
	// ErrMalformedFrontmatter indicates the opening fence is never closed.
	ErrMalformedFrontmatter = errors.New("bundlefile: unterminated frontmatter block")
)

const frontmatterFence = "---"

// StringList is a frontmatter value that authors write either as a YAML list
// or as a single comma-separated scalar. Both forms decode to a []string with
// surrounding whitespace trimmed and empty entries removed.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*l = splitCommaList(value.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		out := make(StringList, 0, len(items))
		for _, item := range items {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("bundlefile: string list must be a scalar or sequence, got %v", value.Kind)
	}
}

func splitCommaList(s string) StringList {
	parts := strings.Split(s, ",")
	out := make(StringList, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// itemMeta is the superset of frontmatter keys recognized across agent and
// command definitions. Unknown keys are ignored rather than rejected so
// bundles written for newer tool versions still parse.
type itemMeta struct {
	Name         string     `yaml:"name"`
	Description  string     `yaml:"description"`
	Tools        StringList `yaml:"tools"`
	AllowedTools StringList `yaml:"allowed-tools"`
	ArgumentHint string     `yaml:"argument-hint"`
	Model        string     `yaml:"model"`
	Color        string     `yaml:"color"`
}

// splitFrontmatter separates a document into its raw frontmatter block and
// body. The document must begin with a `---` line; the block ends at the next
// `---` line. Line endings are normalized to \n before splitting.
func splitFrontmatter(content string) (meta, body string, err error) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontmatterFence {
		return "", "", ErrNoFrontmatter
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterFence {
			meta = strings.Join(lines[1:i], "\n")
			body = strings.Join(lines[i+1:], "\n")
			return meta, body, nil
		}
	}
	return "", "", ErrMalformedFrontmatter
}

// parseItemFile decodes an item definition file into its metadata and body.
// A file without a frontmatter block is all body with zero-valued metadata.
func parseItemFile(content string) (itemMeta, string, error) {
	rawMeta, body, err := splitFrontmatter(content)
	if errors.Is(err, ErrNoFrontmatter) {
		return itemMeta{}, content, nil
	}
	if err != nil {
		return itemMeta{}, "", err
	}
	var meta itemMeta
	if err := yaml.Unmarshal([]byte(rawMeta), &meta); err != nil {
		return itemMeta{}, "", fmt.Errorf("bundlefile: parse frontmatter: %w", err)
	}
	return meta, body, nil
}

// RenderFrontmatter serializes a key/value metadata map back into a fenced
// frontmatter block followed by the body. Keys are emitted in sorted order so
// regeneration is byte-stable.
func RenderFrontmatter(fields map[string]any, body string) string {
	keys := make([]string, 0, len(fields))
	for key, value := range fields {
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		if list, ok := value.([]string); ok && len(list) == 0 {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(frontmatterFence)
	b.WriteByte('\n')
	for _, key := range keys {
		switch v := fields[key].(type) {
		case []string:
			b.WriteString(key)
			b.WriteString(": ")
			b.WriteString(strings.Join(v, ", "))
		default:
			b.WriteString(key)
			b.WriteString(": ")
			b.WriteString(fmt.Sprint(v))
		}
		b.WriteByte('\n')
	}
	b.WriteString(frontmatterFence)
	b.WriteByte('\n')
	if body != "" {
		b.WriteByte('\n')
		b.WriteString(strings.TrimLeft(body, "\n"))
		if !strings.HasSuffix(body, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
