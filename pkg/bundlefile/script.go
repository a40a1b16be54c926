// SPDX-License-Identifier: MPL-2.0

package bundlefile

import (
	"bytes"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// shellExts are the hook extensions treated as POSIX-family shell scripts and
// therefore eligible for a syntax check. Other script hooks (python, etc.) are
// opaque.
var shellExts = map[string]bool{
	".sh":   true,
	".bash": true,
	"":      true,
}

// CheckScript runs a syntax check over a script hook body. Only shell scripts
// are checked; anything else passes. The composed output is unaffected either
// way — a syntax error here becomes a content warning, not a drop.
func CheckScript(fileName string, body []byte) error {
	ext := ""
	if idx := strings.LastIndexByte(fileName, '.'); idx >= 0 {
		ext = fileName[idx:]
	}
	if !shellExts[ext] {
		return nil
	}
	if ext == "" && !bytes.HasPrefix(body, []byte("#!")) {
		// Extensionless files without a shebang could be anything.
		return nil
	}
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	if _, err := parser.Parse(bytes.NewReader(body), fileName); err != nil {
		return fmt.Errorf("bundlefile: hook script syntax: %w", err)
	}
	return nil
}
