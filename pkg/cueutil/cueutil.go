// SPDX-License-Identifier: MPL-2.0

// Package cueutil wraps the CUE evaluator for schema validation of
// configuration documents. Two entry points cover the repository's needs:
// Decode validates raw CUE or JSON text against an embedded schema and decodes
// it into a Go struct; Check validates an already-decoded Go value (for
// example a TOML manifest) against the same kind of schema.
package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// MaxFileSize caps the documents this package will evaluate. Configuration
// files are small; anything larger is rejected before it reaches the
// evaluator.
const MaxFileSize int64 = 5 * 1024 * 1024

// Decode compiles schema, looks up defPath (e.g. "#Config"), unifies the user
// document with it, validates, and decodes the result into T. filename only
// feeds error messages.
func Decode[T any](schema string, data []byte, defPath, filename string) (*T, error) {
	if err := checkSize(data, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: compile schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), filename)
	}

	def := schemaValue.LookupPath(cue.ParsePath(defPath))
	if def.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", defPath, def.Err())
	}

	unified := def.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return nil, FormatError(err, filename)
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, filename)
	}
	return &result, nil
}

// Check validates an already-decoded Go value against defPath in schema.
// It exists for documents that arrive through another decoder (TOML
// manifests): the value is re-encoded into CUE and unified with the schema so
// constraints like pattern and range checks still apply.
func Check(schema string, value any, defPath, filename string) error {
	ctx := cuecontext.New()
	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: compile schema: %w", schemaValue.Err())
	}

	encoded := ctx.Encode(value)
	if encoded.Err() != nil {
		return fmt.Errorf("internal error: encode value: %w", encoded.Err())
	}

	def := schemaValue.LookupPath(cue.ParsePath(defPath))
	if def.Err() != nil {
		return fmt.Errorf("internal error: schema definition %s not found: %w", defPath, def.Err())
	}

	if err := def.Unify(encoded).Validate(cue.Concrete(false)); err != nil {
		return FormatError(err, filename)
	}
	return nil
}

func checkSize(data []byte, filename string) error {
	if int64(len(data)) > MaxFileSize {
		return fmt.Errorf("%s: file exceeds maximum size of %d bytes", filename, MaxFileSize)
	}
	return nil
}
