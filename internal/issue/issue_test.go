// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableErrorBuilder(t *testing.T) {
	cause := errors.New("open bundle.toml: permission denied")
	err := NewErrorContext().
		WithOperation("load bundle manifest").
		WithResource("./bundles/react/bundle.toml").
		WithSuggestion("Check file permissions").
		Wrap(cause).
		Build()

	if err == nil {
		t.Fatal("expected non-nil ActionableError")
	}
	msg := err.Error()
	if !strings.Contains(msg, "failed to load bundle manifest") {
		t.Errorf("message = %q", msg)
	}
	if !strings.Contains(msg, "bundles/react/bundle.toml") {
		t.Errorf("message missing resource: %q", msg)
	}
	if !strings.Contains(msg, "permission denied") {
		t.Errorf("message missing cause: %q", msg)
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
}

func TestBuildRequiresOperation(t *testing.T) {
	if err := NewErrorContext().WithResource("x").Build(); err != nil {
		t.Errorf("expected nil without operation, got %v", err)
	}
	if err := NewErrorContext().WithResource("x").BuildError(); err != nil {
		t.Errorf("expected nil error without operation, got %v", err)
	}
}

func TestBuildErrorIsNilInterface(t *testing.T) {
	// BuildError must return a true nil interface, not a typed nil pointer.
	err := NewErrorContext().BuildError()
	if err != nil {
		t.Errorf("expected untyped nil, got %T", err)
	}
}

func TestWrapWithOperation(t *testing.T) {
	if got := WrapWithOperation(nil, "parse"); got != nil {
		t.Errorf("expected nil for nil cause, got %v", got)
	}
	cause := errors.New("boom")
	got := WrapWithOperation(cause, "parse bundle")
	if got == nil || !errors.Is(got, cause) {
		t.Fatalf("wrap lost the cause: %v", got)
	}
}

func TestFormat(t *testing.T) {
	inner := errors.New("file missing")
	middle := fmt.Errorf("read settings: %w", inner)
	err := NewErrorContext().
		WithOperation("compose bundles").
		WithSuggestion("Run 'stackpack list'").
		WithSuggestion("Pass the bundle by path").
		Wrap(middle).
		Build()

	plain := err.Format(false)
	if !strings.Contains(plain, "• Run 'stackpack list'") {
		t.Errorf("suggestions missing:\n%s", plain)
	}
	if strings.Contains(plain, "Error chain:") {
		t.Errorf("non-verbose output must not include the chain:\n%s", plain)
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") {
		t.Errorf("verbose output missing chain:\n%s", verbose)
	}
	if !strings.Contains(verbose, "1. read settings: file missing") {
		t.Errorf("chain should start at the cause:\n%s", verbose)
	}
	if !strings.Contains(verbose, "2. file missing") {
		t.Errorf("chain should unwrap to the root:\n%s", verbose)
	}
}

func TestLookup(t *testing.T) {
	for _, id := range []Id{BundleNotFoundId, ManifestInvalidId, OutputNotWritableId, CompositionFailedId} {
		page := Lookup(id)
		if page == nil {
			t.Errorf("missing page for id %d", id)
			continue
		}
		if page.Id() != id {
			t.Errorf("page id = %d, want %d", page.Id(), id)
		}
	}
	if Lookup(0) != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestIssueRender(t *testing.T) {
	restore := render
	defer func() { render = restore }()
	var gotStyle string
	render = func(in string, stylePath string) (string, error) {
		gotStyle = stylePath
		return "rendered: " + in, nil
	}

	out, err := Lookup(BundleNotFoundId).Render("dark")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotStyle != "dark" {
		t.Errorf("style = %q", gotStyle)
	}
	if !strings.Contains(out, "Bundle not found") {
		t.Errorf("rendered output = %q", out)
	}
}
