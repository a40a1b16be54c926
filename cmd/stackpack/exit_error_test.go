// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"strings"
	"testing"

	"stackpack/internal/issue"
)

func TestExitError(t *testing.T) {
	cause := errors.New("boom")
	err := NewExitError(2, cause)

	if err.Code != 2 {
		t.Errorf("code = %d", err.Code)
	}
	if err.Error() != "boom" {
		t.Errorf("message = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable via errors.Is")
	}

	var target *ExitError
	if !errors.As(error(err), &target) {
		t.Error("errors.As failed")
	}
}

func TestExitErrorNilCause(t *testing.T) {
	err := &ExitError{Code: 3}
	if !strings.Contains(err.Error(), "3") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestExitErrorWithIssue(t *testing.T) {
	err := NewExitError(1, errors.New("x")).WithIssue(issue.BundleNotFoundId)
	if err.IssueID != issue.BundleNotFoundId {
		t.Errorf("issue id = %d", err.IssueID)
	}
}

func TestRenderIssuePageUnknownID(t *testing.T) {
	var b strings.Builder
	renderIssuePage(&b, 0)
	if b.Len() != 0 {
		t.Errorf("unexpected output for zero id: %q", b.String())
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	plain := errors.New("plain failure")
	if got := formatErrorForDisplay(plain, false); got != "plain failure" {
		t.Errorf("plain = %q", got)
	}

	actionable := issue.NewErrorContext().
		WithOperation("resolve bundle references").
		WithSuggestion("Run 'stackpack list'").
		Wrap(plain).
		BuildError()
	got := formatErrorForDisplay(actionable, false)
	if !strings.Contains(got, "Run 'stackpack list'") {
		t.Errorf("suggestions missing: %q", got)
	}
}
