// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"io"

	"stackpack/internal/issue"
)

// ExitError carries a process exit code alongside the underlying error so
// Execute can terminate with the right status after fang renders the message.
// An optional issue id attaches a rendered help page to the failure.
type ExitError struct {
	Code    int
	Err     error
	IssueID issue.Id
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError creates an ExitError with the given code and error.
func NewExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// WithIssue attaches a help page to the error.
func (e *ExitError) WithIssue(id issue.Id) *ExitError {
	e.IssueID = id
	return e
}

// renderIssuePage writes the help page for an issue id, if one exists. Render
// failures are swallowed; help pages are best-effort.
func renderIssuePage(w io.Writer, id issue.Id) {
	if id == 0 {
		return
	}
	page := issue.Lookup(id)
	if page == nil {
		return
	}
	rendered, err := page.Render("dark")
	if err != nil {
		return
	}
	fmt.Fprint(w, rendered)
}
