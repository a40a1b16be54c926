// SPDX-License-Identifier: MPL-2.0

// Package compose drives the composition pipeline: validate the bundle
// selection, parse every bundle in parallel, merge root documents and
// components, write the composed output sequentially, and verify the result.
//
// The pipeline is a linear state machine; failure at any step surfaces as a
// StepError naming the step. Failure before the writing step leaves the
// filesystem untouched. Failure during writing may leave partial output —
// there is no rollback, but when backups are enabled a snapshot of the
// previous output tree is taken before the first write and can be reinstated
// with Restore.
package compose
