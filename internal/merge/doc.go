// SPDX-License-Identifier: MPL-2.0

// Package merge holds the two pure mergers of the composition engine: the
// root-document merger, which combines memory documents section by section,
// and the component merger, which deduplicates named items (agents, commands,
// hooks) and deep-merges settings objects.
//
// Every merge entry point is a pure function of its inputs. All grouping
// structures are allocated per call; nothing is retained between calls, so
// the mergers are safe to invoke concurrently and repeatedly with no
// cross-call contamination.
package merge
