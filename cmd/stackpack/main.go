// SPDX-License-Identifier: MPL-2.0

// Command stackpack composes Claude Code configuration bundles into one
// deduplicated, priority-ordered configuration.
package main

func main() {
	Execute()
}
