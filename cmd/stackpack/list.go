// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stackpack/internal/issue"
	"stackpack/pkg/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all discoverable bundles",
	Long: `List every bundle found in the search paths: ./bundles, the user bundle
directory (~/.stackpack/bundles), and any search_paths from the config file.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	resolver := registry.NewResolver(appConfig.SearchPaths...)
	entries, err := resolver.DiscoverAll()
	if err != nil {
		return NewExitError(1, issue.NewErrorContext().
			WithOperation("discover bundles").
			WithSuggestion("Check that every bundle.toml in the search paths is valid TOML").
			Wrap(err).
			BuildError()).WithIssue(issue.ManifestInvalidId)
	}

	if len(entries) == 0 {
		fmt.Println(MutedStyle.Render("No bundles found."))
		fmt.Println()
		fmt.Println("Search paths:")
		for _, path := range resolver.SearchPaths {
			fmt.Println("  " + MutedStyle.Render(path))
		}
		return nil
	}

	fmt.Println(TitleStyle.Render("Available bundles"))
	fmt.Println()
	for _, entry := range entries {
		line := "  " + CmdStyle.Render(entry.Descriptor.ID)
		if entry.Descriptor.Version != "" {
			line += MutedStyle.Render(" v" + entry.Descriptor.Version)
		}
		if entry.Descriptor.Category != "" {
			line += SubtitleStyle.Render(" [" + entry.Descriptor.Category + "]")
		}
		if entry.Descriptor.Priority != 0 {
			line += MutedStyle.Render(fmt.Sprintf(" (priority %d)", entry.Descriptor.Priority))
		}
		fmt.Println(line)
		if entry.Descriptor.Description != "" {
			fmt.Println("      " + entry.Descriptor.Description)
		}
		if verbose {
			fmt.Println("      " + MutedStyle.Render(entry.Path))
		}
	}
	fmt.Println()
	fmt.Printf("%d bundle(s)\n", len(entries))
	return nil
}
