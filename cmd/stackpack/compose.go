// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stackpack/internal/compose"
	"stackpack/internal/issue"
	"stackpack/internal/watch"
	"stackpack/pkg/registry"
)

var (
	composeOutput   string
	composeWatch    bool
	composeNoBackup bool
	composeDryRun   bool

	composeCmd = &cobra.Command{
		Use:   "compose <bundle>...",
		Short: "Compose bundles into an output directory",
		Long: `Compose one or more configuration bundles into a single output tree.

Each argument is either a bundle id (resolved across the search paths) or a
path to a bundle directory. Argument order is canonical: it breaks merge ties
and orders the generated trailer.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCompose,
	}
)

func init() {
	composeCmd.Flags().StringVarP(&composeOutput, "output", "o", "", "output root directory (default from config, else the working directory)")
	composeCmd.Flags().BoolVarP(&composeWatch, "watch", "w", false, "recompose whenever a selected bundle changes")
	composeCmd.Flags().BoolVar(&composeNoBackup, "no-backup", false, "skip the pre-write snapshot of an existing output tree")
	composeCmd.Flags().BoolVar(&composeDryRun, "dry-run", false, "resolve, parse, and merge without writing anything")
}

func runCompose(cmd *cobra.Command, args []string) error {
	outputRoot := composeOutput
	if outputRoot == "" {
		outputRoot = appConfig.OutputRoot
	}
	if outputRoot == "" {
		outputRoot = "."
	}

	resolver := registry.NewResolver(appConfig.SearchPaths...)
	entries, err := resolver.Resolve(args)
	if err != nil {
		return NewExitError(1, issue.NewErrorContext().
			WithOperation("resolve bundle references").
			WithSuggestion("Run 'stackpack list' to see every discoverable bundle").
			WithSuggestion("Pass a path (./my-bundle) to compose a bundle outside the search paths").
			Wrap(err).
			BuildError()).WithIssue(issue.BundleNotFoundId)
	}

	if err := registry.CheckCompatibility(entries); err != nil {
		return NewExitError(1, issue.NewErrorContext().
			WithOperation("check bundle compatibility").
			WithSuggestion("Add the missing dependencies to the selection, or drop the conflicting bundle").
			Wrap(err).
			BuildError())
	}

	runOnce := func(ctx context.Context) error {
		result, err := compose.Compose(ctx, entries, outputRoot, compose.Options{
			Logger:    newLogger(),
			DryRun:    composeDryRun,
			Backup:    appConfig.Backup.Enabled && !composeNoBackup,
			BackupDir: appConfig.Backup.Dir,
			Gitignore: appConfig.Gitignore,
		})
		if err != nil {
			return issue.NewErrorContext().
				WithOperation("compose bundles").
				WithResource(outputRoot).
				WithSuggestion("Re-run with --verbose for the full error chain").
				Wrap(err).
				BuildError()
		}
		printComposeResult(result)
		return nil
	}

	ctx := cmd.Context()
	if err := runOnce(ctx); err != nil {
		id := issue.CompositionFailedId
		var stepErr *compose.StepError
		if errors.As(err, &stepErr) && stepErr.Step == compose.StepWriting {
			id = issue.OutputNotWritableId
		}
		return NewExitError(1, err).WithIssue(id)
	}

	if !composeWatch {
		return nil
	}

	roots := make([]string, len(entries))
	for i, entry := range entries {
		roots[i] = entry.Path
	}
	watcher, err := watch.New(watch.Config{
		Roots: roots,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintln(os.Stderr, MutedStyle.Render(fmt.Sprintf("change detected (%d paths), recomposing...", len(changed))))
			if err := runOnce(ctx); err != nil {
				// Keep watching; a broken edit should not kill the loop.
				fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
			}
			return nil
		},
		Stderr: os.Stderr,
	})
	if err != nil {
		return NewExitError(1, err)
	}

	fmt.Fprintln(os.Stderr, SubtitleStyle.Render("Watching for bundle changes. Press Ctrl+C to stop."))
	if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
		return NewExitError(1, err)
	}
	return nil
}

func printComposeResult(result *compose.Result) {
	verb := "Composed"
	if composeDryRun {
		verb = "Would compose"
	}
	fmt.Println(SuccessStyle.Render("✓ "+verb+" ") +
		fmt.Sprintf("%d bundle(s) into %s", len(result.Bundles), result.OutputRoot))
	for _, entry := range result.Bundles {
		line := "  " + CmdStyle.Render(entry.Descriptor.ID)
		if entry.Descriptor.Version != "" {
			line += MutedStyle.Render(" v" + entry.Descriptor.Version)
		}
		fmt.Println(line)
	}
	if result.BackupPath != "" {
		fmt.Println(MutedStyle.Render("  snapshot: " + result.BackupPath))
	}
	if verbose {
		for _, path := range result.Written {
			fmt.Println(MutedStyle.Render("  wrote " + path))
		}
	}
	for _, warning := range result.Warnings {
		fmt.Println(WarningStyle.Render("  warning: ") + warning.Path + ": " + warning.Message)
	}
}
