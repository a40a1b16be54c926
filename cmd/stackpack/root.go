// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"stackpack/internal/config"
	"stackpack/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// appConfig is the loaded application configuration, populated before any
	// RunE handler executes.
	appConfig *config.Config

	// rootCmd represents the base command when called without subcommands
	rootCmd = &cobra.Command{
		Use:   "stackpack",
		Short: "Compose Claude Code configuration bundles",
		Long: TitleStyle.Render("stackpack") + SubtitleStyle.Render(" - Compose Claude Code configuration bundles") + `

stackpack combines independently-authored configuration bundles — each a
CLAUDE.md memory document plus agents, slash commands, hooks, and settings —
into one deduplicated, priority-ordered configuration.

Bundles are directories with a bundle.toml manifest declaring identity,
priority, and dependency/conflict relations. Collisions resolve by declared
priority; list-like CLAUDE.md sections concatenate, everything else overrides.

` + SubtitleStyle.Render("Examples:") + `
  stackpack list                          Show every discoverable bundle
  stackpack compose react testing -o .    Compose two bundles into the cwd
  stackpack compose ./my-bundle -o out    Compose a bundle by path
  stackpack verify -o .                   Check a composed output tree
  stackpack restore -o .                  Reinstate the latest snapshot`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/stackpack/config.cue)")

	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command through fang for styled help and errors.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			renderIssuePage(os.Stderr, exitErr.IssueID)
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig loads the config file and applies environment overrides.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		cfg = config.DefaultConfig()
	}
	appConfig = cfg

	if !verbose {
		verbose = cfg.UI.Verbose
	}
}

// newLogger builds the CLI logger; verbose mode lowers the level to debug.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "stackpack",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// formatErrorForDisplay renders an error for the terminal, using the
// actionable form (suggestions, verbose error chain) when available.
func formatErrorForDisplay(err error, verbose bool) string {
	var actionable *issue.ActionableError
	if errors.As(err, &actionable) {
		return actionable.Format(verbose)
	}
	return err.Error()
}
