// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stackpack/internal/backup"
	"stackpack/internal/issue"
)

var (
	restoreOutput string

	restoreCmd = &cobra.Command{
		Use:   "restore",
		Short: "Reinstate the latest pre-compose snapshot",
		Long: `Copy the most recent snapshot back over the output directory. Snapshots
are taken automatically before a compose overwrites an existing tree, unless
disabled with --no-backup or in the config file.

The restore overwrites files; it does not delete anything the snapshot lacks.`,
		Args: cobra.NoArgs,
		RunE: runRestore,
	}
)

func init() {
	restoreCmd.Flags().StringVarP(&restoreOutput, "output", "o", "", "output root directory to restore (default from config, else the working directory)")
}

func runRestore(cmd *cobra.Command, args []string) error {
	outputRoot := restoreOutput
	if outputRoot == "" {
		outputRoot = appConfig.OutputRoot
	}
	if outputRoot == "" {
		outputRoot = "."
	}

	snapshotPath, err := backup.Restore(outputRoot, appConfig.Backup.Dir)
	if err != nil {
		return NewExitError(1, issue.NewErrorContext().
			WithOperation("restore snapshot").
			WithResource(outputRoot).
			WithSuggestion("Snapshots live under "+backup.DefaultDirName+"/ inside the output root").
			WithSuggestion("Snapshots are only taken when a compose overwrites an existing tree").
			Wrap(err).
			BuildError())
	}

	fmt.Println(SuccessStyle.Render("✓ Restored ") + outputRoot + MutedStyle.Render(" from "+snapshotPath))
	return nil
}
