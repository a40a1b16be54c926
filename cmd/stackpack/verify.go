// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stackpack/internal/compose"
)

var (
	verifyOutput string

	verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Check a composed output tree",
		Long: `Check that an output directory contains every required piece of a
composed configuration: the CLAUDE.md root document, the agents, commands,
and hooks directories, and the settings file.`,
		Args: cobra.NoArgs,
		RunE: runVerify,
	}
)

func init() {
	verifyCmd.Flags().StringVarP(&verifyOutput, "output", "o", "", "output root directory to verify (default from config, else the working directory)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	outputRoot := verifyOutput
	if outputRoot == "" {
		outputRoot = appConfig.OutputRoot
	}
	if outputRoot == "" {
		outputRoot = "."
	}

	verification := compose.Verify(outputRoot)
	if verification.Valid {
		fmt.Println(SuccessStyle.Render("✓ ") + outputRoot + " contains a complete composed configuration")
		return nil
	}

	fmt.Println(ErrorStyle.Render("✗ ") + outputRoot + " is incomplete:")
	for _, problem := range verification.Problems {
		fmt.Println("  " + WarningStyle.Render(problem))
	}
	return NewExitError(1, fmt.Errorf("verification failed: %d problem(s)", len(verification.Problems)))
}
