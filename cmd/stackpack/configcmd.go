// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stackpack/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect stackpack configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration after merging built-in defaults, the
config file, and STACKPACK_* environment variables.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := appConfig

	fmt.Println(TitleStyle.Render("Effective configuration"))
	fmt.Println()

	if dir, err := config.ConfigDir(); err == nil {
		fmt.Println("  " + MutedStyle.Render("config dir:     ") + dir)
	}
	fmt.Println("  " + MutedStyle.Render("output_root:    ") + cfg.OutputRoot)
	searchPaths := "(none)"
	if len(cfg.SearchPaths) > 0 {
		searchPaths = strings.Join(cfg.SearchPaths, ", ")
	}
	fmt.Println("  " + MutedStyle.Render("search_paths:   ") + searchPaths)
	fmt.Printf("  %s%t\n", MutedStyle.Render("backup.enabled: "), cfg.Backup.Enabled)
	backupDir := cfg.Backup.Dir
	if backupDir == "" {
		backupDir = "(default, .stackpack-backup under the output root)"
	}
	fmt.Println("  " + MutedStyle.Render("backup.dir:     ") + backupDir)
	fmt.Printf("  %s%t\n", MutedStyle.Render("gitignore:      "), cfg.Gitignore)
	fmt.Println("  " + MutedStyle.Render("ui.color_scheme:") + " " + cfg.UI.ColorScheme)
	fmt.Printf("  %s %t\n", MutedStyle.Render("ui.verbose:    "), cfg.UI.Verbose)
	return nil
}
