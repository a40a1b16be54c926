// SPDX-License-Identifier: MPL-2.0

package compose

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stackpack/internal/backup"
	"stackpack/pkg/bundlefile"
)

// writeOutput commits the merged artifacts under outputRoot, sequentially so
// an interrupted process cannot interleave partial files. Returned paths are
// relative to outputRoot in write order.
func writeOutput(outputRoot, mergedDoc string, agents []bundlefile.Agent, commands []bundlefile.Command, hooks []bundlefile.Hook, settings *bundlefile.Settings, gitignore bool) ([]string, error) {
	configDir := filepath.Join(outputRoot, bundlefile.ConfigDirName)
	for _, dir := range []string{
		outputRoot,
		configDir,
		filepath.Join(configDir, bundlefile.AgentsDirName),
		filepath.Join(configDir, bundlefile.CommandsDirName),
		filepath.Join(configDir, bundlefile.HooksDirName),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	var written []string
	write := func(relPath, content string) error {
		path := filepath.Join(outputRoot, relPath)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, relPath)
		return nil
	}

	if err := write(bundlefile.RootDocName, mergedDoc); err != nil {
		return written, err
	}

	for _, agent := range agents {
		relPath := filepath.Join(bundlefile.ConfigDirName, bundlefile.AgentsDirName,
			bundlefile.Slug(agent.Name)+bundlefile.ItemExt)
		content := bundlefile.RenderFrontmatter(map[string]any{
			"name":        agent.Name,
			"description": agent.Description,
			"tools":       agent.Tools,
			"model":       agent.Model,
			"color":       agent.Color,
		}, agent.Body)
		if err := write(relPath, content); err != nil {
			return written, err
		}
	}

	for _, command := range commands {
		relPath := filepath.Join(bundlefile.ConfigDirName, bundlefile.CommandsDirName,
			bundlefile.Slug(command.Name)+bundlefile.ItemExt)
		content := bundlefile.RenderFrontmatter(map[string]any{
			"description":   command.Description,
			"allowed-tools": command.AllowedTools,
			"argument-hint": command.ArgumentHint,
		}, command.Body)
		if err := write(relPath, content); err != nil {
			return written, err
		}
	}

	for _, hook := range hooks {
		ext := hook.Ext
		if hook.Kind == bundlefile.KindConfig {
			ext = ".json"
		}
		relPath := filepath.Join(bundlefile.ConfigDirName, bundlefile.HooksDirName,
			bundlefile.Slug(hook.Name)+ext)
		if err := write(relPath, hook.Body); err != nil {
			return written, err
		}
	}

	settingsJSON, err := settings.MarshalIndent()
	if err != nil {
		return written, fmt.Errorf("serialize settings: %w", err)
	}
	if err := write(filepath.Join(bundlefile.ConfigDirName, bundlefile.SettingsFileName), string(settingsJSON)); err != nil {
		return written, err
	}

	if gitignore {
		if err := ensureGitignore(outputRoot); err != nil {
			return written, err
		}
	}
	return written, nil
}

// ensureGitignore appends the snapshot directory to the output root's
// .gitignore, creating the file when absent. Existing entries are preserved
// untouched.
func ensureGitignore(outputRoot string) error {
	path := filepath.Join(outputRoot, ".gitignore")
	entry := backup.DefaultDirName + "/"

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", path, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == entry {
			return nil
		}
	}

	content := string(data)
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
