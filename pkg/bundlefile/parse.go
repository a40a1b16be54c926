// SPDX-License-Identifier: MPL-2.0

package bundlefile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
)

// Parse reads the bundle rooted at dir and returns its parsed form. Every
// piece of the layout is independently optional; content-level problems drop
// the offending unit and are returned as warnings. Only an unreadable
// directory is an error.
func Parse(dir, bundleID string) (*Bundle, []Warning, error) {
	bundle := &Bundle{ID: bundleID}
	var warnings []Warning

	rootDocPath := filepath.Join(dir, RootDocName)
	data, err := os.ReadFile(rootDocPath)
	switch {
	case err == nil:
		text := string(data)
		bundle.RootDoc = &text
	case os.IsNotExist(err):
		// No root document is fine.
	default:
		return nil, nil, fmt.Errorf("bundlefile: read %s: %w", rootDocPath, err)
	}

	configDir := filepath.Join(dir, ConfigDirName)

	agentWarnings, err := parseAgents(filepath.Join(configDir, AgentsDirName), bundle)
	if err != nil {
		return nil, nil, err
	}
	warnings = append(warnings, agentWarnings...)

	commandWarnings, err := parseCommands(filepath.Join(configDir, CommandsDirName), bundle)
	if err != nil {
		return nil, nil, err
	}
	warnings = append(warnings, commandWarnings...)

	hookWarnings, err := parseHooks(filepath.Join(configDir, HooksDirName), bundle)
	if err != nil {
		return nil, nil, err
	}
	warnings = append(warnings, hookWarnings...)

	settingsPath := filepath.Join(configDir, SettingsFileName)
	if data, err := os.ReadFile(settingsPath); err == nil {
		settings, parseErr := ParseSettings(data)
		if parseErr != nil {
			// A bad settings document degrades the bundle, never aborts it.
			warnings = append(warnings, Warning{
				Bundle:  bundleID,
				Path:    filepath.Join(ConfigDirName, SettingsFileName),
				Message: parseErr.Error(),
			})
		} else {
			bundle.Settings = settings
		}
	} else if !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("bundlefile: read %s: %w", settingsPath, err)
	}

	return bundle, warnings, nil
}

// listItemFiles returns the sorted regular files in dir. A missing directory
// yields an empty list; any other failure is a structural error.
func listItemFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("bundlefile: read %s: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

func parseAgents(dir string, bundle *Bundle) ([]Warning, error) {
	files, err := listItemFiles(dir)
	if err != nil {
		return nil, err
	}
	var warnings []Warning
	for _, name := range files {
		if filepath.Ext(name) != ItemExt {
			continue
		}
		relPath := filepath.Join(ConfigDirName, AgentsDirName, name)
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("bundlefile: read %s: %w", relPath, err)
		}
		meta, body, err := parseItemFile(string(data))
		if err != nil {
			warnings = append(warnings, Warning{Bundle: bundle.ID, Path: relPath, Message: err.Error()})
			continue
		}
		itemName := deriveName(meta.Name, name)
		if itemName == "" {
			warnings = append(warnings, Warning{Bundle: bundle.ID, Path: relPath, Message: "agent has no derivable name, dropped"})
			continue
		}
		bundle.Agents = append(bundle.Agents, Agent{
			Name:         itemName,
			Description:  meta.Description,
			Tools:        meta.Tools,
			Model:        meta.Model,
			Color:        meta.Color,
			Body:         body,
			SourceBundle: bundle.ID,
		})
	}
	return warnings, nil
}

func parseCommands(dir string, bundle *Bundle) ([]Warning, error) {
	files, err := listItemFiles(dir)
	if err != nil {
		return nil, err
	}
	var warnings []Warning
	for _, name := range files {
		if filepath.Ext(name) != ItemExt {
			continue
		}
		relPath := filepath.Join(ConfigDirName, CommandsDirName, name)
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("bundlefile: read %s: %w", relPath, err)
		}
		meta, body, err := parseItemFile(string(data))
		if err != nil {
			warnings = append(warnings, Warning{Bundle: bundle.ID, Path: relPath, Message: err.Error()})
			continue
		}
		itemName := deriveName(meta.Name, name)
		if itemName == "" {
			warnings = append(warnings, Warning{Bundle: bundle.ID, Path: relPath, Message: "command has no derivable name, dropped"})
			continue
		}
		bundle.Commands = append(bundle.Commands, Command{
			Name:         itemName,
			Description:  meta.Description,
			AllowedTools: meta.AllowedTools,
			ArgumentHint: meta.ArgumentHint,
			Body:         body,
			SourceBundle: bundle.ID,
		})
	}
	return warnings, nil
}

func parseHooks(dir string, bundle *Bundle) ([]Warning, error) {
	files, err := listItemFiles(dir)
	if err != nil {
		return nil, err
	}
	var warnings []Warning
	for _, name := range files {
		relPath := filepath.Join(ConfigDirName, HooksDirName, name)
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("bundlefile: read %s: %w", relPath, err)
		}
		ext := filepath.Ext(name)
		hookName := strings.TrimSuffix(name, ext)
		if hookName == "" {
			warnings = append(warnings, Warning{Bundle: bundle.ID, Path: relPath, Message: "hook has no derivable name, dropped"})
			continue
		}
		kind := KindScript
		if ext == ".json" {
			kind = KindConfig
			if !json.Valid(jsonc.ToJSON(data)) {
				warnings = append(warnings, Warning{Bundle: bundle.ID, Path: relPath, Message: "config hook is not valid JSON, dropped"})
				continue
			}
		} else if err := CheckScript(name, data); err != nil {
			// Malformed scripts still compose; the author just gets told.
			warnings = append(warnings, Warning{Bundle: bundle.ID, Path: relPath, Message: err.Error()})
		}
		bundle.Hooks = append(bundle.Hooks, Hook{
			Name:         hookName,
			Kind:         kind,
			Ext:          ext,
			Body:         string(data),
			SourceBundle: bundle.ID,
		})
	}
	return warnings, nil
}

// deriveName prefers the frontmatter name and falls back to the file name
// without its extension.
func deriveName(metaName, fileName string) string {
	if trimmed := strings.TrimSpace(metaName); trimmed != "" {
		return trimmed
	}
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	if Normalize(stem) == "" {
		return ""
	}
	return stem
}
