// SPDX-License-Identifier: MPL-2.0

// Package backup snapshots and restores composed output trees. The writer
// never rolls back a partial write; instead a snapshot of the previous output
// is taken before the first write, and Restore reinstates the most recent
// one. Snapshots cover exactly the files composition owns: the root memory
// document and the .claude directory.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"stackpack/pkg/bundlefile"
)

// DefaultDirName is the snapshot directory created inside the output root.
const DefaultDirName = ".stackpack-backup"

const snapshotTimeFormat = "20060102-150405"

// Snapshot copies the composed pieces of outputRoot into a new timestamped
// directory under backupDir (default: outputRoot/.stackpack-backup). It
// returns the snapshot path, or "" when outputRoot holds nothing to snapshot.
func Snapshot(outputRoot, backupDir string) (string, error) {
	rootDoc := filepath.Join(outputRoot, bundlefile.RootDocName)
	configDir := filepath.Join(outputRoot, bundlefile.ConfigDirName)

	hasRootDoc := fileExists(rootDoc)
	hasConfigDir := dirExists(configDir)
	if !hasRootDoc && !hasConfigDir {
		return "", nil
	}

	if backupDir == "" {
		backupDir = filepath.Join(outputRoot, DefaultDirName)
	}

	name := time.Now().Format(snapshotTimeFormat)
	snapshotPath := filepath.Join(backupDir, name)
	for i := 1; dirExists(snapshotPath); i++ {
		snapshotPath = filepath.Join(backupDir, fmt.Sprintf("%s-%d", name, i))
	}
	if err := os.MkdirAll(snapshotPath, 0o755); err != nil {
		return "", fmt.Errorf("backup: create snapshot directory: %w", err)
	}

	if hasRootDoc {
		if err := copyFile(rootDoc, filepath.Join(snapshotPath, bundlefile.RootDocName)); err != nil {
			return "", err
		}
	}
	if hasConfigDir {
		if err := copyTree(configDir, filepath.Join(snapshotPath, bundlefile.ConfigDirName)); err != nil {
			return "", err
		}
	}
	return snapshotPath, nil
}

// Latest returns the path of the most recent snapshot under backupDir.
// Snapshot names are timestamps, so lexical order is chronological order.
func Latest(backupDir string) (string, error) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return "", fmt.Errorf("backup: read %s: %w", backupDir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("backup: no snapshots in %s", backupDir)
	}
	sort.Strings(names)
	return filepath.Join(backupDir, names[len(names)-1]), nil
}

// Restore copies the most recent snapshot back over outputRoot. Files written
// since the snapshot remain unless the snapshot also contains them; the
// restore overwrites, it does not wipe.
func Restore(outputRoot, backupDir string) (string, error) {
	if backupDir == "" {
		backupDir = filepath.Join(outputRoot, DefaultDirName)
	}
	snapshotPath, err := Latest(backupDir)
	if err != nil {
		return "", err
	}

	rootDoc := filepath.Join(snapshotPath, bundlefile.RootDocName)
	if fileExists(rootDoc) {
		if err := copyFile(rootDoc, filepath.Join(outputRoot, bundlefile.RootDocName)); err != nil {
			return "", err
		}
	}
	configDir := filepath.Join(snapshotPath, bundlefile.ConfigDirName)
	if dirExists(configDir) {
		if err := copyTree(configDir, filepath.Join(outputRoot, bundlefile.ConfigDirName)); err != nil {
			return "", err
		}
	}
	return snapshotPath, nil
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("backup: create %s: %w", filepath.Dir(dst), err)
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("backup: open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("backup: create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("backup: copy to %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("backup: close %s: %w", dst, err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
