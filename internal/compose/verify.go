// SPDX-License-Identifier: MPL-2.0

package compose

import (
	"os"
	"path/filepath"

	"stackpack/pkg/bundlefile"
)

// Verification is the result of checking a composed output tree for its
// required pieces.
type Verification struct {
	// Valid is true when every required path exists.
	Valid bool
	// Problems describes each missing piece.
	Problems []string
}

// Verify re-checks the presence of the root document, the item directories,
// and the settings file under outputRoot. It is used both as the final
// pipeline step (where problems are warnings, since the writes have already
// committed) and as a standalone post-hoc entry point.
func Verify(outputRoot string) *Verification {
	verification := &Verification{Valid: true}

	checkFile := func(relPath string) {
		path := filepath.Join(outputRoot, relPath)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			verification.Valid = false
			verification.Problems = append(verification.Problems, "missing file: "+relPath)
		}
	}
	checkDir := func(relPath string) {
		path := filepath.Join(outputRoot, relPath)
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			verification.Valid = false
			verification.Problems = append(verification.Problems, "missing directory: "+relPath)
		}
	}

	checkFile(bundlefile.RootDocName)
	checkDir(filepath.Join(bundlefile.ConfigDirName, bundlefile.AgentsDirName))
	checkDir(filepath.Join(bundlefile.ConfigDirName, bundlefile.CommandsDirName))
	checkDir(filepath.Join(bundlefile.ConfigDirName, bundlefile.HooksDirName))
	checkFile(filepath.Join(bundlefile.ConfigDirName, bundlefile.SettingsFileName))

	return verification
}
