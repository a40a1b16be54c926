// SPDX-License-Identifier: MPL-2.0

package registry

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"stackpack/pkg/cueutil"
)

// ManifestName is the descriptor file at every bundle root.
const ManifestName = "bundle.toml"

//go:embed manifest_schema.cue
var manifestSchema string

// LoadManifest reads and validates the bundle.toml at the given bundle root.
// Validation is two-stage: TOML decoding for shape, then unification with the
// embedded CUE schema for constraints TOML cannot express (id patterns,
// priority ranges).
func LoadManifest(bundleRoot string) (*Descriptor, error) {
	path := filepath.Join(bundleRoot, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: read manifest: %w", err)
	}
	return parseManifest(data, path)
}

func parseManifest(data []byte, path string) (*Descriptor, error) {
	var descriptor Descriptor
	if err := toml.Unmarshal(data, &descriptor); err != nil {
		return nil, fmt.Errorf("registry: parse %s: %w", path, err)
	}
	if err := cueutil.Check(manifestSchema, &descriptor, "#Manifest", path); err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	return &descriptor, nil
}

// HasManifest reports whether dir contains a bundle.toml.
func HasManifest(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ManifestName))
	return err == nil && !info.IsDir()
}
