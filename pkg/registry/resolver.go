// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// UserBundlesDir returns the per-user bundle directory, ~/.stackpack/bundles.
func UserBundlesDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("registry: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".stackpack", "bundles"), nil
}

// Resolver locates bundles by id across an ordered list of search paths.
// Earlier paths take precedence only for listing order; a duplicate id across
// any two paths is a hard collision, matching the principle that descriptor
// identity is global.
type Resolver struct {
	// SearchPaths are directories whose immediate subdirectories are checked
	// for bundle manifests. Missing directories are skipped silently.
	SearchPaths []string
}

// NewResolver builds a resolver over the standard search order: the working
// directory's ./bundles, the user bundle directory, then any extra configured
// paths.
func NewResolver(extraPaths ...string) *Resolver {
	paths := []string{filepath.Join(".", "bundles")}
	if userDir, err := UserBundlesDir(); err == nil {
		paths = append(paths, userDir)
	}
	paths = append(paths, extraPaths...)
	return &Resolver{SearchPaths: paths}
}

// DiscoverAll scans every search path and returns all discovered bundles
// sorted by id. Two bundles declaring the same id is a CollisionError.
func (r *Resolver) DiscoverAll() ([]Entry, error) {
	seen := make(map[string]string)
	var entries []Entry

	for _, searchPath := range r.SearchPaths {
		dirEntries, err := os.ReadDir(searchPath)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("registry: scan %s: %w", searchPath, err)
		}
		for _, dirEntry := range dirEntries {
			if !dirEntry.IsDir() {
				continue
			}
			bundleRoot := filepath.Join(searchPath, dirEntry.Name())
			if !HasManifest(bundleRoot) {
				continue
			}
			descriptor, err := LoadManifest(bundleRoot)
			if err != nil {
				return nil, err
			}
			if firstSource, ok := seen[descriptor.ID]; ok {
				return nil, &CollisionError{
					ID:           descriptor.ID,
					FirstSource:  firstSource,
					SecondSource: bundleRoot,
				}
			}
			absRoot, err := filepath.Abs(bundleRoot)
			if err != nil {
				return nil, fmt.Errorf("registry: resolve %s: %w", bundleRoot, err)
			}
			seen[descriptor.ID] = bundleRoot
			entries = append(entries, Entry{Path: absRoot, Descriptor: *descriptor})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Descriptor.ID < entries[j].Descriptor.ID
	})
	return entries, nil
}

// Resolve turns bundle references into ordered entries. A reference is either
// a bundle id (looked up across the search paths) or a path to a bundle root
// (anything containing a path separator, or an existing directory). The
// returned order matches the reference order; it is the canonical bundle order
// for the whole composition run.
func (r *Resolver) Resolve(refs []string) ([]Entry, error) {
	var discovered []Entry
	var discoverErr error
	discoveredOnce := false

	lookupByID := func(id string) (*Entry, error) {
		if !discoveredOnce {
			discovered, discoverErr = r.DiscoverAll()
			discoveredOnce = true
		}
		if discoverErr != nil {
			return nil, discoverErr
		}
		for i := range discovered {
			if discovered[i].Descriptor.ID == id {
				return &discovered[i], nil
			}
		}
		return nil, nil
	}

	entries := make([]Entry, 0, len(refs))
	for _, ref := range refs {
		if looksLikePath(ref) {
			entry, err := entryFromPath(ref)
			if err != nil {
				return nil, err
			}
			entries = append(entries, *entry)
			continue
		}
		entry, err := lookupByID(ref)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			// An id that is also an existing local directory still counts.
			if info, statErr := os.Stat(ref); statErr == nil && info.IsDir() {
				pathEntry, err := entryFromPath(ref)
				if err != nil {
					return nil, err
				}
				entries = append(entries, *pathEntry)
				continue
			}
			return nil, fmt.Errorf("registry: bundle %q not found in any search path", ref)
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

func entryFromPath(path string) (*Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("registry: bundle path %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("registry: bundle path %s is not a directory", path)
	}
	descriptor, err := LoadManifest(path)
	if err != nil {
		return nil, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("registry: resolve %s: %w", path, err)
	}
	return &Entry{Path: absPath, Descriptor: *descriptor}, nil
}

func looksLikePath(ref string) bool {
	return strings.ContainsRune(ref, os.PathSeparator) || strings.ContainsRune(ref, '/') ||
		ref == "." || ref == ".."
}
