/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package lookup holds what the delegate resolvers share: filesystem
// probing in node's order, package.json reading, and sentinel errors.
//
// Each delegate lives in a subpackage and answers one question: given a
// partial, the file that references it, and a root directory, which file
// is meant? Every delegate returns ("", nil) when nothing matches.
package lookup

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/tidwall/jsonc"

	cabfs "bennypowers.dev/filing-cabinet/fs"
)

// Sentinel errors shared by the delegates.
var (
	// ErrMalformedConfig indicates a configuration the caller supplied cannot be parsed.
	// It is the only error the dispatcher lets through to its callers.
	ErrMalformedConfig = errors.New("malformed configuration")

	// ErrConfigLoad indicates a configuration file could not be read or evaluated.
	ErrConfigLoad = errors.New("could not load configuration")
)

// LoadAsFile tries path as-is, then with each extension appended.
func LoadAsFile(fsys cabfs.FileSystem, path string, extensions []string) (string, bool) {
	if cabfs.IsFile(fsys, path) {
		return path, true
	}
	for _, ext := range extensions {
		if candidate := path + ext; cabfs.IsFile(fsys, candidate) {
			return candidate, true
		}
	}
	return "", false
}

// LoadIndex looks for an index file with one of the extensions inside dir.
func LoadIndex(fsys cabfs.FileSystem, dir string, extensions []string) (string, bool) {
	for _, ext := range extensions {
		if candidate := filepath.Join(dir, "index"+ext); cabfs.IsFile(fsys, candidate) {
			return candidate, true
		}
	}
	return "", false
}

// NodeModulesPaths lists the node_modules directories node searches from start,
// nearest first. Directories that are themselves named node_modules are skipped.
func NodeModulesPaths(start string) []string {
	var dirs []string
	dir := filepath.Clean(start)
	for {
		if filepath.Base(dir) != "node_modules" {
			dirs = append(dirs, filepath.Join(dir, "node_modules"))
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return dirs
}

// PackageJSON is a parsed package.json manifest.
type PackageJSON struct {
	// Dir is the directory holding the manifest.
	Dir string

	fields map[string]any
}

// ReadPackageJSON reads dir/package.json. Comments and trailing commas are tolerated.
// It returns (nil, nil) when the directory has no manifest.
func ReadPackageJSON(fsys cabfs.FileSystem, dir string) (*PackageJSON, error) {
	manifest := filepath.Join(dir, "package.json")
	if !cabfs.IsFile(fsys, manifest) {
		return nil, nil
	}

	data, err := fsys.ReadFile(manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", manifest, err)
	}

	var fields map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &fields); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", manifest, err)
	}

	return &PackageJSON{Dir: dir, fields: fields}, nil
}

// Field returns a string-valued top-level field, or "" when absent or not a string.
func (p *PackageJSON) Field(name string) string {
	if p == nil {
		return ""
	}
	s, _ := p.fields[name].(string)
	return s
}

// Entry returns the first non-empty string among the given fields.
func (p *PackageJSON) Entry(fields ...string) string {
	for _, name := range fields {
		if v := p.Field(name); v != "" {
			return v
		}
	}
	return ""
}
