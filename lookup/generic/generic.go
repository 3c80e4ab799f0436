/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package generic resolves partials for file types no other resolver
// understands, by joining paths and borrowing the importing file's extension.
package generic

import (
	"path/filepath"
	"slices"

	cabfs "bennypowers.dev/filing-cabinet/fs"
	"bennypowers.dev/filing-cabinet/internal/logger"
	"bennypowers.dev/filing-cabinet/specifier"
)

// ScriptExtensions are probed after the importing file's extension.
var ScriptExtensions = []string{".js", ".jsx", ".ts", ".tsx"}

// Options describes one generic lookup.
type Options struct {
	Partial string

	// Filename is the importing file. Relative partials resolve against
	// its directory and it supplies the default extension.
	Filename string

	// Directory is where non-relative partials are looked up.
	Directory string

	FS cabfs.FileSystem
}

// Resolver joins partials onto a directory. It holds no state.
type Resolver struct{}

// New creates a generic resolver.
func New() *Resolver {
	return &Resolver{}
}

// Resolve returns the first existing candidate. When none exists it still
// returns its best guess: the joined path with the importing file's
// extension appended if the partial had none. It returns "" only for an
// empty partial.
func (r *Resolver) Resolve(opts Options) (string, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = cabfs.NewOSFileSystem()
	}

	if opts.Partial == "" {
		return "", nil
	}

	var candidate string
	switch {
	case filepath.IsAbs(opts.Partial):
		candidate = filepath.Clean(opts.Partial)
	case specifier.IsRelative(opts.Partial):
		candidate = filepath.Join(filepath.Dir(opts.Filename), opts.Partial)
	default:
		candidate = filepath.Join(opts.Directory, opts.Partial)
	}

	ext := filepath.Ext(opts.Filename)
	hasExt := filepath.Ext(candidate) != ""

	if hasExt && cabfs.IsFile(fsys, candidate) {
		return candidate, nil
	}

	probes := []string{}
	if ext != "" {
		probes = append(probes, ext)
	}
	for _, e := range ScriptExtensions {
		if !slices.Contains(probes, e) {
			probes = append(probes, e)
		}
	}
	for _, e := range probes {
		if p := candidate + e; cabfs.IsFile(fsys, p) {
			return p, nil
		}
	}

	if !hasExt && cabfs.IsFile(fsys, candidate) {
		return candidate, nil
	}

	if !hasExt {
		candidate += ext
	}
	logger.Debug("generic: no file found, guessing %s", candidate)
	return candidate, nil
}
