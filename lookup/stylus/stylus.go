/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package stylus resolves Stylus @import and @require targets.
package stylus

import (
	"path/filepath"
	"strings"

	cabfs "bennypowers.dev/filing-cabinet/fs"
	"bennypowers.dev/filing-cabinet/internal/logger"
)

// Extension is appended to extensionless imports.
const Extension = ".styl"

// Options describes one Stylus lookup.
type Options struct {
	Partial string

	// Filename is the importing stylesheet; its directory is searched first.
	Filename string

	// Directory is searched second.
	Directory string

	FS cabfs.FileSystem
}

// Resolver resolves Stylus imports. It holds no state.
type Resolver struct{}

// New creates a Stylus resolver.
func New() *Resolver {
	return &Resolver{}
}

// Resolve returns the imported file, or "" when none exists.
func (r *Resolver) Resolve(opts Options) (string, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = cabfs.NewOSFileSystem()
	}

	partial := strings.Trim(strings.TrimSpace(opts.Partial), `"'`)
	if partial == "" {
		return "", nil
	}

	dirs := []string{filepath.Dir(opts.Filename)}
	if opts.Directory != "" {
		dirs = append(dirs, opts.Directory)
	}
	if filepath.IsAbs(partial) {
		dirs = []string{""}
	}

	for _, dir := range dirs {
		candidate := filepath.Join(dir, partial)

		if filepath.Ext(candidate) == "" {
			if p := candidate + Extension; cabfs.IsFile(fsys, p) {
				return p, nil
			}
		} else if cabfs.IsFile(fsys, candidate) {
			return candidate, nil
		}

		if p := filepath.Join(candidate, "index"+Extension); cabfs.IsFile(fsys, p) {
			return p, nil
		}
	}

	logger.Debug("stylus: could not resolve %s", partial)
	return "", nil
}
