/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package sass resolves @import and @use targets of Sass, SCSS and Less
// stylesheets: extensionless names, underscore partials, index files, and
// "~" imports from node_modules.
package sass

import (
	"path/filepath"
	"slices"
	"strings"

	cabfs "bennypowers.dev/filing-cabinet/fs"
	"bennypowers.dev/filing-cabinet/internal/logger"
	"bennypowers.dev/filing-cabinet/lookup"
)

// Extensions are tried after the importing file's own extension.
var Extensions = []string{".scss", ".sass", ".css"}

// Options describes one stylesheet lookup.
type Options struct {
	Partial string

	// Filename is the importing stylesheet. Its directory is searched
	// first and its extension is tried first.
	Filename string

	// Directory is searched after the importing file's directory.
	Directory string

	// LoadPaths are searched after Directory.
	LoadPaths []string

	FS cabfs.FileSystem
}

// Resolver resolves stylesheet imports. It holds no state.
type Resolver struct{}

// New creates a stylesheet resolver.
func New() *Resolver {
	return &Resolver{}
}

// Resolve returns the imported stylesheet, or "" when none exists.
func (r *Resolver) Resolve(opts Options) (string, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = cabfs.NewOSFileSystem()
	}

	partial := strings.Trim(strings.TrimSpace(opts.Partial), `"'`)
	if partial == "" || isExternal(partial) {
		return "", nil
	}

	extensions := candidateExtensions(filepath.Ext(opts.Filename))

	if pkg, ok := strings.CutPrefix(partial, "~"); ok {
		start := opts.Directory
		if start == "" {
			start = filepath.Dir(opts.Filename)
		}
		for _, modules := range lookup.NodeModulesPaths(start) {
			if result := find(fsys, filepath.Join(modules, pkg), extensions); result != "" {
				return result, nil
			}
		}
		return "", nil
	}

	if filepath.IsAbs(partial) {
		return find(fsys, partial, extensions), nil
	}

	dirs := []string{filepath.Dir(opts.Filename)}
	if opts.Directory != "" {
		dirs = append(dirs, opts.Directory)
	}
	dirs = append(dirs, opts.LoadPaths...)

	for _, dir := range dirs {
		if result := find(fsys, filepath.Join(dir, partial), extensions); result != "" {
			logger.Debug("sass: resolved %s to %s", partial, result)
			return result, nil
		}
	}

	logger.Debug("sass: could not resolve %s", partial)
	return "", nil
}

func candidateExtensions(own string) []string {
	extensions := []string{}
	if own != "" {
		extensions = append(extensions, own)
	}
	for _, ext := range Extensions {
		if !slices.Contains(extensions, ext) {
			extensions = append(extensions, ext)
		}
	}
	return extensions
}

// find probes path as written, as an underscore partial, then as a
// directory with an index file.
func find(fsys cabfs.FileSystem, path string, extensions []string) string {
	dir, base := filepath.Split(path)
	partial := filepath.Join(dir, "_"+base)

	if ext := filepath.Ext(base); ext != "" && (slices.Contains(extensions, ext) || ext == ".less") {
		for _, p := range []string{path, partial} {
			if cabfs.IsFile(fsys, p) {
				return p
			}
		}
		return ""
	}

	for _, ext := range extensions {
		for _, p := range []string{path + ext, partial + ext} {
			if cabfs.IsFile(fsys, p) {
				return p
			}
		}
	}

	if cabfs.IsDir(fsys, path) {
		for _, ext := range extensions {
			for _, index := range []string{"_index", "index"} {
				if p := filepath.Join(path, index+ext); cabfs.IsFile(fsys, p) {
					return p
				}
			}
		}
	}
	return ""
}

// isExternal matches imports no file on disk can satisfy: URLs and
// built-in modules such as "sass:math".
func isExternal(partial string) bool {
	return strings.HasPrefix(partial, "sass:") ||
		strings.HasPrefix(partial, "url(") ||
		strings.Contains(partial, "://") ||
		strings.HasPrefix(partial, "//")
}
