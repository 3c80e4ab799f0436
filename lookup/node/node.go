/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package node resolves CommonJS require() partials the way node does:
// extension probing, directory index files, package.json entry fields and
// an ascending node_modules search.
package node

import (
	"path/filepath"
	"strings"

	cabfs "bennypowers.dev/filing-cabinet/fs"
	"bennypowers.dev/filing-cabinet/internal/logger"
	"bennypowers.dev/filing-cabinet/lookup"
	"bennypowers.dev/filing-cabinet/specifier"
)

// DefaultExtensions are probed, in order, when a partial names no file directly.
var DefaultExtensions = []string{".js", ".jsx"}

// Options describes one CommonJS lookup.
type Options struct {
	// Partial is the required specifier.
	Partial string

	// Filename is the file containing the require call.
	// Relative partials resolve against its directory.
	Filename string

	// Directory is the root for non-relative lookups. It is searched
	// for node_modules first and is itself treated as a module directory.
	Directory string

	// Entry names a package.json field to use instead of "main", e.g. "module".
	Entry string

	// Extensions overrides DefaultExtensions.
	Extensions []string

	// ModuleDirectories overrides where bare partials are searched.
	// Relative names ("node_modules", "web_modules") are looked up in
	// Directory and every ancestor; absolute paths are searched as-is.
	ModuleDirectories []string

	// MainFields lists package.json fields consulted for a package entry point.
	// Defaults to "main"; Entry, when set, is consulted first.
	MainFields []string

	// FS is the filesystem to read. Defaults to the OS filesystem.
	FS cabfs.FileSystem
}

// Resolver resolves CommonJS partials. It holds no state.
type Resolver struct{}

// New creates a CommonJS resolver.
func New() *Resolver {
	return &Resolver{}
}

// Resolve returns the absolute path the partial resolves to, or "" when
// nothing matches. Node built-in modules resolve to "" as they have no file.
func (r *Resolver) Resolve(opts Options) (string, error) {
	q := newQuery(opts)

	spec := specifier.Parse(opts.Partial)
	switch spec.Kind {
	case specifier.KindEmpty:
		return "", nil
	case specifier.KindRelative:
		abs := filepath.Join(filepath.Dir(opts.Filename), spec.Request)
		logger.Debug("node: resolving %s relative to %s", spec.Request, filepath.Dir(opts.Filename))
		return q.loadAsFileOrDirectory(abs, hasTrailingSlash(spec.Request))
	case specifier.KindAbsolute:
		return q.loadAsFileOrDirectory(spec.Request, hasTrailingSlash(spec.Request))
	}

	if IsBuiltin(spec.Request) {
		logger.Debug("node: %s is a built-in module", spec.Request)
		return "", nil
	}

	for _, dir := range q.moduleDirs() {
		result, err := q.loadAsFileOrDirectory(filepath.Join(dir, spec.Request), hasTrailingSlash(spec.Request))
		if err != nil || result != "" {
			return result, err
		}
	}

	logger.Debug("node: could not resolve %s", opts.Partial)
	return "", nil
}

type query struct {
	opts       Options
	fs         cabfs.FileSystem
	extensions []string
	mainFields []string
}

func newQuery(opts Options) *query {
	q := &query{
		opts:       opts,
		fs:         opts.FS,
		extensions: opts.Extensions,
		mainFields: opts.MainFields,
	}
	if q.fs == nil {
		q.fs = cabfs.NewOSFileSystem()
	}
	if len(q.extensions) == 0 {
		q.extensions = DefaultExtensions
	}
	if len(q.mainFields) == 0 {
		q.mainFields = []string{"main"}
	}
	if opts.Entry != "" {
		q.mainFields = append([]string{opts.Entry}, q.mainFields...)
	}
	return q
}

// moduleDirs expands the module directories into absolute search paths,
// nearest ancestor first, without duplicates.
func (q *query) moduleDirs() []string {
	names := q.opts.ModuleDirectories
	if len(names) == 0 {
		names = []string{"node_modules"}
		if q.opts.Directory != "" {
			names = append(names, q.opts.Directory)
		}
	}

	start := q.opts.Directory
	if start == "" {
		start = filepath.Dir(q.opts.Filename)
	}
	start, _ = filepath.Abs(start)

	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	dir := start
	for {
		for _, name := range names {
			if filepath.IsAbs(name) {
				add(filepath.Clean(name))
				continue
			}
			if filepath.Base(dir) == name {
				continue
			}
			add(filepath.Join(dir, name))
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return dirs
}

func (q *query) loadAsFileOrDirectory(path string, dirOnly bool) (string, error) {
	if !dirOnly {
		if file, ok := lookup.LoadAsFile(q.fs, path, q.extensions); ok {
			return file, nil
		}
	}
	if !cabfs.IsDir(q.fs, path) {
		return "", nil
	}
	return q.loadAsDirectory(path)
}

func (q *query) loadAsDirectory(dir string) (string, error) {
	pkg, err := lookup.ReadPackageJSON(q.fs, dir)
	if err != nil {
		return "", err
	}

	if main := pkg.Entry(q.mainFields...); main != "" {
		mainPath := filepath.Join(dir, main)
		if file, ok := lookup.LoadAsFile(q.fs, mainPath, q.extensions); ok {
			return file, nil
		}
		if file, ok := lookup.LoadIndex(q.fs, mainPath, q.extensions); ok {
			return file, nil
		}
	}

	if file, ok := lookup.LoadIndex(q.fs, dir, q.extensions); ok {
		return file, nil
	}
	return "", nil
}

func hasTrailingSlash(p string) bool {
	return strings.HasSuffix(p, "/") || p == "." || p == ".."
}
