/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package typescript resolves import specifiers the way the TypeScript
// compiler does, driven by a tsconfig: classic or node module resolution,
// baseUrl, paths mappings, allowJs, and declaration files.
package typescript

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	cabfs "bennypowers.dev/filing-cabinet/fs"
	"bennypowers.dev/filing-cabinet/internal/logger"
	"bennypowers.dev/filing-cabinet/lookup"
	"bennypowers.dev/filing-cabinet/specifier"
	"bennypowers.dev/filing-cabinet/tsconfig"
)

var (
	// sourceExtensions satisfy an import in order.
	sourceExtensions = []string{".ts", ".tsx", ".d.ts"}
	// scriptExtensions are added when allowJs is on.
	scriptExtensions = []string{".js", ".jsx"}

	// rewrittenExtensions maps emitted extensions to the sources that produce them.
	rewrittenExtensions = map[string][]string{
		".js":  {".ts", ".tsx", ".d.ts"},
		".jsx": {".tsx"},
		".mjs": {".mts", ".d.mts"},
		".cjs": {".cts", ".d.cts"},
	}
)

// Options describes one TypeScript lookup.
type Options struct {
	Partial string

	// Filename is the importing file.
	Filename string

	// Directory is the project root. Inline configs resolve relative
	// options against it when TSConfigPath is empty.
	Directory string

	// TSConfig is a path to a tsconfig file, a parsed map, a *tsconfig.Config, or nil.
	TSConfig any

	// TSConfigPath locates an inline TSConfig on disk.
	TSConfigPath string

	// NoTypeDefinitions prefers a sibling .js file over a resolved .d.ts file.
	NoTypeDefinitions bool

	FS cabfs.FileSystem
}

// stamp identifies one version of a config file.
type stamp struct {
	modTime time.Time
	size    int64
}

type cacheEntry struct {
	stamps map[string]stamp
	config *tsconfig.Config
}

// fresh reports whether no file the config was merged from has changed.
func (e cacheEntry) fresh(fsys cabfs.FileSystem) bool {
	for path, want := range e.stamps {
		info, err := fsys.Stat(path)
		if err != nil || !info.ModTime().Equal(want.modTime) || info.Size() != want.size {
			return false
		}
	}
	return true
}

// Resolver resolves TypeScript imports. Configs loaded from disk are cached
// until the modification time or size of the file, or of any config it
// extends, changes.
type Resolver struct {
	mu    sync.Mutex
	cache map[string]cacheEntry
}

// New creates a TypeScript resolver with an empty config cache.
func New() *Resolver {
	return &Resolver{cache: make(map[string]cacheEntry)}
}

// Resolve returns the absolute path of the file the import names, or "".
func (r *Resolver) Resolve(opts Options) (string, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = cabfs.NewOSFileSystem()
	}

	if opts.Partial == "" {
		return "", nil
	}

	cfg, err := r.config(fsys, opts)
	if err != nil {
		return "", err
	}

	q := &query{
		fs:         fsys,
		cfg:        cfg,
		resolution: cfg.Resolution(),
		extensions: sourceExtensions,
	}
	if cfg.CompilerOptions.AllowJs {
		q.extensions = append(append([]string{}, sourceExtensions...), scriptExtensions...)
	}

	logger.Debug("typescript: resolving %s from %s with %s resolution", opts.Partial, opts.Filename, q.resolution)

	result := q.resolve(opts.Partial, filepath.Dir(opts.Filename))
	if result == "" {
		logger.Debug("typescript: could not resolve %s", opts.Partial)
		return "", nil
	}

	if opts.NoTypeDefinitions && strings.HasSuffix(result, ".d.ts") {
		js := strings.TrimSuffix(result, ".d.ts") + ".js"
		if cabfs.IsFile(fsys, js) {
			logger.Debug("typescript: using %s instead of its type definition", js)
			result = js
		}
	}

	abs, err := filepath.Abs(result)
	if err != nil {
		return result, nil
	}
	return abs, nil
}

// config turns the supplied TSConfig into a loaded config.
func (r *Resolver) config(fsys cabfs.FileSystem, opts Options) (*tsconfig.Config, error) {
	base := opts.Directory
	if opts.TSConfigPath != "" {
		base = filepath.Dir(opts.TSConfigPath)
	}

	switch v := opts.TSConfig.(type) {
	case nil:
		return &tsconfig.Config{Dir: base}, nil
	case *tsconfig.Config:
		return v, nil
	case map[string]any:
		return tsconfig.FromMap(fsys, v, base)
	case string:
		if v == "" {
			return &tsconfig.Config{Dir: base}, nil
		}
		return r.load(fsys, v)
	default:
		return nil, fmt.Errorf("%w: unsupported tsconfig value %T", lookup.ErrMalformedConfig, opts.TSConfig)
	}
}

func (r *Resolver) load(fsys cabfs.FileSystem, path string) (*tsconfig.Config, error) {
	if _, err := fsys.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", lookup.ErrConfigLoad, path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.cache[path]; ok && entry.fresh(fsys) {
		return entry.config, nil
	}

	cfg, err := tsconfig.Load(fsys, path)
	if err != nil {
		return nil, err
	}

	stamps := make(map[string]stamp, len(cfg.Files))
	for _, file := range cfg.Files {
		info, err := fsys.Stat(file)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", lookup.ErrConfigLoad, file, err)
		}
		stamps[file] = stamp{modTime: info.ModTime(), size: info.Size()}
	}
	r.cache[path] = cacheEntry{stamps: stamps, config: cfg}
	return cfg, nil
}

type query struct {
	fs         cabfs.FileSystem
	cfg        *tsconfig.Config
	resolution tsconfig.Resolution
	extensions []string
}

func (q *query) resolve(partial, containingDir string) string {
	if specifier.IsRelative(partial) || filepath.IsAbs(partial) {
		candidate := partial
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(containingDir, partial)
		}
		return q.loadCandidate(candidate, strings.HasSuffix(partial, "/"))
	}

	opts := q.cfg.CompilerOptions
	if len(opts.Paths) > 0 {
		for _, candidate := range matchPaths(partial, opts.Paths) {
			if !filepath.IsAbs(candidate) {
				candidate = filepath.Join(opts.PathsBase, candidate)
			}
			if result := q.loadCandidate(candidate, false); result != "" {
				logger.Debug("typescript: %s mapped to %s", partial, result)
				return result
			}
		}
	}

	if opts.BaseURL != "" {
		if result := q.loadCandidate(filepath.Join(opts.BaseURL, partial), false); result != "" {
			return result
		}
	}

	if q.resolution == tsconfig.Node {
		return q.loadNodeModules(partial, containingDir)
	}
	return q.loadAncestors(partial, containingDir)
}

func (q *query) loadCandidate(candidate string, dirOnly bool) string {
	if !dirOnly {
		if result := q.loadFile(candidate); result != "" {
			return result
		}
	}
	if q.resolution == tsconfig.Node {
		return q.loadDirectory(candidate)
	}
	return ""
}

// loadFile tries the candidate with each extension appended, then with an
// emitted extension swapped for its source, then as an exact non-code file.
func (q *query) loadFile(candidate string) string {
	if strings.HasSuffix(candidate, ".d.ts") && cabfs.IsFile(q.fs, candidate) {
		return candidate
	}

	ext := filepath.Ext(candidate)
	switch ext {
	case ".ts", ".tsx", ".mts", ".cts":
		if cabfs.IsFile(q.fs, candidate) {
			return candidate
		}
		return ""
	}

	if sources, ok := rewrittenExtensions[ext]; ok {
		stem := strings.TrimSuffix(candidate, ext)
		for _, source := range sources {
			if p := stem + source; cabfs.IsFile(q.fs, p) {
				return p
			}
		}
		if q.cfg.CompilerOptions.AllowJs && cabfs.IsFile(q.fs, candidate) {
			return candidate
		}
		return ""
	}

	for _, e := range q.extensions {
		if p := candidate + e; cabfs.IsFile(q.fs, p) {
			return p
		}
	}

	if ext != "" && cabfs.IsFile(q.fs, candidate) {
		logger.Debug("typescript: %s is not a module, using the file as-is", candidate)
		return candidate
	}
	return ""
}

func (q *query) loadDirectory(dir string) string {
	if !cabfs.IsDir(q.fs, dir) {
		return ""
	}

	pkg, err := lookup.ReadPackageJSON(q.fs, dir)
	if err != nil {
		logger.Debug("typescript: ignoring %s: %v", dir, err)
	}
	if entry := pkg.Entry("types", "typings", "main"); entry != "" {
		target := filepath.Join(dir, entry)
		if result := q.loadFile(target); result != "" {
			return result
		}
		if stem := strings.TrimSuffix(target, filepath.Ext(target)); stem != target {
			if result := q.loadFile(stem); result != "" {
				return result
			}
		}
		if result, ok := lookup.LoadIndex(q.fs, target, q.extensions); ok {
			return result
		}
	}

	if result, ok := lookup.LoadIndex(q.fs, dir, q.extensions); ok {
		return result
	}
	return ""
}

func (q *query) loadNodeModules(partial, containingDir string) string {
	typesName := typesPackage(partial)
	for _, modules := range lookup.NodeModulesPaths(containingDir) {
		if result := q.loadCandidate(filepath.Join(modules, partial), false); result != "" {
			return result
		}
		if result := q.loadCandidate(filepath.Join(modules, "@types", typesName), false); result != "" {
			return result
		}
	}
	return ""
}

// loadAncestors is classic resolution for non-relative names: the importing
// directory and each ancestor are probed in turn.
func (q *query) loadAncestors(partial, containingDir string) string {
	dir := containingDir
	for {
		if result := q.loadFile(filepath.Join(dir, partial)); result != "" {
			return result
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// typesPackage names the DefinitelyTyped package for a specifier:
// "@scope/pkg/sub" becomes "scope__pkg/sub".
func typesPackage(partial string) string {
	if rest, ok := strings.CutPrefix(partial, "@"); ok {
		if scope, name, found := strings.Cut(rest, "/"); found {
			return scope + "__" + name
		}
	}
	return partial
}
