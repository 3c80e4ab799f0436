/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package webpack resolves requests the way a webpack build would,
// following the resolve section of its config: aliases, module
// directories, extensions and package main fields.
package webpack

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	cabfs "bennypowers.dev/filing-cabinet/fs"
	"bennypowers.dev/filing-cabinet/internal/logger"
	"bennypowers.dev/filing-cabinet/lookup"
	"bennypowers.dev/filing-cabinet/lookup/node"
	"bennypowers.dev/filing-cabinet/specifier"
)

// Options describes one webpack lookup.
type Options struct {
	// Partial is the request, possibly prefixed with loaders ("style!css!./a.css").
	Partial string

	// Filename is the requesting file. Relative requests resolve against its directory.
	Filename string

	// Directory is the context for non-relative requests, and the base
	// a relative config path is resolved against.
	Directory string

	// Config is a path to a webpack config file, an evaluated config map,
	// or a *ResolveConfig.
	Config any

	FS cabfs.FileSystem
}

type cacheEntry struct {
	modTime time.Time
	size    int64
	config  *ResolveConfig
}

// Resolver resolves webpack requests. Config files are evaluated once and
// cached until their modification time or size changes.
type Resolver struct {
	node *node.Resolver

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// New creates a webpack resolver that finds files with the given node resolver.
// A nil node resolver gets a default one.
func New(n *node.Resolver) *Resolver {
	if n == nil {
		n = node.New()
	}
	return &Resolver{node: n, cache: make(map[string]cacheEntry)}
}

// Resolve returns the file the request names, or "".
func (r *Resolver) Resolve(opts Options) (string, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = cabfs.NewOSFileSystem()
	}

	rc, err := r.config(fsys, opts)
	if err != nil {
		return "", err
	}

	// Only the resource matters; loaders never change which file it is.
	request := specifier.StripLoader(opts.Partial)
	if request == "" {
		return "", nil
	}

	lookupPath := opts.Directory
	if specifier.IsRelative(request) {
		lookupPath = filepath.Dir(opts.Filename)
	}

	rewritten, ignored := rc.apply(request)
	if ignored {
		logger.Debug("webpack: %s is aliased to nothing", request)
		return "", nil
	}
	if rewritten != request {
		logger.Debug("webpack: alias rewrote %s to %s", request, rewritten)
	}

	return r.node.Resolve(node.Options{
		Partial: rewritten,
		// node resolves relative requests against the directory of Filename
		Filename:          filepath.Join(lookupPath, filepath.Base(opts.Filename)),
		Directory:         lookupPath,
		Extensions:        rc.Extensions,
		ModuleDirectories: rc.Modules,
		MainFields:        rc.MainFields,
		FS:                fsys,
	})
}

func (r *Resolver) config(fsys cabfs.FileSystem, opts Options) (*ResolveConfig, error) {
	switch v := opts.Config.(type) {
	case *ResolveConfig:
		return v, nil
	case map[string]any:
		return ConfigFromMap(v), nil
	case string:
		path := v
		if !filepath.IsAbs(path) {
			path = filepath.Join(opts.Directory, path)
		}
		return r.load(fsys, path)
	case nil:
		return ConfigFromMap(nil), nil
	default:
		return nil, fmt.Errorf("%w: unsupported webpack config value %T", lookup.ErrConfigLoad, opts.Config)
	}
}

func (r *Resolver) load(fsys cabfs.FileSystem, path string) (*ResolveConfig, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", lookup.ErrConfigLoad, path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.cache[path]; ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
		return entry.config, nil
	}

	rc, err := LoadConfig(fsys, path)
	if err != nil {
		return nil, err
	}
	logger.Debug("webpack: loaded config %s", path)
	r.cache[path] = cacheEntry{modTime: info.ModTime(), size: info.Size(), config: rc}
	return rc, nil
}
