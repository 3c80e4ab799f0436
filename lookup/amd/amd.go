/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package amd resolves AMD module ids as RequireJS would locate them,
// using the baseUrl, paths, packages and map options of a RequireJS config.
package amd

import (
	"fmt"
	"path/filepath"
	"strings"

	cabfs "bennypowers.dev/filing-cabinet/fs"
	"bennypowers.dev/filing-cabinet/internal/logger"
	"bennypowers.dev/filing-cabinet/lookup"
	"bennypowers.dev/filing-cabinet/specifier"
)

// Options describes one AMD lookup.
type Options struct {
	Partial string

	// Filename is the requiring module. Relative ids resolve against its directory.
	Filename string

	// Directory is the root baseUrl resolves against when no ConfigPath is known.
	Directory string

	// Config is a path to a config file, a decoded config map, a *Config, or nil.
	Config any

	// ConfigPath is where Config was read from, when it was passed pre-parsed.
	// baseUrl resolves against its directory.
	ConfigPath string

	FS cabfs.FileSystem
}

// Resolver resolves AMD module ids. It holds no state.
type Resolver struct{}

// New creates an AMD resolver.
func New() *Resolver {
	return &Resolver{}
}

// Resolve returns the file the module id names, or "" when it does not exist.
func (r *Resolver) Resolve(opts Options) (string, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = cabfs.NewOSFileSystem()
	}

	cfg, configPath, err := config(fsys, opts)
	if err != nil {
		return "", err
	}

	loader, id := specifier.SplitLoader(opts.Partial)
	if id == "" {
		return "", nil
	}

	baseURL := cfg.BaseURL
	if !filepath.IsAbs(baseURL) {
		root := opts.Directory
		if configPath != "" {
			root = filepath.Dir(configPath)
		}
		baseURL = filepath.Join(root, baseURL)
	}

	id = applyMap(cfg, id, moduleID(baseURL, opts.Filename))

	var candidates []string
	if specifier.IsRelative(id) {
		candidates = []string{filepath.Join(filepath.Dir(opts.Filename), id)}
	} else {
		candidates = locate(cfg, baseURL, id)
	}

	for _, candidate := range candidates {
		if result, ok := probe(fsys, candidate, loader != ""); ok {
			logger.Debug("amd: resolved %s to %s", opts.Partial, result)
			return result, nil
		}
	}

	logger.Debug("amd: could not resolve %s", opts.Partial)
	return "", nil
}

func config(fsys cabfs.FileSystem, opts Options) (*Config, string, error) {
	switch v := opts.Config.(type) {
	case nil:
		return &Config{}, opts.ConfigPath, nil
	case *Config:
		return v, opts.ConfigPath, nil
	case map[string]any:
		cfg, err := ConfigFromMap(v)
		return cfg, opts.ConfigPath, err
	case string:
		if v == "" {
			return &Config{}, opts.ConfigPath, nil
		}
		path := v
		if !filepath.IsAbs(path) {
			path = filepath.Join(opts.Directory, path)
		}
		cfg, err := LoadConfig(fsys, path)
		configPath := opts.ConfigPath
		if configPath == "" {
			configPath = path
		}
		return cfg, configPath, err
	default:
		return nil, "", fmt.Errorf("%w: unsupported requirejs config value %T", lookup.ErrMalformedConfig, opts.Config)
	}
}

// locate lists where a top-level module id may live: a package, a paths
// entry (longest matching prefix, fallbacks in order), or baseUrl.
func locate(cfg *Config, baseURL, id string) []string {
	first, rest, _ := strings.Cut(id, "/")
	for _, pkg := range cfg.Packages {
		if pkg.Name != first {
			continue
		}
		location := pkg.Location
		if location == "" {
			location = pkg.Name
		}
		if rest == "" {
			rest = pkg.Main
			if rest == "" {
				rest = "main"
			}
			rest = strings.TrimSuffix(rest, ".js")
		}
		return []string{join(baseURL, location, rest)}
	}

	prefix := ""
	for p := range cfg.Paths {
		if (id == p || strings.HasPrefix(id, p+"/")) && len(p) > len(prefix) {
			prefix = p
		}
	}
	if prefix != "" {
		var candidates []string
		for _, location := range cfg.Paths[prefix] {
			if isURL(location) {
				continue
			}
			candidates = append(candidates, join(baseURL, location, strings.TrimPrefix(id[len(prefix):], "/")))
		}
		if len(candidates) > 0 {
			return candidates
		}
	}

	return []string{filepath.Join(baseURL, id)}
}

// applyMap replaces id using the map entry of the longest scope matching the
// requiring module, falling back to "*".
func applyMap(cfg *Config, id, requirer string) string {
	scope := ""
	for s := range cfg.Map {
		if s == "*" {
			continue
		}
		if (requirer == s || strings.HasPrefix(requirer, s+"/")) && len(s) > len(scope) {
			if _, ok := cfg.Map[s][id]; ok {
				scope = s
			}
		}
	}
	if scope != "" {
		return cfg.Map[scope][id]
	}
	if replacement, ok := cfg.Map["*"][id]; ok {
		return replacement
	}
	return id
}

// moduleID is the id RequireJS would give filename under baseURL.
func moduleID(baseURL, filename string) string {
	rel, err := filepath.Rel(baseURL, filename)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	return strings.TrimSuffix(filepath.ToSlash(rel), ".js")
}

// probe checks the candidate with .js appended, as RequireJS requests it.
// Plugin resources keep their own extension.
func probe(fsys cabfs.FileSystem, candidate string, plugin bool) (string, bool) {
	if !plugin && !strings.HasSuffix(candidate, ".js") {
		if cabfs.IsFile(fsys, candidate+".js") {
			return candidate + ".js", true
		}
	}
	if cabfs.IsFile(fsys, candidate) {
		return candidate, true
	}
	return "", false
}

func join(baseURL, location, rest string) string {
	if !filepath.IsAbs(location) {
		location = filepath.Join(baseURL, location)
	}
	if rest == "" {
		return location
	}
	return filepath.Join(location, rest)
}

func isURL(location string) bool {
	return strings.Contains(location, "://") || strings.HasPrefix(location, "//")
}
