/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package tsconfig loads TypeScript project configuration.
//
// Files may contain comments and trailing commas. An "extends" chain is
// followed through relative paths and packages; options in the extending
// file override those it inherits. Path-valued options are made absolute
// against the file that declares them.
package tsconfig

import (
	"encoding/json"
	"fmt"
	"maps"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	cabfs "bennypowers.dev/filing-cabinet/fs"
	"bennypowers.dev/filing-cabinet/lookup"
)

// Resolution is a module resolution strategy.
type Resolution int

const (
	// Classic probes the importing directory and its ancestors for files only.
	Classic Resolution = iota
	// Node additionally reads package.json and index files and searches node_modules.
	Node
)

// String returns the moduleResolution name.
func (r Resolution) String() string {
	if r == Node {
		return "node"
	}
	return "classic"
}

// CompilerOptions holds the compiler options that affect module resolution.
type CompilerOptions struct {
	// BaseURL is absolute, or empty when unset.
	BaseURL string `json:"baseUrl"`

	// Paths maps import patterns to substitutions relative to PathsBase.
	Paths map[string][]string `json:"paths"`

	// ModuleResolution is the configured strategy name, e.g. "node" or "classic".
	ModuleResolution string `json:"moduleResolution"`

	// Module is the configured module kind, e.g. "commonjs" or "esnext".
	Module string `json:"module"`

	// AllowJs lets .js and .jsx files satisfy imports.
	AllowJs bool `json:"allowJs"`

	// RootDir is absolute, or empty when unset.
	RootDir string `json:"rootDir"`

	// PathsBase is the directory path substitutions resolve against:
	// BaseURL when set, else the directory of the file declaring Paths.
	PathsBase string `json:"-"`
}

// Config is a loaded tsconfig.
type Config struct {
	// Path is the file the config was loaded from. Empty for inline configs.
	Path string

	// Dir is the directory relative options were resolved against.
	Dir string

	// Files lists Path followed by every config it extends, in the order
	// they were read.
	Files []string

	CompilerOptions CompilerOptions
}

// Resolution reports which strategy the config selects. An explicit
// moduleResolution wins; otherwise module kinds that imply node resolution
// select Node and everything else, including no setting at all, is Classic.
func (c *Config) Resolution() Resolution {
	if c == nil {
		return Classic
	}
	switch strings.ToLower(c.CompilerOptions.ModuleResolution) {
	case "classic":
		return Classic
	case "node", "node10", "node16", "nodenext", "bundler":
		return Node
	}
	switch strings.ToLower(c.CompilerOptions.Module) {
	case "commonjs", "node16", "nodenext":
		return Node
	}
	return Classic
}

type rawConfig struct {
	Extends         any                        `json:"extends"`
	CompilerOptions map[string]json.RawMessage `json:"compilerOptions"`
}

// layer is the merged compiler options of one file and everything it extends.
type layer struct {
	options   map[string]json.RawMessage
	pathsBase string
}

// Load reads the tsconfig at path and every config it extends.
// Syntax errors and circular extends wrap lookup.ErrMalformedConfig;
// unreadable files wrap lookup.ErrConfigLoad.
func Load(fsys cabfs.FileSystem, path string) (*Config, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", lookup.ErrConfigLoad, path, err)
	}
	l := &loader{fs: fsys, visited: map[string]bool{path: true}, files: []string{path}}
	return l.config(data, path, filepath.Dir(path))
}

// Parse reads an inline tsconfig document. Relative options and extends
// resolve against dir.
func Parse(fsys cabfs.FileSystem, data []byte, dir string) (*Config, error) {
	l := &loader{fs: fsys, visited: map[string]bool{}}
	return l.config(data, "", dir)
}

// FromMap converts an already parsed tsconfig object.
func FromMap(fsys cabfs.FileSystem, m map[string]any, dir string) (*Config, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("%w: tsconfig: %w", lookup.ErrMalformedConfig, err)
	}
	return Parse(fsys, data, dir)
}

type loader struct {
	fs      cabfs.FileSystem
	visited map[string]bool
	files   []string
}

func (l *loader) config(data []byte, path, dir string) (*Config, error) {
	merged, err := l.layer(data, path, dir)
	if err != nil {
		return nil, err
	}

	cfg := &Config{Path: path, Dir: dir, Files: l.files}
	encoded, err := json.Marshal(merged.options)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", lookup.ErrMalformedConfig, describe(path), err)
	}
	if err := json.Unmarshal(encoded, &cfg.CompilerOptions); err != nil {
		return nil, fmt.Errorf("%w: %s: compilerOptions: %w", lookup.ErrMalformedConfig, describe(path), err)
	}

	opts := &cfg.CompilerOptions
	opts.PathsBase = merged.pathsBase
	if opts.BaseURL != "" {
		opts.PathsBase = opts.BaseURL
	}
	return cfg, nil
}

func (l *loader) layer(data []byte, path, dir string) (*layer, error) {
	var raw rawConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", lookup.ErrMalformedConfig, describe(path), err)
	}

	merged := &layer{options: map[string]json.RawMessage{}, pathsBase: dir}
	for _, parent := range extendsList(raw.Extends) {
		inherited, err := l.extend(parent, dir)
		if err != nil {
			return nil, err
		}
		maps.Copy(merged.options, inherited.options)
		if _, ok := inherited.options["paths"]; ok {
			merged.pathsBase = inherited.pathsBase
		}
	}

	for key, value := range raw.CompilerOptions {
		switch key {
		case "baseUrl", "rootDir":
			absolute, err := absolutize(value, dir)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %s: %w", lookup.ErrMalformedConfig, describe(path), key, err)
			}
			value = absolute
		case "paths":
			merged.pathsBase = dir
		}
		merged.options[key] = value
	}
	return merged, nil
}

func (l *loader) extend(spec, dir string) (*layer, error) {
	path, ok := l.findExtended(spec, dir)
	if !ok {
		return nil, fmt.Errorf("%w: cannot find base config %q from %s", lookup.ErrConfigLoad, spec, dir)
	}
	if l.visited[path] {
		return nil, fmt.Errorf("%w: circular extends through %s", lookup.ErrMalformedConfig, path)
	}
	l.visited[path] = true
	defer delete(l.visited, path)

	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", lookup.ErrConfigLoad, path, err)
	}
	l.files = append(l.files, path)
	return l.layer(data, path, filepath.Dir(path))
}

// findExtended locates the file an extends entry names: a path relative to
// the extending config, or a package (or file inside one) in node_modules.
func (l *loader) findExtended(spec, dir string) (string, bool) {
	withJSON := func(p string) (string, bool) {
		if cabfs.IsFile(l.fs, p) {
			return p, true
		}
		if !strings.HasSuffix(p, ".json") && cabfs.IsFile(l.fs, p+".json") {
			return p + ".json", true
		}
		return "", false
	}

	if filepath.IsAbs(spec) {
		return withJSON(spec)
	}
	if strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") {
		return withJSON(filepath.Join(dir, spec))
	}

	for _, modules := range lookup.NodeModulesPaths(dir) {
		candidate := filepath.Join(modules, spec)
		if cabfs.IsDir(l.fs, candidate) {
			if p, ok := withJSON(filepath.Join(candidate, "tsconfig.json")); ok {
				return p, true
			}
			continue
		}
		if p, ok := withJSON(candidate); ok {
			return p, true
		}
	}
	return "", false
}

func extendsList(v any) []string {
	switch v := v.(type) {
	case string:
		return []string{v}
	case []any:
		var list []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				list = append(list, s)
			}
		}
		return list
	}
	return nil
}

func absolutize(value json.RawMessage, dir string) (json.RawMessage, error) {
	var p string
	if err := json.Unmarshal(value, &p); err != nil {
		return nil, err
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	return json.Marshal(filepath.Clean(p))
}

func describe(path string) string {
	if path == "" {
		return "inline tsconfig"
	}
	return path
}
