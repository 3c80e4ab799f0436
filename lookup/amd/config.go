/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package amd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/tidwall/jsonc"

	cabfs "bennypowers.dev/filing-cabinet/fs"
	"bennypowers.dev/filing-cabinet/internal/jsvalue"
	"bennypowers.dev/filing-cabinet/lookup"
)

// Config is the part of a RequireJS configuration that affects where
// module ids live on disk.
type Config struct {
	// BaseURL is the root module ids resolve against.
	BaseURL string

	// Paths maps module id prefixes to locations. Array values are
	// fallbacks tried in order.
	Paths map[string][]string

	// Packages maps package names to their location and main module.
	Packages []Package

	// Map replaces module ids, keyed by the id of the requiring module.
	// The "*" key applies to every module.
	Map map[string]map[string]string
}

// Package is one entry of the packages option.
type Package struct {
	Name     string
	Location string
	Main     string
}

// ConfigFromMap normalizes a decoded RequireJS config object.
func ConfigFromMap(m map[string]any) (*Config, error) {
	cfg := &Config{
		Paths: map[string][]string{},
		Map:   map[string]map[string]string{},
	}

	if v, ok := m["baseUrl"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: baseUrl must be a string, got %T", lookup.ErrMalformedConfig, v)
		}
		cfg.BaseURL = s
	}

	if v, ok := m["paths"].(map[string]any); ok {
		for id, location := range v {
			switch location := location.(type) {
			case string:
				cfg.Paths[id] = []string{location}
			case []any:
				for _, l := range location {
					if s, ok := l.(string); ok {
						cfg.Paths[id] = append(cfg.Paths[id], s)
					}
				}
			}
		}
	}

	if v, ok := m["packages"].([]any); ok {
		for _, entry := range v {
			switch entry := entry.(type) {
			case string:
				cfg.Packages = append(cfg.Packages, Package{Name: entry})
			case map[string]any:
				pkg := Package{}
				pkg.Name, _ = entry["name"].(string)
				pkg.Location, _ = entry["location"].(string)
				pkg.Main, _ = entry["main"].(string)
				if pkg.Name != "" {
					cfg.Packages = append(cfg.Packages, pkg)
				}
			}
		}
	}

	if v, ok := m["map"].(map[string]any); ok {
		for scope, replacements := range v {
			entries, ok := replacements.(map[string]any)
			if !ok {
				continue
			}
			cfg.Map[scope] = map[string]string{}
			for from, to := range entries {
				if s, ok := to.(string); ok {
					cfg.Map[scope][from] = s
				}
			}
		}
	}

	return cfg, nil
}

// LoadConfig reads a RequireJS config file. JavaScript files are searched
// for a requirejs.config() call; anything else is read as JSON with comments.
func LoadConfig(fsys cabfs.FileSystem, path string) (*Config, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", lookup.ErrConfigLoad, path, err)
	}

	var m map[string]any
	if filepath.Ext(path) == ".js" {
		m, err = jsvalue.RequireConfig(data, path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", lookup.ErrMalformedConfig, err)
		}
	} else if err := json.Unmarshal(jsonc.ToJSON(data), &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", lookup.ErrMalformedConfig, path, err)
	}

	return ConfigFromMap(m)
}
