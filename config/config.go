/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config loads project configuration for filing-cabinet.
package config

import (
	"path/filepath"

	"bennypowers.dev/filing-cabinet/cabinet"
)

// Config holds the resolution settings a project shares between
// invocations. Relative paths are relative to the project root.
type Config struct {
	// Directory is the root non-relative partials are resolved against.
	Directory string `yaml:"directory" json:"directory"`

	// RequireConfig is a RequireJS config file, JSON or JavaScript.
	RequireConfig string `yaml:"requireConfig" json:"requireConfig"`

	// WebpackConfig is a webpack config file.
	WebpackConfig string `yaml:"webpackConfig" json:"webpackConfig"`

	// TSConfig is a tsconfig.json file.
	TSConfig string `yaml:"tsConfig" json:"tsConfig"`

	// NodeModules configures package resolution.
	NodeModules NodeModules `yaml:"nodeModules" json:"nodeModules"`

	// NoTypeDefinitions resolves TypeScript imports to .js files
	// instead of their .d.ts declarations.
	NoTypeDefinitions bool `yaml:"noTypeDefinitions" json:"noTypeDefinitions"`

	// Files are the sources, paths or globs, that commands work on
	// when none are given.
	Files []string `yaml:"files" json:"files"`
}

// NodeModules configures how packages in node_modules are entered.
type NodeModules struct {
	// Entry is the package.json field consulted before "main", e.g. "module".
	Entry string `yaml:"entry" json:"entry"`
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{}
}

// Options builds resolution options for a partial imported by filename,
// with the config's paths made absolute against rootDir.
func (c *Config) Options(rootDir, filename, partial string) cabinet.Options {
	opts := cabinet.Options{
		Partial:           partial,
		Filename:          absolute(rootDir, filename),
		Directory:         rootDir,
		NoTypeDefinitions: c.NoTypeDefinitions,
	}
	if c.Directory != "" {
		opts.Directory = absolute(rootDir, c.Directory)
	}
	if c.RequireConfig != "" {
		path := absolute(rootDir, c.RequireConfig)
		opts.Config, opts.ConfigPath = path, path
	}
	if c.WebpackConfig != "" {
		opts.WebpackConfig = absolute(rootDir, c.WebpackConfig)
	}
	if c.TSConfig != "" {
		path := absolute(rootDir, c.TSConfig)
		opts.TSConfig, opts.TSConfigPath = path, path
	}
	if c.NodeModules.Entry != "" {
		opts.NodeModulesConfig = &cabinet.NodeModulesConfig{Entry: c.NodeModules.Entry}
	}
	return opts
}

// Merge returns a copy of c with the non-zero fields of override applied.
func (c *Config) Merge(override *Config) *Config {
	merged := *c
	if override == nil {
		return &merged
	}
	if override.Directory != "" {
		merged.Directory = override.Directory
	}
	if override.RequireConfig != "" {
		merged.RequireConfig = override.RequireConfig
	}
	if override.WebpackConfig != "" {
		merged.WebpackConfig = override.WebpackConfig
	}
	if override.TSConfig != "" {
		merged.TSConfig = override.TSConfig
	}
	if override.NodeModules.Entry != "" {
		merged.NodeModules.Entry = override.NodeModules.Entry
	}
	if override.NoTypeDefinitions {
		merged.NoTypeDefinitions = true
	}
	if len(override.Files) > 0 {
		merged.Files = override.Files
	}
	return &merged
}

func absolute(rootDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(rootDir, path)
}
