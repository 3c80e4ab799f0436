/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package project assembles the settings a command runs with: the
// project config file, overridden by CABINET_* environment variables
// and then by command line flags.
package project

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"bennypowers.dev/filing-cabinet/cabinet"
	"bennypowers.dev/filing-cabinet/config"
	cabfs "bennypowers.dev/filing-cabinet/fs"
)

// Viper keys shared by every command.
const (
	KeyDirectory         = "directory"
	KeyRequireConfig     = "config"
	KeyWebpackConfig     = "webpack-config"
	KeyTSConfig          = "ts-config"
	KeyEntry             = "entry"
	KeyNoTypeDefinitions = "no-type-definitions"
	KeyVerbose           = "verbose"
)

// Project is a loaded project: where it lives, what it is configured to do,
// and the cabinet its commands resolve with.
type Project struct {
	Root    string
	Config  *config.Config
	FS      cabfs.FileSystem
	Cabinet *cabinet.Cabinet
}

// Load reads the project rooted at the working directory.
func Load() (*Project, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("error finding working directory: %w", err)
	}
	return LoadFrom(cabfs.NewOSFileSystem(), root, viper.GetViper())
}

// LoadFrom reads the project rooted at root, applying the settings in v
// over the project's config file.
func LoadFrom(filesystem cabfs.FileSystem, root string, v *viper.Viper) (*Project, error) {
	cfg, err := config.Load(filesystem, root)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if cfg == nil {
		cfg = config.Default()
	}

	cfg = cfg.Merge(&config.Config{
		Directory:         v.GetString(KeyDirectory),
		RequireConfig:     v.GetString(KeyRequireConfig),
		WebpackConfig:     v.GetString(KeyWebpackConfig),
		TSConfig:          v.GetString(KeyTSConfig),
		NodeModules:       config.NodeModules{Entry: v.GetString(KeyEntry)},
		NoTypeDefinitions: v.GetBool(KeyNoTypeDefinitions),
	})

	return &Project{
		Root:    root,
		Config:  cfg,
		FS:      filesystem,
		Cabinet: cabinet.New(cabinet.Dependencies{FileSystem: filesystem}),
	}, nil
}

// Options builds resolution options for a partial imported by filename.
func (p *Project) Options(filename, partial string) cabinet.Options {
	opts := p.Config.Options(p.Root, filename, partial)
	opts.FileSystem = p.FS
	return opts
}

// Resolve resolves a partial imported by filename.
func (p *Project) Resolve(filename, partial string) (string, error) {
	return p.Cabinet.Resolve(p.Options(filename, partial))
}
