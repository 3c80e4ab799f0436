/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package cabinet

import (
	cabfs "bennypowers.dev/filing-cabinet/fs"
	"bennypowers.dev/filing-cabinet/lookup/amd"
	"bennypowers.dev/filing-cabinet/lookup/component"
	"bennypowers.dev/filing-cabinet/lookup/generic"
	"bennypowers.dev/filing-cabinet/lookup/node"
	"bennypowers.dev/filing-cabinet/lookup/sass"
	"bennypowers.dev/filing-cabinet/lookup/stylus"
	"bennypowers.dev/filing-cabinet/lookup/typescript"
	"bennypowers.dev/filing-cabinet/lookup/webpack"
)

// NodeResolver resolves CommonJS requires.
type NodeResolver interface {
	Resolve(opts node.Options) (string, error)
}

// AMDResolver resolves AMD module ids.
type AMDResolver interface {
	Resolve(opts amd.Options) (string, error)
}

// TypeScriptResolver resolves TypeScript imports.
type TypeScriptResolver interface {
	Resolve(opts typescript.Options) (string, error)
}

// WebpackResolver resolves requests through a webpack config.
type WebpackResolver interface {
	Resolve(opts webpack.Options) (string, error)
}

// SassResolver resolves Sass, SCSS and Less imports.
type SassResolver interface {
	Resolve(opts sass.Options) (string, error)
}

// StylusResolver resolves Stylus imports.
type StylusResolver interface {
	Resolve(opts stylus.Options) (string, error)
}

// GenericResolver resolves partials of files no other resolver handles.
type GenericResolver interface {
	Resolve(opts generic.Options) (string, error)
}

// ComponentLocator finds the block of a single-file component a partial belongs to.
type ComponentLocator interface {
	Locate(opts component.Options) (*component.Target, error)
}

// Dependencies are the delegates a Cabinet resolves with. Any left nil
// gets the default implementation.
type Dependencies struct {
	Node       NodeResolver
	AMD        AMDResolver
	TypeScript TypeScriptResolver
	Webpack    WebpackResolver
	Sass       SassResolver
	Stylus     StylusResolver
	Generic    GenericResolver
	Component  ComponentLocator

	// FileSystem is read when a request names none. Defaults to the OS filesystem.
	FileSystem cabfs.FileSystem
}

func (d Dependencies) withDefaults() Dependencies {
	if d.FileSystem == nil {
		d.FileSystem = cabfs.NewOSFileSystem()
	}
	if d.Node == nil {
		d.Node = node.New()
	}
	if d.AMD == nil {
		d.AMD = amd.New()
	}
	if d.TypeScript == nil {
		d.TypeScript = typescript.New()
	}
	if d.Webpack == nil {
		n, _ := d.Node.(*node.Resolver)
		d.Webpack = webpack.New(n)
	}
	if d.Sass == nil {
		d.Sass = sass.New()
	}
	if d.Stylus == nil {
		d.Stylus = stylus.New()
	}
	if d.Generic == nil {
		d.Generic = generic.New()
	}
	if d.Component == nil {
		d.Component = component.New()
	}
	return d
}
