/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package cabinet

import (
	cabfs "bennypowers.dev/filing-cabinet/fs"
	"bennypowers.dev/filing-cabinet/moduletype"
)

// Options is one resolution request: a partial, the file containing it, and
// whatever configuration steers its resolution.
type Options struct {
	// Partial is the specifier as written, e.g. "./bar", "lodash", "text!tpl.html".
	Partial string

	// Filename is the absolute path of the file containing the partial. Required.
	// Its extension selects the resolver.
	Filename string

	// Directory is the project root non-relative partials resolve against.
	Directory string

	// Config is a RequireJS config: a file path, a decoded map, or an *amd.Config.
	// Its presence makes JavaScript files resolve as AMD.
	Config any

	// ConfigPath is where a pre-parsed Config came from.
	ConfigPath string

	// WebpackConfig is a webpack config: a file path, an evaluated map, or a
	// *webpack.ResolveConfig. Its presence makes JavaScript files resolve
	// through webpack.
	WebpackConfig any

	// TSConfig is a tsconfig: a file path, a decoded map, or a *tsconfig.Config.
	TSConfig any

	// TSConfigPath is where a pre-parsed TSConfig came from.
	TSConfigPath string

	// NodeModulesConfig adjusts CommonJS package resolution.
	NodeModulesConfig *NodeModulesConfig

	// AST is the already parsed Filename. When set the file is not read
	// again to find its module type.
	AST *moduletype.Source

	// FileSystem overrides the cabinet's filesystem for this request.
	FileSystem cabfs.FileSystem

	// NoTypeDefinitions resolves TypeScript imports to the .js file beside
	// a .d.ts file, when there is one.
	NoTypeDefinitions bool

	// component is the single-file component this request was redirected
	// from, set while resolving one of its blocks.
	component string
}

// NodeModulesConfig adjusts how package entry points are chosen.
type NodeModulesConfig struct {
	// Entry is a package.json field used instead of "main" when present, e.g. "module".
	Entry string `json:"entry" yaml:"entry"`
}

func (o Options) entry() string {
	if o.NodeModulesConfig == nil {
		return ""
	}
	return o.NodeModulesConfig.Entry
}

// present reports whether a configuration value was supplied.
func present(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case map[string]any:
		return v != nil
	}
	return true
}
