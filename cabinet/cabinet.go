/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cabinet finds the file a module specifier refers to.
//
// Given a partial such as "./bar" or "lodash", the file that references it,
// and optional RequireJS, webpack or TypeScript configuration, a Cabinet
// picks a resolver by the referencing file's extension and returns the
// absolute path of the file the partial names, or "" when there is none.
//
// JavaScript files are further dispatched by module type (AMD, CommonJS,
// ES6 or webpack). Stylesheets, TypeScript, and single-file components have
// resolvers of their own, and any extension can be given a custom Resolver.
package cabinet

import (
	"errors"
	"fmt"
	"path/filepath"

	cabfs "bennypowers.dev/filing-cabinet/fs"
	"bennypowers.dev/filing-cabinet/internal/logger"
	"bennypowers.dev/filing-cabinet/lookup"
	"bennypowers.dev/filing-cabinet/lookup/amd"
	"bennypowers.dev/filing-cabinet/lookup/component"
	"bennypowers.dev/filing-cabinet/lookup/generic"
	"bennypowers.dev/filing-cabinet/lookup/node"
	"bennypowers.dev/filing-cabinet/lookup/sass"
	"bennypowers.dev/filing-cabinet/lookup/stylus"
	"bennypowers.dev/filing-cabinet/lookup/typescript"
	"bennypowers.dev/filing-cabinet/lookup/webpack"
	"bennypowers.dev/filing-cabinet/moduletype"
)

// ErrNoFilename is returned when a request does not say which file the partial is in.
var ErrNoFilename = errors.New("filename is required")

// Cabinet resolves partials. It owns its extension registry; the zero value
// is not usable, create one with New.
type Cabinet struct {
	deps     Dependencies
	registry *registry
}

// New creates a Cabinet with the built-in resolvers registered.
// Nil dependencies are replaced with the default delegates.
func New(deps Dependencies) *Cabinet {
	c := &Cabinet{deps: deps.withDefaults(), registry: newRegistry()}

	js := ResolverFunc(c.jsLookup)
	ts := ResolverFunc(c.tsFileLookup)
	styles := ResolverFunc(c.sassLookup)

	c.registry.builtin(".js", js)
	c.registry.builtin(".jsx", js)
	c.registry.builtin(".ts", ts)
	c.registry.builtin(".tsx", ts)
	c.registry.builtin(".scss", styles)
	c.registry.builtin(".sass", styles)
	c.registry.builtin(".styl", ResolverFunc(c.stylusLookup))
	// Less and Sass imports are very similar
	c.registry.builtin(".less", styles)
	c.registry.builtin(".vue", ResolverFunc(c.componentLookup))
	c.registry.builtin(".svelte", ResolverFunc(c.componentLookup))

	return c
}

// Resolve returns the absolute path opts.Partial refers to, or "" when it
// cannot be resolved. The only errors are a missing Filename, a malformed
// RequireJS or TypeScript config, and whatever a registered custom
// resolver returns.
func (c *Cabinet) Resolve(opts Options) (string, error) {
	if opts.Filename == "" {
		return "", ErrNoFilename
	}

	ext := filepath.Ext(opts.Filename)
	resolver, ok := c.registry.lookup(ext)
	if ok {
		logger.Debug("found a resolver for %s", ext)
	} else {
		logger.Debug("using generic resolver")
		resolver = ResolverFunc(c.genericLookup)
	}

	result, err := resolver.Resolve(opts)
	if err != nil {
		return "", err
	}

	logger.Debug("resolved path for %s: %s", opts.Partial, result)
	return result, nil
}

// Register makes resolver handle files with the extension ext, which
// includes the leading dot. Registering an extension again replaces its
// resolver; a nil resolver unregisters it.
func (c *Cabinet) Register(ext string, resolver Resolver) {
	if resolver == nil {
		c.Unregister(ext)
		return
	}
	c.registry.register(ext, resolver)
}

// Unregister removes a custom resolver. Built-in extensions get their
// built-in resolver back; other extensions fall back to the generic resolver.
func (c *Cabinet) Unregister(ext string) {
	c.registry.unregister(ext)
}

// SupportedFileExtensions lists the extensions with a registered resolver,
// built-ins first, in registration order.
func (c *Cabinet) SupportedFileExtensions() []string {
	return c.registry.supported()
}

func (c *Cabinet) fileSystem(opts Options) cabfs.FileSystem {
	if opts.FileSystem != nil {
		return opts.FileSystem
	}
	return c.deps.FileSystem
}

// jsLookup dispatches a JavaScript file's partial by module type.
func (c *Cabinet) jsLookup(opts Options) (string, error) {
	switch t := c.ModuleType(opts); t {
	case moduletype.AMD:
		logger.Debug("using amd resolver")
		return c.amdLookup(opts)
	case moduletype.CommonJS:
		logger.Debug("using commonjs resolver")
		return c.commonJSLookup(opts)
	case moduletype.Webpack:
		logger.Debug("using webpack resolver")
		return c.webpackLookup(opts)
	case moduletype.ES6:
		return c.es6Lookup(opts)
	default:
		return "", fmt.Errorf("unhandled module type %s", t)
	}
}

// es6Lookup tries TypeScript's resolution when a tsconfig is given and
// generic resolution otherwise, then falls back to CommonJS when that
// does not produce an existing file.
func (c *Cabinet) es6Lookup(opts Options) (string, error) {
	var (
		result string
		err    error
	)
	if present(opts.TSConfig) {
		logger.Debug("using typescript resolver for es6")
		result, err = c.tsLookup(opts)
	} else {
		logger.Debug("using generic resolver for es6")
		result, err = c.genericLookup(opts)
	}
	if err != nil {
		return "", err
	}

	if result != "" && cabfs.IsFile(c.fileSystem(opts), result) {
		return result, nil
	}

	logger.Debug("falling back to commonjs resolver for es6")
	return c.commonJSLookup(opts)
}

// tsFileLookup resolves partials in .ts and .tsx files. A webpack config
// without a tsconfig means webpack does the resolving.
func (c *Cabinet) tsFileLookup(opts Options) (string, error) {
	if present(opts.WebpackConfig) && !present(opts.TSConfig) {
		logger.Debug("using webpack resolver for typescript")
		return c.webpackLookup(opts)
	}
	return c.tsLookup(opts)
}

func (c *Cabinet) amdLookup(opts Options) (string, error) {
	return recovered("amd", opts.Partial)(c.deps.AMD.Resolve(amd.Options{
		Partial:    opts.Partial,
		Filename:   opts.Filename,
		Directory:  opts.Directory,
		Config:     opts.Config,
		ConfigPath: opts.ConfigPath,
		FS:         c.fileSystem(opts),
	}))
}

func (c *Cabinet) commonJSLookup(opts Options) (string, error) {
	return recovered("commonjs", opts.Partial)(c.deps.Node.Resolve(node.Options{
		Partial:   opts.Partial,
		Filename:  opts.Filename,
		Directory: opts.Directory,
		Entry:     opts.entry(),
		FS:        c.fileSystem(opts),
	}))
}

func (c *Cabinet) webpackLookup(opts Options) (string, error) {
	return recovered("webpack", opts.Partial)(c.deps.Webpack.Resolve(webpack.Options{
		Partial:   opts.Partial,
		Filename:  opts.Filename,
		Directory: opts.Directory,
		Config:    opts.WebpackConfig,
		FS:        c.fileSystem(opts),
	}))
}

func (c *Cabinet) tsLookup(opts Options) (string, error) {
	return recovered("typescript", opts.Partial)(c.deps.TypeScript.Resolve(typescript.Options{
		Partial:           opts.Partial,
		Filename:          opts.Filename,
		Directory:         opts.Directory,
		TSConfig:          opts.TSConfig,
		TSConfigPath:      opts.TSConfigPath,
		NoTypeDefinitions: opts.NoTypeDefinitions,
		FS:                c.fileSystem(opts),
	}))
}

func (c *Cabinet) sassLookup(opts Options) (string, error) {
	return recovered("sass", opts.Partial)(c.deps.Sass.Resolve(sass.Options{
		Partial:   opts.Partial,
		Filename:  opts.Filename,
		Directory: opts.Directory,
		FS:        c.fileSystem(opts),
	}))
}

func (c *Cabinet) stylusLookup(opts Options) (string, error) {
	return recovered("stylus", opts.Partial)(c.deps.Stylus.Resolve(stylus.Options{
		Partial:   opts.Partial,
		Filename:  opts.Filename,
		Directory: opts.Directory,
		FS:        c.fileSystem(opts),
	}))
}

func (c *Cabinet) genericLookup(opts Options) (string, error) {
	return recovered("generic", opts.Partial)(c.deps.Generic.Resolve(generic.Options{
		Partial:   opts.Partial,
		Filename:  opts.Filename,
		Directory: opts.Directory,
		FS:        c.fileSystem(opts),
	}))
}

// componentLookup resolves a component's partial as if it were written in
// the script or style block that imports it.
func (c *Cabinet) componentLookup(opts Options) (string, error) {
	if opts.component != "" {
		logger.Warn("component resolver could not resolve %q: %s redirects to %s, another component",
			opts.Partial, opts.component, opts.Filename)
		return "", nil
	}

	target, err := c.deps.Component.Locate(component.Options{
		Partial:  opts.Partial,
		Filename: opts.Filename,
		FS:       c.fileSystem(opts),
	})
	if err != nil {
		return recovered("component", opts.Partial)("", err)
	}
	defer target.Close()

	block := opts
	block.Filename = target.Filename
	block.AST = target.AST
	block.component = opts.Filename
	return c.Resolve(block)
}

// recovered turns a delegate failure into an unresolved partial, logging
// it. Malformed configuration is the caller's mistake and is returned.
func recovered(delegate, partial string) func(string, error) (string, error) {
	return func(result string, err error) (string, error) {
		if err == nil {
			return result, nil
		}
		if errors.Is(err, lookup.ErrMalformedConfig) {
			return "", err
		}
		logger.Warn("%s resolver could not resolve %q: %v", delegate, partial, err)
		return "", nil
	}
}
