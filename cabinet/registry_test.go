/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package cabinet

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/filing-cabinet/internal/mapfs"
	"bennypowers.dev/filing-cabinet/lookup"
	"bennypowers.dev/filing-cabinet/lookup/node"
	"bennypowers.dev/filing-cabinet/moduletype"
)

func TestRegister(t *testing.T) {
	t.Run("custom resolver handles its extension", func(t *testing.T) {
		c, _ := newTestCabinet(t)
		var calls int
		c.Register(".foobar", ResolverFunc(func(opts Options) (string, error) {
			calls++
			return "/custom/" + opts.Partial, nil
		}))

		got, err := c.Resolve(Options{Partial: "./bar", Filename: fx("js", "custom", "foo.foobar"), Directory: fx("js", "custom")})
		require.NoError(t, err)
		assert.Equal(t, "/custom/./bar", got)
		assert.Equal(t, 1, calls)
		assert.Contains(t, c.SupportedFileExtensions(), ".foobar")
	})

	t.Run("default lookups keep working", func(t *testing.T) {
		c, _ := newTestCabinet(t)
		c.Register(".foobar", ResolverFunc(func(Options) (string, error) { return "", nil }))

		got, err := c.Resolve(Options{Partial: "./bar", Filename: fx("js", "es6", "foo.js"), Directory: fx("js", "es6")})
		require.NoError(t, err)
		assert.Equal(t, fx("js", "es6", "bar.js"), got)
	})

	t.Run("multiple extensions", func(t *testing.T) {
		c, _ := newTestCabinet(t)
		noop := ResolverFunc(func(Options) (string, error) { return "", nil })
		c.Register(".foobar", noop)
		c.Register(".barbar", noop)

		exts := c.SupportedFileExtensions()
		assert.Contains(t, exts, ".foobar")
		assert.Contains(t, exts, ".barbar")
		assert.Equal(t, []string{".foobar", ".barbar"}, exts[len(exts)-2:])
	})

	t.Run("registering twice does not duplicate the extension", func(t *testing.T) {
		c, _ := newTestCabinet(t)
		first := ResolverFunc(func(Options) (string, error) { return "first", nil })
		second := ResolverFunc(func(Options) (string, error) { return "second", nil })
		c.Register(".foobar", first)
		c.Register(".foobar", second)

		count := 0
		for _, ext := range c.SupportedFileExtensions() {
			if ext == ".foobar" {
				count++
			}
		}
		assert.Equal(t, 1, count)

		got, err := c.Resolve(Options{Partial: "x", Filename: "/a.foobar"})
		require.NoError(t, err)
		assert.Equal(t, "second", got)
	})

	t.Run("overriding a built-in keeps its position", func(t *testing.T) {
		c, _ := newTestCabinet(t)
		before := c.SupportedFileExtensions()
		c.Register(".ts", ResolverFunc(func(Options) (string, error) { return "custom", nil }))

		assert.Equal(t, before, c.SupportedFileExtensions())
		got, err := c.Resolve(Options{Partial: "./foo", Filename: fx("ts", "index.ts")})
		require.NoError(t, err)
		assert.Equal(t, "custom", got)
	})

	t.Run("nil resolver unregisters", func(t *testing.T) {
		c, _ := newTestCabinet(t)
		c.Register(".foobar", ResolverFunc(func(Options) (string, error) { return "custom", nil }))
		c.Register(".foobar", nil)

		assert.NotContains(t, c.SupportedFileExtensions(), ".foobar")
	})
}

func TestUnregister(t *testing.T) {
	t.Run("custom extension falls back to generic", func(t *testing.T) {
		c, _ := newTestCabinet(t)
		c.Register(".foobar", ResolverFunc(func(Options) (string, error) { return "custom", nil }))
		c.Unregister(".foobar")

		assert.NotContains(t, c.SupportedFileExtensions(), ".foobar")
		got, err := c.Resolve(Options{Partial: "./bar", Filename: fx("js", "custom", "foo.foobar"), Directory: fx("js", "custom")})
		require.NoError(t, err)
		assert.Equal(t, fx("js", "custom", "bar.foobar"), got)
	})

	t.Run("built-in is restored", func(t *testing.T) {
		c, _ := newTestCabinet(t)
		c.Register(".ts", ResolverFunc(func(Options) (string, error) { return "custom", nil }))
		c.Unregister(".ts")

		got, err := c.Resolve(Options{Partial: "./foo", Filename: fx("ts", "index.ts"), Directory: fx("ts")})
		require.NoError(t, err)
		assert.Equal(t, fx("ts", "foo.ts"), got)
		assert.Contains(t, c.SupportedFileExtensions(), ".ts")
	})

	t.Run("unknown extension is a no-op", func(t *testing.T) {
		c, _ := newTestCabinet(t)
		before := c.SupportedFileExtensions()
		c.Unregister(".nope")
		assert.Equal(t, before, c.SupportedFileExtensions())
	})
}

func TestRegistry_Concurrent(t *testing.T) {
	c, _ := newTestCabinet(t)
	noop := ResolverFunc(func(Options) (string, error) { return "", nil })

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ext := fmt.Sprintf(".ext%d", i)
			c.Register(ext, noop)
			_, err := c.Resolve(Options{Partial: "./bar", Filename: fx("js", "es6", "foo.js"), Directory: fx("js", "es6")})
			assert.NoError(t, err)
			_ = c.SupportedFileExtensions()
			c.Unregister(ext)
		}()
	}
	wg.Wait()

	assert.Len(t, c.SupportedFileExtensions(), 10)
}

type recordingNode struct {
	mu     sync.Mutex
	calls  []node.Options
	result string
	err    error
}

func (r *recordingNode) Resolve(opts node.Options) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, opts)
	return r.result, r.err
}

func TestDependencies(t *testing.T) {
	t.Run("commonjs lookups go through the injected resolver", func(t *testing.T) {
		mfs := mapfs.FromMap(map[string]string{
			"/app/index.js": `const x = require("x");`,
		})
		rec := &recordingNode{result: "/app/node_modules/x/index.js"}
		c := New(Dependencies{Node: rec, FileSystem: mfs})

		got, err := c.Resolve(Options{
			Partial:           "x",
			Filename:          "/app/index.js",
			Directory:         "/app",
			NodeModulesConfig: &NodeModulesConfig{Entry: "module"},
		})
		require.NoError(t, err)
		assert.Equal(t, "/app/node_modules/x/index.js", got)
		require.Len(t, rec.calls, 1)
		assert.Equal(t, "x", rec.calls[0].Partial)
		assert.Equal(t, "/app", rec.calls[0].Directory)
		assert.Equal(t, "module", rec.calls[0].Entry)
		assert.Same(t, mfs, rec.calls[0].FS)
	})

	t.Run("es6 falls back to commonjs when generic finds nothing", func(t *testing.T) {
		mfs := mapfs.FromMap(map[string]string{
			"/app/index.js": `import x from "x";`,
		})
		rec := &recordingNode{result: "/app/node_modules/x/index.js"}
		c := New(Dependencies{Node: rec, FileSystem: mfs})

		got, err := c.Resolve(Options{Partial: "x", Filename: "/app/index.js", Directory: "/app"})
		require.NoError(t, err)
		assert.Equal(t, "/app/node_modules/x/index.js", got)
		assert.Len(t, rec.calls, 1)
	})

	t.Run("es6 keeps an existing file", func(t *testing.T) {
		mfs := mapfs.FromMap(map[string]string{
			"/app/index.js": `import x from "./x";`,
			"/app/x.js":     `export default 1;`,
		})
		rec := &recordingNode{}
		c := New(Dependencies{Node: rec, FileSystem: mfs})

		got, err := c.Resolve(Options{Partial: "./x", Filename: "/app/index.js", Directory: "/app"})
		require.NoError(t, err)
		assert.Equal(t, "/app/x.js", got)
		assert.Empty(t, rec.calls)
	})

	t.Run("request filesystem wins over the cabinet's", func(t *testing.T) {
		requestFS := mapfs.FromMap(map[string]string{
			"/app/index.js": `require("x");`,
		})
		rec := &recordingNode{}
		c := New(Dependencies{Node: rec, FileSystem: mapfs.New()})

		_, err := c.Resolve(Options{Partial: "x", Filename: "/app/index.js", Directory: "/app", FileSystem: requestFS})
		require.NoError(t, err)
		require.Len(t, rec.calls, 1)
		assert.Same(t, requestFS, rec.calls[0].FS)
	})
}

func TestResolve_Errors(t *testing.T) {
	t.Run("delegate failures are unresolved", func(t *testing.T) {
		mfs := mapfs.FromMap(map[string]string{
			"/app/index.js": `require("x");`,
		})
		rec := &recordingNode{err: errors.New("disk on fire")}
		c := New(Dependencies{Node: rec, FileSystem: mfs})

		got, err := c.Resolve(Options{Partial: "x", Filename: "/app/index.js", Directory: "/app"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("malformed config is returned", func(t *testing.T) {
		mfs := mapfs.FromMap(map[string]string{
			"/app/index.js": `require("x");`,
		})
		rec := &recordingNode{err: fmt.Errorf("%w: bad entry", lookup.ErrMalformedConfig)}
		c := New(Dependencies{Node: rec, FileSystem: mfs})

		_, err := c.Resolve(Options{Partial: "x", Filename: "/app/index.js", Directory: "/app"})
		assert.ErrorIs(t, err, lookup.ErrMalformedConfig)
	})

	t.Run("malformed tsconfig file", func(t *testing.T) {
		c, mfs := newTestCabinet(t)
		mfs.AddFile("/test/ts/broken.json", `{"compilerOptions": {`, 0o644)

		_, err := c.Resolve(Options{Partial: "./foo", Filename: fx("ts", "index.ts"), Directory: fx("ts"), TSConfig: "/test/ts/broken.json"})
		assert.ErrorIs(t, err, lookup.ErrMalformedConfig)
	})

	t.Run("tsconfig of the wrong type", func(t *testing.T) {
		c, _ := newTestCabinet(t)

		_, err := c.Resolve(Options{Partial: "./foo", Filename: fx("ts", "index.ts"), Directory: fx("ts"), TSConfig: 42})
		assert.ErrorIs(t, err, lookup.ErrMalformedConfig)
	})

	t.Run("missing tsconfig file is unresolved", func(t *testing.T) {
		c, _ := newTestCabinet(t)

		got, err := c.Resolve(Options{Partial: "./foo", Filename: fx("ts", "index.ts"), Directory: fx("ts"), TSConfig: "/test/ts/nope.json"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestModuleType(t *testing.T) {
	c, mfs := newTestCabinet(t)

	cjs, err := moduletype.Parse([]byte(`module.exports = require("./x");`))
	require.NoError(t, err)
	defer cjs.Close()

	tests := []struct {
		name string
		opts Options
		want moduletype.Type
	}{
		{name: "requirejs config means amd", opts: Options{Filename: fx("js", "es6", "foo.js"), Config: map[string]any{"baseUrl": "./"}}, want: moduletype.AMD},
		{name: "webpack config means webpack", opts: Options{Filename: fx("js", "es6", "foo.js"), WebpackConfig: "webpack.config.js"}, want: moduletype.Webpack},
		{name: "requirejs config wins over webpack", opts: Options{Filename: fx("js", "es6", "foo.js"), Config: "config.js", WebpackConfig: "webpack.config.js"}, want: moduletype.AMD},
		{name: "ast wins over file", opts: Options{Filename: fx("js", "es6", "foo.js"), AST: cjs}, want: moduletype.CommonJS},
		{name: "detected from file", opts: Options{Filename: fx("js", "amd", "foo.js")}, want: moduletype.AMD},
		{name: "commonjs file", opts: Options{Filename: fx("js", "commonjs", "foo.js")}, want: moduletype.CommonJS},
		{name: "missing file defaults to es6", opts: Options{Filename: fx("js", "nope.js")}, want: moduletype.ES6},
		{name: "empty config is ignored", opts: Options{Filename: fx("js", "commonjs", "foo.js"), Config: ""}, want: moduletype.CommonJS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.FileSystem = mfs
			assert.Equal(t, tt.want, c.ModuleType(tt.opts))
		})
	}
}

func TestResolve_MixedModuleSyntax(t *testing.T) {
	mfs := mapfs.FromMap(map[string]string{
		"/proj/src/index.js":    "import a from './a';\nconst util = require('@app/util');",
		"/proj/src/a.js":        `export default 1;`,
		"/proj/src/lib/util.ts": `export const util = 1;`,
	})
	c := New(Dependencies{FileSystem: mfs})

	opts := Options{
		Partial:   "@app/util",
		Filename:  "/proj/src/index.js",
		Directory: "/proj/src",
		TSConfig: map[string]any{"compilerOptions": map[string]any{
			"moduleResolution": "node",
			"baseUrl":          "/proj/src",
			"paths":            map[string]any{"@app/*": []any{"lib/*"}},
		}},
	}

	assert.Equal(t, moduletype.ES6, c.ModuleType(opts))

	got, err := c.Resolve(opts)
	require.NoError(t, err)
	assert.Equal(t, "/proj/src/lib/util.ts", got)
}

func TestResolve_ComponentRedirects(t *testing.T) {
	t.Run("unknown style lang resolves as css", func(t *testing.T) {
		mfs := mapfs.FromMap(map[string]string{
			"/p/App.vue": `<style lang="vue">@import './x';</style>`,
			"/p/x.css":   `a { color: red; }`,
		})
		c := New(Dependencies{FileSystem: mfs})

		got, err := c.Resolve(Options{Partial: "./x", Filename: "/p/App.vue", Directory: "/p"})
		require.NoError(t, err)
		assert.Equal(t, "/p/x.css", got)
	})

	t.Run("block redirected to another component is not resolved", func(t *testing.T) {
		mfs := mapfs.FromMap(map[string]string{
			"/p/App.vue":   `<style>@import './x';</style>`,
			"/p/Other.vue": `<style>@import './x';</style>`,
			"/p/x.css":     `a { color: red; }`,
		})
		c := New(Dependencies{FileSystem: mfs})
		c.Register(".css", ResolverFunc(func(opts Options) (string, error) {
			opts.Filename = "/p/Other.vue"
			return c.Resolve(opts)
		}))

		got, err := c.Resolve(Options{Partial: "./x", Filename: "/p/App.vue", Directory: "/p"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
