/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package jsvalue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleExports_ObjectLiteral(t *testing.T) {
	src := `
const path = require('path');

module.exports = {
  entry: './index.js',
  resolve: {
    modules: [path.resolve(__dirname, 'src'), 'node_modules'],
    alias: { 'utils$': path.join(__dirname, 'lib', 'utils.js') },
    extensions: ['.js', '.jsx'],
  },
};
`
	got, err := ModuleExports([]byte(src), "/project/webpack.config.js")
	require.NoError(t, err)

	cfg, ok := got.(map[string]any)
	require.True(t, ok, "expected object, got %T", got)
	assert.Equal(t, "./index.js", cfg["entry"])

	resolve := cfg["resolve"].(map[string]any)
	assert.Equal(t, []any{"/project/src", "node_modules"}, resolve["modules"])
	assert.Equal(t, map[string]any{"utils$": "/project/lib/utils.js"}, resolve["alias"])
	assert.Equal(t, []any{".js", ".jsx"}, resolve["extensions"])
}

func TestModuleExports_TopLevelBinding(t *testing.T) {
	src := `
var { resolve: r } = require('node:path');
const root = r(__dirname, 'app');
const shared = { extensions: ['.js'] };
const config = {
  resolve: { ...shared, root, modulesDirectories: [root + '/vendor'] },
};
module.exports = config;
`
	got, err := ModuleExports([]byte(src), "/project/webpack.config.js")
	require.NoError(t, err)

	resolve := got.(map[string]any)["resolve"].(map[string]any)
	assert.Equal(t, "/project/app", resolve["root"])
	assert.Equal(t, []any{".js"}, resolve["extensions"])
	assert.Equal(t, []any{"/project/app/vendor"}, resolve["modulesDirectories"])
}

func TestModuleExports_Function(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "arrow returning object",
			src:  "module.exports = (env) => ({ mode: `dev` });",
		},
		{
			name: "function with block body",
			src: `module.exports = function (env, argv) {
  const mode = 'dev';
  return { mode: mode };
};`,
		},
		{
			name: "function declaration",
			src: `function config() { return { mode: 'dev' }; }
module.exports = config;`,
		},
		{
			name: "export default",
			src:  `export default { mode: 'dev' };`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ModuleExports([]byte(tt.src), "/project/webpack.config.js")
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"mode": "dev"}, got)
		})
	}
}

func TestModuleExports_Array(t *testing.T) {
	src := `module.exports = [{ name: 'client' }, { name: 'server' }];`
	got, err := ModuleExports([]byte(src), "/project/webpack.config.js")
	require.NoError(t, err)

	arr, ok := got.([]any)
	require.True(t, ok)
	require.Len(t, arr, 2)
	assert.Equal(t, map[string]any{"name": "client"}, arr[0])
}

func TestModuleExports_Unsupported(t *testing.T) {
	src := `module.exports = { plugins: [new Plugin()], target: process.env.TARGET || 'web' };`
	got, err := ModuleExports([]byte(src), "/project/webpack.config.js")
	require.NoError(t, err)

	cfg := got.(map[string]any)
	assert.Equal(t, []any{nil}, cfg["plugins"])
	assert.Equal(t, "web", cfg["target"])
}

func TestModuleExports_NoExports(t *testing.T) {
	_, err := ModuleExports([]byte(`const x = 1;`), "/project/webpack.config.js")
	assert.True(t, errors.Is(err, ErrNoExports))
}

func TestModuleExports_SelfReference(t *testing.T) {
	got, err := ModuleExports([]byte("var a = a;\nmodule.exports = a;"), "/project/x.js")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRequireConfig(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "requirejs.config",
			src:  `requirejs.config({ baseUrl: 'js', paths: { jquery: 'vendor/jquery' } });`,
		},
		{
			name: "require.config inside iife",
			src: `(function () {
  require.config({ baseUrl: 'js', paths: { jquery: 'vendor/jquery' } });
})();`,
		},
		{
			name: "global require object",
			src:  `var require = { baseUrl: 'js', paths: { "jquery": "vendor/jquery" } };`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := RequireConfig([]byte(tt.src), "/project/config.js")
			require.NoError(t, err)
			assert.Equal(t, "js", cfg["baseUrl"])
			assert.Equal(t, map[string]any{"jquery": "vendor/jquery"}, cfg["paths"])
		})
	}
}

func TestRequireConfig_Missing(t *testing.T) {
	_, err := RequireConfig([]byte(`define(['a'], function (a) {});`), "/project/config.js")
	assert.True(t, errors.Is(err, ErrNoRequireConfig))
}

func TestStrings(t *testing.T) {
	src := "module.exports = { a: 'it\\'s', b: \"tab\\there\", c: `x-${1 + 1}`, d: 'a' + 1 };"
	got, err := ModuleExports([]byte(src), "/p/x.js")
	require.NoError(t, err)

	cfg := got.(map[string]any)
	assert.Equal(t, "it's", cfg["a"])
	assert.Equal(t, "tab\there", cfg["b"])
	assert.Equal(t, "x-2", cfg["c"])
	assert.Equal(t, "a1", cfg["d"])
}
