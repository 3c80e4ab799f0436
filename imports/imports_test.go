/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package imports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func specifiers(found []Import) []string {
	out := make([]string, 0, len(found))
	for _, imp := range found {
		out = append(out, imp.Specifier)
	}
	return out
}

func TestScript(t *testing.T) {
	src := `import a from "./a";
export { b } from './b';
const c = require("c");
const d = await import('./d.js');
const e = import(dynamicName);
`
	found, err := Script([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"./a", "./b", "c", "./d.js"}, specifiers(found))

	first := found[0]
	assert.Equal(t, Position{Line: 0, Column: 14}, first.Start)
	assert.Equal(t, Position{Line: 0, Column: 19}, first.End)
	assert.True(t, first.Contains(Position{Line: 0, Column: 16}))
	assert.False(t, first.Contains(Position{Line: 0, Column: 19}))
}

func TestStyle(t *testing.T) {
	src := `@import "bar";
@import url("theme.css");
.a { color: red; }
`
	found, err := Style([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"bar", "theme.css"}, specifiers(found))
}

func TestBlocks(t *testing.T) {
	src := `<template><div /></template>
<script lang="ts">
import Header from "./Header.vue";
</script>
<style lang="scss">
@import "theme";
</style>
`
	blocks, err := Blocks([]byte(src))
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	script := blocks[0]
	assert.Equal(t, ScriptBlock, script.Kind)
	assert.Equal(t, "ts", script.Lang)
	assert.Equal(t, ".ts", script.Extension())
	assert.True(t, script.ImportsSpecifier("./Header.vue"))
	require.Len(t, script.Imports, 1)
	assert.Equal(t, uint(2), script.Imports[0].Start.Line, "imports use component coordinates")
	assert.Equal(t, uint(19), script.Imports[0].Start.Column)

	style := blocks[1]
	assert.Equal(t, StyleBlock, style.Kind)
	assert.Equal(t, ".scss", style.Extension())
	assert.True(t, style.ImportsSpecifier("theme"))
}

func TestBlockExtension(t *testing.T) {
	tests := []struct {
		block Block
		want  string
	}{
		{Block{Kind: ScriptBlock}, ".js"},
		{Block{Kind: ScriptBlock, Lang: "tsx"}, ".tsx"},
		{Block{Kind: ScriptBlock, Lang: "typescript"}, ".ts"},
		{Block{Kind: StyleBlock}, ".css"},
		{Block{Kind: StyleBlock, Lang: "stylus"}, ".styl"},
		{Block{Kind: StyleBlock, Lang: "less"}, ".less"},
		{Block{Kind: StyleBlock, Lang: "postcss"}, ".css"},
		{Block{Kind: StyleBlock, Lang: "vue"}, ".css"},
		{Block{Kind: StyleBlock, Lang: "svelte"}, ".css"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.block.Extension())
	}
}

func TestFind(t *testing.T) {
	found, err := Find("/x/App.vue", []byte(`<script>import a from "./a";</script>`))
	require.NoError(t, err)
	assert.Equal(t, []string{"./a"}, specifiers(found))

	found, err = Find("/x/readme.md", []byte(`import a from "./a";`))
	require.NoError(t, err)
	assert.Empty(t, found)
}
