/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package project

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/filing-cabinet/testutil"
)

func TestLoadFrom(t *testing.T) {
	t.Run("config file", func(t *testing.T) {
		mfs := testutil.NewFixtureFS(t, "config/yaml", "/project")

		p, err := LoadFrom(mfs, "/project", viper.New())
		require.NoError(t, err)
		assert.Equal(t, "./src", p.Config.Directory)
		assert.Equal(t, "module", p.Config.NodeModules.Entry)
	})

	t.Run("settings override the config file", func(t *testing.T) {
		mfs := testutil.NewFixtureFS(t, "config/yaml", "/project")
		v := viper.New()
		v.Set(KeyDirectory, "lib")
		v.Set(KeyTSConfig, "tsconfig.build.json")

		p, err := LoadFrom(mfs, "/project", v)
		require.NoError(t, err)
		assert.Equal(t, "lib", p.Config.Directory)
		assert.Equal(t, "tsconfig.build.json", p.Config.TSConfig)
		assert.Equal(t, "webpack.config.js", p.Config.WebpackConfig)
	})

	t.Run("no config file", func(t *testing.T) {
		mfs := testutil.NewFixtureFS(t, "config/empty", "/project")

		p, err := LoadFrom(mfs, "/project", viper.New())
		require.NoError(t, err)
		assert.Empty(t, p.Config.Directory)
	})
}

func TestProject_Resolve(t *testing.T) {
	mfs := testutil.NewCabinetFS(t)
	v := viper.New()
	v.Set(KeyDirectory, "js/commonjs")

	p, err := LoadFrom(mfs, testutil.CabinetRoot, v)
	require.NoError(t, err)

	got, err := p.Resolve("js/commonjs/foo.js", "./bar")
	require.NoError(t, err)
	assert.Equal(t, testutil.Fixture("js", "commonjs", "bar.js"), got)

	opts := p.Options("js/commonjs/foo.js", "./bar")
	assert.Equal(t, testutil.Fixture("js", "commonjs"), opts.Directory)
	assert.Same(t, mfs, opts.FileSystem)
}
