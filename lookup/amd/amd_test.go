/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package amd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/filing-cabinet/lookup"
	"bennypowers.dev/filing-cabinet/testutil"
)

func TestResolve(t *testing.T) {
	mfs := testutil.NewCabinetFS(t)
	fx := testutil.Fixture
	jsonConfig := fx("amd", "config.json")
	app := fx("amd", "js", "app.js")

	tests := []struct {
		name    string
		partial string
		config  any
		want    string
	}{
		{name: "paths entry", partial: "jquery", config: jsonConfig, want: fx("amd", "js", "vendor", "jquery.js")},
		{name: "paths prefix", partial: "lib/util", config: jsonConfig, want: fx("amd", "js", "vendor", "lib", "util.js")},
		{name: "paths fallback skips urls", partial: "cdn", config: jsonConfig, want: fx("amd", "js", "vendor", "cdn.js")},
		{name: "package main", partial: "widgets", config: jsonConfig, want: fx("amd", "js", "pkgs", "widgets", "main.js")},
		{name: "package module", partial: "widgets/button", config: jsonConfig, want: fx("amd", "js", "pkgs", "widgets", "button.js")},
		{name: "string package", partial: "plain", config: jsonConfig, want: fx("amd", "js", "plain", "main.js")},
		{name: "star map", partial: "underscore", config: jsonConfig, want: fx("amd", "js", "lodash.js")},
		{name: "plugin prefix", partial: "text!templates/a.html", config: jsonConfig, want: fx("amd", "js", "templates", "a.html")},
		{name: "baseUrl module", partial: "sub/local", config: jsonConfig, want: fx("amd", "js", "sub", "local.js")},
		{name: "explicit js extension", partial: "sub/local.js", config: jsonConfig, want: fx("amd", "js", "sub", "local.js")},
		{name: "missing module", partial: "nope", config: jsonConfig, want: ""},
		{name: "empty partial", partial: "", config: jsonConfig, want: ""},
		{name: "config path relative to directory", partial: "jquery", config: "config.json", want: fx("amd", "js", "vendor", "jquery.js")},
		{name: "javascript config", partial: "jquery", config: fx("amd", "config.js"), want: fx("amd", "js", "vendor", "jquery.js")},
		{name: "no config uses directory", partial: "js/vendor/jquery", config: nil, want: fx("amd", "js", "vendor", "jquery.js")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Resolve(Options{
				Partial:   tt.partial,
				Filename:  app,
				Directory: fx("amd"),
				Config:    tt.config,
				FS:        mfs,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Relative(t *testing.T) {
	mfs := testutil.NewCabinetFS(t)
	fx := testutil.Fixture

	got, err := New().Resolve(Options{
		Partial:   "./sibling",
		Filename:  fx("amd", "js", "sub", "local.js"),
		Directory: fx("amd"),
		Config:    map[string]any{"baseUrl": "elsewhere"},
		FS:        mfs,
	})
	require.NoError(t, err)
	assert.Equal(t, fx("amd", "js", "sub", "sibling.js"), got)
}

func TestResolve_ParsedConfigWithPath(t *testing.T) {
	mfs := testutil.NewCabinetFS(t)
	fx := testutil.Fixture

	got, err := New().Resolve(Options{
		Partial:    "jquery",
		Filename:   fx("amd", "js", "app.js"),
		Directory:  "/somewhere/else",
		Config:     map[string]any{"baseUrl": "js", "paths": map[string]any{"jquery": "vendor/jquery"}},
		ConfigPath: fx("amd", "config.json"),
		FS:         mfs,
	})
	require.NoError(t, err)
	assert.Equal(t, fx("amd", "js", "vendor", "jquery.js"), got)
}

func TestResolve_ScopedMap(t *testing.T) {
	mfs := testutil.NewCabinetFS(t)
	fx := testutil.Fixture

	cfg := &Config{
		BaseURL: fx("amd", "js"),
		Map: map[string]map[string]string{
			"sub": {"dep": "sub/sibling"},
			"*":   {"dep": "lodash"},
		},
	}

	fromSub, err := New().Resolve(Options{Partial: "dep", Filename: fx("amd", "js", "sub", "local.js"), Config: cfg, FS: mfs})
	require.NoError(t, err)
	assert.Equal(t, fx("amd", "js", "sub", "sibling.js"), fromSub)

	fromApp, err := New().Resolve(Options{Partial: "dep", Filename: fx("amd", "js", "app.js"), Config: cfg, FS: mfs})
	require.NoError(t, err)
	assert.Equal(t, fx("amd", "js", "lodash.js"), fromApp)
}

func TestResolve_MalformedConfig(t *testing.T) {
	mfs := testutil.NewCabinetFS(t)
	mfs.AddFile(testutil.Fixture("amd", "broken.json"), `{ "baseUrl": `, 0644)

	tests := []struct {
		name    string
		config  any
		wantErr error
	}{
		{name: "syntax error", config: testutil.Fixture("amd", "broken.json"), wantErr: lookup.ErrMalformedConfig},
		{name: "bad baseUrl", config: map[string]any{"baseUrl": 4}, wantErr: lookup.ErrMalformedConfig},
		{name: "unsupported value", config: []string{"x"}, wantErr: lookup.ErrMalformedConfig},
		{name: "missing file", config: testutil.Fixture("amd", "missing.json"), wantErr: lookup.ErrConfigLoad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Resolve(Options{
				Partial:  "jquery",
				Filename: testutil.Fixture("amd", "js", "app.js"),
				Config:   tt.config,
				FS:       mfs,
			})
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
