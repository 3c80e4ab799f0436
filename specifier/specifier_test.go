/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package specifier

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantKind    Kind
		wantLoader  string
		wantRequest string
		wantPackage string
		wantSubpath string
	}{
		{
			name:     "empty",
			input:    "",
			wantKind: KindEmpty,
		},
		{
			name:        "relative sibling",
			input:       "./bar",
			wantKind:    KindRelative,
			wantRequest: "./bar",
		},
		{
			name:        "parent directory",
			input:       "../",
			wantKind:    KindRelative,
			wantRequest: "../",
		},
		{
			name:        "dot",
			input:       ".",
			wantKind:    KindRelative,
			wantRequest: ".",
		},
		{
			name:        "absolute",
			input:       "/proj/src/bar.js",
			wantKind:    KindAbsolute,
			wantRequest: "/proj/src/bar.js",
		},
		{
			name:        "bare package",
			input:       "lodash.assign",
			wantKind:    KindPackage,
			wantRequest: "lodash.assign",
			wantPackage: "lodash.assign",
		},
		{
			name:        "package subpath",
			input:       "image/npm-image.svg",
			wantKind:    KindPackage,
			wantRequest: "image/npm-image.svg",
			wantPackage: "image",
			wantSubpath: "npm-image.svg",
		},
		{
			name:        "scoped package subpath",
			input:       "@scope/pkg/lib/index.js",
			wantKind:    KindPackage,
			wantRequest: "@scope/pkg/lib/index.js",
			wantPackage: "@scope/pkg",
			wantSubpath: "lib/index.js",
		},
		{
			name:        "loader prefix",
			input:       "hgn!resolve",
			wantKind:    KindPackage,
			wantLoader:  "hgn",
			wantRequest: "resolve",
			wantPackage: "resolve",
		},
		{
			name:        "chained loaders",
			input:       "style-loader!css-loader!./file.css",
			wantKind:    KindRelative,
			wantLoader:  "style-loader!css-loader",
			wantRequest: "./file.css",
		},
		{
			name:        "loader override prefix",
			input:       "!!raw-loader!./a.txt",
			wantKind:    KindRelative,
			wantLoader:  "!!raw-loader",
			wantRequest: "./a.txt",
		},
		{
			name:       "loader only",
			input:      "text!",
			wantKind:   KindEmpty,
			wantLoader: "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.Loader != tt.wantLoader {
				t.Errorf("Loader = %q, want %q", got.Loader, tt.wantLoader)
			}
			if tt.wantKind != KindEmpty && got.Request != tt.wantRequest {
				t.Errorf("Request = %q, want %q", got.Request, tt.wantRequest)
			}
			if got.Package != tt.wantPackage {
				t.Errorf("Package = %q, want %q", got.Package, tt.wantPackage)
			}
			if got.Subpath != tt.wantSubpath {
				t.Errorf("Subpath = %q, want %q", got.Subpath, tt.wantSubpath)
			}
			if got.Raw != tt.input {
				t.Errorf("Raw = %q, want %q", got.Raw, tt.input)
			}
		})
	}
}

func TestStripLoader(t *testing.T) {
	tests := []struct{ in, want string }{
		{"resolve", "resolve"},
		{"hgn!resolve", "resolve"},
		{"a!b!./c", "./c"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripLoader(tt.in); got != tt.want {
			t.Errorf("StripLoader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsBare(t *testing.T) {
	if !IsBare("react") {
		t.Error("expected react to be bare")
	}
	if IsBare("./react") {
		t.Error("expected ./react not to be bare")
	}
	if IsBare("/abs/react") {
		t.Error("expected /abs/react not to be bare")
	}
	if IsBare("") {
		t.Error("expected empty string not to be bare")
	}
}
