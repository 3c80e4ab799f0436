/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package sass

import (
	"testing"

	"bennypowers.dev/filing-cabinet/testutil"
)

func TestResolve(t *testing.T) {
	mfs := testutil.NewCabinetFS(t)
	fx := testutil.Fixture

	tests := []struct {
		name     string
		partial  string
		filename string
		dir      string
		want     string
	}{
		{name: "scss", partial: "bar", filename: fx("sass", "foo.scss"), dir: fx("sass"), want: fx("sass", "bar.scss")},
		{name: "sass", partial: "bar", filename: fx("sass", "foo.sass"), dir: fx("sass"), want: fx("sass", "bar.sass")},
		{name: "quoted", partial: `"bar"`, filename: fx("sass", "foo.scss"), dir: fx("sass"), want: fx("sass", "bar.scss")},
		{name: "underscore partial", partial: "partial", filename: fx("sass", "foo.scss"), dir: fx("sass"), want: fx("sass", "_partial.scss")},
		{name: "directory index", partial: "components", filename: fx("sass", "foo.scss"), dir: fx("sass"), want: fx("sass", "components", "_index.scss")},
		{name: "tilde import", partial: "~bootstrap/scss/bootstrap", filename: fx("sass", "foo.scss"), dir: fx("sass"), want: fx("sass", "node_modules", "bootstrap", "scss", "bootstrap.scss")},
		{name: "from directory", partial: "bar", filename: fx("sass", "nested", "deep.scss"), dir: fx("sass"), want: fx("sass", "bar.scss")},
		{name: "built-in module", partial: "sass:math", filename: fx("sass", "foo.scss"), dir: fx("sass"), want: ""},
		{name: "url import", partial: "https://fonts.example.com/css", filename: fx("sass", "foo.scss"), dir: fx("sass"), want: ""},
		{name: "missing", partial: "nope", filename: fx("sass", "foo.scss"), dir: fx("sass"), want: ""},
		{name: "empty", partial: "", filename: fx("sass", "foo.scss"), dir: fx("sass"), want: ""},
		{name: "less extensionless", partial: "bar", filename: fx("less", "foo.less"), dir: fx("less"), want: fx("less", "bar.less")},
		{name: "less with extension", partial: "bar.less", filename: fx("less", "foo.less"), dir: fx("less"), want: fx("less", "bar.less")},
		{name: "less importing css", partial: "bar.css", filename: fx("less", "foo.less"), dir: fx("less"), want: fx("less", "bar.css")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Resolve(Options{
				Partial:   tt.partial,
				Filename:  tt.filename,
				Directory: tt.dir,
				FS:        mfs,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.partial, got, tt.want)
			}
		})
	}
}
