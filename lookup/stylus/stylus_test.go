/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package stylus

import (
	"testing"

	"bennypowers.dev/filing-cabinet/testutil"
)

func TestResolve(t *testing.T) {
	mfs := testutil.NewCabinetFS(t)
	fx := testutil.Fixture

	tests := []struct {
		name    string
		partial string
		want    string
	}{
		{name: "extensionless", partial: "bar", want: fx("stylus", "bar.styl")},
		{name: "with extension", partial: "bar.styl", want: fx("stylus", "bar.styl")},
		{name: "quoted", partial: "'bar'", want: fx("stylus", "bar.styl")},
		{name: "directory index", partial: "nib", want: fx("stylus", "nib", "index.styl")},
		{name: "absolute", partial: fx("stylus", "bar"), want: fx("stylus", "bar.styl")},
		{name: "missing", partial: "nope", want: ""},
		{name: "empty", partial: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Resolve(Options{
				Partial:   tt.partial,
				Filename:  fx("stylus", "foo.styl"),
				Directory: fx("stylus"),
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
