/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package extensions

import (
	"bytes"
	"testing"
)

func TestWrite(t *testing.T) {
	exts := []string{".js", ".ts"}

	tests := []struct {
		format string
		want   string
	}{
		{format: "text", want: ".js\n.ts\n"},
		{format: "json", want: "[\".js\",\".ts\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := write(&buf, tt.format, exts); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, buf.String())
			}
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		if err := write(&bytes.Buffer{}, "yaml", exts); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}
