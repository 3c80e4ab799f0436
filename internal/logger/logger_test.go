/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestDebugGating(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetDebug(false)
	})

	SetDebug(false)
	Debug("hidden %d", 1)
	if buf.Len() != 0 {
		t.Errorf("expected no output with debug off, got %q", buf.String())
	}

	SetDebug(true)
	Debug("shown %d", 2)
	if !strings.Contains(buf.String(), "cabinet shown 2") {
		t.Errorf("expected debug output, got %q", buf.String())
	}

	buf.Reset()
	Warn("careful")
	if buf.String() != "warning: careful\n" {
		t.Errorf("Warn wrote %q", buf.String())
	}
}

func TestDebugFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"cabinet", true},
		{"express,cabinet", true},
		{"*", true},
		{"cabinet:*", true},
		{"precinct", false},
	}
	for _, tt := range tests {
		if got := debugFromEnv(tt.value); got != tt.want {
			t.Errorf("debugFromEnv(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
