/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package logger provides a configurable logger that can be silenced for LSP/MCP integrations.
package logger

import (
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

var (
	// Default logs to stderr. Set to io.Discard for silent mode (LSP, MCP).
	output io.Writer = os.Stderr
	logger *log.Logger

	debug atomic.Bool
)

func init() {
	logger = log.New(output, "", 0)
	debug.Store(debugFromEnv(os.Getenv("DEBUG")))
}

// SetOutput configures the logger output destination.
// Use io.Discard to silence all logging.
func SetOutput(w io.Writer) {
	output = w
	logger = log.New(output, "", 0)
}

// SetDebug turns debug messages on or off.
func SetDebug(enabled bool) {
	debug.Store(enabled)
}

// DebugEnabled reports whether debug messages are written.
func DebugEnabled() bool {
	return debug.Load()
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	logger.Printf("warning: "+format, args...)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	logger.Printf(format, args...)
}

// Debug logs a debug message when debugging is enabled,
// either by SetDebug or by DEBUG=cabinet in the environment.
func Debug(format string, args ...any) {
	if !debug.Load() {
		return
	}
	logger.Printf("cabinet "+format, args...)
}

// debugFromEnv accepts the comma separated namespace list used by the
// node "debug" module, so DEBUG=cabinet and DEBUG=* both switch it on.
func debugFromEnv(value string) bool {
	for ns := range strings.SplitSeq(value, ",") {
		switch strings.TrimSpace(ns) {
		case "*", "cabinet", "cabinet:*":
			return true
		}
	}
	return false
}
