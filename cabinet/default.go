/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package cabinet

import (
	"sync"

	"bennypowers.dev/filing-cabinet/moduletype"
)

var defaultCabinet = sync.OnceValue(func() *Cabinet {
	return New(Dependencies{})
})

// Default returns the process-wide Cabinet the package-level functions use.
func Default() *Cabinet {
	return defaultCabinet()
}

// Resolve resolves a partial with the default Cabinet.
func Resolve(opts Options) (string, error) {
	return Default().Resolve(opts)
}

// Register registers a resolver for an extension on the default Cabinet.
func Register(ext string, resolver Resolver) {
	Default().Register(ext, resolver)
}

// Unregister removes a custom resolver from the default Cabinet.
func Unregister(ext string) {
	Default().Unregister(ext)
}

// SupportedFileExtensions lists the default Cabinet's extensions.
func SupportedFileExtensions() []string {
	return Default().SupportedFileExtensions()
}

// ModuleType classifies a JavaScript file as the default Cabinet would.
func ModuleType(opts Options) moduletype.Type {
	return Default().ModuleType(opts)
}
