/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package cabinet

import (
	"slices"
	"sync"
)

// Resolver resolves partials referenced from files of one extension.
// It returns "" when the partial cannot be resolved.
type Resolver interface {
	Resolve(opts Options) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(opts Options) (string, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(opts Options) (string, error) {
	return f(opts)
}

// registry maps file extensions to resolvers. Extensions keep the order
// they were first registered in, built-ins first.
type registry struct {
	mu         sync.RWMutex
	resolvers  map[string]Resolver
	builtins   map[string]Resolver
	extensions []string
}

func newRegistry() *registry {
	return &registry{
		resolvers: make(map[string]Resolver),
		builtins:  make(map[string]Resolver),
	}
}

// builtin registers a resolver that Unregister restores.
func (r *registry) builtin(ext string, resolver Resolver) {
	r.register(ext, resolver)
	r.builtins[ext] = resolver
}

func (r *registry) register(ext string, resolver Resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.resolvers[ext] = resolver
	if !slices.Contains(r.extensions, ext) {
		r.extensions = append(r.extensions, ext)
	}
}

func (r *registry) unregister(ext string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if builtin, ok := r.builtins[ext]; ok {
		r.resolvers[ext] = builtin
		return
	}
	delete(r.resolvers, ext)
	r.extensions = slices.DeleteFunc(r.extensions, func(e string) bool { return e == ext })
}

func (r *registry) lookup(ext string) (Resolver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resolver, ok := r.resolvers[ext]
	return resolver, ok
}

func (r *registry) supported() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.extensions)
}
