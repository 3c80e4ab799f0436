/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package component locates the block of a single-file component (Vue,
// Svelte) an import belongs to, so the import can be resolved as if it
// came from a plain script or stylesheet.
package component

import (
	"fmt"
	"path/filepath"
	"strings"

	cabfs "bennypowers.dev/filing-cabinet/fs"
	"bennypowers.dev/filing-cabinet/imports"
	"bennypowers.dev/filing-cabinet/internal/logger"
	"bennypowers.dev/filing-cabinet/moduletype"
)

// Options describes the import to place.
type Options struct {
	Partial  string
	Filename string
	FS       cabfs.FileSystem
}

// Target is the virtual file an import should be resolved from.
type Target struct {
	// Filename sits beside the component and carries the block language's
	// extension. It does not exist on disk.
	Filename string

	// AST is the parsed script block, for script targets. Callers close it.
	AST *moduletype.Source
}

// Close releases the script block's syntax tree.
func (t *Target) Close() {
	if t != nil {
		t.AST.Close()
	}
}

// Resolver places component imports. It holds no state.
type Resolver struct{}

// New creates a component resolver.
func New() *Resolver {
	return &Resolver{}
}

// Locate picks the block that imports the partial, or the first script
// block when none does, and returns the virtual file standing in for it.
func (r *Resolver) Locate(opts Options) (*Target, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = cabfs.NewOSFileSystem()
	}

	content, err := fsys.ReadFile(opts.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read component %s: %w", opts.Filename, err)
	}

	blocks, err := imports.Blocks(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse component %s: %w", opts.Filename, err)
	}

	block := pick(blocks, opts.Partial)
	stem := strings.TrimSuffix(opts.Filename, filepath.Ext(opts.Filename))

	if block == nil {
		logger.Debug("component: %s has no script block", opts.Filename)
		ast, err := moduletype.Parse(nil)
		if err != nil {
			return nil, err
		}
		return &Target{Filename: stem + ".js", AST: ast}, nil
	}

	target := &Target{Filename: stem + block.Extension()}
	if block.Kind == imports.ScriptBlock {
		target.AST, err = moduletype.Parse(block.Content)
		if err != nil {
			return nil, err
		}
	}
	logger.Debug("component: resolving %s as if from %s", opts.Partial, target.Filename)
	return target, nil
}

func pick(blocks []*imports.Block, partial string) *imports.Block {
	for _, b := range blocks {
		if b.ImportsSpecifier(partial) {
			return b
		}
	}
	for _, b := range blocks {
		if b.Kind == imports.ScriptBlock {
			return b
		}
	}
	return nil
}
