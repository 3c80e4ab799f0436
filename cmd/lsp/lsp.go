/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package lsp provides the lsp command for filing-cabinet.
package lsp

import (
	"github.com/spf13/cobra"

	"bennypowers.dev/filing-cabinet/cmd/project"
	"bennypowers.dev/filing-cabinet/internal/version"
	"bennypowers.dev/filing-cabinet/lsp"
)

// Cmd is the lsp cobra command.
var Cmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run a language server that jumps to imported files",
	Long: `Run a language server on stdin and stdout. Go to definition on an import
specifier opens the file it resolves to.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	p, err := project.Load()
	if err != nil {
		return err
	}
	return lsp.New(p.Cabinet, p.Config, p.Root, p.FS, version.Get()).RunStdio()
}
