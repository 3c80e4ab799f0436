/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package mcp provides the mcp command for filing-cabinet.
package mcp

import (
	"github.com/spf13/cobra"

	"bennypowers.dev/filing-cabinet/cmd/project"
	"bennypowers.dev/filing-cabinet/internal/version"
	"bennypowers.dev/filing-cabinet/mcpserver"
)

// Cmd is the mcp cobra command.
var Cmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve resolution tools over the Model Context Protocol",
	Long: `Serve the resolve, classify and extensions tools over the Model Context
Protocol on stdin and stdout, for the project in the working directory.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	p, err := project.Load()
	if err != nil {
		return err
	}
	return mcpserver.New(p.Cabinet, p.Config, p.Root, p.FS).Run(cmd.Context(), version.Get())
}
