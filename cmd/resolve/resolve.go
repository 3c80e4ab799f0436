/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package resolve provides the resolve command for filing-cabinet.
package resolve

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bennypowers.dev/filing-cabinet/cmd/project"
)

// Cmd is the resolve cobra command.
var Cmd = &cobra.Command{
	Use:   "resolve <partial>",
	Short: "Print the file a partial dependency path refers to",
	Long: `Resolve a partial dependency path, as written in the file given by --filename,
and print the absolute path of the file it refers to. Prints an empty line
when the partial does not resolve.

Examples:
  # CommonJS or ES module
  filing-cabinet resolve ./utils -f src/index.js -d src

  # AMD with a RequireJS config
  filing-cabinet resolve app/main -f js/app.js -c js/config.js

  # TypeScript
  filing-cabinet resolve @app/models -f src/index.ts -t tsconfig.json`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("filename", "f", "", "File containing the dependency")
	Cmd.Flags().String("format", "text", "Output format: text, json")
	_ = Cmd.MarkFlagRequired("filename")
}

// result is the json form of a resolution.
type result struct {
	Partial  string `json:"partial"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

func run(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("filename")
	format, _ := cmd.Flags().GetString("format")

	p, err := project.Load()
	if err != nil {
		return err
	}

	opts := p.Options(filename, args[0])
	path, err := p.Cabinet.Resolve(opts)
	if err != nil {
		return fmt.Errorf("error resolving %s: %w", args[0], err)
	}

	return output(cmd.OutOrStdout(), format, result{
		Partial:  args[0],
		Filename: opts.Filename,
		Path:     path,
	})
}

func output(w io.Writer, format string, r result) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "text", "":
		_, err := fmt.Fprintln(w, r.Path)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
