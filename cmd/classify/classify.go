/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package classify provides the classify command for filing-cabinet.
package classify

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"bennypowers.dev/filing-cabinet/cabinet"
	"bennypowers.dev/filing-cabinet/cmd/project"
	"bennypowers.dev/filing-cabinet/config"
)

// Cmd is the classify cobra command.
var Cmd = &cobra.Command{
	Use:   "classify [files...]",
	Short: "Print the module type of JavaScript files",
	Long: `Print the module type each file is resolved as: amd, commonjs, es6 or webpack.
Files may be paths or globs; with none given, the files listed in the
project config are used. node_modules is skipped unless a glob names it.

A RequireJS or webpack config decides the type for every file, as it
does when resolving.

Examples:
  filing-cabinet classify 'src/**/*.js'
  filing-cabinet classify --format json lib/*.js`,
	Args: cobra.ArbitraryArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().String("format", "table", "Output format: table, json")
}

// Entry is the module type of one file.
type Entry struct {
	File string `json:"file"`
	Type string `json:"type"`
}

func run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	p, err := project.Load()
	if err != nil {
		return err
	}

	patterns := args
	if len(patterns) == 0 {
		patterns = p.Config.Files
	}
	if len(patterns) == 0 {
		return fmt.Errorf("no files given and none configured")
	}

	files, err := config.ExpandPatterns(p.FS, p.Root, patterns)
	if err != nil {
		return fmt.Errorf("error expanding files: %w", err)
	}

	entries, err := Classify(p.Cabinet, files, func(file string) cabinet.Options {
		return p.Options(file, "")
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "table":
		return writeTable(out, p.Root, entries, isTerminal(out))
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Classify reports the module type of each file, in the order given.
// optionsFor supplies the resolution settings for a file.
func Classify(c *cabinet.Cabinet, files []string, optionsFor func(file string) cabinet.Options) ([]Entry, error) {
	entries := make([]Entry, len(files))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		g.Go(func() error {
			entries[i] = Entry{File: file, Type: c.ModuleType(optionsFor(file)).String()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// writeTable prints one file per line with paths relative to root.
// Terminals get a header.
func writeTable(w io.Writer, root string, entries []Entry, header bool) error {
	if header {
		if _, err := fmt.Fprintf(w, "%-10s %s\n", "TYPE", "FILE"); err != nil {
			return err
		}
	}
	for _, e := range entries {
		file := e.File
		if rel, err := filepath.Rel(root, file); err == nil {
			file = rel
		}
		if _, err := fmt.Fprintf(w, "%-10s %s\n", e.Type, file); err != nil {
			return err
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
