/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package extensions provides the extensions command for filing-cabinet.
package extensions

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/filing-cabinet/cabinet"
)

// Cmd is the extensions cobra command.
var Cmd = &cobra.Command{
	Use:   "extensions",
	Short: "List the file extensions with a dedicated resolver",
	Long:  `List the file extensions with a dedicated resolver. Files with other extensions are resolved generically.`,
	Args:  cobra.NoArgs,
	RunE:  run,
}

func init() {
	Cmd.Flags().String("format", "text", "Output format: text, json")
}

func run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	return write(cmd.OutOrStdout(), format, cabinet.SupportedFileExtensions())
}

func write(w io.Writer, format string, exts []string) error {
	switch format {
	case "json":
		return json.NewEncoder(w).Encode(exts)
	case "text", "":
		if len(exts) == 0 {
			return nil
		}
		_, err := fmt.Fprintln(w, strings.Join(exts, "\n"))
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
