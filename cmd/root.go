/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for filing-cabinet.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/filing-cabinet/cmd/classify"
	"bennypowers.dev/filing-cabinet/cmd/extensions"
	"bennypowers.dev/filing-cabinet/cmd/lsp"
	"bennypowers.dev/filing-cabinet/cmd/mcp"
	"bennypowers.dev/filing-cabinet/cmd/project"
	"bennypowers.dev/filing-cabinet/cmd/resolve"
	"bennypowers.dev/filing-cabinet/cmd/version"
	"bennypowers.dev/filing-cabinet/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "filing-cabinet",
	Short: "Find the file a dependency path refers to",
	Long: `filing-cabinet resolves partial dependency paths, like "./foo" or "lodash",
to the files they refer to, following the rules of the module system
the importing file uses: CommonJS, AMD, ES modules, TypeScript, webpack,
Sass, Stylus and Less.

Settings come from .config/filing-cabinet.{yaml,yml,json}, CABINET_*
environment variables and flags, each overriding the one before.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool(project.KeyVerbose) {
			logger.SetDebug(true)
		}
	},
}

// Execute runs the root command. Interrupts cancel the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initEnv)

	flags := rootCmd.PersistentFlags()
	flags.StringP(project.KeyDirectory, "d", "", "Root of all files")
	flags.StringP(project.KeyRequireConfig, "c", "", "Location of a RequireJS config file for AMD")
	flags.StringP(project.KeyWebpackConfig, "w", "", "Location of a webpack config file")
	flags.StringP(project.KeyTSConfig, "t", "", "Location of a tsconfig file")
	flags.String(project.KeyEntry, "", "package.json field to prefer over main, e.g. module")
	flags.Bool(project.KeyNoTypeDefinitions, false, "Resolve TypeScript imports to .js files instead of .d.ts")
	flags.BoolP(project.KeyVerbose, "v", false, "Log debug messages to stderr")
	_ = viper.BindPFlags(flags)

	rootCmd.AddCommand(resolve.Cmd)
	rootCmd.AddCommand(classify.Cmd)
	rootCmd.AddCommand(extensions.Cmd)
	rootCmd.AddCommand(mcp.Cmd)
	rootCmd.AddCommand(lsp.Cmd)
	rootCmd.AddCommand(version.Cmd)
}

func initEnv() {
	viper.SetEnvPrefix("CABINET")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
