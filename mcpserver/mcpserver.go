/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package mcpserver exposes dependency resolution as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"bennypowers.dev/filing-cabinet/cabinet"
	"bennypowers.dev/filing-cabinet/config"
	cabfs "bennypowers.dev/filing-cabinet/fs"
	"bennypowers.dev/filing-cabinet/internal/logger"
)

// Name is the implementation name the server reports.
const Name = "filing-cabinet"

// Server answers resolution tools for one project.
type Server struct {
	cabinet *cabinet.Cabinet
	config  *config.Config
	root    string
	fs      cabfs.FileSystem
}

// New creates a server resolving files under root with the project config cfg.
func New(c *cabinet.Cabinet, cfg *config.Config, root string, fsys cabfs.FileSystem) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Server{cabinet: c, config: cfg, root: root, fs: fsys}
}

// ResolveInput are the arguments of the resolve tool.
type ResolveInput struct {
	Partial       string `json:"partial" jsonschema:"the dependency path as written in the source, e.g. ./utils or lodash"`
	Filename      string `json:"filename" jsonschema:"the file containing the dependency, absolute or relative to the project root"`
	Directory     string `json:"directory,omitempty" jsonschema:"root of all files, overriding the project config"`
	RequireConfig string `json:"requireConfig,omitempty" jsonschema:"RequireJS config file for AMD modules"`
	WebpackConfig string `json:"webpackConfig,omitempty" jsonschema:"webpack config file"`
	TSConfig      string `json:"tsConfig,omitempty" jsonschema:"tsconfig file"`
}

// ResolveOutput is the result of the resolve tool.
type ResolveOutput struct {
	Path     string `json:"path" jsonschema:"absolute path of the file the dependency refers to, empty when unresolved"`
	Resolved bool   `json:"resolved"`
}

// ClassifyInput are the arguments of the classify tool.
type ClassifyInput struct {
	Filename string `json:"filename" jsonschema:"the JavaScript file to classify"`
}

// ClassifyOutput is the result of the classify tool.
type ClassifyOutput struct {
	ModuleType string `json:"moduleType" jsonschema:"one of amd, commonjs, es6, webpack"`
}

// ExtensionsInput takes no arguments.
type ExtensionsInput struct{}

// ExtensionsOutput is the result of the extensions tool.
type ExtensionsOutput struct {
	Extensions []string `json:"extensions"`
}

// MCP builds the protocol server with every tool registered.
func (s *Server) MCP(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: Name, Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve",
		Description: "Find the file a dependency path in a JavaScript, TypeScript, Sass, Stylus, Less, Vue or Svelte file refers to.",
	}, s.resolve)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "classify",
		Description: "Report the module system (amd, commonjs, es6, webpack) a JavaScript file's dependencies are resolved with.",
	}, s.classify)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "extensions",
		Description: "List the file extensions with a dedicated resolver.",
	}, s.extensions)

	return server
}

// Run serves the tools over stdio until the client disconnects or ctx is done.
// Logging is silenced since stdout carries the protocol.
func (s *Server) Run(ctx context.Context, version string) error {
	logger.SetOutput(io.Discard)
	return s.MCP(version).Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) resolve(ctx context.Context, req *mcp.CallToolRequest, in ResolveInput) (*mcp.CallToolResult, ResolveOutput, error) {
	if in.Filename == "" {
		return nil, ResolveOutput{}, fmt.Errorf("filename is required")
	}

	cfg := s.config.Merge(&config.Config{
		Directory:     in.Directory,
		RequireConfig: in.RequireConfig,
		WebpackConfig: in.WebpackConfig,
		TSConfig:      in.TSConfig,
	})
	opts := cfg.Options(s.root, in.Filename, in.Partial)
	opts.FileSystem = s.fs

	path, err := s.cabinet.Resolve(opts)
	if err != nil {
		return nil, ResolveOutput{}, fmt.Errorf("error resolving %s: %w", in.Partial, err)
	}
	return nil, ResolveOutput{Path: path, Resolved: path != ""}, nil
}

func (s *Server) classify(ctx context.Context, req *mcp.CallToolRequest, in ClassifyInput) (*mcp.CallToolResult, ClassifyOutput, error) {
	if in.Filename == "" {
		return nil, ClassifyOutput{}, fmt.Errorf("filename is required")
	}
	filename := in.Filename
	if !filepath.IsAbs(filename) {
		filename = filepath.Join(s.root, filename)
	}
	if !cabfs.IsFile(s.fs, filename) {
		return nil, ClassifyOutput{}, fmt.Errorf("no such file: %s", in.Filename)
	}

	opts := s.config.Options(s.root, filename, "")
	opts.FileSystem = s.fs
	return nil, ClassifyOutput{ModuleType: s.cabinet.ModuleType(opts).String()}, nil
}

func (s *Server) extensions(ctx context.Context, req *mcp.CallToolRequest, in ExtensionsInput) (*mcp.CallToolResult, ExtensionsOutput, error) {
	return nil, ExtensionsOutput{Extensions: s.cabinet.SupportedFileExtensions()}, nil
}
