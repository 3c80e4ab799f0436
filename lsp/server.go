/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package lsp is a language server that answers go-to-definition on
// import specifiers by resolving them to the files they refer to.
package lsp

import (
	"io"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"bennypowers.dev/filing-cabinet/cabinet"
	"bennypowers.dev/filing-cabinet/config"
	cabfs "bennypowers.dev/filing-cabinet/fs"
	"bennypowers.dev/filing-cabinet/internal/logger"
)

// Name is the server name reported to clients.
const Name = "filing-cabinet"

// Server holds the open documents of one workspace.
type Server struct {
	cabinet *cabinet.Cabinet
	config  *config.Config
	root    string
	fs      cabfs.FileSystem
	version string

	handler protocol.Handler

	mu        sync.RWMutex
	documents map[protocol.DocumentUri][]byte
}

// New creates a language server for the workspace at root.
func New(c *cabinet.Cabinet, cfg *config.Config, root string, fsys cabfs.FileSystem, version string) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		cabinet:   c,
		config:    cfg,
		root:      root,
		fs:        fsys,
		version:   version,
		documents: make(map[protocol.DocumentUri][]byte),
	}
	s.handler = protocol.Handler{
		Initialize:             s.initialize,
		Initialized:            s.initialized,
		Shutdown:               s.shutdown,
		SetTrace:               s.setTrace,
		TextDocumentDidOpen:    s.didOpen,
		TextDocumentDidChange:  s.didChange,
		TextDocumentDidClose:   s.didClose,
		TextDocumentDefinition: s.definition,
	}
	return s
}

// RunStdio serves the protocol over stdin and stdout. Logging is silenced
// since stdout carries the protocol.
func (s *Server) RunStdio() error {
	logger.SetOutput(io.Discard)
	return server.NewServer(&s.handler, Name, false).RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if params.RootURI != nil {
		if root, err := uriToPath(*params.RootURI); err == nil {
			s.root = root
		}
	}

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = protocol.TextDocumentSyncKindFull
	capabilities.DefinitionProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.setDocument(params.TextDocument.URI, []byte(params.TextDocument.Text))
	return nil
}

func (s *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	for _, change := range params.ContentChanges {
		// Full sync is advertised, so each change carries the whole text.
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.setDocument(params.TextDocument.URI, []byte(whole.Text))
		}
	}
	return nil
}

func (s *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, params.TextDocument.URI)
	return nil
}

func (s *Server) setDocument(uri protocol.DocumentUri, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[uri] = content
}

// document returns the open document's text, or the file's content
// when the client has not opened it.
func (s *Server) document(uri protocol.DocumentUri, path string) ([]byte, error) {
	s.mu.RLock()
	content, ok := s.documents[uri]
	s.mu.RUnlock()
	if ok {
		return content, nil
	}
	return s.fs.ReadFile(path)
}
