/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package lsp

import (
	"bytes"
	"fmt"
	"net/url"
	"path/filepath"
	"unicode/utf8"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/filing-cabinet/imports"
	"bennypowers.dev/filing-cabinet/internal/logger"
	"bennypowers.dev/filing-cabinet/moduletype"
)

// definition resolves the import specifier under the cursor. Positions
// outside any specifier, and specifiers that do not resolve, have no definition.
func (s *Server) definition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	content, err := s.document(params.TextDocument.URI, path)
	if err != nil {
		return nil, err
	}

	found, err := imports.Find(path, content)
	if err != nil {
		return nil, err
	}

	pos := bytePosition(content, params.Position)
	for _, imp := range found {
		if !imp.Contains(pos) {
			continue
		}

		opts := s.config.Options(s.root, path, imp.Specifier)
		opts.FileSystem = s.fs
		// Classify the text the client sees, not what is saved.
		if isScript(path) {
			if src, err := moduletype.Parse(content); err == nil {
				defer src.Close()
				opts.AST = src
			}
		}
		target, err := s.cabinet.Resolve(opts)
		if err != nil {
			return nil, err
		}
		if target == "" {
			logger.Debug("lsp: %s does not resolve", imp.Specifier)
			return nil, nil
		}
		return protocol.Location{
			URI:   pathToURI(target),
			Range: protocol.Range{},
		}, nil
	}
	return nil, nil
}

func isScript(path string) bool {
	switch filepath.Ext(path) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return true
	}
	return false
}

// bytePosition converts an LSP position, whose character offset counts
// UTF-16 code units, to a line and byte column.
func bytePosition(content []byte, pos protocol.Position) imports.Position {
	line := content
	for range pos.Line {
		i := bytes.IndexByte(line, '\n')
		if i < 0 {
			line = nil
			break
		}
		line = line[i+1:]
	}
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	var column, units uint
	for column < uint(len(line)) && units < uint(pos.Character) {
		r, size := utf8.DecodeRune(line[column:])
		column += uint(size)
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
	}
	return imports.Position{Line: uint(pos.Line), Column: column}
}

func uriToPath(uri protocol.DocumentUri) (string, error) {
	u, err := url.Parse(string(uri))
	if err != nil {
		return "", fmt.Errorf("invalid document uri %s: %w", uri, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported document uri %s", uri)
	}
	return filepath.FromSlash(u.Path), nil
}

func pathToURI(path string) protocol.DocumentUri {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return protocol.DocumentUri(u.String())
}
