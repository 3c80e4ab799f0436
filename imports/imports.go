/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package imports finds the import specifiers a file contains, with their
// positions, using tree-sitter grammars for scripts, stylesheets and
// single-file components.
package imports

import (
	"path/filepath"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"bennypowers.dev/filing-cabinet/moduletype"
)

// Position is a zero-based line and byte column.
type Position struct {
	Line   uint
	Column uint
}

// Before reports whether p comes before other.
func (p Position) Before(other Position) bool {
	return p.Line < other.Line || (p.Line == other.Line && p.Column < other.Column)
}

// Import is one specifier and the span of the string literal holding it.
type Import struct {
	Specifier string
	Start     Position
	End       Position
}

// Contains reports whether pos falls within the import's span.
func (i Import) Contains(pos Position) bool {
	return !pos.Before(i.Start) && pos.Before(i.End)
}

// shift moves an import found in an embedded block to file coordinates.
func (i Import) shift(offset Position) Import {
	return Import{
		Specifier: i.Specifier,
		Start:     offset.add(i.Start),
		End:       offset.add(i.End),
	}
}

func (p Position) add(rel Position) Position {
	if rel.Line == 0 {
		return Position{Line: p.Line, Column: p.Column + rel.Column}
	}
	return Position{Line: p.Line + rel.Line, Column: rel.Column}
}

func position(p tree_sitter.Point) Position {
	return Position{Line: p.Row, Column: p.Column}
}

// Find lists the imports of a file, choosing a grammar by its extension.
// Files of other types have no imports.
func Find(filename string, content []byte) ([]Import, error) {
	switch filepath.Ext(filename) {
	case ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts":
		return Script(content)
	case ".css", ".scss", ".sass", ".less", ".styl":
		return Style(content)
	case ".vue", ".svelte", ".html":
		blocks, err := Blocks(content)
		if err != nil {
			return nil, err
		}
		var all []Import
		for _, b := range blocks {
			all = append(all, b.Imports...)
		}
		return all, nil
	}
	return nil, nil
}

// Script lists the imports of JavaScript source: import and export-from
// statements, require() calls, and import() with a literal argument.
func Script(content []byte) ([]Import, error) {
	src, err := moduletype.Parse(content)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return FromSource(src), nil
}

// FromSource lists the imports of an already parsed script.
func FromSource(src *moduletype.Source) []Import {
	var found []Import
	var walk func(n *tree_sitter.Node)
	walk = func(n *tree_sitter.Node) {
		switch n.Kind() {
		case "import_statement", "export_statement":
			if source := n.ChildByFieldName("source"); source != nil {
				found = appendString(found, src, source)
			}
		case "call_expression":
			if fn := n.ChildByFieldName("function"); fn != nil &&
				(fn.Kind() == "import" || (fn.Kind() == "identifier" && src.Text(fn) == "require")) {
				if arg := moduletype.FirstArgument(n); arg != nil && arg.Kind() == "string" {
					found = appendString(found, src, arg)
				}
			}
		}
		for i := uint(0); i < n.NamedChildCount(); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(src.Root())
	return found
}

func appendString(found []Import, src *moduletype.Source, n *tree_sitter.Node) []Import {
	return append(found, Import{
		Specifier: unquote(src.Text(n)),
		Start:     position(n.StartPosition()),
		End:       position(n.EndPosition()),
	})
}

func unquote(s string) string {
	if len(s) >= 2 {
		switch s[0] {
		case '"', '\'', '`':
			if s[len(s)-1] == s[0] {
				return s[1 : len(s)-1]
			}
		}
	}
	return s
}
