/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package moduletype

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"

	cabfs "bennypowers.dev/filing-cabinet/fs"
)

var javascript = tree_sitter.NewLanguage(tree_sitter_javascript.Language())

// Language returns the tree-sitter JavaScript grammar (with JSX).
func Language() *tree_sitter.Language {
	return javascript
}

// Source is a parsed JavaScript file: the syntax tree and the bytes it was parsed from.
// Callers that already parsed a file pass a Source to skip reading and parsing it again.
type Source struct {
	Tree    *tree_sitter.Tree
	Content []byte
}

// Parse parses JavaScript (or JSX) source. Syntax errors do not fail the parse;
// tree-sitter recovers and the affected region is skipped by the analyzer.
func Parse(content []byte) (*Source, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(javascript); err != nil {
		return nil, fmt.Errorf("failed to load javascript grammar: %w", err)
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse javascript source")
	}
	return &Source{Tree: tree, Content: content}, nil
}

// Close releases the syntax tree.
func (s *Source) Close() {
	if s != nil && s.Tree != nil {
		s.Tree.Close()
	}
}

// Root returns the root node of the syntax tree.
func (s *Source) Root() *tree_sitter.Node {
	return s.Tree.RootNode()
}

// Text returns the source text of a node.
func (s *Source) Text(n *tree_sitter.Node) string {
	return n.Utf8Text(s.Content)
}

// Detect reports the module type of a parsed source. The tree is walked in
// source order and the first module syntax found decides the type:
//   - import/export statements or import() → ES6
//   - define() calls or a top-level require([...], fn) → AMD
//   - module.exports/exports assignments or require('x') → CommonJS
//
// A file with none of these is None.
func Detect(src *Source) Type {
	if src == nil || src.Tree == nil {
		return None
	}
	return src.walk(src.Root())
}

// DetectSource parses content and reports its module type.
func DetectSource(content []byte) (Type, error) {
	src, err := Parse(content)
	if err != nil {
		return None, err
	}
	defer src.Close()
	return Detect(src), nil
}

// DetectFile reads and parses a file and reports its module type.
func DetectFile(fsys cabfs.FileSystem, path string) (Type, error) {
	content, err := fsys.ReadFile(path)
	if err != nil {
		return None, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return DetectSource(content)
}

func (s *Source) walk(n *tree_sitter.Node) Type {
	if t := s.classify(n); t != None {
		return t
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if child := n.NamedChild(i); child != nil {
			if t := s.walk(child); t != None {
				return t
			}
		}
	}
	return None
}

// classify reports the module type a single node implies, without looking
// at its children.
func (s *Source) classify(n *tree_sitter.Node) Type {
	switch n.Kind() {
	case "import_statement", "export_statement":
		return ES6
	case "call_expression":
		return s.classifyCall(n)
	case "assignment_expression":
		if left := n.ChildByFieldName("left"); left != nil && s.isExportsTarget(left) {
			return CommonJS
		}
	}
	return None
}

func (s *Source) classifyCall(n *tree_sitter.Node) Type {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return None
	}

	switch fn.Kind() {
	case "import":
		return ES6
	case "identifier":
	default:
		return None
	}

	switch s.Text(fn) {
	case "define":
		return AMD
	case "require":
		first := FirstArgument(n)
		if first == nil {
			return None
		}
		switch first.Kind() {
		case "array":
			if isTopLevelStatement(n) {
				return AMD
			}
		case "string", "template_string":
			return CommonJS
		}
	}
	return None
}

// isTopLevelStatement reports whether a call is an expression statement
// directly inside the program.
func isTopLevelStatement(call *tree_sitter.Node) bool {
	stmt := call.Parent()
	if stmt == nil || stmt.Kind() != "expression_statement" {
		return false
	}
	program := stmt.Parent()
	return program != nil && program.Kind() == "program"
}

// isExportsTarget matches module.exports, module.exports.x and exports.x.
func (s *Source) isExportsTarget(n *tree_sitter.Node) bool {
	if n.Kind() != "member_expression" {
		return false
	}
	object := n.ChildByFieldName("object")
	property := n.ChildByFieldName("property")
	if object == nil || property == nil {
		return false
	}
	if object.Kind() == "identifier" {
		switch s.Text(object) {
		case "exports":
			return true
		case "module":
			return s.Text(property) == "exports"
		}
		return false
	}
	return s.isExportsTarget(object)
}

// FirstArgument returns the first argument node of a call expression, or nil.
func FirstArgument(call *tree_sitter.Node) *tree_sitter.Node {
	args := call.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return nil
	}
	return args.NamedChild(0)
}
