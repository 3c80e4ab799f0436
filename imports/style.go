/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package imports

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

var css = tree_sitter.NewLanguage(tree_sitter_css.Language())

// importRules are at-rules whose first value names another stylesheet.
var importRules = map[string]bool{
	"@use":     true,
	"@forward": true,
	"@require": true,
}

// Style lists the imports of a stylesheet: @import, plus the @use and
// @forward rules of SCSS and @require of Stylus.
func Style(content []byte) ([]Import, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(css); err != nil {
		return nil, fmt.Errorf("failed to load css grammar: %w", err)
	}
	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse stylesheet")
	}
	defer tree.Close()

	var found []Import
	var walk func(n *tree_sitter.Node)
	walk = func(n *tree_sitter.Node) {
		if n.Kind() == "import_statement" {
			found = appendStyleTarget(found, content, n, 0)
			return
		}
		// SCSS and Stylus rules are not in the CSS grammar, so they surface
		// as generic at_rule nodes or inside ERROR nodes.
		for i := uint(0); i < n.NamedChildCount(); i++ {
			child := n.NamedChild(i)
			if child.Kind() == "at_keyword" && importRules[child.Utf8Text(content)] {
				found = appendStyleTarget(found, content, n, i+1)
				continue
			}
			walk(child)
		}
	}
	walk(tree.RootNode())
	return found, nil
}

// appendStyleTarget records the first string, bare word or url() argument
// among the children of rule from index from on.
func appendStyleTarget(found []Import, content []byte, rule *tree_sitter.Node, from uint) []Import {
	for i := from; i < rule.NamedChildCount(); i++ {
		value := rule.NamedChild(i)
		switch value.Kind() {
		case "string_value", "plain_value":
			return append(found, styleImport(content, value))
		case "call_expression":
			args := value.ChildByFieldName("arguments")
			if args == nil {
				// older grammars do not name the field
				args = lastNamedChild(value)
			}
			if args != nil && args.NamedChildCount() > 0 {
				return append(found, styleImport(content, args.NamedChild(0)))
			}
			return found
		}
	}
	return found
}

func styleImport(content []byte, n *tree_sitter.Node) Import {
	return Import{
		Specifier: unquote(n.Utf8Text(content)),
		Start:     position(n.StartPosition()),
		End:       position(n.EndPosition()),
	}
}

func lastNamedChild(n *tree_sitter.Node) *tree_sitter.Node {
	if n.NamedChildCount() == 0 {
		return nil
	}
	return n.NamedChild(n.NamedChildCount() - 1)
}
