/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package imports

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

var html = tree_sitter.NewLanguage(tree_sitter_html.Language())

// BlockKind says which language family a component block holds.
type BlockKind int

const (
	ScriptBlock BlockKind = iota
	StyleBlock
)

// Block is a <script> or <style> element of a single-file component.
type Block struct {
	Kind BlockKind

	// Lang is the lang attribute, or "" when absent.
	Lang string

	// Content is the raw text of the element.
	Content []byte

	// Start is where Content begins in the component.
	Start Position

	// Imports are in component coordinates.
	Imports []Import
}

// Extension is the file extension the block's language uses.
func (b *Block) Extension() string {
	lang := strings.ToLower(b.Lang)
	if b.Kind == StyleBlock {
		switch lang {
		case "scss", "sass", "less":
			return "." + lang
		case "styl", "stylus":
			return ".styl"
		}
		return ".css"
	}
	switch lang {
	case "ts", "typescript":
		return ".ts"
	case "tsx", "jsx":
		return "." + lang
	}
	return ".js"
}

// ImportsSpecifier reports whether the block imports specifier.
func (b *Block) ImportsSpecifier(specifier string) bool {
	for _, imp := range b.Imports {
		if imp.Specifier == specifier {
			return true
		}
	}
	return false
}

// Blocks parses a component (Vue, Svelte, or plain HTML) and returns its
// script and style elements in document order.
func Blocks(content []byte) ([]*Block, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(html); err != nil {
		return nil, fmt.Errorf("failed to load html grammar: %w", err)
	}
	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse component")
	}
	defer tree.Close()

	var blocks []*Block
	var walk func(n *tree_sitter.Node)
	walk = func(n *tree_sitter.Node) {
		switch n.Kind() {
		case "script_element":
			blocks = appendBlock(blocks, content, n, ScriptBlock)
			return
		case "style_element":
			blocks = appendBlock(blocks, content, n, StyleBlock)
			return
		}
		for i := uint(0); i < n.NamedChildCount(); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(tree.RootNode())

	for _, b := range blocks {
		var (
			found []Import
			err   error
		)
		if b.Kind == ScriptBlock {
			found, err = Script(b.Content)
		} else {
			found, err = Style(b.Content)
		}
		if err != nil {
			return nil, err
		}
		for _, imp := range found {
			b.Imports = append(b.Imports, imp.shift(b.Start))
		}
	}
	return blocks, nil
}

func appendBlock(blocks []*Block, content []byte, element *tree_sitter.Node, kind BlockKind) []*Block {
	b := &Block{Kind: kind}
	for i := uint(0); i < element.NamedChildCount(); i++ {
		child := element.NamedChild(i)
		switch child.Kind() {
		case "start_tag":
			b.Lang = attribute(content, child, "lang")
		case "raw_text":
			b.Content = []byte(child.Utf8Text(content))
			b.Start = position(child.StartPosition())
		}
	}
	return append(blocks, b)
}

func attribute(content []byte, tag *tree_sitter.Node, name string) string {
	for i := uint(0); i < tag.NamedChildCount(); i++ {
		attr := tag.NamedChild(i)
		if attr.Kind() != "attribute" || attr.NamedChildCount() == 0 {
			continue
		}
		if attr.NamedChild(0).Utf8Text(content) != name {
			continue
		}
		if attr.NamedChildCount() < 2 {
			return ""
		}
		value := attr.NamedChild(1)
		if value.Kind() == "quoted_attribute_value" {
			if value.NamedChildCount() == 0 {
				return ""
			}
			value = value.NamedChild(0)
		}
		return value.Utf8Text(content)
	}
	return ""
}
