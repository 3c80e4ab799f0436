/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package jsvalue statically evaluates JavaScript configuration files.
//
// Bundler and RequireJS configs are programs, but in practice they are an
// object literal plus a few path helpers. The evaluator folds literals,
// top-level bindings, string concatenation, template strings, member access,
// path.resolve/path.join with __dirname, and functions that return a value.
// Anything else evaluates to nil, as if it were undefined.
package jsvalue

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"bennypowers.dev/filing-cabinet/moduletype"
)

// ErrNoExports is returned when a file assigns nothing to module.exports
// and has no default export.
var ErrNoExports = errors.New("no exported value")

// ErrNoRequireConfig is returned when a file contains no RequireJS configuration.
var ErrNoRequireConfig = errors.New("no requirejs configuration")

// maxDepth bounds evaluation of self-referencing bindings.
const maxDepth = 64

// ModuleExports evaluates the value a file exports through module.exports
// or export default. Exported functions are called with no arguments and
// their return value is used instead.
func ModuleExports(content []byte, filename string) (any, error) {
	src, err := moduletype.Parse(content)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	e := newEvaluator(src, filename)
	node := e.exportsNode()
	if node == nil {
		return nil, fmt.Errorf("%s: %w", filename, ErrNoExports)
	}

	value := e.eval(node)
	if fn, ok := value.(*function); ok {
		value = e.call(fn)
	}
	return value, nil
}

// RequireConfig finds the object passed to requirejs.config(), require.config()
// or requirejs(), or assigned to a top-level require/requirejs variable.
func RequireConfig(content []byte, filename string) (map[string]any, error) {
	src, err := moduletype.Parse(content)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	e := newEvaluator(src, filename)
	node := e.requireConfigNode(src.Root())
	if node == nil {
		return nil, fmt.Errorf("%s: %w", filename, ErrNoRequireConfig)
	}

	cfg, ok := e.eval(node).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: requirejs configuration is not an object", filename)
	}
	return cfg, nil
}

type function struct {
	node *tree_sitter.Node
}

type evaluator struct {
	src      *moduletype.Source
	filename string
	dirname  string
	scopes   []map[string]*tree_sitter.Node

	// pathModules holds names bound to require('path').
	pathModules map[string]bool
	// pathFuncs maps local names to destructured path functions.
	pathFuncs map[string]string

	depth int
}

func newEvaluator(src *moduletype.Source, filename string) *evaluator {
	e := &evaluator{
		src:         src,
		filename:    filename,
		dirname:     filepath.Dir(filename),
		pathModules: map[string]bool{},
		pathFuncs:   map[string]string{},
	}
	e.scopes = []map[string]*tree_sitter.Node{e.declarations(src.Root())}
	return e
}

func (e *evaluator) text(n *tree_sitter.Node) string {
	return e.src.Text(n)
}

// declarations collects the bindings declared directly in a program or block.
func (e *evaluator) declarations(block *tree_sitter.Node) map[string]*tree_sitter.Node {
	scope := map[string]*tree_sitter.Node{}
	for i := uint(0); i < block.NamedChildCount(); i++ {
		stmt := block.NamedChild(i)
		switch stmt.Kind() {
		case "lexical_declaration", "variable_declaration":
			for j := uint(0); j < stmt.NamedChildCount(); j++ {
				decl := stmt.NamedChild(j)
				if decl.Kind() == "variable_declarator" {
					e.declare(scope, decl)
				}
			}
		case "function_declaration":
			if name := stmt.ChildByFieldName("name"); name != nil {
				scope[e.text(name)] = stmt
			}
		}
	}
	return scope
}

func (e *evaluator) declare(scope map[string]*tree_sitter.Node, decl *tree_sitter.Node) {
	name := decl.ChildByFieldName("name")
	value := decl.ChildByFieldName("value")
	if name == nil || value == nil {
		return
	}

	pathModule := e.isPathRequire(value)
	switch name.Kind() {
	case "identifier":
		if pathModule {
			e.pathModules[e.text(name)] = true
			return
		}
		scope[e.text(name)] = value
	case "object_pattern":
		if !pathModule {
			return
		}
		for i := uint(0); i < name.NamedChildCount(); i++ {
			prop := name.NamedChild(i)
			switch prop.Kind() {
			case "shorthand_property_identifier_pattern":
				e.pathFuncs[e.text(prop)] = e.text(prop)
			case "pair_pattern":
				key := prop.ChildByFieldName("key")
				local := prop.ChildByFieldName("value")
				if key != nil && local != nil && local.Kind() == "identifier" {
					e.pathFuncs[e.text(local)] = e.text(key)
				}
			}
		}
	}
}

func (e *evaluator) isPathRequire(n *tree_sitter.Node) bool {
	if n.Kind() != "call_expression" {
		return false
	}
	fn := n.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "identifier" || e.text(fn) != "require" {
		return false
	}
	arg := moduletype.FirstArgument(n)
	if arg == nil {
		return false
	}
	name, ok := e.eval(arg).(string)
	return ok && (name == "path" || name == "node:path")
}

func (e *evaluator) lookup(name string) *tree_sitter.Node {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if n, ok := e.scopes[i][name]; ok {
			return n
		}
	}
	return nil
}

// exportsNode returns the expression last assigned to module.exports,
// or the default export.
func (e *evaluator) exportsNode() *tree_sitter.Node {
	root := e.src.Root()
	var found *tree_sitter.Node
	for i := uint(0); i < root.NamedChildCount(); i++ {
		stmt := root.NamedChild(i)
		switch stmt.Kind() {
		case "expression_statement":
			if stmt.NamedChildCount() == 0 {
				continue
			}
			expr := stmt.NamedChild(0)
			if expr.Kind() != "assignment_expression" {
				continue
			}
			left := expr.ChildByFieldName("left")
			if left != nil && e.text(left) == "module.exports" {
				found = expr.ChildByFieldName("right")
			}
		case "export_statement":
			if !hasKeyword(stmt, "default") {
				continue
			}
			if value := stmt.ChildByFieldName("value"); value != nil {
				found = value
			} else if decl := stmt.ChildByFieldName("declaration"); decl != nil {
				found = decl
			}
		}
	}
	return found
}

func (e *evaluator) requireConfigNode(n *tree_sitter.Node) *tree_sitter.Node {
	switch n.Kind() {
	case "call_expression":
		if e.isRequireConfigCall(n) {
			if arg := moduletype.FirstArgument(n); arg != nil && arg.Kind() == "object" {
				return arg
			}
		}
	case "variable_declarator":
		name := n.ChildByFieldName("name")
		value := n.ChildByFieldName("value")
		if name != nil && value != nil && value.Kind() == "object" {
			switch e.text(name) {
			case "require", "requirejs":
				return value
			}
		}
	}

	for i := uint(0); i < n.NamedChildCount(); i++ {
		if found := e.requireConfigNode(n.NamedChild(i)); found != nil {
			return found
		}
	}
	return nil
}

func (e *evaluator) isRequireConfigCall(call *tree_sitter.Node) bool {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return false
	}
	switch fn.Kind() {
	case "identifier":
		// requirejs({...}) and require({...}, deps) configure the loader too
		name := e.text(fn)
		return name == "requirejs" || name == "require"
	case "member_expression":
		switch e.text(fn) {
		case "require.config", "requirejs.config":
			return true
		}
	}
	return false
}

func (e *evaluator) eval(n *tree_sitter.Node) any {
	if n == nil || e.depth > maxDepth {
		return nil
	}
	e.depth++
	defer func() { e.depth-- }()

	switch n.Kind() {
	case "string":
		return e.stringValue(n)
	case "template_string":
		return e.templateValue(n)
	case "number":
		return numberValue(e.text(n))
	case "true":
		return true
	case "false":
		return false
	case "null", "undefined":
		return nil
	case "identifier":
		return e.identifierValue(e.text(n))
	case "object":
		return e.objectValue(n)
	case "array":
		return e.arrayValue(n)
	case "parenthesized_expression":
		if n.NamedChildCount() == 0 {
			return nil
		}
		return e.eval(n.NamedChild(n.NamedChildCount() - 1))
	case "member_expression":
		return e.memberValue(n)
	case "subscript_expression":
		return e.subscriptValue(n)
	case "binary_expression":
		return e.binaryValue(n)
	case "ternary_expression":
		if truthy(e.eval(n.ChildByFieldName("condition"))) {
			return e.eval(n.ChildByFieldName("consequence"))
		}
		return e.eval(n.ChildByFieldName("alternative"))
	case "call_expression":
		return e.callValue(n)
	case "arrow_function", "function_expression", "function", "function_declaration":
		return &function{node: n}
	}
	return nil
}

func (e *evaluator) identifierValue(name string) any {
	switch name {
	case "__dirname":
		return e.dirname
	case "__filename":
		return e.filename
	case "undefined":
		return nil
	}
	return e.eval(e.lookup(name))
}

func (e *evaluator) stringValue(n *tree_sitter.Node) string {
	var b strings.Builder
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "string_fragment":
			b.WriteString(e.text(child))
		case "escape_sequence":
			b.WriteString(unescape(e.text(child)))
		}
	}
	return b.String()
}

func (e *evaluator) templateValue(n *tree_sitter.Node) any {
	var b strings.Builder
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "string_fragment":
			b.WriteString(e.text(child))
		case "escape_sequence":
			b.WriteString(unescape(e.text(child)))
		case "template_substitution":
			if child.NamedChildCount() == 0 {
				return nil
			}
			s, ok := stringify(e.eval(child.NamedChild(0)))
			if !ok {
				return nil
			}
			b.WriteString(s)
		}
	}
	return b.String()
}

func (e *evaluator) objectValue(n *tree_sitter.Node) map[string]any {
	obj := map[string]any{}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		member := n.NamedChild(i)
		switch member.Kind() {
		case "pair":
			key, ok := e.propertyKey(member.ChildByFieldName("key"))
			if !ok {
				continue
			}
			obj[key] = e.eval(member.ChildByFieldName("value"))
		case "shorthand_property_identifier":
			name := e.text(member)
			obj[name] = e.identifierValue(name)
		case "spread_element":
			if member.NamedChildCount() == 0 {
				continue
			}
			if spread, ok := e.eval(member.NamedChild(0)).(map[string]any); ok {
				for k, v := range spread {
					obj[k] = v
				}
			}
		case "method_definition":
			if name := member.ChildByFieldName("name"); name != nil {
				obj[e.text(name)] = &function{node: member}
			}
		}
	}
	return obj
}

func (e *evaluator) propertyKey(key *tree_sitter.Node) (string, bool) {
	if key == nil {
		return "", false
	}
	switch key.Kind() {
	case "property_identifier":
		return e.text(key), true
	case "string":
		return e.stringValue(key), true
	case "number":
		return e.text(key), true
	case "computed_property_name":
		if key.NamedChildCount() == 0 {
			return "", false
		}
		return stringify(e.eval(key.NamedChild(0)))
	}
	return "", false
}

func (e *evaluator) arrayValue(n *tree_sitter.Node) []any {
	arr := []any{}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		elem := n.NamedChild(i)
		switch elem.Kind() {
		case "comment":
			continue
		case "spread_element":
			if elem.NamedChildCount() == 0 {
				continue
			}
			if spread, ok := e.eval(elem.NamedChild(0)).([]any); ok {
				arr = append(arr, spread...)
			}
		default:
			arr = append(arr, e.eval(elem))
		}
	}
	return arr
}

func (e *evaluator) memberValue(n *tree_sitter.Node) any {
	property := n.ChildByFieldName("property")
	if property == nil {
		return nil
	}
	return member(e.eval(n.ChildByFieldName("object")), e.text(property))
}

func (e *evaluator) subscriptValue(n *tree_sitter.Node) any {
	key, ok := stringify(e.eval(n.ChildByFieldName("index")))
	if !ok {
		return nil
	}
	return member(e.eval(n.ChildByFieldName("object")), key)
}

func (e *evaluator) binaryValue(n *tree_sitter.Node) any {
	op := n.ChildByFieldName("operator")
	if op == nil {
		return nil
	}
	left := e.eval(n.ChildByFieldName("left"))

	switch e.text(op) {
	case "||":
		if truthy(left) {
			return left
		}
		return e.eval(n.ChildByFieldName("right"))
	case "??":
		if left != nil {
			return left
		}
		return e.eval(n.ChildByFieldName("right"))
	case "&&":
		if !truthy(left) {
			return left
		}
		return e.eval(n.ChildByFieldName("right"))
	case "+":
		right := e.eval(n.ChildByFieldName("right"))
		if l, ok := left.(float64); ok {
			if r, ok := right.(float64); ok {
				return l + r
			}
		}
		ls, lok := stringify(left)
		rs, rok := stringify(right)
		if !lok || !rok {
			return nil
		}
		return ls + rs
	}
	return nil
}

func (e *evaluator) callValue(n *tree_sitter.Node) any {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return nil
	}

	switch fn.Kind() {
	case "member_expression":
		object := fn.ChildByFieldName("object")
		property := fn.ChildByFieldName("property")
		if object == nil || property == nil {
			return nil
		}
		if object.Kind() == "identifier" && e.pathModules[e.text(object)] {
			return e.pathCall(e.text(property), n)
		}
		if object.Kind() == "identifier" && e.text(object) == "process" && e.text(property) == "cwd" {
			return e.dirname
		}
	case "identifier":
		name := e.text(fn)
		if name == "require" {
			return nil
		}
		if fname, ok := e.pathFuncs[name]; ok {
			return e.pathCall(fname, n)
		}
	}

	if callee, ok := e.eval(fn).(*function); ok {
		return e.call(callee)
	}
	return nil
}

// pathCall evaluates path.resolve and path.join. Relative results of
// resolve are anchored at the directory of the evaluated file.
func (e *evaluator) pathCall(name string, call *tree_sitter.Node) any {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	var parts []string
	for i := uint(0); i < args.NamedChildCount(); i++ {
		s, ok := e.eval(args.NamedChild(i)).(string)
		if !ok {
			return nil
		}
		parts = append(parts, s)
	}

	switch name {
	case "join":
		return filepath.Join(parts...)
	case "resolve":
		resolved := e.dirname
		for _, p := range parts {
			if filepath.IsAbs(p) {
				resolved = p
			} else {
				resolved = filepath.Join(resolved, p)
			}
		}
		return filepath.Clean(resolved)
	case "dirname":
		if len(parts) == 1 {
			return filepath.Dir(parts[0])
		}
	case "basename":
		if len(parts) > 0 {
			return filepath.Base(parts[0])
		}
	}
	return nil
}

// call evaluates a function invoked without arguments: the expression body
// of an arrow function, or the first return statement of a block body.
func (e *evaluator) call(fn *function) any {
	body := fn.node.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	if body.Kind() != "statement_block" {
		return e.eval(body)
	}

	e.scopes = append(e.scopes, e.declarations(body))
	defer func() { e.scopes = e.scopes[:len(e.scopes)-1] }()

	for i := uint(0); i < body.NamedChildCount(); i++ {
		stmt := body.NamedChild(i)
		if stmt.Kind() != "return_statement" {
			continue
		}
		if stmt.NamedChildCount() == 0 {
			return nil
		}
		return e.eval(stmt.NamedChild(0))
	}
	return nil
}

func hasKeyword(n *tree_sitter.Node, keyword string) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); child != nil && child.Kind() == keyword {
			return true
		}
	}
	return false
}

func member(object any, key string) any {
	switch v := object.(type) {
	case map[string]any:
		return v[key]
	case []any:
		if key == "length" {
			return float64(len(v))
		}
		if i, err := strconv.Atoi(key); err == nil && i >= 0 && i < len(v) {
			return v[i]
		}
	case string:
		if key == "length" {
			return float64(len(v))
		}
	}
	return nil
}

func numberValue(text string) any {
	text = strings.ReplaceAll(text, "_", "")
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f
	}
	if i, err := strconv.ParseInt(text, 0, 64); err == nil {
		return float64(i)
	}
	return nil
}

func stringify(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	}
	return true
}

func unescape(seq string) string {
	if len(seq) < 2 {
		return seq
	}
	switch seq[1] {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '0':
		return "\x00"
	case 'u', 'x':
		if s, err := strconv.Unquote(`"` + seq + `"`); err == nil {
			return s
		}
	}
	return seq[1:]
}
