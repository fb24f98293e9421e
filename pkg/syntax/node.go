// Package syntax provides helpers for working with tree-sitter nodes and
// query matches: subtree flattening, predicate filtering, and named-capture
// extraction.
package syntax

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Predicate reports whether a node should be kept during traversal.
type Predicate func(node *sitter.Node) bool

// NoQuotes keeps any node that is not a quote delimiter token.
func NoQuotes(node *sitter.Node) bool {
	t := node.Type()
	return t != `"` && t != "'"
}

// Flatten returns node followed by its entire subtree in pre-order, children
// in child order. The result always contains at least the node itself.
//
// The walk uses an explicit stack rather than recursion so deeply nested
// source files cannot exhaust the call stack.
func Flatten(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}

	var out []*sitter.Node
	stack := []*sitter.Node{node}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, current)

		// push right-to-left so children pop in order
		for i := int(current.ChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, current.Child(i))
		}
	}

	return out
}

// Filter returns the pre-order subtree of node restricted to nodes
// satisfying pred, relative order preserved.
func Filter(node *sitter.Node, pred Predicate) []*sitter.Node {
	var out []*sitter.Node
	for _, n := range Flatten(node) {
		if pred(n) {
			out = append(out, n)
		}
	}
	return out
}

// ChildrenText concatenates the raw text of every direct child of node for
// which pred holds, in child order, with no separator. Unlike Filter this
// looks one level deep only. Combined with NoQuotes it reconstructs a string
// literal's value without its surrounding quote tokens.
func ChildrenText(node *sitter.Node, source []byte, pred Predicate) string {
	var out []byte
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if pred(child) {
			out = append(out, source[child.StartByte():child.EndByte()]...)
		}
	}
	return string(out)
}
