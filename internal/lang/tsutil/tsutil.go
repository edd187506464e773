// Package tsutil provides the small set of tree-sitter node helpers every
// language adapter needs: text extraction, position conversion, child
// lookup, and depth-first traversal, factored out so each per-language
// package doesn't redefine the same handful of node-walking primitives.
package tsutil

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codeintel/symgraph/internal/types"
)

// Text returns node's source text.
func Text(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if start > uint(len(source)) || end > uint(len(source)) || start > end {
		return ""
	}
	return string(source[start:end])
}

// Range converts a node's tree-sitter span to types.Range, shifting
// tree-sitter's 0-based rows/columns to this module's own 0-based
// Position (no shift needed; kept as its own function so a future
// convention change has one call site).
func Range(node *sitter.Node) types.Range {
	if node == nil {
		return types.Range{}
	}
	start, end := node.StartPosition(), node.EndPosition()
	return types.Range{
		Start: types.Position{Line: int(start.Row), Column: int(start.Column)},
		End:   types.Position{Line: int(end.Row), Column: int(end.Column)},
	}
}

// Child returns the first direct child of kind, or nil.
func Child(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		c := node.Child(i)
		if c != nil && c.Kind() == kind {
			return c
		}
	}
	return nil
}

// Children returns every direct child of kind.
func Children(node *sitter.Node, kind string) []*sitter.Node {
	if node == nil {
		return nil
	}
	var out []*sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		c := node.Child(i)
		if c != nil && c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// ChildByFieldName returns the child of node associated with fieldName
// (e.g. "name", "body"), the tree-sitter grammar's own field labels.
func ChildByFieldName(node *sitter.Node, fieldName string) *sitter.Node {
	if node == nil {
		return nil
	}
	return node.ChildByFieldName(fieldName)
}

// Walk visits node and every descendant depth-first, pre-order. visitor
// returning false skips that node's children but continues the walk.
func Walk(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil || !visitor(node) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		Walk(node.Child(i), visitor)
	}
}

// PrecedingDocComment returns the contiguous comment block (of the given
// tree-sitter comment node kind, e.g. "comment" or "line_comment")
// immediately preceding node, with no blank line between them, joined
// with newlines. Returns "" when there is no such block.
func PrecedingDocComment(node *sitter.Node, source []byte, commentKind string) string {
	if node == nil || node.Parent() == nil {
		return ""
	}

	parent := node.Parent()
	idx := childIndex(parent, node)
	if idx < 0 {
		return ""
	}

	var comments []string
	lastRow := int(node.StartPosition().Row)
	for i := idx - 1; i >= 0; i-- {
		sibling := parent.Child(uint(i))
		if sibling == nil {
			break
		}
		if sibling.Kind() != commentKind {
			break
		}
		if lastRow-int(sibling.EndPosition().Row) > 1 {
			break
		}
		comments = append([]string{Text(sibling, source)}, comments...)
		lastRow = int(sibling.StartPosition().Row)
	}

	if len(comments) == 0 {
		return ""
	}
	joined := comments[0]
	for _, c := range comments[1:] {
		joined += "\n" + c
	}
	return joined
}

func childIndex(parent, node *sitter.Node) int {
	for i := uint(0); i < parent.ChildCount(); i++ {
		c := parent.Child(i)
		if c != nil && c.StartByte() == node.StartByte() && c.EndByte() == node.EndByte() {
			return int(i)
		}
	}
	return -1
}
