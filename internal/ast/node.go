// Package ast defines the syntax tree the parser collaborator produces and
// the formatter consumes. Nodes are immutable after construction: each owns
// a byte span into the original source and an ordered child list, with
// sibling spans non-overlapping and contained in the parent span.
package ast

import (
	"github.com/nushell/nufmt/internal/source"
)

// Node is a single syntax tree node. Text carries leaf token text and, for
// a few composite kinds, a discriminator (the operator of a binary node, the
// verb of an overlay form).
type Node struct {
	Kind     Kind
	Span     source.Span
	Text     string
	Children []*Node
}

// NewLeaf builds a childless node.
func NewLeaf(kind Kind, span source.Span, text string) *Node {
	return &Node{Kind: kind, Span: span, Text: text}
}

// NewNode builds a composite node. The span is widened to cover all children.
func NewNode(kind Kind, span source.Span, children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			span = span.Cover(c.Span)
		}
	}
	return &Node{Kind: kind, Span: span, Children: children}
}

// Child returns the i-th child, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Walk visits n and every descendant in document order. Returning false from
// visit prunes the subtree.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, visit)
	}
}

// IsDecl reports whether the node is a declaration form.
func (n *Node) IsDecl() bool {
	switch n.Kind {
	case KindLetDecl, KindMutDecl, KindConstDecl, KindDefDecl, KindExternDecl, KindAliasDecl:
		return true
	default:
		return false
	}
}
