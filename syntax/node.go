// Copyright 2024-2025 The Quill Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package syntax

import (
	"iter"

	"github.com/quill-lang/quill/report"
	"github.com/quill-lang/quill/token"
)

// Node is a red node: an ephemeral view of a [GreenNode] that knows its
// absolute byte offset and its parent.
//
// Red nodes are built lazily during traversal and are never stored inside
// a tree; two Nodes reached by different traversals are independent values
// that compare equal under [Node.Same] when they view the same green node
// at the same offset. Computing a node's offset costs time proportional to
// its depth and fan-in, never to document size, because every green node
// caches its text length.
type Node struct {
	green  *GreenNode
	parent *Node
	offset int
	index  int
}

// NewRootNode returns the red view of a tree's root, at offset zero.
func NewRootNode(root *GreenNode) *Node {
	return &Node{green: root}
}

// Kind returns the kind of the underlying green node.
func (n *Node) Kind() NodeKind { return n.green.kind }

// Green returns the underlying green node.
func (n *Node) Green() *GreenNode { return n.green }

// Offset returns this node's absolute byte offset.
func (n *Node) Offset() int { return n.offset }

// Span returns this node's absolute byte range.
func (n *Node) Span() report.Span {
	return report.Span{Start: n.offset, End: n.offset + n.green.Len()}
}

// Parent returns this node's parent, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Text returns the source text this node covers.
func (n *Node) Text() string { return n.green.Text() }

// Same reports whether two red nodes view the same green node at the same
// offset.
func (n *Node) Same(other *Node) bool {
	return other != nil && n.green == other.green && n.offset == other.offset
}

// Children returns an iterator over this node's children, tokens included,
// in source order.
func (n *Node) Children() iter.Seq[Element] {
	return func(yield func(Element) bool) {
		offset := n.offset
		for i, c := range n.green.children {
			if !yield(n.element(i, c, offset)) {
				return
			}
			offset += c.Len()
		}
	}
}

// Nodes returns an iterator over this node's child nodes, skipping tokens.
func (n *Node) Nodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for el := range n.Children() {
			if el.node != nil && !yield(el.node) {
				return
			}
		}
	}
}

// Child returns the i-th child of this node.
func (n *Node) Child(i int) Element {
	offset := n.offset
	for j := range i {
		offset += n.green.children[j].Len()
	}
	return n.element(i, n.green.children[i], offset)
}

// NumChildren returns the number of children of this node.
func (n *Node) NumChildren() int { return n.green.NumChildren() }

// NextSibling returns the element after this node under the same parent,
// or the zero Element if this is the last child or the root.
func (n *Node) NextSibling() Element {
	if n.parent == nil || n.index+1 >= n.parent.NumChildren() {
		return Element{}
	}
	return n.parent.Child(n.index + 1)
}

// PrevSibling returns the element before this node under the same parent,
// or the zero Element if this is the first child or the root.
func (n *Node) PrevSibling() Element {
	if n.parent == nil || n.index == 0 {
		return Element{}
	}
	return n.parent.Child(n.index - 1)
}

// FirstLeaf returns the first token in this subtree, or nil if the subtree
// is empty.
func (n *Node) FirstLeaf() *Leaf {
	for el := range n.Children() {
		if el.leaf != nil {
			return el.leaf
		}
		if l := el.node.FirstLeaf(); l != nil {
			return l
		}
	}
	return nil
}

// LastLeaf returns the last token in this subtree, or nil if the subtree
// is empty.
func (n *Node) LastLeaf() *Leaf {
	for i := n.NumChildren() - 1; i >= 0; i-- {
		el := n.Child(i)
		if el.leaf != nil {
			return el.leaf
		}
		if l := el.node.LastLeaf(); l != nil {
			return l
		}
	}
	return nil
}

// Covering returns the smallest element that fully contains span,
// descending from this node. If no single child contains the span, the
// result is this node itself.
//
// An empty span sitting exactly on the boundary between two children is
// resolved into the left neighbor when the left neighbor ends there, which
// is what in-token edits at a token's end position want.
func (n *Node) Covering(span report.Span) Element {
	el := Element{node: n}
	for el.node != nil {
		inner := el.node.childCovering(span)
		if inner.IsZero() {
			break
		}
		el = inner
	}
	return el
}

func (n *Node) childCovering(span report.Span) Element {
	offset := n.offset
	for i, c := range n.green.children {
		end := offset + c.Len()
		if span.Start >= offset && span.End <= end {
			// Zero-width children (the EOF token) cannot cover anything.
			if c.Len() > 0 || span.Len() == 0 && span.Start == offset {
				return n.element(i, c, offset)
			}
		}
		offset = end
	}
	return Element{}
}

func (n *Node) element(i int, c Child, offset int) Element {
	if c.node != nil {
		return Element{node: &Node{green: c.node, parent: n, offset: offset, index: i}}
	}
	return Element{leaf: &Leaf{green: c.tok, parent: n, offset: offset, index: i}}
}

// Index returns this node's position among its parent's children. The
// root's index is 0.
func (n *Node) Index() int { return n.index }

// Splice returns the root of a new green tree in which the i-th child of
// this node is replaced by c. Only the spine from this node up to the root
// is rebuilt; every other subtree is shared with the old tree. This is the
// primitive under both incremental fast paths.
func (n *Node) Splice(i int, c Child) *GreenNode {
	children := make([]Child, n.green.NumChildren())
	copy(children, n.green.children)
	children[i] = c

	fresh := newGreenNode(n.green.kind, children)
	if n.parent == nil {
		return fresh
	}
	return n.parent.Splice(n.index, Child{node: fresh})
}

// NodeChild wraps a green node as a [Child] for [Node.Splice].
func NodeChild(n *GreenNode) Child { return Child{node: n} }

// TokenChild wraps a green token as a [Child] for [Node.Splice].
func TokenChild(t *GreenToken) Child { return Child{tok: t} }

// Leaf is a red token: a positioned view of a [GreenToken].
type Leaf struct {
	green  *GreenToken
	parent *Node
	offset int
	index  int
}

// Kind returns the kind of the underlying token.
func (l *Leaf) Kind() token.Kind { return l.green.kind }

// Green returns the underlying green token.
func (l *Leaf) Green() *GreenToken { return l.green }

// Text returns this token's text.
func (l *Leaf) Text() string { return l.green.text }

// Offset returns this token's absolute byte offset.
func (l *Leaf) Offset() int { return l.offset }

// Span returns this token's absolute byte range.
func (l *Leaf) Span() report.Span {
	return report.Span{Start: l.offset, End: l.offset + l.green.Len()}
}

// Parent returns the node this token belongs to.
func (l *Leaf) Parent() *Node { return l.parent }

// Index returns this token's position among its parent's children.
func (l *Leaf) Index() int { return l.index }

// Element is either a red node or a red token. The zero Element is
// neither, and is returned by navigation that walks off an edge.
type Element struct {
	node *Node
	leaf *Leaf
}

// AsNode returns the element as a node, or nil if it is a token or zero.
func (e Element) AsNode() *Node { return e.node }

// AsLeaf returns the element as a token, or nil if it is a node or zero.
func (e Element) AsLeaf() *Leaf { return e.leaf }

// IsZero reports whether this element is neither a node nor a token.
func (e Element) IsZero() bool { return e.node == nil && e.leaf == nil }

// Span returns the element's absolute byte range.
func (e Element) Span() report.Span {
	switch {
	case e.node != nil:
		return e.node.Span()
	case e.leaf != nil:
		return e.leaf.Span()
	default:
		return report.Span{}
	}
}
