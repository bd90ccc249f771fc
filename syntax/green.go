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
	"fmt"
	"hash/fnv"
	"iter"
	"strings"

	"fortio.org/safecast"

	"github.com/quill-lang/quill/token"
)

// GreenToken is a leaf of a green tree: an interned (kind, text) pair.
//
// Green tokens are immutable and carry no position; two trees that contain
// the same lexeme may share a single GreenToken.
type GreenToken struct {
	kind token.Kind
	text string
	hash uint64
}

// Kind returns this token's kind.
func (t *GreenToken) Kind() token.Kind { return t.kind }

// Text returns this token's text.
func (t *GreenToken) Text() string { return t.text }

// Len returns the length of this token in bytes.
func (t *GreenToken) Len() int { return len(t.text) }

// String implements [fmt.Stringer].
func (t *GreenToken) String() string {
	return fmt.Sprintf("%s(%q)", t.kind, t.text)
}

// GreenNode is an interior node of a green tree.
//
// A green node owns its children in order; each child is either another
// node or a token. Nodes are immutable once built, carry no absolute
// position and no parent reference, and cache only their total text
// length, so identical subtrees can be shared between any number of trees.
// Positions and parents are derived by the red layer ([Node]).
type GreenNode struct {
	kind     NodeKind
	textLen  uint32
	hash     uint64
	children []Child
}

// Kind returns this node's kind.
func (n *GreenNode) Kind() NodeKind { return n.kind }

// Len returns the total text length of this subtree in bytes.
func (n *GreenNode) Len() int { return int(n.textLen) }

// NumChildren returns the number of children of this node.
func (n *GreenNode) NumChildren() int { return len(n.children) }

// Child returns the i-th child of this node.
func (n *GreenNode) Child(i int) Child { return n.children[i] }

// Children returns an iterator over this node's children in order.
func (n *GreenNode) Children() iter.Seq[Child] {
	return func(yield func(Child) bool) {
		for _, c := range n.children {
			if !yield(c) {
				return
			}
		}
	}
}

// Text reconstructs the source text of this subtree by concatenating its
// leaf tokens depth-first. For the root node of a tree this is exactly the
// text the tree was parsed from.
func (n *GreenNode) Text() string {
	var b strings.Builder
	b.Grow(n.Len())
	n.writeText(&b)
	return b.String()
}

func (n *GreenNode) writeText(b *strings.Builder) {
	for _, c := range n.children {
		if c.node != nil {
			c.node.writeText(b)
		} else {
			b.WriteString(c.tok.text)
		}
	}
}

// String implements [fmt.Stringer].
func (n *GreenNode) String() string {
	return fmt.Sprintf("%s(%d children, %d bytes)", n.kind, len(n.children), n.Len())
}

// Child is one child of a [GreenNode]: either a node or a token.
type Child struct {
	node *GreenNode
	tok  *GreenToken
}

// AsNode returns the child as a node, or nil if it is a token.
func (c Child) AsNode() *GreenNode { return c.node }

// AsToken returns the child as a token, or nil if it is a node.
func (c Child) AsToken() *GreenToken { return c.tok }

// Len returns the text length of this child in bytes.
func (c Child) Len() int {
	if c.node != nil {
		return c.node.Len()
	}
	return c.tok.Len()
}

// newGreenToken mints a fresh, un-interned green token.
func newGreenToken(kind token.Kind, text string) *GreenToken {
	h := fnv.New64a()
	h.Write([]byte{byte(kind)})
	h.Write([]byte(text))
	return &GreenToken{kind: kind, text: text, hash: h.Sum64()}
}

// newGreenNode mints a fresh, un-interned green node. The children slice is
// owned by the new node and must not be mutated afterwards.
func newGreenNode(kind NodeKind, children []Child) *GreenNode {
	var length int
	h := fnv.New64a()
	h.Write([]byte{byte(kind)})
	var buf [8]byte
	for _, c := range children {
		length += c.Len()
		var ch uint64
		if c.node != nil {
			ch = c.node.hash
		} else {
			ch = c.tok.hash
		}
		for i := range buf {
			buf[i] = byte(ch >> (8 * i))
		}
		h.Write(buf[:])
	}

	textLen, err := safecast.Conv[uint32](length)
	if err != nil {
		panic(fmt.Sprintf("quill/syntax: node text length overflows uint32: %d", length))
	}

	return &GreenNode{
		kind:     kind,
		textLen:  textLen,
		hash:     h.Sum64(),
		children: children,
	}
}
