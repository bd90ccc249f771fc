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

	"github.com/quill-lang/quill/report"
	"github.com/quill-lang/quill/token"
)

// Builder replays an event log into a green tree.
//
// The builder interns what it builds: tokens by (kind, text) and nodes by
// (kind, child identities). Replaying equal subtrees therefore yields
// pointer-identical green values, within one build and across builds that
// share a Builder. Seeding a builder from an old tree (see [Builder.Seed])
// is the sharing hint that makes a full reparse after a small edit reuse
// most of the previous tree's storage.
//
// A Builder is not safe for concurrent use. The zero value is not ready;
// use [NewBuilder].
type Builder struct {
	toks  map[tokenKey]*GreenToken
	nodes map[uint64][]*GreenNode
}

type tokenKey struct {
	kind token.Kind
	text string
}

// NewBuilder returns a builder with an empty intern cache.
func NewBuilder() *Builder {
	return &Builder{
		toks:  make(map[tokenKey]*GreenToken),
		nodes: make(map[uint64][]*GreenNode),
	}
}

// Seed inserts every subtree of root into the intern cache, so that a
// subsequent [Builder.Build] shares storage with root wherever it produces
// an identical subtree.
func (b *Builder) Seed(root *GreenNode) {
	for _, c := range root.children {
		if c.node != nil {
			b.Seed(c.node)
		} else {
			b.toks[tokenKey{c.tok.kind, c.tok.text}] = c.tok
		}
	}
	b.nodes[root.hash] = append(b.nodes[root.hash], root)
}

// Build replays events into a green tree, returning its root and the
// diagnostics carried by the log's error events.
//
// Panics if the log is not well nested or does not describe exactly one
// root node; the parser guarantees well-formed logs, so this indicates a
// bug in the caller.
func (b *Builder) Build(events []Event) (*GreenNode, []report.Diagnostic) {
	type frame struct {
		kind     NodeKind
		children []Child
	}

	var stack []frame
	var root *GreenNode
	var diags []report.Diagnostic

	for _, ev := range events {
		switch ev.Kind {
		case EventStartNode:
			stack = append(stack, frame{kind: ev.Node})

		case EventToken:
			if len(stack) == 0 {
				panic("quill/syntax: token event outside any node")
			}
			top := &stack[len(stack)-1]
			top.children = append(top.children, Child{tok: b.internToken(ev.Tok.Kind, ev.Tok.Text)})

		case EventFinishNode:
			if len(stack) == 0 {
				panic("quill/syntax: unbalanced finish-node event")
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			node := b.internNode(top.kind, top.children)
			if len(stack) == 0 {
				if root != nil {
					panic("quill/syntax: event log describes more than one root")
				}
				root = node
			} else {
				parent := &stack[len(stack)-1]
				parent.children = append(parent.children, Child{node: node})
			}

		case EventError:
			diags = append(diags, report.Diagnostic{
				Span:    ev.Span,
				Message: ev.Message,
				Level:   report.Error,
			})

		default:
			panic(fmt.Sprintf("quill/syntax: unknown event kind %d", ev.Kind))
		}
	}

	if len(stack) != 0 {
		panic("quill/syntax: unbalanced start-node event")
	}
	if root == nil {
		panic("quill/syntax: event log describes no root")
	}
	return root, diags
}

// BuildNode constructs a single node directly from already-built children.
// This is how the reparse engine splices a freshly parsed subtree into an
// otherwise unchanged spine.
func (b *Builder) BuildNode(kind NodeKind, children []Child) *GreenNode {
	return b.internNode(kind, children)
}

// Token interns a single token.
func (b *Builder) Token(kind token.Kind, text string) *GreenToken {
	return b.internToken(kind, text)
}

func (b *Builder) internToken(kind token.Kind, text string) *GreenToken {
	key := tokenKey{kind, text}
	if tok, ok := b.toks[key]; ok {
		return tok
	}
	tok := newGreenToken(kind, text)
	b.toks[key] = tok
	return tok
}

func (b *Builder) internNode(kind NodeKind, children []Child) *GreenNode {
	node := newGreenNode(kind, children)
	for _, candidate := range b.nodes[node.hash] {
		if sameNode(candidate, node) {
			return candidate
		}
	}
	b.nodes[node.hash] = append(b.nodes[node.hash], node)
	return node
}

// sameNode reports whether two green nodes have identical content. Children
// are compared by pointer: both nodes' children went through the intern
// cache, so equal content implies equal identity.
func sameNode(a, b *GreenNode) bool {
	if a.kind != b.kind || len(a.children) != len(b.children) {
		return false
	}
	for i := range a.children {
		if a.children[i] != b.children[i] {
			return false
		}
	}
	return true
}
