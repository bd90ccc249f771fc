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
	"strings"
)

// Dump renders a subtree as an indented listing of kinds and spans, one
// element per line. Tokens include their text. The format is meant for
// tests and debugging output, not for machine consumption.
//
//	Root@0:5
//	  Item@0:5
//	    Name@0:1
//	      Ident@0:1 "f"
func Dump(n *Node) string {
	var b strings.Builder
	dumpNode(&b, n, 0)
	return b.String()
}

// DumpShape is like [Dump] but omits token text and spans, describing only
// the kind structure of the tree. Two trees that parse the same text have
// equal shapes even when they share no storage.
func DumpShape(n *Node) string {
	var b strings.Builder
	dumpShape(&b, n, 0)
	return b.String()
}

func dumpNode(b *strings.Builder, n *Node, depth int) {
	indent(b, depth)
	fmt.Fprintf(b, "%s@%s\n", n.Kind(), n.Span())
	for el := range n.Children() {
		if node := el.AsNode(); node != nil {
			dumpNode(b, node, depth+1)
		} else {
			leaf := el.AsLeaf()
			indent(b, depth+1)
			fmt.Fprintf(b, "%s@%s %q\n", leaf.Kind(), leaf.Span(), leaf.Text())
		}
	}
}

func dumpShape(b *strings.Builder, n *Node, depth int) {
	indent(b, depth)
	fmt.Fprintf(b, "%s\n", n.Kind())
	for el := range n.Children() {
		if node := el.AsNode(); node != nil {
			dumpShape(b, node, depth+1)
		} else {
			indent(b, depth+1)
			fmt.Fprintf(b, "%s\n", el.AsLeaf().Kind())
		}
	}
}

func indent(b *strings.Builder, depth int) {
	for range depth {
		b.WriteString("  ")
	}
}
