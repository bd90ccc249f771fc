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

package quill

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/quill-lang/quill/parser"
	"github.com/quill-lang/quill/report"
	"github.com/quill-lang/quill/syntax"
	"github.com/quill-lang/quill/token"
)

// Tree is the result of parsing one source text: a green root plus the
// diagnostics gathered while producing it.
//
// Trees are immutable. [Tree.Reparse] returns a new Tree and leaves the
// old one fully usable, so any number of readers may keep traversing an
// old tree while a newer one replaces it; swapping "the current tree" for
// a file is the caller's one synchronization point.
type Tree struct {
	root *syntax.GreenNode

	// All diagnostics, sorted by ascending start offset.
	diags []report.Diagnostic
	// The lexing and parsing subset of diags, kept separately because
	// incremental reparse carries them over with shifted spans, while
	// validation diagnostics are always recomputed.
	parseDiags []report.Diagnostic

	cancelled bool
}

// Parse parses text into a tree.
//
// Parse is total and deterministic: it succeeds on every input, however
// malformed, and reports problems as diagnostics on the returned tree.
// ctx carries cooperative cancellation, polled between top-level items;
// a cancelled parse returns a valid, lossless tree holding the remaining
// text unparsed, with [Tree.Cancelled] set.
func Parse(ctx context.Context, text string) *Tree {
	return parseWith(ctx, text, syntax.NewBuilder())
}

func parseWith(ctx context.Context, text string, b *syntax.Builder) *Tree {
	toks, lexDiags := token.Lex(text)
	events, cancelled := parser.Events(ctx, toks)
	root, parseDiags := b.Build(events)

	t := &Tree{
		root:       root,
		parseDiags: mergeDiags(lexDiags, parseDiags),
		cancelled:  cancelled,
	}
	t.diags = mergeDiags(t.parseDiags, parser.Validate(ctx, t.Root()))
	return t
}

// ParseAll parses several texts concurrently. Parsing is a pure function,
// so the only coordination needed is fan-out and fan-in.
func ParseAll(ctx context.Context, texts []string) []*Tree {
	trees := make([]*Tree, len(texts))

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(runtime.GOMAXPROCS(0))
	for i, text := range texts {
		grp.Go(func() error {
			trees[i] = Parse(ctx, text)
			return nil
		})
	}
	_ = grp.Wait() // Parses never fail; there is no error to collect.

	return trees
}

// Root returns the red view of the tree's root node.
func (t *Tree) Root() *syntax.Node {
	return syntax.NewRootNode(t.root)
}

// Green returns the tree's root green node.
func (t *Tree) Green() *syntax.GreenNode {
	return t.root
}

// Text reconstructs the source text this tree was built from, exactly.
func (t *Tree) Text() string {
	return t.root.Text()
}

// Len returns the length of the tree's text in bytes.
func (t *Tree) Len() int {
	return t.root.Len()
}

// Diagnostics returns every diagnostic for this tree, parse-time and
// validation alike, sorted by ascending start offset.
func (t *Tree) Diagnostics() []report.Diagnostic {
	return t.diags
}

// Cancelled reports whether the parse that produced this tree was cut
// short by its context. A cancelled tree is still lossless; its unparsed
// tail sits directly under the root.
func (t *Tree) Cancelled() bool {
	return t.cancelled
}

// mergeDiags combines two already-sorted diagnostic lists into one sorted
// list.
func mergeDiags(a, b []report.Diagnostic) []report.Diagnostic {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	r := report.New()
	for _, d := range a {
		r.Add(d)
	}
	for _, d := range b {
		r.Add(d)
	}
	return r.Diagnostics()
}
