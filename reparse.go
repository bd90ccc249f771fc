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
	"fmt"
	"strings"

	"github.com/quill-lang/quill/parser"
	"github.com/quill-lang/quill/report"
	"github.com/quill-lang/quill/syntax"
	"github.com/quill-lang/quill/token"
)

// Reparse applies a single edit to this tree and returns the tree for the
// edited text.
//
// The result is observably equivalent to Parse(edit.Apply(oldText)): the
// engine first tries to relex just the edited token in place, then to
// reparse the smallest enclosing block, and only then falls back to a full
// parse seeded with this tree so unchanged subtrees keep their storage.
// Callers can tell the paths apart only by performance.
//
// The only failures are contract violations: [ErrEditOutOfBounds] if the
// delete range does not fit oldText, and [ErrStaleText] if oldText is not
// this tree's text.
func (t *Tree) Reparse(ctx context.Context, oldText string, edit Edit) (*Tree, error) {
	if err := edit.check(len(oldText)); err != nil {
		return nil, err
	}
	if len(oldText) != t.root.Len() {
		return nil, fmt.Errorf("%w: %d bytes given, tree has %d",
			ErrStaleText, len(oldText), t.root.Len())
	}

	// A cancelled tree holds part of its text unparsed; there is no
	// structure worth splicing into.
	if !t.cancelled {
		if nt := t.reparseToken(ctx, edit); nt != nil {
			return nt, nil
		}
		if nt := t.reparseBlock(ctx, oldText, edit); nt != nil {
			return nt, nil
		}
	}

	b := syntax.NewBuilder()
	b.Seed(t.root)
	return parseWith(ctx, edit.Apply(oldText), b), nil
}

// tokenReparseEligible reports whether a token kind may be relexed in
// place. The eligible kinds share a property: their edited text cannot
// merge with a neighboring token, because maximal munch would already have
// joined them when the old text was lexed. Comments additionally need
// their right-hand bound preserved; see [commentBoundsMatch]. Everything
// else goes through the block or full path.
func tokenReparseEligible(kind token.Kind) bool {
	switch kind {
	case token.Space, token.Comment, token.String, token.Ident:
		return true
	default:
		return false
	}
}

// reparseToken attempts the token-level fast path: if the edit stays
// inside one token and relexing that token's edited text yields exactly
// one token of the same kind, only the spine above it is rebuilt. Returns
// nil when the fast path does not apply.
func (t *Tree) reparseToken(ctx context.Context, edit Edit) *Tree {
	leaf := t.Root().Covering(edit.Span()).AsLeaf()
	if leaf == nil || !tokenReparseEligible(leaf.Kind()) {
		return nil
	}

	old := leaf.Text()
	rel := edit.Start - leaf.Offset()
	relEnd := edit.End - leaf.Offset()
	newText := old[:rel] + edit.Insert + old[relEnd:]
	if newText == "" {
		// The token vanished; that is a structural change.
		return nil
	}

	toks, lexDiags := token.Lex(newText)
	if len(lexDiags) != 0 || len(toks) != 2 || toks[0].Kind != leaf.Kind() {
		return nil
	}
	switch leaf.Kind() {
	case token.Ident:
		if _, isKw := token.LookupKeyword(newText); isKw {
			return nil
		}
	case token.Comment:
		if !commentBoundsMatch(old, newText) {
			return nil
		}
	}

	b := syntax.NewBuilder()
	newRoot := leaf.Parent().Splice(leaf.Index(), syntax.TokenChild(b.Token(leaf.Kind(), newText)))
	return t.rebuild(ctx, newRoot, leaf.Span(), edit, nil)
}

// commentBoundsMatch reports whether replacing one comment's text with
// another keeps the token's right-hand bound intact. A line comment is
// bounded by its trailing newline (or by end of input when it has none),
// a block comment by its */. The edited text relexed as a lone token, so
// a new line comment without the old one's newline, or a block comment
// turned line comment, would absorb everything after the token in the
// full text.
func commentBoundsMatch(oldText, newText string) bool {
	if strings.HasPrefix(oldText, "//") != strings.HasPrefix(newText, "//") {
		return false
	}
	if strings.HasPrefix(newText, "//") {
		return strings.HasSuffix(oldText, "\n") == strings.HasSuffix(newText, "\n")
	}
	return true
}

// reparseBlock attempts the block-level fast path: find the smallest
// enclosing block whose braces the edit does not touch, reparse just that
// block's edited text, and splice the result over the old block. Returns
// nil when no enclosing block qualifies.
func (t *Tree) reparseBlock(ctx context.Context, oldText string, edit Edit) *Tree {
	el := t.Root().Covering(edit.Span())
	node := el.AsNode()
	if leaf := el.AsLeaf(); leaf != nil {
		node = leaf.Parent()
	}

	for ; node != nil; node = node.Parent() {
		if node.Kind() != syntax.Block {
			continue
		}
		if nt := t.spliceBlock(ctx, oldText, edit, node); nt != nil {
			return nt
		}
	}
	return nil
}

func (t *Tree) spliceBlock(ctx context.Context, oldText string, edit Edit, block *syntax.Node) *Tree {
	parent := block.Parent()
	if parent == nil {
		return nil
	}

	// The block must actually be delimited on both sides, and the edit
	// must stay strictly between the braces.
	open, closing := block.FirstLeaf(), block.LastLeaf()
	if open == nil || closing == nil ||
		open.Kind() != token.LBrace || closing.Kind() != token.RBrace {
		return nil
	}
	inner := report.Span{Start: open.Span().End, End: closing.Span().Start}
	if edit.Start < inner.Start || edit.End > inner.End {
		return nil
	}

	span := block.Span()
	blockText := oldText[span.Start:edit.Start] + edit.Insert + oldText[edit.End:span.End]

	// The edited text must still be self-contained: cleanly lexable and
	// brace-balanced. An unterminated string or comment, or a stray
	// brace, could change how everything after the block parses.
	toks, lexDiags := token.Lex(blockText)
	if len(lexDiags) != 0 || !balancedBraces(toks) {
		return nil
	}

	events, ok := parser.BlockEvents(toks)
	if !ok {
		return nil
	}

	b := syntax.NewBuilder()
	b.Seed(block.Green())
	newGreen, blockDiags := b.Build(events)
	if newGreen.Kind() != syntax.Block {
		return nil
	}
	for i := range blockDiags {
		blockDiags[i].Span.Start += span.Start
		blockDiags[i].Span.End += span.Start
	}

	newRoot := parent.Splice(block.Index(), syntax.NodeChild(newGreen))
	return t.rebuild(ctx, newRoot, span, edit, blockDiags)
}

// rebuild assembles the Tree for a spliced root: parse-time diagnostics
// outside the replaced span are carried over (shifted past the edit),
// diagnostics inside it are replaced by fresh, and validation reruns over
// the whole tree, since its checks can depend on siblings.
func (t *Tree) rebuild(ctx context.Context, newRoot *syntax.GreenNode, replaced report.Span, edit Edit, fresh []report.Diagnostic) *Tree {
	r := report.New()
	for _, d := range t.parseDiags {
		switch {
		case d.Span.End > replaced.Start && d.Span.Start < replaced.End:
			// Inside the replaced span; superseded by fresh.
		case d.Span.Start >= edit.End:
			d.Span.Start += edit.Delta()
			d.Span.End += edit.Delta()
			r.Add(d)
		default:
			r.Add(d)
		}
	}
	for _, d := range fresh {
		r.Add(d)
	}

	nt := &Tree{root: newRoot, parseDiags: r.Diagnostics()}
	nt.diags = mergeDiags(nt.parseDiags, parser.Validate(ctx, nt.Root()))
	return nt
}

// balancedBraces reports whether toks' braces nest and close completely.
func balancedBraces(toks []token.Token) bool {
	depth := 0
	for _, tok := range toks {
		switch tok.Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
