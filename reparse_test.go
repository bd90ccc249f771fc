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

package quill_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-lang/quill"
	"github.com/quill-lang/quill/syntax"
)

// requireEquivalent checks the reparse contract: the edited tree must be
// observably identical to a from-scratch parse of the edited text, in text,
// shape, and diagnostics.
func requireEquivalent(t *testing.T, got *quill.Tree, text string) {
	t.Helper()

	require.Equal(t, text, got.Text())

	fresh := quill.Parse(context.Background(), text)
	wantShape := syntax.DumpShape(fresh.Root())
	gotShape := syntax.DumpShape(got.Root())
	if !cmp.Equal(wantShape, gotShape) {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(wantShape),
			B:        difflib.SplitLines(gotShape),
			FromFile: "fresh parse",
			ToFile:   "reparse",
			Context:  4,
		})
		t.Fatalf("tree shape diverged from a fresh parse:\n%s", diff)
	}
	assert.Equal(t, fresh.Diagnostics(), got.Diagnostics())
}

// TestReparseEquivalence drives every reparse tier through the one law that
// matters: Reparse(text, edit) behaves like Parse(edit.Apply(text)).
func TestReparseEquivalence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, src string
		edit      quill.Edit
	}{
		// In-token edits.
		{"rename ident", "f(){1} g(){2}", quill.Edit{Start: 7, End: 8, Insert: "h"}},
		{"extend ident", "foo(){}", quill.Edit{Start: 3, End: 3, Insert: "d"}},
		{"widen space", "f(){ 1", quill.Edit{Start: 5, End: 5, Insert: " "}},
		{"edit comment", "f(){}//c", quill.Edit{Start: 8, End: 8, Insert: "!"}},
		{"edit string", `f(){"ab";}`, quill.Edit{Start: 6, End: 7, Insert: "c"}},
		{"edit comment last byte", "f(){}//ab", quill.Edit{Start: 8, End: 9, Insert: "c"}},
		{"ident becomes keyword", "f(){abc;}", quill.Edit{Start: 4, End: 7, Insert: "let"}},

		// Comment edits that move the comment's right-hand bound; a naive
		// in-place relex would let the comment absorb its neighbors.
		{"delete comment newline", "// a\nf(){}", quill.Edit{Start: 4, End: 5, Insert: ""}},
		{"append newline to trailing comment", "f(){}//a", quill.Edit{Start: 8, End: 8, Insert: "\n"}},
		{"split comment with newline", "// ab\nf(){}", quill.Edit{Start: 4, End: 4, Insert: "\n"}},
		{"block comment becomes line comment", "/* a */x()", quill.Edit{Start: 1, End: 2, Insert: "/"}},

		// Block-contained edits.
		{"insert expression tail", "f(){1}", quill.Edit{Start: 5, End: 5, Insert: "+2"}},
		{"insert statement", "f(){let x=1;}", quill.Edit{Start: 12, End: 12, Insert: "let y=2;"}},
		{"edit nested block", "f(){if x {1} else {2}}", quill.Edit{Start: 10, End: 11, Insert: "3"}},
		{"introduce error in block", "f(){}", quill.Edit{Start: 4, End: 4, Insert: "let"}},
		{"delete inside number", "f(){12}", quill.Edit{Start: 5, End: 6, Insert: ""}},

		// Edits that force a full reparse.
		{"delete open brace", "f(){1}", quill.Edit{Start: 3, End: 4, Insert: ""}},
		{"unbalance block", "f(){1}", quill.Edit{Start: 4, End: 4, Insert: "{"}},
		{"unterminated string into block", "f(){1}", quill.Edit{Start: 4, End: 4, Insert: `"`}},
		{"delete whole ident", "ab(){}", quill.Edit{Start: 0, End: 2, Insert: ""}},
		{"no-op edit", "f(){1}", quill.Edit{Start: 2, End: 2, Insert: ""}},
		{"replace everything", "f(){}", quill.Edit{Start: 0, End: 5, Insert: "g(a){a;}"}},
		{"append an item", "f(){}", quill.Edit{Start: 5, End: 5, Insert: " g(){}"}},
		{"delete everything", "f(){}", quill.Edit{Start: 0, End: 5, Insert: ""}},
		{"insert into empty text", "", quill.Edit{Start: 0, End: 0, Insert: "f(){}"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree := quill.Parse(context.Background(), tt.src)
			got, err := tree.Reparse(context.Background(), tt.src, tt.edit)
			require.NoError(t, err)
			requireEquivalent(t, got, tt.edit.Apply(tt.src))
		})
	}
}

// A token-level reparse must leave every sibling subtree's storage in place,
// not just produce an equal-looking tree.
func TestReparseTokenPathShares(t *testing.T) {
	t.Parallel()

	src := "f(){1} g(){2}"
	tree := quill.Parse(context.Background(), src)
	got, err := tree.Reparse(context.Background(), src, quill.Edit{Start: 7, End: 8, Insert: "h"})
	require.NoError(t, err)
	requireEquivalent(t, got, "f(){1} h(){2}")

	oldItems := itemsOf(tree.Root())
	newItems := itemsOf(got.Root())
	require.Len(t, oldItems, 2)
	require.Len(t, newItems, 2)

	assert.Same(t, oldItems[0].Green(), newItems[0].Green(), "the untouched item is shared")
	assert.NotSame(t, oldItems[1].Green(), newItems[1].Green())
	assert.NotSame(t, tree.Green(), got.Green())

	// Within the edited item, everything off the spine survives too.
	assert.Same(t,
		findKind(t, oldItems[1], syntax.Block).Green(),
		findKind(t, newItems[1], syntax.Block).Green())
}

func TestReparseBlockPathShares(t *testing.T) {
	t.Parallel()

	src := "f(){1}"
	tree := quill.Parse(context.Background(), src)
	got, err := tree.Reparse(context.Background(), src, quill.Edit{Start: 5, End: 5, Insert: "+2"})
	require.NoError(t, err)
	requireEquivalent(t, got, "f(){1+2}")

	oldItem := itemsOf(tree.Root())[0]
	newItem := itemsOf(got.Root())[0]

	assert.Same(t,
		findKind(t, oldItem, syntax.Name).Green(),
		findKind(t, newItem, syntax.Name).Green())
	assert.Same(t,
		findKind(t, oldItem, syntax.ParamList).Green(),
		findKind(t, newItem, syntax.ParamList).Green())
	assert.NotSame(t,
		findKind(t, oldItem, syntax.Block).Green(),
		findKind(t, newItem, syntax.Block).Green())

	// Inside the reparsed block, unchanged tokens come back from the old
	// block's storage via seeding.
	assert.Same(t,
		findKind(t, oldItem, syntax.Block).FirstLeaf().Green(),
		findKind(t, newItem, syntax.Block).FirstLeaf().Green())
}

// Even the full-reparse tier shares: seeding the builder with the old tree
// brings back untouched subtrees pointer-identical.
func TestReparseFullPathShares(t *testing.T) {
	t.Parallel()

	src := "f(){1} g(){2}"
	tree := quill.Parse(context.Background(), src)

	// Inserting a comma into f's parameter list is outside any block, so
	// this goes through the full path.
	got, err := tree.Reparse(context.Background(), src, quill.Edit{Start: 2, End: 2, Insert: ","})
	require.NoError(t, err)
	requireEquivalent(t, got, "f(,){1} g(){2}")

	oldItems := itemsOf(tree.Root())
	newItems := itemsOf(got.Root())
	require.Len(t, oldItems, 2)
	require.Len(t, newItems, 2)

	assert.Same(t, oldItems[1].Green(), newItems[1].Green(), "the untouched item is shared")
	assert.Same(t,
		findKind(t, oldItems[0], syntax.Block).Green(),
		findKind(t, newItems[0], syntax.Block).Green(),
		"the edited item's untouched block is shared")
}

// Sequential edits, each applied to the tree the previous one produced,
// stay equivalent to from-scratch parses the whole way.
func TestReparseTyping(t *testing.T) {
	t.Parallel()

	const final = `f(a){ let x = a + 1; // one
return x; }`

	ctx := context.Background()
	tree := quill.Parse(ctx, "")
	text := ""
	for i := 0; i < len(final); i++ {
		edit := quill.Edit{Start: i, End: i, Insert: final[i : i+1]}

		var err error
		tree, err = tree.Reparse(ctx, text, edit)
		require.NoError(t, err)
		text = edit.Apply(text)
		require.Equal(t, final[:i+1], text)
		requireEquivalent(t, tree, text)
	}

	assert.Equal(t, final, tree.Text())
	assert.Empty(t, tree.Diagnostics())
}

// Deleting back out of an edit restores the original tree's shape.
func TestReparseThereAndBackAgain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	src := "f(){let x=1;}"
	tree := quill.Parse(ctx, src)

	there, err := tree.Reparse(ctx, src, quill.Edit{Start: 11, End: 11, Insert: "+x"})
	require.NoError(t, err)
	requireEquivalent(t, there, "f(){let x=1+x;}")

	back, err := there.Reparse(ctx, "f(){let x=1+x;}", quill.Edit{Start: 11, End: 13, Insert: ""})
	require.NoError(t, err)
	requireEquivalent(t, back, src)
	assert.Equal(t, syntax.DumpShape(tree.Root()), syntax.DumpShape(back.Root()))
}

func TestReparseErrors(t *testing.T) {
	t.Parallel()

	src := "f(){}"
	tree := quill.Parse(context.Background(), src)

	tests := []struct {
		name    string
		oldText string
		edit    quill.Edit
		want    error
	}{
		{"end past text", src, quill.Edit{Start: 0, End: 10}, quill.ErrEditOutOfBounds},
		{"start after end", src, quill.Edit{Start: 3, End: 2}, quill.ErrEditOutOfBounds},
		{"negative start", src, quill.Edit{Start: -1, End: 0}, quill.ErrEditOutOfBounds},
		{"stale text", "f(){};", quill.Edit{Start: 0, End: 0}, quill.ErrStaleText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tree.Reparse(context.Background(), tt.oldText, tt.edit)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// A tree produced by a cancelled parse has an unparsed tail, so the fast
// paths must not splice into it; the edit still lands correctly via the
// full path.
func TestReparseCancelledTree(t *testing.T) {
	t.Parallel()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	src := "f(){1}"
	tree := quill.Parse(cancelled, src)
	require.True(t, tree.Cancelled())

	got, err := tree.Reparse(context.Background(), src, quill.Edit{Start: 5, End: 5, Insert: "+2"})
	require.NoError(t, err)
	assert.False(t, got.Cancelled())
	requireEquivalent(t, got, "f(){1+2}")
}

func itemsOf(root *syntax.Node) []*syntax.Node {
	var items []*syntax.Node
	for n := range root.Nodes() {
		if n.Kind() == syntax.Item {
			items = append(items, n)
		}
	}
	return items
}

// findKind returns the single descendant node of the given kind.
func findKind(t *testing.T, root *syntax.Node, kind syntax.NodeKind) *syntax.Node {
	t.Helper()

	var found *syntax.Node
	var walk func(n *syntax.Node)
	walk = func(n *syntax.Node) {
		if n.Kind() == kind {
			require.Nil(t, found, "more than one %s", kind)
			found = n
		}
		for child := range n.Nodes() {
			walk(child)
		}
	}
	walk(root)
	require.NotNil(t, found, "no %s under %s", kind, root.Kind())
	return found
}
