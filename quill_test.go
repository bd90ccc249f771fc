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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-lang/quill"
	"github.com/quill-lang/quill/report"
	"github.com/quill-lang/quill/syntax"
)

// corpus is shared by every test that needs "any input, however bad".
var corpus = []string{
	"",
	" \t\n",
	"f(){}",
	"f ( a , b ) { let x = a + b; return x; }",
	"f(){1;} g(){2;} h(){3;}",
	"f(){if x{}else if y{}else{}}",
	"f(){while x<10{x;}}",
	"}}}{{{",
	"let let let",
	`f(){"unterminated`,
	"/* unterminated",
	"f(a{g(b{",
	"\x80\x80\x80",
	"f(){\"a\xffb\";}",
	"f(){\"\xff",
	"// \xff\nf(){}",
	"/* \xff */ f(){}",
	"🙂 f(){} 🙂",
	"f(){g(1,2)(3);}",
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()

	for _, input := range corpus {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			tree := quill.Parse(context.Background(), input)
			assert.Equal(t, input, tree.Text())
			assert.Equal(t, len(input), tree.Len())
			assert.Equal(t, syntax.Root, tree.Root().Kind())
			assert.False(t, tree.Cancelled())
		})
	}
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	tree := quill.Parse(context.Background(), "")
	assert.Zero(t, tree.Len())
	assert.Zero(t, tree.Root().NumChildren())
	assert.Empty(t, tree.Diagnostics())
}

func TestParseCleanInput(t *testing.T) {
	t.Parallel()

	tree := quill.Parse(context.Background(), "f(a,b){return a+b;}")
	assert.Empty(t, tree.Diagnostics())
}

// All three stages contribute diagnostics to one sorted list: validation
// (duplicate parameter, bad literal), lexing (the @), and parsing (the two
// trailing errors).
func TestParseMergesDiagnosticStages(t *testing.T) {
	t.Parallel()

	// f(a,a){0x;@
	// 0123456789..
	tree := quill.Parse(context.Background(), "f(a,a){0x;@")

	var got []string
	for _, d := range tree.Diagnostics() {
		got = append(got, d.Message)
	}
	assert.Equal(t, []string{
		"duplicate parameter a",
		"malformed number literal 0x",
		`unrecognized token "@"`,
		"expected statement",
		"expected `}`",
	}, got)
}

func TestParseDiagnosticsSorted(t *testing.T) {
	t.Parallel()

	for _, input := range corpus {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			diags := quill.Parse(context.Background(), input).Diagnostics()
			for i := 1; i < len(diags); i++ {
				assert.LessOrEqual(t, diags[i-1].Span.Start, diags[i].Span.Start)
			}
		})
	}
}

func TestParseMissingDelimiter(t *testing.T) {
	t.Parallel()

	tree := quill.Parse(context.Background(), "f(){ 1")
	require.Len(t, tree.Diagnostics(), 1)
	d := tree.Diagnostics()[0]
	assert.Equal(t, report.Span{Start: 6, End: 6}, d.Span)
	assert.Equal(t, "expected `}`", d.Message)

	// The body node is present but unterminated.
	el := tree.Root().Covering(report.Span{Start: 5, End: 6})
	block := el.AsNode()
	if leaf := el.AsLeaf(); leaf != nil {
		block = leaf.Parent()
	}
	for block != nil && block.Kind() != syntax.Block {
		block = block.Parent()
	}
	require.NotNil(t, block)
	assert.NotEqual(t, "}", block.LastLeaf().Text())
}

func TestParseCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := "f(){1;} g(){2;}"
	tree := quill.Parse(ctx, input)
	assert.True(t, tree.Cancelled())
	assert.Equal(t, input, tree.Text(), "a cancelled tree is still lossless")
	assert.Equal(t, syntax.Root, tree.Root().Kind())
}

func TestParseAll(t *testing.T) {
	t.Parallel()

	trees := quill.ParseAll(context.Background(), corpus)
	require.Len(t, trees, len(corpus))
	for i, tree := range trees {
		assert.Equal(t, corpus[i], tree.Text())
	}
}

func TestParseAllEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, quill.ParseAll(context.Background(), nil))
}

// Old trees stay fully usable after a reparse; readers of the old tree and
// readers of the new one never see each other.
func TestTreesAreImmutable(t *testing.T) {
	t.Parallel()

	old := quill.Parse(context.Background(), "f(){1}")
	oldDump := syntax.Dump(old.Root())

	edited, err := old.Reparse(context.Background(), "f(){1}", quill.Edit{Start: 5, End: 5, Insert: "+2"})
	require.NoError(t, err)

	assert.Equal(t, "f(){1+2}", edited.Text())
	assert.Equal(t, "f(){1}", old.Text())
	assert.Equal(t, oldDump, syntax.Dump(old.Root()))
}

func TestEdit(t *testing.T) {
	t.Parallel()

	e := quill.Edit{Start: 2, End: 4, Insert: "xyz"}
	assert.Equal(t, report.Span{Start: 2, End: 4}, e.Span())
	assert.Equal(t, 1, e.Delta())
	assert.Equal(t, "abxyzef", e.Apply("abcdef"))
	assert.Equal(t, `Edit(2:4, "xyz")`, e.String())

	insert := quill.Edit{Start: 0, End: 0, Insert: "hi "}
	assert.Equal(t, 3, insert.Delta())
	assert.Equal(t, "hi there", insert.Apply("there"))

	del := quill.Edit{Start: 1, End: 3}
	assert.Equal(t, -2, del.Delta())
	assert.Equal(t, "ad", del.Apply("abcd"))
}
