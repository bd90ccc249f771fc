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

package token_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-lang/quill/token"
)

// nasty is input that has historically been good at finding lexer bugs.
// Every test that only needs "some text" iterates over it.
var nasty = []string{
	"",
	" ",
	"f(){}",
	" \t\nf () { return 1; }\n",
	"let x = 1;",
	`"a string"`,
	`"unterminated`,
	`"esc \" \\ end"`,
	"// comment to eof",
	"// comment\nf(){}",
	"/* block */ x",
	"/* unterminated",
	"/*/",
	"0x1f 1.5e-3 1_000 0b101",
	"123abc 0x 1.2.3",
	"a<=b==c!=d>=e",
	"x&&y||z",
	"& | @ # $",
	"}}}{{{",
	"_foo λ über",
	"\x80\x80",
	"\"a\xffb\"",
	"\"\\\xff\"",
	"\"\xff",
	"// \xff\n x",
	"/* \xff */",
	"🙂🙂 ok",
	"-!x",
}

func TestLexKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  []token.Kind
	}{
		{"", []token.Kind{token.EOF}},
		{"f", []token.Kind{token.Ident, token.EOF}},
		{"_foo", []token.Kind{token.Ident, token.EOF}},
		{"λ", []token.Kind{token.Ident, token.EOF}},
		{
			"let x = 1;",
			[]token.Kind{
				token.KwLet, token.Space, token.Ident, token.Space,
				token.Eq, token.Space, token.Number, token.Semi, token.EOF,
			},
		},
		{
			"if else while return true false",
			[]token.Kind{
				token.KwIf, token.Space, token.KwElse, token.Space,
				token.KwWhile, token.Space, token.KwReturn, token.Space,
				token.KwTrue, token.Space, token.KwFalse, token.EOF,
			},
		},
		{
			"a<=b==c",
			[]token.Kind{
				token.Ident, token.LtEq, token.Ident, token.EqEq,
				token.Ident, token.EOF,
			},
		},
		{
			"x&&y||z",
			[]token.Kind{
				token.Ident, token.AndAnd, token.Ident, token.OrOr,
				token.Ident, token.EOF,
			},
		},
		{"!=", []token.Kind{token.NotEq, token.EOF}},
		{"! =", []token.Kind{token.Bang, token.Space, token.Eq, token.EOF}},
		{`"hi"`, []token.Kind{token.String, token.EOF}},
		{`"a\"b"`, []token.Kind{token.String, token.EOF}},
		{"// c", []token.Kind{token.Comment, token.EOF}},
		{"// c\nx", []token.Kind{token.Comment, token.Ident, token.EOF}},
		{"/* c */x", []token.Kind{token.Comment, token.Ident, token.EOF}},
		{
			"0x1f 1.5e-3 1_000",
			[]token.Kind{
				token.Number, token.Space, token.Number, token.Space,
				token.Number, token.EOF,
			},
		},
		// Greedy number scanning: garbage sticks to the literal so the
		// validator can produce one good diagnostic.
		{"123abc", []token.Kind{token.Number, token.EOF}},
		{"1.2.3", []token.Kind{token.Number, token.EOF}},
		{"&", []token.Kind{token.Error, token.EOF}},
		{"🙂🙂", []token.Kind{token.Error, token.EOF}},
		{"\x80", []token.Kind{token.Error, token.EOF}},
		// Invalid bytes inside a string stay inside the string token.
		{"\"a\xffb\"", []token.Kind{token.String, token.EOF}},
		{"// \xff\nx", []token.Kind{token.Comment, token.Ident, token.EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			toks, _ := token.Lex(tt.input)
			kinds := make([]token.Kind, len(toks))
			for i, tok := range toks {
				kinds[i] = tok.Kind
			}
			assert.Equal(t, tt.want, kinds)
		})
	}
}

// TestLexRoundTrip checks the loss-free law: the concatenation of all token
// texts is the input, byte for byte, for every input.
func TestLexRoundTrip(t *testing.T) {
	t.Parallel()

	for _, input := range nasty {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			toks, _ := token.Lex(input)
			require.NotEmpty(t, toks)

			var b strings.Builder
			for _, tok := range toks {
				b.WriteString(tok.Text)
			}
			assert.Equal(t, input, b.String())

			last := toks[len(toks)-1]
			assert.Equal(t, token.EOF, last.Kind)
			assert.Zero(t, last.Len())
			for _, tok := range toks[:len(toks)-1] {
				assert.Positive(t, tok.Len(), "only EOF may be empty")
			}
		})
	}
}

func TestLexDiagnostics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, input string
		message     string
		start, end  int
	}{
		{"unterminated string", `f("abc`, "unterminated string literal", 2, 6},
		{"unterminated block comment", "x /* yo", "unterminated block comment", 2, 4},
		{"invalid utf-8", "ok \x80", "invalid UTF-8 byte 0x80", 3, 4},
		{"invalid utf-8 in string", "\"a\xffb\"", "invalid UTF-8 byte 0xff", 2, 3},
		{"invalid utf-8 after escape", "\"\\\xffx\"", "invalid UTF-8 byte 0xff", 2, 3},
		{"unknown rune", "a @ b", `unrecognized token "@"`, 2, 3},
		{"grapheme run", "🙂🙂", `unrecognized token "🙂🙂"`, 0, 8},
		{"lone operator prefix", "a & b", `unrecognized token "&"`, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, diags := token.Lex(tt.input)
			require.Len(t, diags, 1)
			assert.Equal(t, tt.message, diags[0].Message)
			assert.Equal(t, tt.start, diags[0].Span.Start)
			assert.Equal(t, tt.end, diags[0].Span.End)
		})
	}
}

func TestLexCleanInputHasNoDiagnostics(t *testing.T) {
	t.Parallel()

	_, diags := token.Lex("f(a, b) { return a + b; } // done\n")
	assert.Empty(t, diags)
}

// A comment owns its trailing newline, so two line comments on consecutive
// lines are two tokens with no whitespace between them.
func TestLexLineCommentOwnsNewline(t *testing.T) {
	t.Parallel()

	toks, diags := token.Lex("//a\n//b")
	require.Empty(t, diags)
	require.Len(t, toks, 3)
	assert.Equal(t, "//a\n", toks[0].Text)
	assert.Equal(t, "//b", toks[1].Text)
}

func TestLookupKeyword(t *testing.T) {
	t.Parallel()

	kind, ok := token.LookupKeyword("while")
	assert.True(t, ok)
	assert.Equal(t, token.KwWhile, kind)

	_, ok = token.LookupKeyword("whilee")
	assert.False(t, ok)
	_, ok = token.LookupKeyword("While")
	assert.False(t, ok, "keywords are case-sensitive")
}

func TestKindPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, token.Space.IsTrivia())
	assert.True(t, token.Comment.IsTrivia())
	assert.False(t, token.Ident.IsTrivia())
	assert.False(t, token.EOF.IsTrivia())

	assert.True(t, token.KwLet.IsKeyword())
	assert.True(t, token.KwFalse.IsKeyword())
	assert.False(t, token.Ident.IsKeyword())
	assert.False(t, token.LBrace.IsKeyword())
}
