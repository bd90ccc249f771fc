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

package token

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/quill-lang/quill/report"
)

// Lex splits text into tokens.
//
// Lex is total: it is defined for every input, including empty and
// arbitrarily malformed text. Input that matches no lexical rule becomes
// [Error] tokens, and unterminated strings and block comments are closed
// implicitly at end of input; both cases produce diagnostics rather than
// failures. The returned stream always ends with a zero-length [EOF]
// token, and the concatenation of all token texts equals text exactly.
//
// Lex has no side effects and may be called concurrently.
func Lex(text string) ([]Token, []report.Diagnostic) {
	l := &lexer{text: text, errs: report.New()}
	l.lex()
	return l.toks, l.errs.Diagnostics()
}

type lexer struct {
	text   string
	cursor int
	toks   []Token
	errs   *report.Report
}

func (l *lexer) lex() {
	for !l.done() {
		start := l.cursor
		r := l.pop()

		switch {
		case r == -1:
			// Invalid UTF-8. Consume a single byte so we keep moving.
			l.cursor = start + 1
			l.push(start, Error)
			l.errs.Errorf(l.spanFrom(start), "invalid UTF-8 byte 0x%02x", l.text[start])

		case unicode.In(r, unicode.Pattern_White_Space):
			l.takeWhile(func(r rune) bool {
				return unicode.In(r, unicode.Pattern_White_Space)
			})
			l.push(start, Space)

		case r == '/' && l.peek() == '/':
			l.cursor++ // Skip the second /.

			// Line comment. The newline, if any, is part of the comment.
			if _, ok := l.seekInclusive("\n"); !ok {
				l.seekEOF()
			}
			l.push(start, Comment)

		case r == '/' && l.peek() == '*':
			l.cursor++ // Skip the *.

			// Block comment. If there is no closing */, the comment is
			// closed implicitly at EOF and flagged; giving up on the rest
			// of the file would be worse than a long comment token.
			if _, ok := l.seekInclusive("*/"); !ok {
				l.errs.Errorf(report.Span{Start: start, End: start + 2}, "unterminated block comment")
				l.seekEOF()
			}
			l.push(start, Comment)

		case r == '"':
			l.lexString(start)

		case unicode.IsDigit(r):
			l.cursor -= utf8.RuneLen(r)
			l.lexNumber(start)

		case r == '_' || unicode.IsLetter(r):
			l.cursor -= utf8.RuneLen(r)
			l.takeWhile(isIdentContinue)

			word := l.text[start:l.cursor]
			if kw, ok := LookupKeyword(word); ok {
				l.push(start, kw)
			} else {
				l.push(start, Ident)
			}

		default:
			l.cursor -= utf8.RuneLen(r)
			l.lexPunct(start)
		}

		if l.cursor <= start {
			panic(fmt.Sprintf("quill/token: lexer failed to make progress at offset %d; this is a bug in quill", l.cursor))
		}
	}

	// The terminal marker; the only zero-length token.
	l.toks = append(l.toks, Token{Kind: EOF})
}

// lexPunct lexes an operator or delimiter starting at the current cursor.
//
// Anything that starts no operator is consumed as a run of grapheme
// clusters and minted as a single [Error] token.
func (l *lexer) lexPunct(start int) {
	rest := l.rest()
	for _, op := range punctTable {
		if strings.HasPrefix(rest, op.text) {
			l.cursor += len(op.text)
			l.push(start, op.kind)
			return
		}
	}

	// Consume as many unrecognizable grapheme clusters as possible, so a
	// run of garbage produces one diagnostic, not one per byte.
	l.takeGraphemesWhile(func(g string) bool {
		r, _ := utf8.DecodeRuneInString(g)
		return r != utf8.RuneError &&
			!unicode.In(r, unicode.Pattern_White_Space) &&
			!unicode.IsDigit(r) &&
			!isIdentContinue(r) &&
			r != '"' &&
			!startsPunct(r)
	})
	if l.cursor == start {
		// A lone rune that is a valid operator prefix but not an operator,
		// such as & or |.
		l.cursor += utf8.RuneLen(l.peek())
	}
	tok := l.push(start, Error)
	l.errs.Errorf(l.spanFrom(start), "unrecognized token %q", tok.Text)
}

// lexString lexes a string literal. The cursor sits just after the opening
// quote. Escape sequences are consumed blindly here; their validity is a
// validation concern, not a lexical one.
func (l *lexer) lexString(start int) {
	for !l.done() {
		r := l.pop()
		switch {
		case r == -1:
			// Invalid UTF-8. Consume a single byte so we keep moving.
			l.errs.Errorf(report.Span{Start: l.cursor, End: l.cursor + 1}, "invalid UTF-8 byte 0x%02x", l.text[l.cursor])
			l.cursor++
		case r == '"':
			l.push(start, String)
			return
		case r == '\\' && !l.done():
			_ = l.pop()
		}
	}

	// Closed implicitly at EOF.
	l.errs.Errorf(l.spanFrom(start), "unterminated string literal")
	l.push(start, String)
}

// lexNumber lexes a numeric literal starting at the current cursor.
//
// The scan is greedy: it accepts every character that could belong to some
// number so that malformed literals like 0x1.fp3q become a single Number
// token the validator can diagnose, rather than a cascade of parse errors.
func (l *lexer) lexNumber(start int) {
	for !l.done() {
		r := l.peek()
		if r == 'e' || r == 'E' {
			_ = l.pop()
			if r := l.peek(); r == '+' || r == '-' {
				_ = l.pop()
			}
			continue
		}
		if r == '.' || r == '_' || unicode.IsDigit(r) || unicode.IsLetter(r) {
			_ = l.pop()
			continue
		}
		break
	}
	l.push(start, Number)
}

// punctTable is ordered so that multi-byte operators match before their
// prefixes.
var punctTable = []struct {
	text string
	kind Kind
}{
	{"==", EqEq},
	{"!=", NotEq},
	{"<=", LtEq},
	{">=", GtEq},
	{"&&", AndAnd},
	{"||", OrOr},
	{"(", LParen},
	{")", RParen},
	{"{", LBrace},
	{"}", RBrace},
	{",", Comma},
	{";", Semi},
	{"=", Eq},
	{"+", Plus},
	{"-", Minus},
	{"*", Star},
	{"/", Slash},
	{"!", Bang},
	{"<", Lt},
	{">", Gt},
}

func startsPunct(r rune) bool {
	return strings.ContainsRune("(){},;=+-*/!<>&|", r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *lexer) push(start int, kind Kind) Token {
	tok := Token{Kind: kind, Text: l.text[start:l.cursor]}
	l.toks = append(l.toks, tok)
	return tok
}

func (l *lexer) done() bool {
	return l.cursor == len(l.text)
}

func (l *lexer) rest() string {
	return l.text[l.cursor:]
}

// peek returns the next rune without consuming it, or -1 at EOF or on
// invalid UTF-8.
func (l *lexer) peek() rune {
	return decodeRune(l.rest())
}

func (l *lexer) pop() rune {
	r := l.peek()
	if r != -1 {
		l.cursor += utf8.RuneLen(r)
	}
	return r
}

func (l *lexer) takeWhile(f func(rune) bool) string {
	start := l.cursor
	for !l.done() {
		r := l.peek()
		if r == -1 || !f(r) {
			break
		}
		_ = l.pop()
	}
	return l.text[start:l.cursor]
}

func (l *lexer) takeGraphemesWhile(f func(string) bool) string {
	start := l.cursor
	for gs := uniseg.NewGraphemes(l.rest()); gs.Next(); {
		g := gs.Str()
		if !f(g) {
			break
		}
		l.cursor += len(g)
	}
	return l.text[start:l.cursor]
}

func (l *lexer) seekInclusive(needle string) (string, bool) {
	if idx := strings.Index(l.rest(), needle); idx != -1 {
		prefix := l.rest()[:idx+len(needle)]
		l.cursor += idx + len(needle)
		return prefix, true
	}
	return "", false
}

func (l *lexer) seekEOF() string {
	rest := l.rest()
	l.cursor += len(rest)
	return rest
}

func (l *lexer) spanFrom(start int) report.Span {
	return report.Span{Start: start, End: l.cursor}
}

// decodeRune is a wrapper around utf8.DecodeRuneInString that makes it
// easier to check for failure. Instead of returning RuneError (which is a
// valid rune!), it returns -1.
func decodeRune(s string) rune {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && n < 2 {
		return -1
	}
	return r
}
