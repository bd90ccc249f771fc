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

package parser

import (
	"context"
	"strconv"
	"strings"

	"github.com/quill-lang/quill/report"
	"github.com/quill-lang/quill/syntax"
	"github.com/quill-lang/quill/token"
)

// Validate walks the tree under root once and returns diagnostics for
// constraints the grammar cannot express: numeric literal format and
// range, string escape validity, and duplicate parameter names.
//
// Validation never modifies the tree. ctx is polled between top-level
// items; on cancellation the diagnostics gathered so far are returned.
func Validate(ctx context.Context, root *syntax.Node) []report.Diagnostic {
	v := &validator{errs: report.New()}
	if root.Kind() == syntax.Root {
		for child := range root.Nodes() {
			select {
			case <-ctx.Done():
				return v.errs.Diagnostics()
			default:
			}
			v.node(child)
		}
	} else {
		v.node(root)
	}
	return v.errs.Diagnostics()
}

type validator struct {
	errs *report.Report
}

func (v *validator) node(n *syntax.Node) {
	switch n.Kind() {
	case syntax.Literal:
		v.literal(n)
	case syntax.ParamList:
		v.paramList(n)
	}

	for child := range n.Nodes() {
		v.node(child)
	}
}

func (v *validator) literal(n *syntax.Node) {
	leaf := n.FirstLeaf()
	if leaf == nil {
		return
	}
	switch leaf.Kind() {
	case token.Number:
		v.number(leaf)
	case token.String:
		v.string(leaf)
	}
}

// number legalizes a numeric literal. The lexer scans numbers greedily so
// that garbage like 0x1.fq ends up in a single token; this is where that
// garbage is diagnosed.
func (v *validator) number(leaf *syntax.Leaf) {
	digits := strings.ToLower(strings.ReplaceAll(leaf.Text(), "_", ""))

	var err error
	switch {
	case strings.HasPrefix(digits, "0x"):
		_, err = strconv.ParseUint(strings.TrimPrefix(digits, "0x"), 16, 64)
	case strings.HasPrefix(digits, "0b"):
		_, err = strconv.ParseUint(strings.TrimPrefix(digits, "0b"), 2, 64)
	case strings.ContainsAny(digits, ".e"):
		_, err = strconv.ParseFloat(digits, 64)
	default:
		_, err = strconv.ParseUint(digits, 10, 64)
	}
	if err == nil {
		return
	}

	// All strconv parse errors are *strconv.NumError, as promised by the
	// documentation.
	if err.(*strconv.NumError).Err == strconv.ErrRange {
		v.errs.Errorf(leaf.Span(), "literal %s is out of range", leaf.Text())
	} else {
		v.errs.Errorf(leaf.Span(), "malformed number literal %s", leaf.Text())
	}
}

// string legalizes the escape sequences of a string literal. Unterminated
// strings were already diagnosed by the lexer and are skipped here.
func (v *validator) string(leaf *syntax.Leaf) {
	text := leaf.Text()
	if len(text) < 2 || !strings.HasSuffix(text, `"`) {
		return
	}
	body := text[1 : len(text)-1]

	for i := 0; i < len(body); i++ {
		if body[i] != '\\' {
			continue
		}
		start := i
		i++
		if i >= len(body) {
			break
		}
		switch body[i] {
		case 'n', 'r', 't', '\\', '"', '0':
		case 'x':
			if len(body)-i-1 < 2 || !isHex(body[i+1]) || !isHex(body[i+2]) {
				v.escapeError(leaf, start, i+1)
				continue
			}
			i += 2
		case 'u':
			end, ok := scanUnicodeEscape(body, i+1)
			if !ok {
				v.escapeError(leaf, start, end)
			}
			i = end - 1
		default:
			v.escapeError(leaf, start, i+1)
		}
	}
}

// scanUnicodeEscape consumes a {hex+} payload starting at body[i]. It
// returns the index just past the escape and whether it was well formed.
func scanUnicodeEscape(body string, i int) (end int, ok bool) {
	if i >= len(body) || body[i] != '{' {
		return i, false
	}
	j := i + 1
	for j < len(body) && isHex(body[j]) {
		j++
	}
	if j == i+1 || j >= len(body) || body[j] != '}' {
		return j, false
	}
	value, err := strconv.ParseUint(body[i+1:j], 16, 32)
	return j + 1, err == nil && value <= 0x10ffff
}

func (v *validator) escapeError(leaf *syntax.Leaf, start, end int) {
	// Offsets are relative to the string body; +1 skips the open quote.
	span := report.Span{
		Start: leaf.Offset() + 1 + start,
		End:   leaf.Offset() + 1 + end,
	}
	v.errs.Errorf(span, "invalid escape sequence")
}

func isHex(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}

// paramList diagnoses duplicate parameter names, a purely syntactic check
// that needs no name resolution.
func (v *validator) paramList(n *syntax.Node) {
	seen := make(map[string]bool)
	for param := range n.Nodes() {
		if param.Kind() != syntax.Param {
			continue
		}
		name := param.FirstLeaf()
		if name == nil || name.Kind() != token.Ident {
			continue
		}
		if seen[name.Text()] {
			v.errs.Errorf(name.Span(), "duplicate parameter %s", name.Text())
			continue
		}
		seen[name.Text()] = true
	}
}
