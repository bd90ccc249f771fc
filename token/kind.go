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

import "fmt"

// Kind identifies what kind of token a particular [Token] is.
//
// The numeric values of Kind are a versioned contract consumed by
// downstream layers that match on kind codes. New kinds must be appended
// at the end of the list; existing kinds are never renumbered or removed.
type Kind uint8

const (
	Error Kind = iota // Unrecognized garbage in the input.
	EOF               // Zero-length end-of-input marker.

	Space   // Non-comment contiguous whitespace.
	Comment // A single line or block comment.
	Ident   // An identifier.
	Number  // A run of digits that is some kind of number.
	String  // A quoted string literal.

	KwLet
	KwIf
	KwElse
	KwWhile
	KwReturn
	KwTrue
	KwFalse

	LParen
	RParen
	LBrace
	RBrace
	Comma
	Semi
	Eq
	Plus
	Minus
	Star
	Slash
	Bang
	Lt
	Gt
	EqEq
	NotEq
	LtEq
	GtEq
	AndAnd
	OrOr
)

// IsTrivia returns whether this is a whitespace or comment token, which the
// grammar skips over during lookahead but which is preserved in the tree.
func (k Kind) IsTrivia() bool {
	return k == Space || k == Comment
}

// IsKeyword returns whether this kind is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KwLet && k <= KwFalse
}

// String implements [fmt.Stringer].
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("token.Kind(%d)", uint8(k))
}

var kindNames = [...]string{
	Error:   "Error",
	EOF:     "EOF",
	Space:   "Space",
	Comment: "Comment",
	Ident:   "Ident",
	Number:  "Number",
	String:  "String",

	KwLet:    "KwLet",
	KwIf:     "KwIf",
	KwElse:   "KwElse",
	KwWhile:  "KwWhile",
	KwReturn: "KwReturn",
	KwTrue:   "KwTrue",
	KwFalse:  "KwFalse",

	LParen: "LParen",
	RParen: "RParen",
	LBrace: "LBrace",
	RBrace: "RBrace",
	Comma:  "Comma",
	Semi:   "Semi",
	Eq:     "Eq",
	Plus:   "Plus",
	Minus:  "Minus",
	Star:   "Star",
	Slash:  "Slash",
	Bang:   "Bang",
	Lt:     "Lt",
	Gt:     "Gt",
	EqEq:   "EqEq",
	NotEq:  "NotEq",
	LtEq:   "LtEq",
	GtEq:   "GtEq",
	AndAnd: "AndAnd",
	OrOr:   "OrOr",
}

var keywords = map[string]Kind{
	"let":    KwLet,
	"if":     KwIf,
	"else":   KwElse,
	"while":  KwWhile,
	"return": KwReturn,
	"true":   KwTrue,
	"false":  KwFalse,
}

// LookupKeyword returns the keyword kind for text, if text is a reserved
// word.
func LookupKeyword(text string) (Kind, bool) {
	k, ok := keywords[text]
	return k, ok
}
