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

// Package token defines quill's lexical vocabulary and the lexer that
// splits source text into it.
package token

import "fmt"

// Token is a single lexeme of quill source text.
//
// A token's text is a slice of the input it was lexed from, so
// concatenating the texts of a lex result reproduces the input exactly,
// byte for byte. The only zero-length token is the trailing [EOF] marker.
type Token struct {
	Kind Kind
	Text string
}

// Len returns the length of this token in bytes.
func (t Token) Len() int {
	return len(t.Text)
}

// IsTrivia returns whether this is a whitespace or comment token.
func (t Token) IsTrivia() bool {
	return t.Kind.IsTrivia()
}

// String implements [fmt.Stringer].
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
}
