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

package report

import "fmt"

const (
	// Error indicates malformed source text: a lexical, syntactic, or
	// validation problem. Errors never abort parsing.
	Error Level = 1 + iota
	// Warning indicates something that probably should not be ignored.
	Warning
)

// Level represents the severity of a diagnostic message.
type Level int8

// String implements [fmt.Stringer].
func (l Level) String() string {
	switch l {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return fmt.Sprintf("report.Level(%d)", int8(l))
	}
}

// Span is a half-open byte range [Start, End) within some source text.
//
// Spans do not remember which text they index; diagnostics for a tree are
// always interpreted against that tree's own text.
type Span struct {
	Start, End int
}

// Len returns the number of bytes this span covers.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains returns whether offset lies within this span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// String implements [fmt.Stringer].
func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Start, s.End)
}

// Spanner is any value that knows its own span.
type Spanner interface {
	Span() Span
}

// Diagnostic is a single problem found in some source text.
//
// Diagnostics are never fatal: they describe malformed input, not failed
// operations. Parsing a file that is nothing but garbage still yields a
// tree; the garbage is described by diagnostics like these.
type Diagnostic struct {
	// The byte range the diagnostic refers to. May be empty, e.g. for a
	// missing closing delimiter, in which case Start == End points at the
	// position where the missing text would go.
	Span Span

	// The human-readable message. Stable across releases only in meaning,
	// not in wording.
	Message string

	Level Level
}

// String implements [fmt.Stringer].
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Span, d.Level, d.Message)
}
