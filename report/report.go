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

// Package report provides the diagnostic types produced by lexing, parsing,
// and validation.
package report

import (
	"fmt"

	"github.com/tidwall/btree"
)

// Report is an ordered collection of diagnostics.
//
// Diagnostics are kept sorted by ascending start offset regardless of
// insertion order; ties sort by end offset and then by insertion order, so
// output is deterministic. A Report is not safe for concurrent mutation.
type Report struct {
	tree *btree.BTreeG[entry]
	seq  int
}

type entry struct {
	diag Diagnostic
	seq  int
}

// New returns an empty report.
func New() *Report {
	return &Report{
		tree: btree.NewBTreeG(func(a, b entry) bool {
			if a.diag.Span.Start != b.diag.Span.Start {
				return a.diag.Span.Start < b.diag.Span.Start
			}
			if a.diag.Span.End != b.diag.Span.End {
				return a.diag.Span.End < b.diag.Span.End
			}
			return a.seq < b.seq
		}),
	}
}

// Add inserts a diagnostic into the report.
func (r *Report) Add(d Diagnostic) {
	r.tree.Set(entry{diag: d, seq: r.seq})
	r.seq++
}

// Errorf adds an error-level diagnostic at the given span.
func (r *Report) Errorf(span Span, format string, args ...any) {
	r.Add(Diagnostic{Span: span, Message: fmt.Sprintf(format, args...), Level: Error})
}

// Warnf adds a warning-level diagnostic at the given span.
func (r *Report) Warnf(span Span, format string, args ...any) {
	r.Add(Diagnostic{Span: span, Message: fmt.Sprintf(format, args...), Level: Warning})
}

// Len returns the number of diagnostics in the report.
func (r *Report) Len() int {
	return r.tree.Len()
}

// Diagnostics returns the report's diagnostics in ascending span order.
func (r *Report) Diagnostics() []Diagnostic {
	diags := make([]Diagnostic, 0, r.tree.Len())
	r.tree.Scan(func(e entry) bool {
		diags = append(diags, e.diag)
		return true
	})
	return diags
}
