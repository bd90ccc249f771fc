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
	"errors"
	"fmt"

	"github.com/quill-lang/quill/report"
)

// ErrEditOutOfBounds is returned by [Tree.Reparse] when an edit's delete
// range does not fit the old text. This is the one hard failure in the
// package: it means the caller's offset bookkeeping is wrong, not that the
// source text is bad.
var ErrEditOutOfBounds = errors.New("quill: edit out of bounds")

// ErrStaleText is returned by [Tree.Reparse] when oldText does not match
// the tree the edit is applied against.
var ErrStaleText = errors.New("quill: old text does not match tree")

// Edit is a single text change: delete the bytes in [Start, End), then
// insert Insert at Start. Offsets index the text of the tree the edit is
// applied to. Batches of edits must be applied one at a time, each against
// the tree the previous edit produced.
type Edit struct {
	Start, End int
	Insert     string
}

// Span returns the edit's delete range.
func (e Edit) Span() report.Span {
	return report.Span{Start: e.Start, End: e.End}
}

// Delta returns how much the edit changes text length.
func (e Edit) Delta() int {
	return len(e.Insert) - (e.End - e.Start)
}

// Apply returns text with the edit applied.
func (e Edit) Apply(text string) string {
	return text[:e.Start] + e.Insert + text[e.End:]
}

func (e Edit) check(textLen int) error {
	if e.Start < 0 || e.Start > e.End || e.End > textLen {
		return fmt.Errorf("%w: delete [%d, %d) in text of %d bytes",
			ErrEditOutOfBounds, e.Start, e.End, textLen)
	}
	return nil
}

// String implements [fmt.Stringer].
func (e Edit) String() string {
	return fmt.Sprintf("Edit(%d:%d, %q)", e.Start, e.End, e.Insert)
}
