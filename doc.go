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

// Package quill is an IDE-oriented syntax front end: a lossless,
// error-tolerant parser with incremental reparsing.
//
// [Parse] turns source text into a [Tree]. Parsing is total: malformed
// input produces a tree plus diagnostics, never a failure, and the tree
// reproduces its input byte for byte ([Tree.Text]). [Tree.Reparse] applies
// a single edit and returns the tree for the edited text, reusing as much
// of the old tree as the edit allows; old trees stay valid, so readers
// never need to coordinate with writers beyond swapping a pointer.
//
// The tree itself is a "green" tree: immutable, position-independent, and
// structurally shared between trees (package [syntax]). Positions,
// parents, and siblings are computed on demand by the red layer,
// [syntax.Node]. Token and node kinds are closed, versioned enumerations
// (packages [token] and [syntax]) that downstream layers may match on
// numerically.
package quill
