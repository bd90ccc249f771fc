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

package syntax

import (
	"fmt"

	"github.com/quill-lang/quill/report"
	"github.com/quill-lang/quill/token"
)

// EventKind discriminates the variants of [Event].
type EventKind uint8

const (
	// EventStartNode opens a node of Event.Node's kind.
	EventStartNode EventKind = 1 + iota
	// EventToken appends Event.Tok to the innermost open node.
	EventToken
	// EventFinishNode closes the innermost open node.
	EventFinishNode
	// EventError records a diagnostic without affecting tree shape.
	EventError
)

// Event is one entry of the flat log a parse produces.
//
// The log obeys a stack discipline: every EventStartNode has a matching
// EventFinishNode and nesting is well formed, so any log can be replayed
// into a tree by [Builder.Build]. Decoupling parsing from tree construction
// this way is what lets the builder intern subtrees without the grammar
// knowing about it.
type Event struct {
	Kind EventKind

	Node    NodeKind    // For EventStartNode.
	Tok     token.Token // For EventToken.
	Span    report.Span // For EventError.
	Message string      // For EventError.
}

// StartNode returns a node-open event.
func StartNode(kind NodeKind) Event {
	return Event{Kind: EventStartNode, Node: kind}
}

// TokenEvent returns an event appending tok to the open node.
func TokenEvent(tok token.Token) Event {
	return Event{Kind: EventToken, Tok: tok}
}

// FinishNode returns a node-close event.
func FinishNode() Event {
	return Event{Kind: EventFinishNode}
}

// ErrorEvent returns an event recording a diagnostic at span.
func ErrorEvent(span report.Span, message string) Event {
	return Event{Kind: EventError, Span: span, Message: message}
}

// String implements [fmt.Stringer].
func (e Event) String() string {
	switch e.Kind {
	case EventStartNode:
		return fmt.Sprintf("StartNode(%s)", e.Node)
	case EventToken:
		return fmt.Sprintf("Token(%s)", e.Tok)
	case EventFinishNode:
		return "FinishNode"
	case EventError:
		return fmt.Sprintf("Error(%s, %q)", e.Span, e.Message)
	default:
		return fmt.Sprintf("Event(%d)", e.Kind)
	}
}
