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

// Package parser turns a token stream into a well-nested event log that
// [syntax.Builder] replays into a tree.
//
// The parser is tolerant: it never fails on malformed input. Every
// recovery action either consumes a token into an [syntax.Error] node or
// closes the current node early, so parsing any finite stream terminates
// with a complete log.
package parser

import (
	"context"
	"fmt"

	"github.com/quill-lang/quill/report"
	"github.com/quill-lang/quill/syntax"
	"github.com/quill-lang/quill/token"
)

// Events runs the grammar over toks and returns the event log for a whole
// source file.
//
// The log always describes exactly one [syntax.Root] node, even for an
// empty stream. ctx carries the cooperative cancellation signal: it is
// checked before each top-level item, and on cancellation the remaining
// tokens are drained into the root unparsed so the resulting tree is still
// lossless; cancelled reports whether that happened.
func Events(ctx context.Context, toks []token.Token) (events []syntax.Event, cancelled bool) {
	p := &parser{toks: toks, ctx: ctx}
	p.root()
	return p.events, p.cancelled
}

// BlockEvents parses toks as a single block: the entry point for
// block-level incremental reparse.
//
// The stream must begin with the block's opening brace. ok is false if the
// tokens do not form exactly one block spanning the entire stream, in
// which case the caller must fall back to a full reparse.
func BlockEvents(toks []token.Token) (events []syntax.Event, ok bool) {
	if len(toks) == 0 || toks[0].Kind != token.LBrace {
		return nil, false
	}
	p := &parser{toks: toks, ctx: context.Background()}
	p.block()
	if p.toks[p.pos].Kind != token.EOF {
		// Anything left over, trivia included, means the braces did not
		// delimit the whole stream.
		return nil, false
	}
	return p.events, true
}

type parser struct {
	toks []token.Token
	pos  int // Index of the next unconsumed token, trivia included.
	off  int // Byte offset of toks[pos].

	events    []syntax.Event
	depth     int // Open nodes; trivia may only flush while one is open.
	ctx       context.Context
	cancelled bool
}

// peekIndex returns the index of the next non-trivia token. The stream
// always ends with EOF, which is not trivia, so this terminates.
func (p *parser) peekIndex() int {
	i := p.pos
	for p.toks[i].IsTrivia() {
		i++
	}
	return i
}

// peek returns the kind of the next non-trivia token.
func (p *parser) peek() token.Kind {
	return p.toks[p.peekIndex()].Kind
}

func (p *parser) at(kind token.Kind) bool {
	return p.peek() == kind
}

// peekSpan returns the span of the next non-trivia token. At EOF this is
// the empty span at the end of the text, which is where diagnostics about
// missing trailing delimiters want to point.
func (p *parser) peekSpan() report.Span {
	i := p.peekIndex()
	start := p.off
	for j := p.pos; j < i; j++ {
		start += p.toks[j].Len()
	}
	return report.Span{Start: start, End: start + p.toks[i].Len()}
}

// flushTrivia emits pending trivia tokens into the innermost open node.
func (p *parser) flushTrivia() {
	for p.toks[p.pos].IsTrivia() {
		p.emitToken()
	}
}

func (p *parser) emitToken() {
	tok := p.toks[p.pos]
	p.events = append(p.events, syntax.TokenEvent(tok))
	p.pos++
	p.off += tok.Len()
}

// bump consumes the next non-trivia token into the innermost open node,
// flushing any trivia in front of it first.
//
// Panics at EOF; callers guard with at(token.EOF), since consuming the
// terminal marker would break the loss-free text invariant.
func (p *parser) bump() {
	p.flushTrivia()
	if p.toks[p.pos].Kind == token.EOF {
		panic("quill/parser: bump at EOF; this is a bug in quill")
	}
	p.emitToken()
}

// start opens a node. Pending trivia is flushed first so that it attaches
// to the enclosing node, keeping node spans tight around their own tokens.
// The outermost node has no encloser; leading trivia lands inside it.
func (p *parser) start(kind syntax.NodeKind) {
	if p.depth > 0 {
		p.flushTrivia()
	}
	p.events = append(p.events, syntax.StartNode(kind))
	p.depth++
}

// startAt opens a node retroactively at a previously recorded mark,
// wrapping everything emitted since. This is how infix and postfix
// expressions claim their left operand after it has been parsed.
func (p *parser) startAt(mark int, kind syntax.NodeKind) {
	p.events = append(p.events, syntax.Event{})
	copy(p.events[mark+1:], p.events[mark:])
	p.events[mark] = syntax.StartNode(kind)
	p.depth++
}

// mark records the current position in the event log for [parser.startAt].
func (p *parser) mark() int {
	p.flushTrivia()
	return len(p.events)
}

func (p *parser) finish() {
	p.events = append(p.events, syntax.FinishNode())
	p.depth--
}

func (p *parser) errorf(span report.Span, format string, args ...any) {
	p.events = append(p.events, syntax.ErrorEvent(span, fmt.Sprintf(format, args...)))
}

// expect consumes a token of the given kind, or records an error at the
// offending token without consuming anything.
func (p *parser) expect(kind token.Kind, what string) bool {
	if p.at(kind) {
		p.bump()
		return true
	}
	p.errorf(p.peekSpan(), "expected %s", what)
	return false
}

// errAndBump wraps the offending token in an [syntax.Error] node and
// records a diagnostic. This is the "skip and retry" recovery action: it
// always consumes exactly one token.
func (p *parser) errAndBump(message string) {
	p.errorf(p.peekSpan(), "%s", message)
	p.start(syntax.Error)
	p.bump()
	p.finish()
}

// checkCancelled polls the cooperative cancellation signal.
func (p *parser) checkCancelled() bool {
	if p.cancelled {
		return true
	}
	select {
	case <-p.ctx.Done():
		p.cancelled = true
	default:
	}
	return p.cancelled
}

// drain emits every remaining token into the innermost open node. Used on
// cancellation so the partial tree still reproduces its input exactly.
func (p *parser) drain() {
	for p.toks[p.pos].Kind != token.EOF {
		p.emitToken()
	}
}
