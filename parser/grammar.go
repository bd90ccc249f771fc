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
	"github.com/quill-lang/quill/syntax"
	"github.com/quill-lang/quill/token"
)

// root parses a whole file: a sequence of items.
func (p *parser) root() {
	p.start(syntax.Root)
	for !p.at(token.EOF) {
		if p.checkCancelled() {
			p.drain()
			break
		}
		p.item()
	}
	p.flushTrivia()
	p.finish()
}

// item parses one top-level item: name, parameter list, body.
//
// Anything that cannot start an item is consumed one token at a time into
// Error nodes, so the loop in root always makes progress.
func (p *parser) item() {
	if !p.at(token.Ident) {
		p.errAndBump("expected an item")
		return
	}

	p.start(syntax.Item)
	p.name()

	if p.at(token.LParen) {
		p.paramList()
	} else {
		p.errorf(p.peekSpan(), "expected parameter list")
	}

	if p.at(token.LBrace) {
		p.block()
	} else {
		// Close the item early and let root resynchronize on the next
		// token that can start an item.
		p.errorf(p.peekSpan(), "expected function body")
	}
	p.finish()
}

// name parses a defining occurrence of an identifier. The caller has
// checked that an Ident is next.
func (p *parser) name() {
	p.start(syntax.Name)
	p.bump()
	p.finish()
}

// paramList parses a parenthesized, comma-separated parameter list.
func (p *parser) paramList() {
	p.start(syntax.ParamList)
	p.bump() // The opening paren.

	for !p.at(token.RParen) && !p.at(token.EOF) {
		switch p.peek() {
		case token.Ident:
			p.start(syntax.Param)
			p.name()
			p.finish()
		case token.Comma:
			p.bump()
		case token.LBrace:
			// The body has begun; the closing paren is missing. Close
			// early rather than eating the block.
			p.errorf(p.peekSpan(), "expected `)`")
			p.finish()
			return
		default:
			p.errAndBump("expected parameter name")
		}
	}

	p.expect(token.RParen, "`)`")
	p.finish()
}

// block parses a brace-delimited statement list. Blocks are the designated
// reparse boundary: their grammar is self-contained between the braces.
func (p *parser) block() {
	p.start(syntax.Block)
	p.bump() // The opening brace.

	for !p.at(token.RBrace) && !p.at(token.EOF) {
		p.stmt()
	}

	p.expect(token.RBrace, "`}`")
	p.finish()
}

func (p *parser) stmt() {
	switch p.peek() {
	case token.Semi:
		// An empty statement; kept as a bare token of the block.
		p.bump()
	case token.KwLet:
		p.letStmt()
	case token.KwReturn:
		p.returnStmt()
	case token.KwIf:
		p.ifStmt()
	case token.KwWhile:
		p.whileStmt()
	case token.LBrace:
		p.block()
	default:
		if p.atExprStart() {
			p.exprStmt()
		} else {
			p.errAndBump("expected statement")
		}
	}
}

func (p *parser) letStmt() {
	p.start(syntax.LetStmt)
	p.bump() // let

	if p.at(token.Ident) {
		p.name()
	} else {
		p.errorf(p.peekSpan(), "expected binding name")
	}
	if p.expect(token.Eq, "`=`") || p.atExprStart() {
		if !p.expr() {
			p.errorf(p.peekSpan(), "expected expression")
		}
	}
	p.expect(token.Semi, "`;`")
	p.finish()
}

func (p *parser) returnStmt() {
	p.start(syntax.ReturnStmt)
	p.bump() // return

	if p.atExprStart() {
		p.expr()
	}
	p.expect(token.Semi, "`;`")
	p.finish()
}

func (p *parser) ifStmt() {
	p.start(syntax.IfStmt)
	p.bump() // if

	if p.atExprStart() {
		p.expr()
	} else {
		p.errorf(p.peekSpan(), "expected condition")
	}
	if p.at(token.LBrace) {
		p.block()
	} else {
		p.errorf(p.peekSpan(), "expected block")
	}

	if p.at(token.KwElse) {
		p.bump()
		switch {
		case p.at(token.KwIf):
			p.ifStmt()
		case p.at(token.LBrace):
			p.block()
		default:
			p.errorf(p.peekSpan(), "expected block or `if` after `else`")
		}
	}
	p.finish()
}

func (p *parser) whileStmt() {
	p.start(syntax.WhileStmt)
	p.bump() // while

	if p.atExprStart() {
		p.expr()
	} else {
		p.errorf(p.peekSpan(), "expected condition")
	}
	if p.at(token.LBrace) {
		p.block()
	} else {
		p.errorf(p.peekSpan(), "expected block")
	}
	p.finish()
}

func (p *parser) exprStmt() {
	p.start(syntax.ExprStmt)
	p.expr()
	if p.at(token.Semi) {
		p.bump()
	}
	p.finish()
}

func (p *parser) atExprStart() bool {
	switch p.peek() {
	case token.Ident, token.Number, token.String,
		token.KwTrue, token.KwFalse,
		token.LParen, token.Minus, token.Bang:
		return true
	default:
		return false
	}
}

// expr parses an expression with a Pratt loop over binding powers.
func (p *parser) expr() bool {
	return p.exprBP(0)
}

// Binding powers. Each infix operator gets an odd left and even right
// power so that all binary operators associate left.
const (
	bpOr      = 1
	bpAnd     = 3
	bpCompare = 5
	bpAdd     = 7
	bpMul     = 9
	bpPrefix  = 11
)

func infixBP(kind token.Kind) int {
	switch kind {
	case token.OrOr:
		return bpOr
	case token.AndAnd:
		return bpAnd
	case token.EqEq, token.NotEq, token.Lt, token.Gt, token.LtEq, token.GtEq:
		return bpCompare
	case token.Plus, token.Minus:
		return bpAdd
	case token.Star, token.Slash:
		return bpMul
	default:
		return 0
	}
}

// exprBP parses an expression whose operators all bind at least as
// tightly as minBP. Returns false, consuming nothing, if no expression
// starts here; callers that cannot tolerate that guard with atExprStart.
func (p *parser) exprBP(minBP int) bool {
	mark := p.mark()
	if !p.primary() {
		return false
	}

	for {
		// A call binds tighter than any operator.
		if p.at(token.LParen) {
			p.startAt(mark, syntax.CallExpr)
			p.argList()
			p.finish()
			continue
		}

		bp := infixBP(p.peek())
		if bp == 0 || bp < minBP {
			return true
		}

		p.startAt(mark, syntax.BinaryExpr)
		p.bump() // The operator.
		if !p.exprBP(bp + 1) {
			p.errorf(p.peekSpan(), "expected expression")
		}
		p.finish()
	}
}

func (p *parser) primary() bool {
	switch p.peek() {
	case token.Number, token.String, token.KwTrue, token.KwFalse:
		p.start(syntax.Literal)
		p.bump()
		p.finish()
	case token.Ident:
		p.start(syntax.NameRef)
		p.bump()
		p.finish()
	case token.LParen:
		p.start(syntax.ParenExpr)
		p.bump()
		if !p.exprBP(0) {
			p.errorf(p.peekSpan(), "expected expression")
		}
		p.expect(token.RParen, "`)`")
		p.finish()
	case token.Minus, token.Bang:
		p.start(syntax.PrefixExpr)
		p.bump()
		if !p.exprBP(bpPrefix) {
			p.errorf(p.peekSpan(), "expected expression")
		}
		p.finish()
	default:
		return false
	}
	return true
}

// argList parses a parenthesized, comma-separated argument list. The
// caller has checked that an LParen is next.
func (p *parser) argList() {
	p.start(syntax.ArgList)
	p.bump() // The opening paren.

	for !p.at(token.RParen) && !p.at(token.EOF) {
		switch {
		case p.at(token.Comma):
			p.bump()
		case p.atExprStart():
			p.exprBP(0)
		default:
			// Not an argument and not our closer: this token belongs to
			// an ancestor. Close early.
			p.errorf(p.peekSpan(), "expected `)`")
			p.finish()
			return
		}
	}

	p.expect(token.RParen, "`)`")
	p.finish()
}
