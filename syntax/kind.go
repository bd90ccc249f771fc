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

import "fmt"

// NodeKind identifies the grammatical construct a [GreenNode] represents.
//
// Like [token.Kind], the numeric values are a versioned contract: new kinds
// are appended, existing ones are never renumbered.
type NodeKind uint8

const (
	// Error is the recovery kind: a node holding tokens the grammar could
	// not fit anywhere else.
	Error NodeKind = iota

	Root // The top of every tree.

	Item      // A function item: name, parameter list, body.
	ParamList // The parenthesized parameter list of an item.
	Param     // A single parameter.
	Block     // A brace-delimited statement list.

	LetStmt
	ReturnStmt
	IfStmt
	WhileStmt
	ExprStmt

	BinaryExpr
	PrefixExpr
	ParenExpr
	CallExpr
	ArgList
	Literal
	Name    // A defining occurrence of an identifier.
	NameRef // A referencing occurrence of an identifier.
)

// String implements [fmt.Stringer].
func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("syntax.NodeKind(%d)", uint8(k))
}

var nodeKindNames = [...]string{
	Error:      "Error",
	Root:       "Root",
	Item:       "Item",
	ParamList:  "ParamList",
	Param:      "Param",
	Block:      "Block",
	LetStmt:    "LetStmt",
	ReturnStmt: "ReturnStmt",
	IfStmt:     "IfStmt",
	WhileStmt:  "WhileStmt",
	ExprStmt:   "ExprStmt",
	BinaryExpr: "BinaryExpr",
	PrefixExpr: "PrefixExpr",
	ParenExpr:  "ParenExpr",
	CallExpr:   "CallExpr",
	ArgList:    "ArgList",
	Literal:    "Literal",
	Name:       "Name",
	NameRef:    "NameRef",
}
