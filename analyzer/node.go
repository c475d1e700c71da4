// Copyright (C) 2022 MapD Technologies, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package analyzer holds the typed expression IR produced by semantic
// analysis and consumed by the query planner. Every node carries a
// resolved sqltypes.TypeInfo; trees are built once per query and
// treated as immutable after they reach the planner, with rewrites
// always producing fresh nodes.
package analyzer

import (
	"strconv"
	"strings"

	"github.com/lkire/mapd-core/sqltypes"
)

// Printable is anything that can render itself to a text sink.
// The output is a stable parenthesized prefix form, so it doubles as a
// textual surrogate for structural equality in tests. With redact set,
// literal values are masked so query shapes can be logged without
// leaking data.
type Printable interface {
	text(dst *strings.Builder, redact bool)
}

// ToString renders p with literal values intact.
func ToString(p Printable) string {
	var b strings.Builder
	p.text(&b, false)
	return b.String()
}

// ToRedacted renders p with literal values masked.
func ToRedacted(p Printable) string {
	var b strings.Builder
	p.text(&b, true)
	return b.String()
}

// Node is an expression tree node.
//
// The node family is a closed sum: equality, deep copy, casting and
// the three target-list rewrites are interface methods, so a new
// variant does not compile until it implements the whole contract.
// Read-only analyses (predicate grouping, column collection, group-by
// checking) are visitors built on walk.
type Node interface {
	Printable

	// TypeInfo returns the resolved SQL type of this expression.
	TypeInfo() sqltypes.TypeInfo

	// ContainsAgg reports whether an aggregate appears in this subtree.
	ContainsAgg() bool

	// Equals reports structural equality. Type info of internal nodes
	// does not participate; leaves compare their identifying fields.
	Equals(Node) bool

	// Copy returns a deep copy of the subtree. Owned string payloads
	// are duplicated; the copy shares no mutable state with the
	// original. Copying a Subquery is an internal contract violation
	// and panics.
	Copy() Node

	// AddCast coerces this expression to the given type, folding
	// literals and collapsing redundant dictionary casts where the
	// type system allows it.
	AddCast(ti sqltypes.TypeInfo) (Node, error)

	// RewriteWithTargetList replaces column and aggregate leaves with
	// deep copies of matching target-list entries.
	RewriteWithTargetList(tlist []*TargetEntry) (Node, error)

	// RewriteWithChildTargetList redirects column references to the
	// output slots of a child target list, which must be all columns.
	RewriteWithChildTargetList(tlist []*TargetEntry) (Node, error)

	// RewriteAggToVar replaces aggregates (and grouped columns) with
	// references to the slots of an aggregation output.
	RewriteAggToVar(tlist []*TargetEntry) (Node, error)

	walk(Visitor)
}

// Equal returns whether a and b are equivalent. a or b may be nil.
func Equal(a, b Node) bool {
	if a == nil {
		return b == nil
	}
	return b != nil && a.Equals(b)
}

// Visitor is the argument to Walk.
//
// A Visitor's Visit method is invoked for each node encountered by
// Walk. If the result visitor w is not nil, Walk visits each of the
// children of node with w, followed by a call of w.Visit(nil).
//
// (see also: ast.Visitor)
type Visitor interface {
	Visit(Node) Visitor
}

// Walk traverses an expression in depth-first order: it starts by
// calling v.Visit(n); n must not be nil. If the visitor w returned by
// v.Visit(n) is not nil, Walk is invoked recursively with w for each
// non-nil child of n, followed by a call of w.Visit(nil).
func Walk(v Visitor, n Node) {
	w := v.Visit(n)
	if w != nil {
		n.walk(w)
		w.Visit(nil)
	}
}

// walkFunc adapts a prune-aware function to Visitor;
// returning false stops descent below the visited node.
type walkFunc func(Node) bool

func (f walkFunc) Visit(n Node) Visitor {
	if n != nil && f(n) {
		return f
	}
	return nil
}

// exprBase carries the attributes every node has.
type exprBase struct {
	typ sqltypes.TypeInfo
	agg bool
}

func (b *exprBase) TypeInfo() sqltypes.TypeInfo { return b.typ }
func (b *exprBase) ContainsAgg() bool           { return b.agg }

func base(ti sqltypes.TypeInfo, children ...Node) exprBase {
	agg := false
	for _, c := range children {
		if c != nil && c.ContainsAgg() {
			agg = true
			break
		}
	}
	return exprBase{typ: ti, agg: agg}
}

// ColumnVar is a reference to a table column. RTEIdx indexes the
// query's range table; -1 marks a free-standing Var whose meaning is
// given by its row kind and slot number.
type ColumnVar struct {
	exprBase
	TableID  int
	ColumnID int
	RTEIdx   int
}

func NewColumnVar(ti sqltypes.TypeInfo, tableID, columnID, rteIdx int) *ColumnVar {
	return &ColumnVar{exprBase: exprBase{typ: ti}, TableID: tableID, ColumnID: columnID, RTEIdx: rteIdx}
}

func (c *ColumnVar) walk(Visitor) {}

func (c *ColumnVar) Copy() Node {
	cc := *c
	return &cc
}

func (c *ColumnVar) Equals(x Node) bool {
	o := asColumnVar(x)
	if o == nil {
		return false
	}
	if c.RTEIdx != -1 {
		return c.TableID == o.TableID && c.ColumnID == o.ColumnID && c.RTEIdx == o.RTEIdx
	}
	// a free reference is only meaningful on a Var
	return false
}

func (c *ColumnVar) text(dst *strings.Builder, redact bool) {
	dst.WriteString("(ColumnVar table: ")
	writeInt(dst, c.TableID)
	dst.WriteString(" column: ")
	writeInt(dst, c.ColumnID)
	dst.WriteString(" rte: ")
	writeInt(dst, c.RTEIdx)
	dst.WriteByte(')')
}

// asColumnVar returns the column-reference view of e, whether it is a
// plain ColumnVar or a Var, and nil otherwise.
func asColumnVar(e Node) *ColumnVar {
	switch v := e.(type) {
	case *ColumnVar:
		return v
	case *Var:
		return &v.ColumnVar
	}
	return nil
}

// WhichRow says which row a Var reads during execution.
type WhichRow int

const (
	RowInputInner WhichRow = iota
	RowInputOuter
	RowOutput
	RowGroupBy
)

// Var is a column reference resolved to an executor row slot. VarNo is
// 1-based.
type Var struct {
	ColumnVar
	WhichRow WhichRow
	VarNo    int
}

func NewVar(ti sqltypes.TypeInfo, tableID, columnID, rteIdx int, which WhichRow, varno int) *Var {
	return &Var{
		ColumnVar: ColumnVar{exprBase: exprBase{typ: ti}, TableID: tableID, ColumnID: columnID, RTEIdx: rteIdx},
		WhichRow:  which,
		VarNo:     varno,
	}
}

// NewSlotVar builds a free Var carrying only a row kind and slot.
func NewSlotVar(ti sqltypes.TypeInfo, which WhichRow, varno int) *Var {
	return NewVar(ti, 0, 0, -1, which, varno)
}

func (v *Var) Copy() Node {
	vv := *v
	return &vv
}

func (v *Var) Equals(x Node) bool {
	o := asColumnVar(x)
	if o == nil {
		return false
	}
	if v.RTEIdx != -1 {
		return v.TableID == o.TableID && v.ColumnID == o.ColumnID && v.RTEIdx == o.RTEIdx
	}
	ov, ok := x.(*Var)
	if !ok {
		return false
	}
	return v.WhichRow == ov.WhichRow && v.VarNo == ov.VarNo
}

func (v *Var) text(dst *strings.Builder, redact bool) {
	dst.WriteString("(Var table: ")
	writeInt(dst, v.TableID)
	dst.WriteString(" column: ")
	writeInt(dst, v.ColumnID)
	dst.WriteString(" rte: ")
	writeInt(dst, v.RTEIdx)
	dst.WriteString(" which_row: ")
	writeInt(dst, int(v.WhichRow))
	dst.WriteString(" varno: ")
	writeInt(dst, v.VarNo)
	dst.WriteByte(')')
}

// Constant is a literal. A null literal keeps the kind-specific null
// sentinel in its payload; IsNull is authoritative.
type Constant struct {
	exprBase
	IsNull bool
	Val    sqltypes.Datum
}

func NewConstant(ti sqltypes.TypeInfo, d sqltypes.Datum) *Constant {
	return &Constant{exprBase: exprBase{typ: ti}, Val: d}
}

// NewNullConstant builds a null literal of the given type with its
// payload set to the kind-specific sentinel.
func NewNullConstant(ti sqltypes.TypeInfo) *Constant {
	return &Constant{exprBase: exprBase{typ: ti}, IsNull: true, Val: sqltypes.NullValue(ti.Kind)}
}

// Literal constructors for the common kinds; literals are not null.

func BoolLiteral(v bool) *Constant {
	return NewConstant(sqltypes.Of(sqltypes.Boolean, true), sqltypes.Datum{Bool: v})
}

func IntLiteral(v int32) *Constant {
	return NewConstant(sqltypes.Of(sqltypes.Int, true), sqltypes.Datum{Int: v})
}

func BigIntLiteral(v int64) *Constant {
	return NewConstant(sqltypes.Of(sqltypes.BigInt, true), sqltypes.Datum{BigInt: v})
}

func DoubleLiteral(v float64) *Constant {
	return NewConstant(sqltypes.Of(sqltypes.Double, true), sqltypes.Datum{Double: v})
}

// StringLiteral builds a VARCHAR literal sized to the value.
func StringLiteral(s string) *Constant {
	ti := sqltypes.Make(sqltypes.Varchar, len(s), 0, true, sqltypes.EncodingNone, 0)
	return NewConstant(ti, sqltypes.Datum{Str: s})
}

func (c *Constant) walk(Visitor) {}

func (c *Constant) Copy() Node {
	cc := *c
	return &cc
}

func (c *Constant) Equals(x Node) bool {
	o, ok := x.(*Constant)
	if !ok {
		return false
	}
	if c.typ != o.typ || c.IsNull != o.IsNull {
		return false
	}
	return sqltypes.DatumEqual(c.typ, c.Val, o.Val)
}

func (c *Constant) text(dst *strings.Builder, redact bool) {
	dst.WriteString("(Const ")
	switch {
	case c.IsNull:
		dst.WriteString("NULL")
	case redact:
		dst.WriteString("***")
	case c.typ.IsString():
		quote(dst, c.Val.Str)
	default:
		dst.WriteString(sqltypes.DatumToString(c.Val, c.typ))
	}
	dst.WriteByte(')')
}

// Subquery is a placeholder for a nested query block. The planner
// cannot copy, cast or rewrite one yet.
type Subquery struct {
	exprBase
	Parsetree *Query
}

func NewSubquery(ti sqltypes.TypeInfo, parsetree *Query) *Subquery {
	return &Subquery{exprBase: exprBase{typ: ti}, Parsetree: parsetree}
}

func (s *Subquery) walk(Visitor) {}

func (s *Subquery) Copy() Node {
	panic(errtype(s, ErrUnsupportedSubquery, "cannot copy a subquery"))
}

func (s *Subquery) Equals(x Node) bool {
	return Node(s) == x
}

func (s *Subquery) text(dst *strings.Builder, redact bool) {
	dst.WriteString("(Subquery)")
}

func writeInt(dst *strings.Builder, v int) {
	dst.WriteString(strconv.Itoa(v))
}
