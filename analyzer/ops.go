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

package analyzer

import (
	"strings"

	"github.com/lkire/mapd-core/sqltypes"
)

// OpType identifies a unary or binary operator.
type OpType int

const (
	OpEq OpType = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpNot
	OpUMinus
	OpIsNull
	OpExists
	OpCast
	OpUnnest
	OpPlus
	OpMinus
	OpMultiply
	OpDivide
	OpModulo
	OpArrayAt
)

func (op OpType) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNe:
		return "<>"
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpNot:
		return "NOT"
	case OpUMinus, OpMinus:
		return "-"
	case OpIsNull:
		return "IS NULL"
	case OpExists:
		return "EXISTS"
	case OpCast:
		return "CAST"
	case OpUnnest:
		return "UNNEST"
	case OpPlus:
		return "+"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpModulo:
		return "%"
	case OpArrayAt:
		return "[]"
	default:
		return "INVALID"
	}
}

// IsComparison reports whether op compares its operands.
func (op OpType) IsComparison() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return true
	}
	return false
}

// IsLogic reports whether op combines boolean operands.
func (op OpType) IsLogic() bool {
	return op == OpAnd || op == OpOr || op == OpNot
}

// IsArithmetic reports whether op computes a numeric result.
func (op OpType) IsArithmetic() bool {
	switch op {
	case OpPlus, OpMinus, OpMultiply, OpDivide, OpModulo:
		return true
	}
	return false
}

// CommuteComparison mirrors a comparison across swapped operands.
func CommuteComparison(op OpType) OpType {
	switch op {
	case OpLt:
		return OpGt
	case OpLe:
		return OpGe
	case OpGt:
		return OpLt
	case OpGe:
		return OpLe
	case OpEq, OpNe:
		return op
	default:
		panic("analyzer: commuting a non-comparison operator")
	}
}

// Qualifier modifies a comparison against a set of values.
type Qualifier int

const (
	QualOne Qualifier = iota
	QualAny
	QualAll
)

func (q Qualifier) String() string {
	switch q {
	case QualOne:
		return ""
	case QualAny:
		return "ANY"
	case QualAll:
		return "ALL"
	default:
		return "INVALID"
	}
}

// UOper is a unary operator application. For OpCast the node's type is
// the cast target.
type UOper struct {
	exprBase
	Op      OpType
	Operand Node
}

func NewUOper(ti sqltypes.TypeInfo, op OpType, operand Node) *UOper {
	return &UOper{exprBase: base(ti, operand), Op: op, Operand: operand}
}

func (u *UOper) walk(v Visitor) {
	Walk(v, u.Operand)
}

func (u *UOper) Copy() Node {
	return &UOper{exprBase: u.exprBase, Op: u.Op, Operand: u.Operand.Copy()}
}

func (u *UOper) Equals(x Node) bool {
	o, ok := x.(*UOper)
	if !ok {
		return false
	}
	return u.Op == o.Op && u.Operand.Equals(o.Operand)
}

func (u *UOper) text(dst *strings.Builder, redact bool) {
	dst.WriteByte('(')
	dst.WriteString(u.Op.String())
	if u.Op == OpCast {
		dst.WriteByte(' ')
		dst.WriteString(u.typ.TypeName())
		dst.WriteByte(' ')
		dst.WriteString(u.typ.CompressionName())
	}
	dst.WriteByte(' ')
	u.Operand.text(dst, redact)
	dst.WriteByte(')')
}

// BinOper is a binary operator application.
type BinOper struct {
	exprBase
	Op        OpType
	Qualifier Qualifier
	Left      Node
	Right     Node
}

func NewBinOper(ti sqltypes.TypeInfo, op OpType, qual Qualifier, left, right Node) *BinOper {
	return &BinOper{exprBase: base(ti, left, right), Op: op, Qualifier: qual, Left: left, Right: right}
}

// AnalyzeBinOper resolves the operator's result type, casts the
// operands as the promotion rules demand, and builds the node.
func AnalyzeBinOper(op OpType, qual Qualifier, left, right Node) (*BinOper, error) {
	result, lt, rt, err := AnalyzeBinOperType(op, left.TypeInfo(), right.TypeInfo())
	if err != nil {
		return nil, err
	}
	if lt != left.TypeInfo() {
		if left, err = left.AddCast(lt); err != nil {
			return nil, err
		}
	}
	if rt != right.TypeInfo() {
		if right, err = right.AddCast(rt); err != nil {
			return nil, err
		}
	}
	return NewBinOper(result, op, qual, left, right), nil
}

// AnalyzeBinOperType computes the result type of op applied to
// operands of types l and r, along with the types the operands must be
// cast to before the operator applies.
func AnalyzeBinOperType(op OpType, l, r sqltypes.TypeInfo) (result, newLeft, newRight sqltypes.TypeInfo, err error) {
	newLeft, newRight = l, r
	switch {
	case op.IsLogic():
		if l.Kind != sqltypes.Boolean || r.Kind != sqltypes.Boolean {
			err = errtype(nil, ErrNonBooleanInLogic,
				"non-boolean operands cannot be used in logic operations")
			return
		}
		result = sqltypes.Of(sqltypes.Boolean, false)

	case op.IsComparison():
		if l != r {
			switch {
			case l.IsNumber() && r.IsNumber():
				common := sqltypes.CommonNumericType(l, r)
				newLeft, newRight = common, common
				newLeft.NotNull = l.NotNull
				newRight.NotNull = r.NotNull
			case l.IsTime() && r.IsTime():
				common, ok := sqltypes.TemporalOperandType(l, r)
				if !ok {
					err = errtype(nil, ErrIncomparableTemporals,
						"cannot compare between %s and %s", l.TypeName(), r.TypeName())
					return
				}
				newLeft, newRight = common, common
				newLeft.NotNull = l.NotNull
				newRight.NotNull = r.NotNull
			case l.IsString() && r.IsTime():
				newLeft, newRight = r, r
				newLeft.NotNull = l.NotNull
			case l.IsTime() && r.IsString():
				newLeft, newRight = l, l
				newRight.NotNull = r.NotNull
			case l.IsString() && r.IsString():
				// the executor negotiates encodings for string comparisons
			default:
				err = errtype(nil, ErrIncomparable,
					"cannot compare between %s and %s", l.TypeName(), r.TypeName())
				return
			}
		}
		result = sqltypes.Of(sqltypes.Boolean, false)

	case op.IsArithmetic():
		if !l.IsNumber() || !r.IsNumber() {
			err = errtype(nil, ErrNonNumericArithmetic,
				"non-numeric operands in arithmetic operations")
			return
		}
		if op == OpModulo && (!l.IsInteger() || !r.IsInteger()) {
			err = errtype(nil, ErrNonIntegerModulo,
				"non-integer operands in modulo operation")
			return
		}
		common := sqltypes.CommonNumericType(l, r)
		newLeft, newRight = common, common
		newLeft.NotNull = l.NotNull
		newRight.NotNull = r.NotNull
		result = common

	default:
		panic("analyzer: invalid binary operator type")
	}
	result.NotNull = l.NotNull && r.NotNull
	return
}

func (b *BinOper) walk(v Visitor) {
	Walk(v, b.Left)
	Walk(v, b.Right)
}

func (b *BinOper) Copy() Node {
	return &BinOper{
		exprBase:  b.exprBase,
		Op:        b.Op,
		Qualifier: b.Qualifier,
		Left:      b.Left.Copy(),
		Right:     b.Right.Copy(),
	}
}

func (b *BinOper) Equals(x Node) bool {
	o, ok := x.(*BinOper)
	if !ok {
		return false
	}
	return b.Op == o.Op && b.Left.Equals(o.Left) && b.Right.Equals(o.Right)
}

func (b *BinOper) text(dst *strings.Builder, redact bool) {
	dst.WriteByte('(')
	dst.WriteString(b.Op.String())
	if b.Qualifier != QualOne {
		dst.WriteByte(' ')
		dst.WriteString(b.Qualifier.String())
	}
	dst.WriteByte(' ')
	b.Left.text(dst, redact)
	dst.WriteByte(' ')
	b.Right.text(dst, redact)
	dst.WriteByte(')')
}

// NormalizeSimplePredicate recognizes the pattern
// <ColumnVar> <cmp> <Constant> and returns a fresh copy of it along
// with the range-table index of the column side; the mirrored form is
// commuted into it. Any other shape returns (nil, -1).
func (b *BinOper) NormalizeSimplePredicate() (*BinOper, int) {
	if !b.Op.IsComparison() || b.Qualifier != QualOne {
		return nil, -1
	}
	if cv, ok := b.Left.(*ColumnVar); ok {
		if _, ok := b.Right.(*Constant); ok {
			return b.Copy().(*BinOper), cv.RTEIdx
		}
	}
	if _, ok := b.Left.(*Constant); ok {
		if cv, ok := b.Right.(*ColumnVar); ok {
			norm := &BinOper{
				exprBase:  b.exprBase,
				Op:        CommuteComparison(b.Op),
				Qualifier: b.Qualifier,
				Left:      b.Right.Copy(),
				Right:     b.Left.Copy(),
			}
			return norm, cv.RTEIdx
		}
	}
	return nil, -1
}
