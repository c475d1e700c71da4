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

	"golang.org/x/exp/slices"

	"github.com/lkire/mapd-core/sqltypes"
)

// InValues is `arg IN (v1, v2, ...)`.
type InValues struct {
	exprBase
	Arg    Node
	Values []Node
}

func NewInValues(arg Node, values []Node) *InValues {
	children := append([]Node{arg}, values...)
	return &InValues{exprBase: base(sqltypes.Of(sqltypes.Boolean, arg.TypeInfo().NotNull), children...), Arg: arg, Values: values}
}

func (in *InValues) walk(v Visitor) {
	Walk(v, in.Arg)
	for _, e := range in.Values {
		Walk(v, e)
	}
}

func (in *InValues) Copy() Node {
	vals := make([]Node, len(in.Values))
	for i, e := range in.Values {
		vals[i] = e.Copy()
	}
	return &InValues{exprBase: in.exprBase, Arg: in.Arg.Copy(), Values: vals}
}

func (in *InValues) Equals(x Node) bool {
	o, ok := x.(*InValues)
	if !ok {
		return false
	}
	return in.Arg.Equals(o.Arg) && slices.EqualFunc(in.Values, o.Values, Equal)
}

func (in *InValues) AddCast(ti sqltypes.TypeInfo) (Node, error) { return addCastDefault(in, ti) }

func (in *InValues) text(dst *strings.Builder, redact bool) {
	dst.WriteString("(IN ")
	in.Arg.text(dst, redact)
	dst.WriteString(" (")
	for i, e := range in.Values {
		if i > 0 {
			dst.WriteByte(' ')
		}
		e.text(dst, redact)
	}
	dst.WriteString("))")
}

// CharLengthExpr is CHAR_LENGTH(arg) when counting encoded bytes, or
// LENGTH(arg) when counting characters.
type CharLengthExpr struct {
	exprBase
	Arg               Node
	CalcEncodedLength bool
}

func NewCharLengthExpr(arg Node, calcEncodedLength bool) *CharLengthExpr {
	return &CharLengthExpr{
		exprBase:          base(sqltypes.Of(sqltypes.Int, arg.TypeInfo().NotNull), arg),
		Arg:               arg,
		CalcEncodedLength: calcEncodedLength,
	}
}

func (cl *CharLengthExpr) walk(v Visitor) {
	Walk(v, cl.Arg)
}

func (cl *CharLengthExpr) Copy() Node {
	return &CharLengthExpr{exprBase: cl.exprBase, Arg: cl.Arg.Copy(), CalcEncodedLength: cl.CalcEncodedLength}
}

func (cl *CharLengthExpr) Equals(x Node) bool {
	o, ok := x.(*CharLengthExpr)
	if !ok {
		return false
	}
	return cl.Arg.Equals(o.Arg) && cl.CalcEncodedLength == o.CalcEncodedLength
}

func (cl *CharLengthExpr) AddCast(ti sqltypes.TypeInfo) (Node, error) { return addCastDefault(cl, ti) }

func (cl *CharLengthExpr) text(dst *strings.Builder, redact bool) {
	if cl.CalcEncodedLength {
		dst.WriteString("CHAR_LENGTH(")
	} else {
		dst.WriteString("LENGTH(")
	}
	cl.Arg.text(dst, redact)
	dst.WriteByte(')')
}

// LikeExpr is `arg LIKE pattern [ESCAPE escape]`. IsSimple marks
// patterns of the form '%str%' that the executor can run without a
// state machine.
type LikeExpr struct {
	exprBase
	Arg     Node
	Pattern Node
	Escape  Node // may be nil
	IsIlike bool
	IsSimple bool
}

func NewLikeExpr(arg, pattern, escape Node, isIlike, isSimple bool) *LikeExpr {
	return &LikeExpr{
		exprBase: base(sqltypes.Of(sqltypes.Boolean, arg.TypeInfo().NotNull), arg, pattern, escape),
		Arg:      arg,
		Pattern:  pattern,
		Escape:   escape,
		IsIlike:  isIlike,
		IsSimple: isSimple,
	}
}

func (lk *LikeExpr) walk(v Visitor) {
	Walk(v, lk.Arg)
	Walk(v, lk.Pattern)
	if lk.Escape != nil {
		Walk(v, lk.Escape)
	}
}

func (lk *LikeExpr) Copy() Node {
	var esc Node
	if lk.Escape != nil {
		esc = lk.Escape.Copy()
	}
	return &LikeExpr{
		exprBase: lk.exprBase,
		Arg:      lk.Arg.Copy(),
		Pattern:  lk.Pattern.Copy(),
		Escape:   esc,
		IsIlike:  lk.IsIlike,
		IsSimple: lk.IsSimple,
	}
}

func (lk *LikeExpr) Equals(x Node) bool {
	o, ok := x.(*LikeExpr)
	if !ok {
		return false
	}
	if !lk.Arg.Equals(o.Arg) || !lk.Pattern.Equals(o.Pattern) || lk.IsIlike != o.IsIlike {
		return false
	}
	return Equal(lk.Escape, o.Escape)
}

func (lk *LikeExpr) AddCast(ti sqltypes.TypeInfo) (Node, error) { return addCastDefault(lk, ti) }

func (lk *LikeExpr) text(dst *strings.Builder, redact bool) {
	dst.WriteString("(LIKE ")
	lk.Arg.text(dst, redact)
	dst.WriteByte(' ')
	lk.Pattern.text(dst, redact)
	if lk.Escape != nil {
		dst.WriteByte(' ')
		lk.Escape.text(dst, redact)
	}
	dst.WriteByte(')')
}

// ExtractField is the date part pulled out by EXTRACT.
type ExtractField int

const (
	ExtractYear ExtractField = iota
	ExtractQuarter
	ExtractMonth
	ExtractDay
	ExtractHour
	ExtractMinute
	ExtractSecond
	ExtractDow
	ExtractIsoDow
	ExtractDoy
	ExtractEpoch
	ExtractWeek
)

func (f ExtractField) String() string {
	switch f {
	case ExtractYear:
		return "YEAR"
	case ExtractQuarter:
		return "QUARTER"
	case ExtractMonth:
		return "MONTH"
	case ExtractDay:
		return "DAY"
	case ExtractHour:
		return "HOUR"
	case ExtractMinute:
		return "MINUTE"
	case ExtractSecond:
		return "SECOND"
	case ExtractDow:
		return "DOW"
	case ExtractIsoDow:
		return "ISODOW"
	case ExtractDoy:
		return "DOY"
	case ExtractEpoch:
		return "EPOCH"
	case ExtractWeek:
		return "WEEK"
	default:
		return "INVALID"
	}
}

// ExtractExpr is EXTRACT(field FROM from_expr); the result is BIGINT.
type ExtractExpr struct {
	exprBase
	Field ExtractField
	From  Node
}

func NewExtractExpr(field ExtractField, from Node) *ExtractExpr {
	return &ExtractExpr{
		exprBase: base(sqltypes.Of(sqltypes.BigInt, from.TypeInfo().NotNull), from),
		Field:    field,
		From:     from,
	}
}

func (ex *ExtractExpr) walk(v Visitor) {
	Walk(v, ex.From)
}

func (ex *ExtractExpr) Copy() Node {
	return &ExtractExpr{exprBase: ex.exprBase, Field: ex.Field, From: ex.From.Copy()}
}

func (ex *ExtractExpr) Equals(x Node) bool {
	o, ok := x.(*ExtractExpr)
	if !ok {
		return false
	}
	return ex.Field == o.Field && ex.From.Equals(o.From)
}

func (ex *ExtractExpr) AddCast(ti sqltypes.TypeInfo) (Node, error) { return addCastDefault(ex, ti) }

func (ex *ExtractExpr) text(dst *strings.Builder, redact bool) {
	dst.WriteString("EXTRACT(")
	dst.WriteString(ex.Field.String())
	dst.WriteString(" FROM ")
	ex.From.text(dst, redact)
	dst.WriteByte(')')
}

// DatetruncField is the unit DATE_TRUNC truncates to.
type DatetruncField int

const (
	DatetruncYear DatetruncField = iota
	DatetruncQuarter
	DatetruncMonth
	DatetruncDay
	DatetruncHour
	DatetruncMinute
	DatetruncSecond
	DatetruncWeek
)

func (f DatetruncField) String() string {
	switch f {
	case DatetruncYear:
		return "YEAR"
	case DatetruncQuarter:
		return "QUARTER"
	case DatetruncMonth:
		return "MONTH"
	case DatetruncDay:
		return "DAY"
	case DatetruncHour:
		return "HOUR"
	case DatetruncMinute:
		return "MINUTE"
	case DatetruncSecond:
		return "SECOND"
	case DatetruncWeek:
		return "WEEK"
	default:
		return "INVALID"
	}
}

// DatetruncExpr is DATE_TRUNC(field, from_expr); the result keeps the
// operand's temporal type.
type DatetruncExpr struct {
	exprBase
	Field DatetruncField
	From  Node
}

func NewDatetruncExpr(field DatetruncField, from Node) *DatetruncExpr {
	return &DatetruncExpr{exprBase: base(from.TypeInfo(), from), Field: field, From: from}
}

func (dt *DatetruncExpr) walk(v Visitor) {
	Walk(v, dt.From)
}

func (dt *DatetruncExpr) Copy() Node {
	return &DatetruncExpr{exprBase: dt.exprBase, Field: dt.Field, From: dt.From.Copy()}
}

func (dt *DatetruncExpr) Equals(x Node) bool {
	o, ok := x.(*DatetruncExpr)
	if !ok {
		return false
	}
	return dt.Field == o.Field && dt.From.Equals(o.From)
}

func (dt *DatetruncExpr) AddCast(ti sqltypes.TypeInfo) (Node, error) { return addCastDefault(dt, ti) }

func (dt *DatetruncExpr) text(dst *strings.Builder, redact bool) {
	dst.WriteString("DATE_TRUNC(")
	dst.WriteString(dt.Field.String())
	dst.WriteString(", ")
	dt.From.text(dst, redact)
	dst.WriteByte(')')
}
