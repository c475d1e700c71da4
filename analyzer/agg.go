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

// AggType is one of the aggregation operations.
type AggType int

const (
	AggAvg AggType = iota
	AggMin
	AggMax
	AggSum
	AggCount
)

func (a AggType) String() string {
	switch a {
	case AggAvg:
		return "AVG"
	case AggMin:
		return "MIN"
	case AggMax:
		return "MAX"
	case AggSum:
		return "SUM"
	case AggCount:
		return "COUNT"
	default:
		return "INVALID"
	}
}

// AggExpr is an aggregate application. A nil Arg means COUNT(*).
type AggExpr struct {
	exprBase
	AggType    AggType
	Arg        Node
	IsDistinct bool
}

func NewAggExpr(ti sqltypes.TypeInfo, aggtype AggType, arg Node, isDistinct bool) *AggExpr {
	return &AggExpr{
		exprBase:   exprBase{typ: ti, agg: true},
		AggType:    aggtype,
		Arg:        arg,
		IsDistinct: isDistinct,
	}
}

// Count builds COUNT(*) with a BIGINT result.
func Count() *AggExpr {
	return NewAggExpr(sqltypes.Of(sqltypes.BigInt, true), AggCount, nil, false)
}

func (a *AggExpr) walk(v Visitor) {
	if a.Arg != nil {
		Walk(v, a.Arg)
	}
}

func (a *AggExpr) Copy() Node {
	var arg Node
	if a.Arg != nil {
		arg = a.Arg.Copy()
	}
	return &AggExpr{exprBase: a.exprBase, AggType: a.AggType, Arg: arg, IsDistinct: a.IsDistinct}
}

func (a *AggExpr) Equals(x Node) bool {
	o, ok := x.(*AggExpr)
	if !ok {
		return false
	}
	if a.AggType != o.AggType || a.IsDistinct != o.IsDistinct {
		return false
	}
	return Equal(a.Arg, o.Arg)
}

func (a *AggExpr) AddCast(ti sqltypes.TypeInfo) (Node, error) { return addCastDefault(a, ti) }

func (a *AggExpr) text(dst *strings.Builder, redact bool) {
	dst.WriteByte('(')
	dst.WriteString(a.AggType.String())
	dst.WriteByte(' ')
	if a.IsDistinct {
		dst.WriteString("DISTINCT ")
	}
	if a.Arg == nil {
		dst.WriteByte('*')
	} else {
		a.Arg.text(dst, redact)
	}
	dst.WriteByte(')')
}
