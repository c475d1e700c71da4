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
	"testing"

	"github.com/lkire/mapd-core/sqltypes"
)

func TestEquals(t *testing.T) {
	tests := []struct {
		in, out Node
	}{
		{IntLiteral(1), IntLiteral(1)},
		{StringLiteral("foo"), StringLiteral("foo")},
		{BoolLiteral(true), BoolLiteral(true)},
		{NewNullConstant(sqltypes.Of(sqltypes.Int, false)), NewNullConstant(sqltypes.Of(sqltypes.Int, false))},
		{intCol(1, 2, 0), intCol(1, 2, 0)},
		{intCol(1, 2, 0), NewVar(sqltypes.Of(sqltypes.Int, false), 1, 2, 0, RowInputOuter, 3)},
		{
			NewSlotVar(sqltypes.Of(sqltypes.Int, false), RowInputOuter, 2),
			NewSlotVar(sqltypes.Of(sqltypes.Int, false), RowInputOuter, 2),
		},
		{
			binop(OpEq, intCol(1, 2, 0), IntLiteral(3)),
			binop(OpEq, intCol(1, 2, 0), IntLiteral(3)),
		},
		{
			and(binop(OpEq, intCol(1, 1, 0), IntLiteral(1)), boolCol(1, 5, 0)),
			and(binop(OpEq, intCol(1, 1, 0), IntLiteral(1)), boolCol(1, 5, 0)),
		},
		{sum(intCol(1, 2, 0)), sum(intCol(1, 2, 0))},
		{Count(), Count()},
		{
			NewLikeExpr(strCol(1, 3, 0, 20), StringLiteral("%x%"), nil, false, true),
			NewLikeExpr(strCol(1, 3, 0, 20), StringLiteral("%x%"), nil, false, true),
		},
		{
			NewInValues(intCol(1, 2, 0), []Node{IntLiteral(1), IntLiteral(2)}),
			NewInValues(intCol(1, 2, 0), []Node{IntLiteral(1), IntLiteral(2)}),
		},
		{
			NewExtractExpr(ExtractYear, tsCol(1, 4, 0, 0)),
			NewExtractExpr(ExtractYear, tsCol(1, 4, 0, 0)),
		},
		{
			NewDatetruncExpr(DatetruncMonth, tsCol(1, 4, 0, 0)),
			NewDatetruncExpr(DatetruncMonth, tsCol(1, 4, 0, 0)),
		},
		{
			NewCaseExpr(sqltypes.Of(sqltypes.Int, false),
				[]WhenThen{{When: boolCol(1, 5, 0), Then: IntLiteral(1)}}, IntLiteral(0)),
			NewCaseExpr(sqltypes.Of(sqltypes.Int, false),
				[]WhenThen{{When: boolCol(1, 5, 0), Then: IntLiteral(1)}}, IntLiteral(0)),
		},
		{
			NewCharLengthExpr(strCol(1, 3, 0, 20), true),
			NewCharLengthExpr(strCol(1, 3, 0, 20), true),
		},
	}

	for i := range tests {
		if !tests[i].in.Equals(tests[i].out) {
			t.Errorf("case %d: %s != %s", i, ToString(tests[i].in), ToString(tests[i].out))
		}
		// test symmetry
		if !tests[i].out.Equals(tests[i].in) {
			t.Errorf("case %d: %s != %s", i, ToString(tests[i].out), ToString(tests[i].in))
		}
		// test reflexivity
		if !tests[i].in.Equals(tests[i].in) {
			t.Errorf("case %d: %s not equal to itself", i, ToString(tests[i].in))
		}
	}
}

func TestNotEquals(t *testing.T) {
	tests := []struct {
		a, b Node
	}{
		{IntLiteral(1), IntLiteral(2)},
		{IntLiteral(1), BigIntLiteral(1)}, // same value, different type
		{IntLiteral(1), NewNullConstant(sqltypes.Of(sqltypes.Int, false))},
		{StringLiteral("a"), StringLiteral("b")},
		{intCol(1, 2, 0), intCol(1, 3, 0)},
		{intCol(1, 2, 0), intCol(2, 2, 0)},
		{intCol(1, 2, 0), intCol(1, 2, 1)},
		{intCol(1, 2, 0), IntLiteral(1)},
		{
			NewSlotVar(sqltypes.Of(sqltypes.Int, false), RowInputOuter, 2),
			NewSlotVar(sqltypes.Of(sqltypes.Int, false), RowInputOuter, 3),
		},
		{
			NewSlotVar(sqltypes.Of(sqltypes.Int, false), RowInputOuter, 2),
			NewSlotVar(sqltypes.Of(sqltypes.Int, false), RowGroupBy, 2),
		},
		{
			// a free Var never equals a bound column
			NewSlotVar(sqltypes.Of(sqltypes.Int, false), RowInputOuter, 2),
			intCol(1, 2, 0),
		},
		{
			binop(OpEq, intCol(1, 2, 0), IntLiteral(3)),
			binop(OpNe, intCol(1, 2, 0), IntLiteral(3)),
		},
		{sum(intCol(1, 2, 0)), NewAggExpr(sqltypes.Of(sqltypes.Int, false), AggSum, intCol(1, 2, 0), true)},
		{sum(intCol(1, 2, 0)), Count()},
		{
			NewLikeExpr(strCol(1, 3, 0, 20), StringLiteral("%x%"), nil, false, true),
			NewLikeExpr(strCol(1, 3, 0, 20), StringLiteral("%x%"), StringLiteral("!"), false, true),
		},
		{
			NewLikeExpr(strCol(1, 3, 0, 20), StringLiteral("%x%"), nil, false, true),
			NewLikeExpr(strCol(1, 3, 0, 20), StringLiteral("%x%"), nil, true, true),
		},
		{
			NewInValues(intCol(1, 2, 0), []Node{IntLiteral(1), IntLiteral(2)}),
			NewInValues(intCol(1, 2, 0), []Node{IntLiteral(1)}),
		},
		{
			NewExtractExpr(ExtractYear, tsCol(1, 4, 0, 0)),
			NewExtractExpr(ExtractMonth, tsCol(1, 4, 0, 0)),
		},
		{
			NewCaseExpr(sqltypes.Of(sqltypes.Int, false),
				[]WhenThen{{When: boolCol(1, 5, 0), Then: IntLiteral(1)}}, IntLiteral(0)),
			NewCaseExpr(sqltypes.Of(sqltypes.Int, false),
				[]WhenThen{{When: boolCol(1, 5, 0), Then: IntLiteral(1)}}, nil),
		},
		{
			NewCharLengthExpr(strCol(1, 3, 0, 20), true),
			NewCharLengthExpr(strCol(1, 3, 0, 20), false),
		},
	}
	for i := range tests {
		if tests[i].a.Equals(tests[i].b) {
			t.Errorf("case %d: %s == %s", i, ToString(tests[i].a), ToString(tests[i].b))
		}
		if tests[i].b.Equals(tests[i].a) {
			t.Errorf("case %d (reversed): %s == %s", i, ToString(tests[i].b), ToString(tests[i].a))
		}
	}
}
