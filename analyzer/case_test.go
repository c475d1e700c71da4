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

func strLitCase(elseExpr Node, thens ...Node) *CaseExpr {
	pairs := make([]WhenThen, len(thens))
	for i, th := range thens {
		pairs[i] = WhenThen{When: boolCol(1, 5, 0), Then: th}
	}
	ti := sqltypes.Make(sqltypes.Varchar, 10, 0, false, sqltypes.EncodingNone, 0)
	return NewCaseExpr(ti, pairs, elseExpr)
}

func TestCaseDomainLiterals(t *testing.T) {
	c := strLitCase(StringLiteral("b"), StringLiteral("a"))
	var set ExprList
	c.Domain(&set)
	if len(set) != 2 {
		t.Fatalf("got %d values", len(set))
	}
	if !set[0].Equals(StringLiteral("a")) || !set[1].Equals(StringLiteral("b")) {
		t.Fatalf("got %s, %s", ToString(set[0]), ToString(set[1]))
	}
}

func TestCaseDomainDedup(t *testing.T) {
	c := strLitCase(StringLiteral("a"), StringLiteral("a"), StringLiteral("a"))
	var set ExprList
	c.Domain(&set)
	if len(set) != 1 {
		t.Fatalf("got %d values, want 1", len(set))
	}
}

func TestCaseDomainColumnsAndCasts(t *testing.T) {
	col := strCol(1, 3, 0, 10)
	castLit, err := StringLiteral("x").AddCast(
		sqltypes.Make(sqltypes.Varchar, 10, 0, false, sqltypes.EncodingDict, 3))
	if err != nil {
		t.Fatal(err)
	}
	c := strLitCase(nil, col, castLit)
	var set ExprList
	c.Domain(&set)
	if len(set) != 2 {
		t.Fatalf("got %d values", len(set))
	}
}

func TestCaseDomainUnbounded(t *testing.T) {
	// an arm computed by an operator has no enumerable domain
	arm := NewBinOper(sqltypes.Of(sqltypes.Int, false), OpPlus, QualOne,
		intCol(1, 1, 0), IntLiteral(1))
	c := NewCaseExpr(sqltypes.Of(sqltypes.Int, false),
		[]WhenThen{
			{When: boolCol(1, 5, 0), Then: IntLiteral(1)},
			{When: boolCol(1, 6, 0), Then: arm},
		}, nil)
	var set ExprList
	c.Domain(&set)
	if len(set) != 0 {
		t.Fatalf("got %d values, want empty (unbounded)", len(set))
	}
}

func TestCaseDomainNested(t *testing.T) {
	inner := strLitCase(StringLiteral("c"), StringLiteral("b"))
	outer := strLitCase(inner, StringLiteral("a"))
	var set ExprList
	outer.Domain(&set)
	if len(set) != 3 {
		t.Fatalf("got %d values, want 3", len(set))
	}
}

func TestCaseAddCastPushesDown(t *testing.T) {
	c := strLitCase(StringLiteral("b"), StringLiteral("a"))
	target := sqltypes.Make(sqltypes.Varchar, 10, 0, false, sqltypes.EncodingNone, 0)
	target.Dimension = 1
	got, err := c.AddCast(target)
	if err != nil {
		t.Fatal(err)
	}
	gc := got.(*CaseExpr)
	if gc.TypeInfo() != target {
		t.Fatalf("node type: %s", gc.TypeInfo().TypeName())
	}
	// the arms were cast along with the node
	if th := gc.Pairs[0].Then.(*Constant); th.TypeInfo().Dimension != 1 {
		t.Fatalf("arm type: %s", th.TypeInfo().TypeName())
	}
	if el := gc.Else.(*Constant); el.TypeInfo().Dimension != 1 {
		t.Fatalf("else type: %s", el.TypeInfo().TypeName())
	}
}

func TestCaseAddCastTransientRewrite(t *testing.T) {
	// arms are plain strings associated with dictionary 7; casting the
	// CASE to the transient dictionary negotiates TRANSIENT_DICT(7)
	armTi := sqltypes.Make(sqltypes.Varchar, 10, 0, false, sqltypes.EncodingNone, 7)
	arm := NewConstant(armTi, sqltypes.Datum{Str: "a"})
	c := NewCaseExpr(armTi, []WhenThen{{When: boolCol(1, 5, 0), Then: arm}}, nil)

	target := sqltypes.Make(sqltypes.Varchar, 10, 0, false, sqltypes.EncodingDict, sqltypes.TransientDictID)
	got, err := c.AddCast(target)
	if err != nil {
		t.Fatal(err)
	}
	gc := got.(*CaseExpr)
	wantParam := sqltypes.TransientDict(7)
	if gc.TypeInfo().CompParam != wantParam {
		t.Fatalf("comp param: got %d, want %d", gc.TypeInfo().CompParam, wantParam)
	}
	u, ok := gc.Pairs[0].Then.(*UOper)
	if !ok || u.Op != OpCast || u.TypeInfo().CompParam != wantParam {
		t.Fatalf("arm: got %s", ToString(gc.Pairs[0].Then))
	}
}
