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
	"github.com/lkire/mapd-core/sqltypes"
)

func intCol(table, column, rte int) *ColumnVar {
	return NewColumnVar(sqltypes.Of(sqltypes.Int, false), table, column, rte)
}

func boolCol(table, column, rte int) *ColumnVar {
	return NewColumnVar(sqltypes.Of(sqltypes.Boolean, false), table, column, rte)
}

func timeCol(table, column, rte int) *ColumnVar {
	return NewColumnVar(sqltypes.Of(sqltypes.Time, false), table, column, rte)
}

func strCol(table, column, rte, dim int) *ColumnVar {
	ti := sqltypes.Make(sqltypes.Varchar, dim, 0, false, sqltypes.EncodingNone, 0)
	return NewColumnVar(ti, table, column, rte)
}

func dictStrCol(table, column, rte, dim, dict int) *ColumnVar {
	ti := sqltypes.Make(sqltypes.Varchar, dim, 0, false, sqltypes.EncodingDict, dict)
	return NewColumnVar(ti, table, column, rte)
}

func tsCol(table, column, rte, dim int) *ColumnVar {
	ti := sqltypes.Make(sqltypes.Timestamp, dim, 0, false, sqltypes.EncodingNone, 0)
	return NewColumnVar(ti, table, column, rte)
}

// binop builds an analyzed binary operator, panicking on type errors;
// tests only use it on well-typed operands.
func binop(op OpType, left, right Node) *BinOper {
	b, err := AnalyzeBinOper(op, QualOne, left, right)
	if err != nil {
		panic(err)
	}
	return b
}

func and(left, right Node) *BinOper {
	return binop(OpAnd, left, right)
}

func sum(arg Node) *AggExpr {
	return NewAggExpr(arg.TypeInfo(), AggSum, arg, false)
}
