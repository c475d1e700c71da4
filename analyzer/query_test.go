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

	"github.com/stretchr/testify/require"

	"github.com/lkire/mapd-core/catalog"
	"github.com/lkire/mapd-core/sqltypes"
)

func testCatalog(t *testing.T) *catalog.MemCatalog {
	t.Helper()
	cat, err := catalog.LoadSchema([]byte(`
tables:
  - name: t1
    columns:
      - {name: a, type: INT, notnull: true}
      - {name: b, type: INT}
      - {name: s, type: VARCHAR, dimension: 20, encoding: DICT, dict: 3}
  - name: t2
    columns:
      - {name: b, type: INT}
`))
	require.NoError(t, err)
	return cat
}

func TestQueryRangeTable(t *testing.T) {
	cat := testCatalog(t)
	q := NewQuery()
	q.AddRTE(NewRangeTblEntry("t1", cat.GetMetadataForTable("t1"), nil))
	q.AddRTE(NewRangeTblEntry("x", cat.GetMetadataForTable("t2"), nil))

	require.Equal(t, 0, q.GetRTEIdx("t1"))
	require.Equal(t, 1, q.GetRTEIdx("x"))
	require.Equal(t, -1, q.GetRTEIdx("t2")) // bound under the alias, not the table name
	require.Equal(t, -1, q.GetRTEIdx("nope"))
}

func TestExpandStarInTargetList(t *testing.T) {
	cat := testCatalog(t)
	rte := NewRangeTblEntry("t1", cat.GetMetadataForTable("t1"), nil)

	var tlist []*TargetEntry
	rte.ExpandStarInTargetList(cat, &tlist, 0)

	require.Len(t, tlist, 3, "system columns must not expand")
	require.Equal(t, "a", tlist[0].ResName)
	require.Equal(t, "b", tlist[1].ResName)
	require.Equal(t, "s", tlist[2].ResName)

	cv, ok := tlist[0].Expr.(*ColumnVar)
	require.True(t, ok)
	require.Equal(t, 1, cv.ColumnID)
	require.Equal(t, 0, cv.RTEIdx)
	require.True(t, cv.TypeInfo().NotNull)

	sv := tlist[2].Expr.(*ColumnVar)
	require.Equal(t, sqltypes.EncodingDict, sv.TypeInfo().Compression)
	require.Equal(t, 3, sv.TypeInfo().CompParam)
}

func TestAddAllColumnDescs(t *testing.T) {
	cat := testCatalog(t)
	rte := NewRangeTblEntry("t1", cat.GetMetadataForTable("t1"), nil)
	rte.AddAllColumnDescs(cat)

	// the cache now answers without the catalog
	cd := rte.GetColumnDesc(nil, catalog.SystemRowIDName)
	require.NotNil(t, cd)
	require.True(t, cd.IsSystem)
}

func TestGetColumnDescCaches(t *testing.T) {
	cat := testCatalog(t)
	rte := NewRangeTblEntry("t1", cat.GetMetadataForTable("t1"), nil)

	cd := rte.GetColumnDesc(cat, "a")
	require.NotNil(t, cd)
	require.Equal(t, 1, cd.ColumnID)

	// second lookup is served from the cache
	again := rte.GetColumnDesc(nil, "a")
	require.Same(t, cd, again)

	require.Nil(t, rte.GetColumnDesc(cat, "missing"))
}

func TestQueryCacheKey(t *testing.T) {
	build := func(limit int64) *Query {
		q := NewQuery()
		q.TargetList = append(q.TargetList, NewTargetEntry("a", intCol(1, 1, 0), false))
		q.AddRTE(NewRangeTblEntry("t1", nil, nil))
		q.WherePredicate = binop(OpGt, intCol(1, 2, 0), IntLiteral(10))
		q.Limit = limit
		return q
	}
	// ids differ, structure does not
	require.Equal(t, build(5).CacheKey(), build(5).CacheKey())
	require.NotEqual(t, build(5).CacheKey(), build(6).CacheKey())
}

func TestSetOpChain(t *testing.T) {
	left := NewQuery()
	left.TargetList = append(left.TargetList, NewTargetEntry("a", intCol(1, 1, 0), false))
	right := NewQuery()
	right.TargetList = append(right.TargetList, NewTargetEntry("a", intCol(2, 1, 0), false))

	left.NextQuery = right
	left.IsUnionAll = true
	require.Contains(t, ToString(left), " UNION ALL ")

	left.IsUnionAll = false
	require.Contains(t, ToString(left), " UNION ")
}
