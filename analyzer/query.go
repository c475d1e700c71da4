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

	"github.com/google/uuid"

	"github.com/lkire/mapd-core/catalog"
)

// TargetEntry is a named slot in a projection.
type TargetEntry struct {
	ResName string
	Expr    Node
	Unnest  bool
}

func NewTargetEntry(resname string, expr Node, unnest bool) *TargetEntry {
	return &TargetEntry{ResName: resname, Expr: expr, Unnest: unnest}
}

func (te *TargetEntry) text(dst *strings.Builder, redact bool) {
	dst.WriteByte('(')
	dst.WriteString(te.ResName)
	dst.WriteByte(' ')
	te.Expr.text(dst, redact)
	if te.Unnest {
		dst.WriteString(" UNNEST")
	}
	dst.WriteByte(')')
}

// OrderEntry references a projection slot by 1-based index.
type OrderEntry struct {
	TleNo      int
	IsDesc     bool
	NullsFirst bool
}

func (oe OrderEntry) text(dst *strings.Builder, redact bool) {
	writeInt(dst, oe.TleNo)
	if oe.IsDesc {
		dst.WriteString(" desc")
	}
	if oe.NullsFirst {
		dst.WriteString(" nulls first")
	}
}

// RangeTblEntry binds a from-clause table (or view) under an alias and
// caches its column descriptors.
type RangeTblEntry struct {
	RangeVar    string
	Table       *catalog.TableDescriptor
	ViewQuery   *Query // non-nil when the binding is a view
	columnDescs []*catalog.ColumnDescriptor
}

func NewRangeTblEntry(rangevar string, table *catalog.TableDescriptor, viewQuery *Query) *RangeTblEntry {
	return &RangeTblEntry{RangeVar: rangevar, Table: table, ViewQuery: viewQuery}
}

// AddAllColumnDescs fills the descriptor cache with every column of
// the table, system and virtual included.
func (rte *RangeTblEntry) AddAllColumnDescs(cat catalog.Catalog) {
	rte.columnDescs = cat.GetAllColumnMetadataForTable(rte.Table.TableID, true, true)
}

// ExpandStarInTargetList appends one target entry per non-system
// column of the table, each holding a fresh column reference.
func (rte *RangeTblEntry) ExpandStarInTargetList(cat catalog.Catalog, tlist *[]*TargetEntry, rteIdx int) {
	rte.columnDescs = cat.GetAllColumnMetadataForTable(rte.Table.TableID, false, true)
	for _, cd := range rte.columnDescs {
		cv := NewColumnVar(cd.Type, rte.Table.TableID, cd.ColumnID, rteIdx)
		*tlist = append(*tlist, NewTargetEntry(cd.Name, cv, false))
	}
}

// GetColumnDesc resolves a column by name through the cache, filling
// it on miss.
func (rte *RangeTblEntry) GetColumnDesc(cat catalog.Catalog, name string) *catalog.ColumnDescriptor {
	for _, cd := range rte.columnDescs {
		if cd.Name == name {
			return cd
		}
	}
	cd := cat.GetMetadataForColumn(rte.Table.TableID, name)
	if cd != nil {
		rte.columnDescs = append(rte.columnDescs, cd)
	}
	return cd
}

// StmtType is the statement class of a query block.
type StmtType int

const (
	StmtSelect StmtType = iota
	StmtInsert
	StmtUpdate
	StmtDelete
)

func (s StmtType) String() string {
	switch s {
	case StmtSelect:
		return "SELECT"
	case StmtInsert:
		return "INSERT"
	case StmtUpdate:
		return "UPDATE"
	case StmtDelete:
		return "DELETE"
	default:
		return "INVALID"
	}
}

// NoLimit marks an absent LIMIT or OFFSET.
const NoLimit = int64(0)

// Query is the root container of one analyzed query block. Set
// operations chain blocks through NextQuery.
type Query struct {
	ID              uuid.UUID
	Stmt            StmtType
	IsDistinct      bool
	TargetList      []*TargetEntry
	RangeTable      []*RangeTblEntry
	WherePredicate  Node
	GroupBy         []Node
	HavingPredicate Node
	OrderBy         []OrderEntry
	Limit           int64
	Offset          int64
	NextQuery       *Query
	IsUnionAll      bool
	ResultTableID   int   // INSERT target
	ResultColumns   []int // INSERT target column ids
}

// NewQuery builds an empty SELECT block stamped with a fresh id; the
// id follows the query through the planner and executor for tracing.
func NewQuery() *Query {
	return &Query{ID: uuid.New(), Stmt: StmtSelect}
}

// GetRTEIdx returns the 0-based position of the range-table entry
// bound under the given alias, or -1.
func (q *Query) GetRTEIdx(name string) int {
	for i, rte := range q.RangeTable {
		if rte.RangeVar == name {
			return i
		}
	}
	return -1
}

// AddRTE appends a range-table entry; expressions reference it by its
// position.
func (q *Query) AddRTE(rte *RangeTblEntry) {
	q.RangeTable = append(q.RangeTable, rte)
}

func (q *Query) text(dst *strings.Builder, redact bool) {
	dst.WriteByte('(')
	dst.WriteString(q.Stmt.String())
	if q.IsDistinct {
		dst.WriteString(" DISTINCT")
	}
	for _, te := range q.TargetList {
		dst.WriteByte(' ')
		te.text(dst, redact)
	}
	for _, rte := range q.RangeTable {
		dst.WriteString(" FROM ")
		dst.WriteString(rte.RangeVar)
	}
	if q.WherePredicate != nil {
		dst.WriteString(" WHERE ")
		q.WherePredicate.text(dst, redact)
	}
	for i, g := range q.GroupBy {
		if i == 0 {
			dst.WriteString(" GROUP BY")
		}
		dst.WriteByte(' ')
		g.text(dst, redact)
	}
	if q.HavingPredicate != nil {
		dst.WriteString(" HAVING ")
		q.HavingPredicate.text(dst, redact)
	}
	for i, oe := range q.OrderBy {
		if i == 0 {
			dst.WriteString(" ORDER BY")
		}
		dst.WriteByte(' ')
		oe.text(dst, redact)
	}
	if q.Limit != NoLimit {
		dst.WriteString(" LIMIT ")
		writeInt(dst, int(q.Limit))
	}
	if q.Offset != NoLimit {
		dst.WriteString(" OFFSET ")
		writeInt(dst, int(q.Offset))
	}
	if q.NextQuery != nil {
		if q.IsUnionAll {
			dst.WriteString(" UNION ALL ")
		} else {
			dst.WriteString(" UNION ")
		}
		q.NextQuery.text(dst, redact)
	}
	dst.WriteByte(')')
}
