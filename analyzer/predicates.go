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
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/lkire/mapd-core/sqltypes"
)

// ExprList is an ordered set of expressions deduplicated by structural
// equality.
type ExprList []Node

// AddUnique appends n unless a structurally equal expression is
// already present.
func (l *ExprList) AddUnique(n Node) {
	for _, e := range *l {
		if e.Equals(n) {
			return
		}
	}
	*l = append(*l, n)
}

// PredicateGroups partitions the conjuncts of a predicate by how many
// range-table entries they touch.
type PredicateGroups struct {
	Scan  ExprList // exactly one
	Join  ExprList // two or more
	Const ExprList // none
}

// GroupPredicates flattens conjunctions and classifies each conjunct
// as a scan, join or constant predicate.
func GroupPredicates(n Node, g *PredicateGroups) {
	switch e := n.(type) {
	case *BinOper:
		if e.Op == OpAnd {
			GroupPredicates(e.Left, g)
			GroupPredicates(e.Right, g)
			return
		}
	case *Constant, *Subquery:
		// no range-table footprint and nothing to recurse into
		return
	case *ColumnVar, *Var:
		// a bare boolean column is a scan predicate
		if n.TypeInfo().Kind == sqltypes.Boolean {
			g.Scan = append(g.Scan, n)
		}
		return
	}
	set := make(map[int]struct{})
	CollectRTEIndexes(n, set)
	switch {
	case len(set) > 1:
		g.Join = append(g.Join, n)
	case len(set) == 1:
		g.Scan = append(g.Scan, n)
	default:
		g.Const = append(g.Const, n)
	}
}

// CollectRTEIndexes accumulates the range-table indices referenced by
// the column leaves reachable from n.
func CollectRTEIndexes(n Node, set map[int]struct{}) {
	Walk(walkFunc(func(x Node) bool {
		if cv := asColumnVar(x); cv != nil {
			set[cv.RTEIdx] = struct{}{}
		}
		return true
	}), n)
}

type colKey struct {
	table, column int
}

// ColumnVarSet accumulates column references deduplicated by
// (table id, column id).
type ColumnVarSet struct {
	m map[colKey]*ColumnVar
}

func (s *ColumnVarSet) Add(cv *ColumnVar) {
	if s.m == nil {
		s.m = make(map[colKey]*ColumnVar)
	}
	k := colKey{table: cv.TableID, column: cv.ColumnID}
	if _, ok := s.m[k]; !ok {
		s.m[k] = cv
	}
}

func (s *ColumnVarSet) Len() int { return len(s.m) }

// Sorted returns the collected columns ordered by (table id, column id).
func (s *ColumnVarSet) Sorted() []*ColumnVar {
	keys := maps.Keys(s.m)
	slices.SortFunc(keys, func(a, b colKey) bool {
		if a.table != b.table {
			return a.table < b.table
		}
		return a.column < b.column
	})
	out := make([]*ColumnVar, len(keys))
	for i, k := range keys {
		out[i] = s.m[k]
	}
	return out
}

// CollectColumnVars accumulates the column references reachable from
// n. With includeAgg false the walk does not look inside aggregate
// arguments.
func CollectColumnVars(n Node, set *ColumnVarSet, includeAgg bool) {
	Walk(walkFunc(func(x Node) bool {
		if _, ok := x.(*AggExpr); ok && !includeAgg {
			return false
		}
		if cv := asColumnVar(x); cv != nil {
			set.Add(cv)
		}
		return true
	}), n)
}

// CheckGroupBy verifies that every column reference in n is either
// aggregated or listed in groupby. Every Var, bound or free, must
// reference the group-by row.
func CheckGroupBy(n Node, groupby []Node) error {
	var errs []error
	Walk(walkFunc(func(x Node) bool {
		switch e := x.(type) {
		case *AggExpr:
			// aggregated references are exempt
			return false
		case *Var:
			if e.WhichRow != RowGroupBy {
				errs = append(errs, errtype(e, ErrInvalidVarInGroupBy,
					"internal error: invalid VAR in GROUP BY or HAVING"))
			}
			return false
		case *ColumnVar:
			for _, g := range groupby {
				if gc := asColumnVar(g); gc != nil &&
					e.TableID == gc.TableID && e.ColumnID == gc.ColumnID {
					return false
				}
			}
			errs = append(errs, errtype(e, ErrGroupByViolation,
				"expressions in the SELECT or HAVING clause must be an aggregate function or an expression over GROUP BY columns"))
			return false
		}
		return true
	}), n)
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return fmt.Errorf("%w (and %d more)", errs[0], len(errs)-1)
	}
}

// FindExpr collects into out every outermost sub-expression of n
// satisfying pred, deduplicated structurally.
func FindExpr(n Node, pred func(Node) bool, out *ExprList) {
	Walk(walkFunc(func(x Node) bool {
		if pred(x) {
			out.AddUnique(x)
			return false
		}
		return true
	}), n)
}
